package outwriter

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintFingerprintResults prints computed file fingerprints as a table, with
// unreadable inputs listed after it. Rows are sorted by path for stable output.
func PrintFingerprintResults(fingerprints map[string]string, failures map[string]error, widthOverride int) error {
	maxWidth := GetMaxTextWidth(widthOverride)

	paths := make([]string, 0, len(fingerprints))
	for path := range fingerprints {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Path", "Fingerprint"})

	var data [][]string
	for _, path := range paths {
		data = append(data, []string{TruncateText(path, maxWidth), fingerprints[path]})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(failures) > 0 {
		red := color.New(color.FgRed).SprintFunc()
		failed := make([]string, 0, len(failures))
		for path := range failures {
			failed = append(failed, path)
		}
		sort.Strings(failed)
		fmt.Printf("\n%s\n", red(fmt.Sprintf("%d input(s) could not be read:", len(failed))))
		for _, path := range failed {
			fmt.Printf("  %s: %v\n", TruncateText(path, maxWidth), failures[path])
		}
	}
	return nil
}
