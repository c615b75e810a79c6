package outwriter

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintWarmReport prints which inputs already have a cached identification,
// with unreadable inputs listed after the table.
func PrintWarmReport(cached map[string]bool, failures map[string]error, widthOverride int) error {
	maxWidth := GetMaxTextWidth(widthOverride)
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	paths := make([]string, 0, len(cached))
	for path := range cached {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Path", "Cached"})

	warm := 0
	var data [][]string
	for _, path := range paths {
		state := yellow("no")
		if cached[path] {
			state = green("yes")
			warm++
		}
		data = append(data, []string{TruncateText(path, maxWidth), state})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d input(s) already cached.\n", warm, len(cached))

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
