package outwriter

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"cardcache/schema"
)

// timestampFormat is the display format for entry and snapshot times.
const timestampFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints per-namespace cache statistics as a table, plus the
// session counters when a non-empty stats snapshot is supplied.
func PrintCacheStatus(status schema.CacheStatus, stats map[schema.Namespace]schema.StatsSnapshot) error {
	fmt.Printf("Cache Root: %s\n", status.Root)
	fmt.Printf("Total Entries: %d\n\n", status.TotalEntries)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Namespace", "Entries", "Size", "Oldest", "Newest"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, ns := range status.Namespaces {
		row := []string{
			string(ns.Namespace),
			strconv.Itoa(ns.Entries),
			formatBytes(ns.SizeBytes),
		}
		if ns.Entries > 0 {
			row = append(row, ns.OldestTime.Format(timestampFormat), ns.NewestTime.Format(timestampFormat))
		} else {
			row = append(row, "-", "-")
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !hasCounterActivity(stats) {
		return nil
	}

	fmt.Println("\nSession Counters:")
	counters := tablewriter.NewWriter(os.Stdout)
	counters.Header([]string{"Namespace", "Hits", "Misses", "Errors", "Evictions"})
	counters.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var counterData [][]string
	for _, ns := range schema.AllNamespaces {
		snap := stats[ns]
		counterData = append(counterData, []string{
			string(ns),
			strconv.FormatUint(snap.Hits, 10),
			strconv.FormatUint(snap.Misses, 10),
			strconv.FormatUint(snap.Errors, 10),
			strconv.FormatUint(snap.Evictions, 10),
		})
	}
	if err := counters.Bulk(counterData); err != nil {
		return err
	}
	return counters.Render()
}

// hasCounterActivity reports whether any counter in the snapshot is nonzero.
func hasCounterActivity(stats map[schema.Namespace]schema.StatsSnapshot) bool {
	for _, snap := range stats {
		if snap.Hits+snap.Misses+snap.Errors+snap.Evictions > 0 {
			return true
		}
	}
	return false
}

// PrintPriceDBStatus prints price database status information.
func PrintPriceDBStatus(status schema.PriceDBStatus) {
	fmt.Printf("Price DB Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		fmt.Printf("Last Snapshot: %s\n", status.LastSnapshotTime.Format(timestampFormat))
		fmt.Printf("Oldest Snapshot: %s\n", status.OldestSnapshot.Format(timestampFormat))
	}
	fmt.Printf("Table Size: %s\n", formatBytes(status.TableSizeBytes))
}

// PrintSyncReport prints the outcome of a reconciliation pass. Failures are
// highlighted so they stand out in long outputs.
func PrintSyncReport(report schema.SyncReport, widthOverride int) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("Pulled updates: %s\n", green(report.PulledUpdates))
	fmt.Printf("Pushed records: %s\n", green(report.PushedRecords))
	fmt.Printf("Unchanged: %d\n", report.Unchanged)
	fmt.Printf("Skipped: %d\n", report.Skipped)
	if report.Failed > 0 {
		fmt.Printf("Failed: %s\n", red(report.Failed))
		maxWidth := GetMaxTextWidth(widthOverride)
		for _, detail := range report.FailureDetails {
			fmt.Printf("  %s\n", TruncateText(detail, maxWidth))
		}
	} else {
		fmt.Printf("Failed: %d\n", report.Failed)
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
