// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"golang.org/x/term"
)

// fixed column budget for tables that carry a free-form text column
const baseWidth = 45

// GetMaxTextWidth calculates the maximum width for free-form text columns
// (file paths, failure details) based on terminal width. widthOverride > 0
// bypasses detection.
func GetMaxTextWidth(widthOverride int) int {
	termWidth := widthOverride

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable text width
		return 15
	}
	if available > 70 {
		// Maximum text width to prevent overly long cells
		return 70
	}
	return available
}

// TruncateText shortens text to fit a table cell, keeping the tail since the
// discriminating part of paths and fingerprints is usually at the end.
func TruncateText(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return text[len(text)-maxWidth:]
	}
	return "..." + text[len(text)-(maxWidth-3):]
}
