package terminal

import (
	"fmt"
	"strings"
	"time"
)

// MaxReportWidth is the maximum width for reports.
const MaxReportWidth = 90

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	remainSecs := secs - float64(mins*60)
	return fmt.Sprintf("%dm %.1fs", mins, remainSecs)
}

// Ruler returns a horizontal rule string.
func Ruler(width int, char string) string {
	return fmt.Sprintf("%s%s%s", Color(Dim), strings.Repeat(char, width), Color(Reset))
}

// Plural returns "1 error", "2 errors", "0 errors".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Indent prefixes every line of text with prefix.
func Indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// ReportWidth returns the report width based on terminal width.
func ReportWidth() int {
	w := GetTerminalWidth()
	if w > MaxReportWidth {
		return MaxReportWidth
	}
	return w
}
