// Package report renders build results for the terminal and as JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/richhaase/buildwatch/internal/domain"
	"github.com/richhaase/buildwatch/internal/terminal"
)

// RenderEntry renders one diagnostic: the headline colored by kind, then the
// context lines verbatim.
func RenderEntry(e domain.Entry) string {
	headline := e.Headline()
	rest := strings.TrimPrefix(e.Text, headline)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s%s", terminal.KindColor(e.Kind), terminal.Color(terminal.Bold), headline, terminal.Color(terminal.Reset))
	if rest != "" {
		fmt.Fprintf(&b, "%s%s%s", terminal.Color(terminal.Dim), rest, terminal.Color(terminal.Reset))
	}
	return b.String()
}

// RenderReport renders the end-of-build summary. shown is the log after
// display filters; hidden is how many entries the filters removed.
func RenderReport(result *domain.BuildResult, shown domain.ParsedLog, hidden int) string {
	width := terminal.ReportWidth()

	var lines []string

	// Warnings
	var warnings []string
	if result.ParseErr != nil {
		warnings = append(warnings, fmt.Sprintf("Diagnostic stream failed: %v (results are incomplete)", result.ParseErr))
	}
	if result.SystemWarnings > 0 {
		warnings = append(warnings, fmt.Sprintf("Extractor failed on %s; diagnostics there were skipped",
			terminal.Plural(result.SystemWarnings, "chunk")))
	}
	if len(warnings) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("%s⚠ Warnings%s", terminal.Color(terminal.Yellow), terminal.Color(terminal.Reset)))
		lines = append(lines, terminal.Ruler(width, "─"))
		for _, w := range warnings {
			lines = append(lines, fmt.Sprintf("  %s•%s %s", terminal.Color(terminal.Yellow), terminal.Color(terminal.Reset), w))
		}
	}

	if errs := shown.ByKind(domain.KindError); len(errs) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("%s%s✗ %s%s",
			terminal.Color(terminal.Red), terminal.Color(terminal.Bold), terminal.Plural(len(errs), "error"), terminal.Color(terminal.Reset)))
		lines = append(lines, terminal.Ruler(width, "━"))
		for idx, e := range errs {
			lines = append(lines, fmt.Sprintf("%s%d.%s %s", terminal.Color(terminal.Bold), idx+1, terminal.Color(terminal.Reset), e.Location()))
			lines = append(lines, terminal.Indent(RenderEntry(e), "   "))
		}
	}

	lines = append(lines, "")
	lines = append(lines, terminal.Ruler(width, "━"))
	lines = append(lines, summaryLine(result, shown))

	if hidden > 0 {
		lines = append(lines, fmt.Sprintf("%sℹ %s hidden by filters%s",
			terminal.Color(terminal.Dim), terminal.Plural(hidden, "diagnostic"), terminal.Color(terminal.Reset)))
	}

	if result.Duration > 0 {
		lines = append(lines, fmt.Sprintf("%sTiming: %s%s",
			terminal.Color(terminal.Dim), terminal.FormatDuration(result.Duration), terminal.Color(terminal.Reset)))
	}

	return strings.Join(lines, "\n")
}

func summaryLine(result *domain.BuildResult, shown domain.ParsedLog) string {
	counts := fmt.Sprintf("%s, %s, %s",
		terminal.Plural(shown.Errors, "error"),
		terminal.Plural(shown.Warnings, "warning"),
		terminal.Plural(shown.Notes, "note"))

	if result.Outcome == domain.OutcomeSuccess {
		return fmt.Sprintf("%s✓%s %s%sBuild succeeded%s %s(%s)%s",
			terminal.Color(terminal.Green), terminal.Color(terminal.Reset),
			terminal.Color(terminal.Green), terminal.Color(terminal.Bold), terminal.Color(terminal.Reset),
			terminal.Color(terminal.Dim), counts, terminal.Color(terminal.Reset))
	}
	return fmt.Sprintf("%s✗%s %s%sBuild failed%s with exit code %d %s(%s)%s",
		terminal.Color(terminal.Red), terminal.Color(terminal.Reset),
		terminal.Color(terminal.Red), terminal.Color(terminal.Bold), terminal.Color(terminal.Reset),
		result.ExitCode,
		terminal.Color(terminal.Dim), counts, terminal.Color(terminal.Reset))
}
