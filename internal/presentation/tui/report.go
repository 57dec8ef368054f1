package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/trmc/pkg/domain"
)

// ReportMarkdown formats a validation report as markdown, one table row per finding.
func ReportMarkdown(prog *domain.Program, report *domain.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Validation: %s\n\n", programName(prog))
	fmt.Fprintf(&sb, "%d states declared, **%d errors** found.\n\n", prog.Len(), report.Errors())

	if report.OK() {
		sb.WriteString("No findings.\n")
		return sb.String()
	}

	sb.WriteString("| State | Line | Kind | Message |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, d := range report.Diagnostics {
		line := "-"
		if d.Line > 0 {
			line = fmt.Sprint(d.Line)
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", d.State, line, d.Kind, escapeCell(d.Message))
	}
	return sb.String()
}

// ReportText formats a validation report the way the CLI prints it without markdown.
func ReportText(report *domain.Report) string {
	var sb strings.Builder
	states := make([]string, len(report.States))
	for i, s := range report.States {
		states[i] = fmt.Sprint(s)
	}
	fmt.Fprintf(&sb, "States: %s\n", strings.Join(states, ", "))
	for _, line := range report.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "Debugging finished with %d errors found.\n", report.Errors())
	return sb.String()
}

func programName(prog *domain.Program) string {
	if prog.Name == "" {
		return "program"
	}
	return prog.Name
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "|", `\|`)
}
