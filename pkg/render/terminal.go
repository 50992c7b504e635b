package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/testreport/pkg/report"
)

// Terminal renders a short run summary for a terminal: one status line,
// then the failed and ignored tests and any malformed-event count.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats the summary. It never fails.
func (t *Terminal) Render(m *report.Model) (string, error) {
	var sb strings.Builder

	status, style := "PASS", t.theme.Success
	if m.Stats.Status() == "fail" {
		status, style = "FAIL", t.theme.Error
	}
	sb.WriteString(style.Bold(true).Render(status))
	sb.WriteString(" ")
	sb.WriteString(t.theme.Bold.Render(m.Title))
	sb.WriteString(": ")
	sb.WriteString(t.theme.Success.Render(fmt.Sprintf("%d passed", m.PassedCount)))
	sb.WriteString(", ")
	sb.WriteString(t.failedStyle(m).Render(fmt.Sprintf("%d failed", m.FailedCount)))
	sb.WriteString(", ")
	sb.WriteString(t.theme.Warning.Render(fmt.Sprintf("%d ignored", m.IgnoredCount)))
	if m.Stats.ExecTime > 0 {
		sb.WriteString(t.theme.Muted.Render(fmt.Sprintf(" (%.3fs)", m.Stats.ExecTime)))
	}
	sb.WriteString("\n")

	// "  ✗ " prefix takes four cells
	nameWidth := t.width - 4
	for _, v := range m.Failed {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Error.Render(t.theme.Icons.Fail))
		sb.WriteString(" ")
		sb.WriteString(runewidth.Truncate(v.Name, nameWidth, "…"))
		sb.WriteString("\n")
	}
	for _, v := range m.Ignored {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(t.theme.Icons.Skip))
		sb.WriteString(" ")
		sb.WriteString(t.theme.Muted.Render(runewidth.Truncate(v.Name, nameWidth, "…")))
		sb.WriteString("\n")
	}
	if n := len(m.Errors); n > 0 {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(fmt.Sprintf("%s %d malformed event line(s)", t.theme.Icons.Warn, n)))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *Terminal) failedStyle(m *report.Model) lipgloss.Style {
	if m.FailedCount > 0 {
		return t.theme.Error
	}
	return t.theme.Muted
}
