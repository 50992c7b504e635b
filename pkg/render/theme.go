package render

import "github.com/charmbracelet/lipgloss"

// Theme defines the styles and icons used by the terminal summary.
type Theme struct {
	Name    string
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Fail string
	Warn string
	Skip string
}

// DefaultTheme returns a colored theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons:   ThemeIcons{Fail: "✗", Warn: "⚠", Skip: "○"},
	}
}

// MonoTheme returns a theme without colors or non-ASCII icons.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
		Icons:   ThemeIcons{Fail: "x", Warn: "!", Skip: "-"},
	}
}

// ThemeByName returns a theme by name. Unknown names get DefaultTheme.
func ThemeByName(name string) Theme {
	if name == "mono" {
		return MonoTheme()
	}
	return DefaultTheme()
}
