package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("63")
	colorMuted   = lipgloss.Color("243")
	colorBorder  = lipgloss.Color("240")
	colorDanger  = lipgloss.Color("196")
	colorSuccess = lipgloss.Color("42")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	activeFieldStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)

// renderHelpBar joins key/description pairs into one dimmed help line.
func renderHelpBar(pairs ...string) string {
	var rendered []string
	for i := 0; i+1 < len(pairs); i += 2 {
		rendered = append(rendered, helpKeyStyle.Render(pairs[i])+" "+helpDescStyle.Render(pairs[i+1]))
	}
	line := ""
	for i, r := range rendered {
		if i > 0 {
			line += "  "
		}
		line += r
	}
	return statusBarStyle.Render(line)
}
