package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAdd     = lipgloss.Color("2")
	colorDelete  = lipgloss.Color("1")
	colorContext = lipgloss.Color("7")
	colorMuted   = lipgloss.Color("8")
	colorAccent  = lipgloss.Color("6")

	addStyle     = lipgloss.NewStyle().Foreground(colorAdd)
	deleteStyle  = lipgloss.NewStyle().Foreground(colorDelete)
	contextStyle = lipgloss.NewStyle().Foreground(colorContext)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	hunkStyle    = lipgloss.NewStyle().Foreground(colorAccent)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(colorAccent)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	focusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent)

	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

func paneBorder(focused bool) lipgloss.Style {
	if focused {
		return focusedPaneStyle
	}
	return paneStyle
}
