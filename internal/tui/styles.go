package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#D7263D")).
			Padding(0, 1)

	workStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	breakStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD787"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))

	clockStyle = lipgloss.NewStyle().Bold(true).Padding(1, 0)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1C1C1C")).
			Background(lipgloss.Color("#FFD75F")).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFAF00"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	statsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)
