package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	userStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
