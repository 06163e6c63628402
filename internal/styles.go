package internal

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	breakpointStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	completedTextStyle = lipgloss.NewStyle().
				Strikethrough(true).
				Foreground(lipgloss.Color("243"))

	checkboxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	deleteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	thumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	thumbDraggingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	activeButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241"))
)
