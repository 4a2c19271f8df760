// Package style centralizes the lipgloss styles used by CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	// Enabled entries in the load order
	EnabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	// Entries present in the order but flagged off
	DisabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Italic(true)
)
