package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the CLI surface.
var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")) // cyan

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	userPrefixStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	assistantPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue

	modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
)
