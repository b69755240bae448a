package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle      = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	tabActive     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Underline(true)
	creditStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	debitStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("167")).Bold(true)
	overlayBox    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	summaryCard   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2).MarginRight(1)
	focusedField  = lipgloss.NewStyle().Bold(true)
	blurredField  = lipgloss.NewStyle().Faint(true)
)
