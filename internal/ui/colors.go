package ui

import "github.com/charmbracelet/lipgloss"

// uiStyles groups the lipgloss styles used by the views.
type uiStyles struct {
	frame lipgloss.Style
	error lipgloss.Style
	muted lipgloss.Style
}

var styles = uiStyles{
	frame: lipgloss.NewStyle().Padding(1, 2),
	error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2),
	muted: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(1, 2),
}
