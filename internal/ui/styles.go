package ui

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles for the active theme.
type styles struct {
	title       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	selected    lipgloss.Style
	done        lipgloss.Style
	dim         lipgloss.Style
	errText     lipgloss.Style
	postTitle   lipgloss.Style
	pageActive  lipgloss.Style
}

// newStyles builds the style set for the given theme.
func newStyles(dark bool) styles {
	accent := lipgloss.Color("62") // indigo
	dimmed := lipgloss.Color("243")
	text := lipgloss.Color("236")
	if dark {
		accent = lipgloss.Color("105")
		dimmed = lipgloss.Color("245")
		text = lipgloss.Color("252")
	}

	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		tabActive:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		tabInactive: lipgloss.NewStyle().Foreground(dimmed),
		selected:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:        lipgloss.NewStyle().Strikethrough(true).Foreground(dimmed),
		dim:         lipgloss.NewStyle().Foreground(dimmed),
		errText:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		postTitle:   lipgloss.NewStyle().Bold(true).Foreground(text),
		pageActive:  lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(accent),
	}
}
