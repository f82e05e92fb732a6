// Package tui provides the Bubble Tea study interface.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/artkel/gcp-guru/internal/model"
)

// Styles groups the lipgloss styles for one theme.
type Styles struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Text     lipgloss.Style
	Accent   lipgloss.Style
	Correct  lipgloss.Style
	Wrong    lipgloss.Style
	Error    lipgloss.Style
	Footer   lipgloss.Style
	Selected lipgloss.Style
	Card     lipgloss.Style
	Modal    lipgloss.Style
	Tag      lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme model.Theme) Styles {
	text := "#F0F0F0"
	subtle := "#8C8C8C"
	footer := "#6E6E6E"
	border := "#4A4A4A"
	if theme == model.ThemeLight {
		text = "#1A1A1A"
		subtle = "#5A5A5A"
		footer = "#6E6E6E"
		border = "#B0B0B0"
	}
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color(text)).Bold(true),
		Subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color(text)),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		Correct:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3AA655")),
		Wrong:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color(footer)),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(border)),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2),
		Tag: lipgloss.NewStyle().Foreground(lipgloss.Color("#5A8CC8")),
	}
}
