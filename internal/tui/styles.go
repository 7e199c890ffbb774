package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// Color palette for TUI components.
var (
	ColorPrimary   = lipgloss.Color("#9b59b6") // Purple
	ColorSecondary = lipgloss.Color("#27ae60") // Green
	ColorMuted     = lipgloss.Color("#95a5a6") // Gray
	ColorWarning   = lipgloss.Color("#f39c12") // Amber
	ColorError     = lipgloss.Color("#e74c3c") // Red
	ColorInfo      = lipgloss.Color("#3498db") // Blue
	ColorSuccess   = lipgloss.Color("#2ecc71") // Bright green

	// Persona colors
	ColorJamie  = lipgloss.Color("#a0522d") // Beaver brown
	ColorThomas = lipgloss.Color("#5d6d7e") // Goose gray
)

// Text styles for consistent formatting.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ModelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	CostStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// TypeStyle renders question types and tags.
	TypeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)
)

// BoxStyle frames detail panes.
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorMuted).
	Padding(1, 2)

// PersonaStyle returns the name style for a persona.
func PersonaStyle(p activity.Persona) lipgloss.Style {
	color := ColorJamie
	if p == activity.Thomas {
		color = ColorThomas
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// StatusStyle colors a persona status like a traffic light.
func StatusStyle(s activity.Status) lipgloss.Style {
	switch s {
	case activity.StatusGreen:
		return SuccessStyle
	case activity.StatusYellow:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
