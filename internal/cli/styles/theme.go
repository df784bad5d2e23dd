// Package styles provides lipgloss styles shared by the CLI commands.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds colors and the styles built from them.
type Theme struct {
	Background     lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Error          lipgloss.Color

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Subtle     lipgloss.Style
	Highlight  lipgloss.Style
	ErrorStyle lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style
}

// NewTheme returns the dark CLI theme.
func NewTheme() *Theme {
	t := &Theme{
		Background:     lipgloss.Color("#0a0a0b"),
		SurfaceVariant: lipgloss.Color("#2d2d2d"),
		Text:           lipgloss.Color("#ffffff"),
		Muted:          lipgloss.Color("#909090"),
		Accent:         lipgloss.Color("#89b4fa"),
		Error:          lipgloss.Color("#ef4444"),
	}
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	t.Subtitle = lipgloss.NewStyle().Foreground(t.Muted).Bold(true)
	t.Normal = lipgloss.NewStyle().Foreground(t.Text)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	t.Highlight = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)

	t.Badge = lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Padding(0, 1)

	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.SurfaceVariant).
		Padding(0, 1)
}
