package component

import "github.com/charmbracelet/lipgloss"

// Theme holds the tab strip colors.
type Theme struct {
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Private    lipgloss.Color
}

// DefaultTheme returns the dark strip palette.
func DefaultTheme() Theme {
	return Theme{
		Accent:     lipgloss.Color("#89b4fa"),
		Background: lipgloss.Color("#313244"),
		Text:       lipgloss.Color("#cdd6f4"),
		Muted:      lipgloss.Color("#7f849c"),
		Private:    lipgloss.Color("#cba6f7"),
	}
}

type stripStyles struct {
	tab      lipgloss.Style
	selected lipgloss.Style
	hovered  lipgloss.Style
	subtitle lipgloss.Style
	header   lipgloss.Style
	help     lipgloss.Style
	sep      lipgloss.Style
}

func newStripStyles(t Theme) stripStyles {
	return stripStyles{
		tab:      lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1),
		selected: lipgloss.NewStyle().Foreground(t.Text).Background(t.Background).Bold(true).Padding(0, 1),
		hovered:  lipgloss.NewStyle().Foreground(t.Accent).Padding(0, 1),
		subtitle: lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		header:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		help:     lipgloss.NewStyle().Foreground(t.Muted),
		sep:      lipgloss.NewStyle().Foreground(t.Muted),
	}
}
