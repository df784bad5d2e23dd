package styles

import (
	"strings"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
	domainurl "github.com/bnema/tabshell/internal/domain/url"
)

// HistoryRenderer renders history entries grouped by timeline category.
type HistoryRenderer struct {
	theme *Theme
}

// NewHistoryRenderer creates a HistoryRenderer.
func NewHistoryRenderer(theme *Theme) *HistoryRenderer {
	return &HistoryRenderer{theme: theme}
}

// Render lists entries, most recent first as given, under Today/Yesterday/
// This Week/Older headers.
func (r *HistoryRenderer) Render(entries []*entity.HistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return r.theme.Subtle.Render("No history yet")
	}

	var b strings.Builder
	b.WriteString(r.theme.Title.Render("History"))
	b.WriteString("\n\n")
	current := Period(-1)
	for _, e := range entries {
		if p := PeriodOf(e.LastVisited, now); p != current {
			if current != -1 {
				b.WriteString("\n")
			}
			current = p
			b.WriteString(r.theme.Subtitle.Render(p.String()))
			b.WriteString("\n")
		}
		b.WriteString(r.renderEntry(e, now))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *HistoryRenderer) renderEntry(e *entity.HistoryEntry, now time.Time) string {
	title := e.Title
	if title == "" {
		title = e.URL
	}
	parts := []string{
		"  " + r.theme.Normal.Render(title),
		r.theme.DomainBadge(domainurl.ExtractDomain(e.URL)),
		r.theme.VisitBadge(int(e.VisitCount)),
		r.theme.TimeBadge(e.LastVisited, now),
	}
	line := strings.Join(parts, " ")
	return line + "\n    " + r.theme.Subtle.Render(e.URL)
}

// RenderContent shows the stored text of a page, cut to maxChars runes.
func (r *HistoryRenderer) RenderContent(c *entity.PageContent, now time.Time, maxChars int) string {
	if c == nil {
		return r.theme.Subtle.Render("No stored text for this page")
	}
	title := c.Title
	if title == "" {
		title = c.URL
	}
	text := strings.TrimSpace(c.Text)
	if runes := []rune(text); maxChars > 0 && len(runes) > maxChars {
		text = string(runes[:maxChars]) + "…"
	}
	return r.theme.Title.Render(title) + " " + r.theme.TimeBadge(c.ExtractedAt, now) +
		"\n" + r.theme.Subtle.Render(c.URL) + "\n\n" + r.theme.Normal.Render(text)
}

// RenderCleared confirms a history wipe.
func (r *HistoryRenderer) RenderCleared() string {
	return r.theme.Highlight.Render("History cleared")
}

// RenderError renders err for the terminal.
func (r *HistoryRenderer) RenderError(err error) string {
	return r.theme.ErrorStyle.Render("Error: " + err.Error())
}
