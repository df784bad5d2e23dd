package styles

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/tabshell/internal/domain/entity"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1m ago"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{26 * time.Hour, "1d ago"},
		{15 * 24 * time.Hour, "2w ago"},
		{400 * 24 * time.Hour, "1y ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now), tt.ago.String())
	}
}

func TestPeriodOf(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, PeriodToday, PeriodOf(now.Add(-time.Hour), now))
	assert.Equal(t, PeriodYesterday, PeriodOf(now.Add(-20*time.Hour), now))
	assert.Equal(t, PeriodThisWeek, PeriodOf(now.Add(-72*time.Hour), now))
	assert.Equal(t, PeriodOlder, PeriodOf(now.Add(-30*24*time.Hour), now))
	assert.Equal(t, "This Week", PeriodThisWeek.String())
	assert.Equal(t, "Unknown", Period(9).String())
}

func TestHistoryRenderer(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := NewHistoryRenderer(NewTheme())

	out := r.Render([]*entity.HistoryEntry{
		{URL: "https://www.example.com/docs", Title: "Docs", VisitCount: 3, LastVisited: now.Add(-time.Hour)},
		{URL: "https://golang.org/", VisitCount: 1, LastVisited: now.Add(-30 * 24 * time.Hour)},
	}, now)

	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Older")
	assert.Contains(t, out, "Docs")
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, "3 visits")
	assert.Contains(t, out, "1 visit")
	assert.Contains(t, out, "https://golang.org/")
	assert.NotContains(t, out, "Yesterday")
}

func TestHistoryRenderer_Empty(t *testing.T) {
	r := NewHistoryRenderer(NewTheme())
	assert.Contains(t, r.Render(nil, time.Now()), "No history yet")
	assert.Contains(t, r.RenderError(errors.New("boom")), "boom")
}

func TestHistoryRenderer_Content(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := NewHistoryRenderer(NewTheme())

	out := r.RenderContent(&entity.PageContent{
		URL:         "https://example.com/post",
		Title:       "Post",
		Text:        "  abcdefghij  ",
		ExtractedAt: now.Add(-5 * time.Minute),
	}, now, 4)
	assert.Contains(t, out, "Post")
	assert.Contains(t, out, "5m ago")
	assert.Contains(t, out, "abcd…")
	assert.NotContains(t, out, "abcde")

	assert.Contains(t, r.RenderContent(nil, now, 0), "No stored text")
}
