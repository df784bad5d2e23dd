package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/domain/entity"
	repomocks "github.com/bnema/tabshell/internal/domain/repository/mocks"
)

// runUntilDrained starts the worker, lets fn queue work and stops it.
func runUntilDrained(t *testing.T, uc *RecordHistoryUseCase, fn func(ctx context.Context)) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	fn(ctx)
	go func() { done <- uc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("history worker did not stop")
	}
}

func TestCanonicalizeURLForHistory(t *testing.T) {
	assert.Equal(t,
		"https://example.com/path?a=2&b=1",
		canonicalizeURLForHistory("https://Example.com/path/?utm_source=news&a=2&b=1#section"),
	)
	assert.Equal(t, "https://example.com", canonicalizeURLForHistory("https://example.com/"))
	assert.Equal(t, "about:blank", canonicalizeURLForHistory(" about:blank "))
	assert.Equal(t, "", canonicalizeURLForHistory(""))
}

func TestRecordHistory_SavesNewEntryWithTitle(t *testing.T) {
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().FindByURL(mock.Anything, "https://example.com/docs").Return(nil, nil).Once()
	repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(entry *entity.HistoryEntry) bool {
		return entry.URL == "https://example.com/docs" && entry.Title == "Docs" && entry.VisitCount == 1
	})).Return(nil).Once()

	uc := NewRecordHistoryUseCase(repo)
	runUntilDrained(t, uc, func(ctx context.Context) {
		uc.UpdateHistory(ctx, entity.Tab{ID: "1", URL: "https://example.com/docs#intro", Title: "Docs"})
	})
}

func TestRecordHistory_SkipsBlankAndDedupesPerTab(t *testing.T) {
	repo := repomocks.NewMockHistoryRepository(t)
	existing := entity.NewHistoryEntry("https://example.com/article", "Old")
	existing.VisitCount = 3
	repo.EXPECT().FindByURL(mock.Anything, "https://example.com/article").Return(existing, nil).Once()
	repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(entry *entity.HistoryEntry) bool {
		// tab 1 twice within the window counts once, tab 2 adds one.
		return entry.VisitCount == 5 && entry.Title == "Old"
	})).Return(nil).Once()

	uc := NewRecordHistoryUseCase(repo)
	runUntilDrained(t, uc, func(ctx context.Context) {
		uc.UpdateHistory(ctx, entity.Tab{ID: "1", URL: entity.BlankURL})
		uc.UpdateHistory(ctx, entity.Tab{ID: "1", URL: "https://example.com/article?utm_source=feed"})
		uc.UpdateHistory(ctx, entity.Tab{ID: "1", URL: "https://example.com/article"})
		uc.UpdateHistory(ctx, entity.Tab{ID: "2", URL: "https://example.com/article"})
	})
}

func TestRecordHistory_DedupWindowExpires(t *testing.T) {
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().FindByURL(mock.Anything, "https://example.com").Return(nil, nil).Once()
	repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(entry *entity.HistoryEntry) bool {
		return entry.VisitCount == 2
	})).Return(nil).Once()

	uc := NewRecordHistoryUseCase(repo)
	clock := time.Unix(1700000000, 0)
	uc.now = func() time.Time { return clock }

	runUntilDrained(t, uc, func(ctx context.Context) {
		uc.UpdateHistory(ctx, entity.Tab{ID: "1", URL: "https://example.com"})
		clock = clock.Add(historyDeduplicationWindow)
		uc.UpdateHistory(ctx, entity.Tab{ID: "1", URL: "https://example.com"})
	})
}

func TestRecordHistory_OnDataReceived(t *testing.T) {
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().SaveContent(mock.Anything, mock.MatchedBy(func(c *entity.PageContent) bool {
		return c.URL == "https://example.com/post" && c.Text == "hello" && !c.ExtractedAt.IsZero()
	})).Return(errors.New("disk full")).Once()

	uc := NewRecordHistoryUseCase(repo)
	runUntilDrained(t, uc, func(ctx context.Context) {
		uc.OnDataReceived(ctx, json.RawMessage(`{"url":"https://example.com/post/","title":"Post","text":"hello"}`))
		uc.OnDataReceived(ctx, json.RawMessage(`not json`))
		uc.OnDataReceived(ctx, json.RawMessage(`{"url":"about:blank","text":"x"}`))
	})
}

func TestRecordHistory_PageContent(t *testing.T) {
	ctx := context.Background()
	repo := repomocks.NewMockHistoryRepository(t)
	stored := &entity.PageContent{URL: "https://example.com/post", Text: "hello"}
	repo.EXPECT().FindContent(mock.Anything, "https://example.com/post").Return(stored, nil).Once()
	repo.EXPECT().FindContent(mock.Anything, "https://example.com").Return(nil, errors.New("locked")).Once()

	uc := NewRecordHistoryUseCase(repo)

	got, err := uc.PageContent(ctx, " example.com/post/?utm_source=feed ")
	require.NoError(t, err)
	assert.Same(t, stored, got)

	_, err = uc.PageContent(ctx, "https://example.com/")
	assert.ErrorContains(t, err, "locked")

	got, err = uc.PageContent(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}
