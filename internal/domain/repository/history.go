package repository

import (
	"context"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// HistoryRepository defines operations for browsing history persistence.
type HistoryRepository interface {
	// Save creates or updates a history entry (upsert by URL).
	Save(ctx context.Context, entry *entity.HistoryEntry) error

	// FindByURL retrieves a history entry by its URL. Returns nil when absent.
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)

	// GetRecent retrieves recent history entries with pagination.
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)

	// SaveContent stores the extracted text of a page, replacing older content.
	SaveContent(ctx context.Context, content *entity.PageContent) error

	// FindContent retrieves the stored text of a page. Returns nil when absent.
	FindContent(ctx context.Context, url string) (*entity.PageContent, error)

	// DeleteAll removes all history entries and page content.
	DeleteAll(ctx context.Context) error
}
