package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

const logURLMaxLen = 60

// aboutBlankURL never accumulates visits.
const aboutBlankURL = "about:blank"

type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db}
}

const upsertHistory = `
INSERT INTO history (url, title, visit_count, last_visited, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
    title = excluded.title,
    visit_count = excluded.visit_count,
    last_visited = excluded.last_visited`

func (r *historyRepo) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(entry.URL, logURLMaxLen)).Msg("saving history entry")

	visits := max(entry.VisitCount, 1)
	if entry.URL == aboutBlankURL {
		visits = 1
	}
	lastVisited := entry.LastVisited
	if lastVisited.IsZero() {
		lastVisited = time.Now()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = lastVisited
	}

	_, err := r.db.ExecContext(ctx, upsertHistory,
		entry.URL, entry.Title, visits, toMillis(lastVisited), toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("save history %s: %w", entry.URL, err)
	}
	return nil
}

const historyColumns = `id, url, title, visit_count, last_visited, created_at`

func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM history WHERE url = ?`, url)
	entry, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (r *historyRepo) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM history ORDER BY last_visited DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

const upsertContent = `
INSERT INTO page_content (url, title, text, extracted_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
    title = excluded.title,
    text = excluded.text,
    extracted_at = excluded.extracted_at`

func (r *historyRepo) SaveContent(ctx context.Context, content *entity.PageContent) error {
	extractedAt := content.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertContent, content.URL, content.Title, content.Text, toMillis(extractedAt))
	if err != nil {
		return fmt.Errorf("save page content %s: %w", content.URL, err)
	}
	return nil
}

func (r *historyRepo) FindContent(ctx context.Context, url string) (*entity.PageContent, error) {
	var (
		content     entity.PageContent
		extractedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT url, title, text, extracted_at FROM page_content WHERE url = ?`, url,
	).Scan(&content.URL, &content.Title, &content.Text, &extractedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	content.ExtractedAt = fromMillis(extractedAt)
	return &content, nil
}

func (r *historyRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM history`, `DELETE FROM page_content`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*entity.HistoryEntry, error) {
	var (
		entry                  entity.HistoryEntry
		lastVisited, createdAt int64
	)
	if err := row.Scan(&entry.ID, &entry.URL, &entry.Title, &entry.VisitCount, &lastVisited, &createdAt); err != nil {
		return nil, err
	}
	entry.LastVisited = fromMillis(lastVisited)
	entry.CreatedAt = fromMillis(createdAt)
	return &entry, nil
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms) }
