// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	domainurl "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	// historyQueueSize is the buffer size for the async history queue.
	// If the queue is full, new records are dropped with a warning.
	historyQueueSize = 100

	// logURLMaxLen is the max length for URLs in log messages.
	logURLMaxLen = 60

	// historyWorkerFlushInterval coalesces bursts into fewer persistence writes.
	historyWorkerFlushInterval = 100 * time.Millisecond

	// historyDeduplicationWindow: visits to the same URL from the same tab
	// within this window count once (redirects, reloads).
	historyDeduplicationWindow = 2 * time.Second
)

type historyRecord struct {
	url    string
	title  string
	visits int
}

type tabHistoryState struct {
	lastURL        string
	lastRecordedAt time.Time
}

// RecordHistoryUseCase persists visits and page content off the main loop.
// UpdateHistory and OnDataReceived never block; Run drains the queues.
type RecordHistoryUseCase struct {
	historyRepo repository.HistoryRepository

	recentMu sync.Mutex
	recent   map[entity.TabID]tabHistoryState
	now      func() time.Time

	historyQueue chan historyRecord
	contentQueue chan entity.PageContent
}

// NewRecordHistoryUseCase creates the use case. Call Run to start persisting.
func NewRecordHistoryUseCase(historyRepo repository.HistoryRepository) *RecordHistoryUseCase {
	return &RecordHistoryUseCase{
		historyRepo:  historyRepo,
		recent:       make(map[entity.TabID]tabHistoryState),
		now:          time.Now,
		historyQueue: make(chan historyRecord, historyQueueSize),
		contentQueue: make(chan entity.PageContent, historyQueueSize),
	}
}

// UpdateHistory queues a visit of the tab's current URL.
func (uc *RecordHistoryUseCase) UpdateHistory(ctx context.Context, tab entity.Tab) {
	log := logging.FromContext(ctx)

	historyURL := canonicalizeURLForHistory(tab.URL)
	if historyURL == "" || historyURL == entity.BlankURL {
		return
	}

	now := uc.now()
	uc.recentMu.Lock()
	state := uc.recent[tab.ID]
	if state.lastURL == historyURL && now.Sub(state.lastRecordedAt) < historyDeduplicationWindow {
		uc.recentMu.Unlock()
		return
	}
	uc.recent[tab.ID] = tabHistoryState{lastURL: historyURL, lastRecordedAt: now}
	uc.recentMu.Unlock()

	select {
	case uc.historyQueue <- historyRecord{url: historyURL, title: tab.Title, visits: 1}:
	default:
		log.Warn().Str("url", logging.TruncateURL(historyURL, logURLMaxLen)).Msg("history queue full, dropping record")
	}
}

// OnDataReceived queues page content extracted by the page itself.
// Malformed payloads are logged and dropped.
func (uc *RecordHistoryUseCase) OnDataReceived(ctx context.Context, data json.RawMessage) {
	log := logging.FromContext(ctx)

	var content entity.PageContent
	if err := json.Unmarshal(data, &content); err != nil {
		log.Warn().Err(err).Msg("invalid page content payload")
		return
	}
	content.URL = canonicalizeURLForHistory(content.URL)
	if content.URL == "" || content.URL == entity.BlankURL {
		return
	}
	if content.ExtractedAt.IsZero() {
		content.ExtractedAt = uc.now()
	}

	select {
	case uc.contentQueue <- content:
	default:
		log.Warn().Str("url", logging.TruncateURL(content.URL, logURLMaxLen)).Msg("content queue full, dropping page content")
	}
}

// PageContent returns the stored text of the page at rawURL, which may be
// typed the way it is in the address bar. It returns nil when nothing is
// stored.
func (uc *RecordHistoryUseCase) PageContent(ctx context.Context, rawURL string) (*entity.PageContent, error) {
	key := canonicalizeURLForHistory(domainurl.Normalize(strings.TrimSpace(rawURL)))
	if key == "" {
		return nil, nil
	}
	content, err := uc.historyRepo.FindContent(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find page content: %w", err)
	}
	return content, nil
}

// Forget drops the deduplication state of a closed tab.
func (uc *RecordHistoryUseCase) Forget(id entity.TabID) {
	uc.recentMu.Lock()
	delete(uc.recent, id)
	uc.recentMu.Unlock()
}

// Run persists queued records until ctx is done, then drains what is left.
func (uc *RecordHistoryUseCase) Run(ctx context.Context) error {
	log := logging.FromContext(ctx).With().
		Str("component", "history-worker").
		Logger()

	ticker := time.NewTicker(historyWorkerFlushInterval)
	defer ticker.Stop()

	pending := make(map[string]historyRecord)
	add := func(record historyRecord) {
		p := pending[record.url]
		p.url = record.url
		p.visits += record.visits
		if record.title != "" {
			p.title = record.title
		}
		pending[record.url] = p
	}
	flush := func(ctx context.Context) {
		for _, record := range pending {
			uc.persistHistory(ctx, record)
		}
		clear(pending)
	}

	for {
		select {
		case record := <-uc.historyQueue:
			add(record)
		case content := <-uc.contentQueue:
			uc.persistContent(ctx, content)
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
			drainCtx := context.WithoutCancel(ctx)
			log.Debug().Int("remaining", len(uc.historyQueue)+len(uc.contentQueue)).Msg("draining history queue")
		drain:
			for {
				select {
				case record := <-uc.historyQueue:
					add(record)
				case content := <-uc.contentQueue:
					uc.persistContent(drainCtx, content)
				default:
					break drain
				}
			}
			flush(drainCtx)
			log.Debug().Msg("history worker shutdown complete")
			return nil
		}
	}
}

func (uc *RecordHistoryUseCase) persistHistory(ctx context.Context, record historyRecord) {
	log := logging.FromContext(ctx)

	existing, err := uc.historyRepo.FindByURL(ctx, record.url)
	if err != nil {
		log.Warn().Err(err).Str("url", record.url).Msg("failed to check history")
		return
	}

	entry := existing
	if entry == nil {
		entry = entity.NewHistoryEntry(record.url, record.title)
		entry.VisitCount = int64(max(1, record.visits))
	} else {
		entry.VisitCount += int64(max(1, record.visits))
		entry.LastVisited = uc.now()
		if record.title != "" {
			entry.Title = record.title
		}
	}
	if err := uc.historyRepo.Save(ctx, entry); err != nil {
		log.Warn().Err(err).Str("url", record.url).Msg("failed to save history")
	}
}

func (uc *RecordHistoryUseCase) persistContent(ctx context.Context, content entity.PageContent) {
	if err := uc.historyRepo.SaveContent(ctx, &content); err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Str("url", logging.TruncateURL(content.URL, logURLMaxLen)).
			Msg("failed to save page content")
	}
}

// canonicalizeURLForHistory lowercases scheme and host, drops the fragment,
// a trailing slash and tracking parameters.
func canonicalizeURLForHistory(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Opaque != "" {
		return strings.TrimSuffix(raw, "/")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	if parsed.Path == "/" {
		parsed.Path = ""
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawPath = ""

	query := parsed.Query()
	for key := range query {
		if isTrackingQueryParam(key) {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func isTrackingQueryParam(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	switch key {
	case "fbclid", "gclid", "msclkid", "dclid", "yclid", "mc_cid", "mc_eid", "igshid":
		return true
	}
	return false
}
