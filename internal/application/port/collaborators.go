package port

import (
	"context"
	"encoding/json"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// URLParser resolves user input to URLs.
type URLParser interface {
	Parse(input string) string
	PrettyURL(url string) string
}

// PageLocator builds reserved page URLs and classifies URLs.
type PageLocator interface {
	CrashPage(original string) string
	ErrorPage(code int, failed string) string
	PhishingPage(blocked string) string
	IsInternal(url string) bool
	IsSecure(url string) bool
	// SameDocument compares URLs the way the browser canonicalizes them.
	SameDocument(a, b string) bool
}

// HistoryRecorder records visits and extracted page content.
type HistoryRecorder interface {
	UpdateHistory(ctx context.Context, tab entity.Tab)
	OnDataReceived(ctx context.Context, data json.RawMessage)
}

// ContentFilter blocks unwanted requests in a storage partition.
type ContentFilter interface {
	Register(ctx context.Context, partition string) error
}

// TabColors is a background/foreground hex pair derived from a favicon.
type TabColors struct {
	Background string
	Foreground string
}

// ColorExtractor derives tab colors from favicon URLs. It may block on the
// network and must not run on the main loop.
type ColorExtractor interface {
	Extract(ctx context.Context, faviconURLs []string) (TabColors, error)
}
