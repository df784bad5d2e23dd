package entity

import (
	"time"

	"github.com/google/uuid"
)

// BlankURL is the reserved blank page.
const BlankURL = "about:blank"

// TabID uniquely identifies a tab. Ids are opaque strings and never reused.
type TabID string

// IDGenerator produces fresh tab ids.
type IDGenerator func() TabID

// DefaultIDGenerator returns random UUID-based ids.
func DefaultIDGenerator() TabID {
	return TabID(uuid.NewString())
}

// PartitionPrefix namespaces storage partitions derived from tab ids.
const PartitionPrefix = "tab:"

// PartitionFor returns the isolated storage partition key of a private tab.
func PartitionFor(id TabID) string {
	return PartitionPrefix + string(id)
}

// Tab is a single entry of the tab strip.
type Tab struct {
	ID           TabID     `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	LastActivity time.Time `json:"lastActivity"`
	// Secure stays nil until the first navigation finishes.
	Secure          *bool  `json:"secure,omitempty"`
	Private         bool   `json:"private"`
	Readerable      bool   `json:"readerable"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	ForegroundColor string `json:"foregroundColor,omitempty"`
}

// Clone returns a deep copy.
func (t Tab) Clone() Tab {
	if t.Secure != nil {
		secure := *t.Secure
		t.Secure = &secure
	}
	return t
}

// IsSecure reports a known-secure tab; undefined counts as not secure.
func (t Tab) IsSecure() bool {
	return t.Secure != nil && *t.Secure
}

// DisplayTitle falls back to the URL, then "New Tab".
func (t Tab) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.URL != "" && t.URL != BlankURL {
		return t.URL
	}
	return "New Tab"
}

// NewTab carries the caller-provided fields of a tab to add. Zero values
// select the defaults.
type NewTab struct {
	ID              TabID
	URL             string
	Title           string
	LastActivity    time.Time
	Secure          *bool
	Private         bool
	Readerable      bool
	BackgroundColor string
	ForegroundColor string
}

func (n NewTab) build(id TabID, now time.Time) Tab {
	tab := Tab{
		ID:              id,
		URL:             n.URL,
		Title:           n.Title,
		LastActivity:    n.LastActivity,
		Private:         n.Private,
		Readerable:      n.Readerable,
		BackgroundColor: n.BackgroundColor,
		ForegroundColor: n.ForegroundColor,
	}
	if tab.LastActivity.IsZero() {
		tab.LastActivity = now
	}
	if n.Secure != nil {
		secure := *n.Secure
		tab.Secure = &secure
	}
	return tab
}

// TabPatch is a partial update. Id and Private are immutable and have no field.
type TabPatch struct {
	URL             Optional[string]    `json:"url,omitzero"`
	Title           Optional[string]    `json:"title,omitzero"`
	LastActivity    Optional[time.Time] `json:"lastActivity,omitzero"`
	Secure          Optional[bool]      `json:"secure,omitzero"`
	Readerable      Optional[bool]      `json:"readerable,omitzero"`
	BackgroundColor Optional[string]    `json:"backgroundColor,omitzero"`
	ForegroundColor Optional[string]    `json:"foregroundColor,omitzero"`
}

// undefinedField returns the name of the first explicitly undefined field.
func (p TabPatch) undefinedField() (string, bool) {
	fields := []struct {
		name      string
		undefined bool
	}{
		{"url", p.URL.IsUndefined()},
		{"title", p.Title.IsUndefined()},
		{"lastActivity", p.LastActivity.IsUndefined()},
		{"secure", p.Secure.IsUndefined()},
		{"readerable", p.Readerable.IsUndefined()},
		{"backgroundColor", p.BackgroundColor.IsUndefined()},
		{"foregroundColor", p.ForegroundColor.IsUndefined()},
	}
	for _, f := range fields {
		if f.undefined {
			return f.name, true
		}
	}
	return "", false
}

func (p TabPatch) apply(t *Tab) {
	if v, ok := p.URL.Get(); ok {
		t.URL = v
	}
	if v, ok := p.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := p.LastActivity.Get(); ok {
		t.LastActivity = v
	}
	if v, ok := p.Secure.Get(); ok {
		t.Secure = &v
	}
	if v, ok := p.Readerable.Get(); ok {
		t.Readerable = v
	}
	if v, ok := p.BackgroundColor.Get(); ok {
		t.BackgroundColor = v
	}
	if v, ok := p.ForegroundColor.Get(); ok {
		t.ForegroundColor = v
	}
}

// IsEmpty reports whether a tab list is effectively empty: no tabs, or a
// single tab still on a blank page.
func IsEmpty(tabs []Tab) bool {
	switch len(tabs) {
	case 0:
		return true
	case 1:
		return tabs[0].URL == "" || tabs[0].URL == BlankURL
	default:
		return false
	}
}
