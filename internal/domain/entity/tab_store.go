package entity

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// TabStore is the ordered collection of tabs of one window plus the selected
// tab id. Order is the on-screen tab order.
//
// Every read returns deep copies; state only changes through the store's
// methods. The store is not safe for concurrent use: it belongs to the
// window's main loop.
type TabStore struct {
	tabs     []Tab
	selected TabID
	newID    IDGenerator
	now      func() time.Time
}

// NewTabStore creates an empty store. A nil generator selects DefaultIDGenerator.
func NewTabStore(newID IDGenerator) *TabStore {
	if newID == nil {
		newID = DefaultIDGenerator
	}
	return &TabStore{
		tabs:  make([]Tab, 0),
		newID: newID,
		now:   time.Now,
	}
}

// Add appends a tab built from data and returns its id. It does not select it.
func (s *TabStore) Add(data NewTab) (TabID, error) {
	return s.insert(data, len(s.tabs))
}

// AddAt inserts a tab at index, clamped to [0, Count()].
func (s *TabStore) AddAt(data NewTab, index int) (TabID, error) {
	return s.insert(data, min(max(index, 0), len(s.tabs)))
}

func (s *TabStore) insert(data NewTab, index int) (TabID, error) {
	id := data.ID
	if id == "" {
		id = s.newID()
	}
	if s.Index(id) != -1 {
		return "", fmt.Errorf("add tab %s: duplicate id: %w", id, ErrInvalidValue)
	}

	s.tabs = slices.Insert(s.tabs, index, data.build(id, s.now()))
	return id, nil
}

// Update merges patch into the tab with the given id. The patch is validated
// in full before anything is written.
func (s *TabStore) Update(id TabID, patch TabPatch) error {
	i := s.Index(id)
	if i == -1 {
		return fmt.Errorf("update tab %s: %w", id, ErrTabNotFound)
	}
	if field, ok := patch.undefinedField(); ok {
		return fmt.Errorf("update tab %s: field %q is undefined: %w", id, field, ErrInvalidValue)
	}
	patch.apply(&s.tabs[i])
	return nil
}

// Remove deletes the tab and returns its prior index. The selection is left
// untouched, so callers removing the selected tab must pick a new one.
func (s *TabStore) Remove(id TabID) (int, bool) {
	i := s.Index(id)
	if i == -1 {
		return -1, false
	}
	s.tabs = slices.Delete(s.tabs, i, i+1)
	return i, true
}

// All returns copies of every tab in order.
func (s *TabStore) All() []Tab {
	out := make([]Tab, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the tab with the given id.
func (s *TabStore) Get(id TabID) (Tab, bool) {
	i := s.Index(id)
	if i == -1 {
		return Tab{}, false
	}
	return s.tabs[i].Clone(), true
}

// Index returns the position of id, or -1.
func (s *TabStore) Index(id TabID) int {
	return slices.IndexFunc(s.tabs, func(t Tab) bool { return t.ID == id })
}

// AtIndex returns a copy of the tab at position i.
func (s *TabStore) AtIndex(i int) (Tab, bool) {
	if i < 0 || i >= len(s.tabs) {
		return Tab{}, false
	}
	return s.tabs[i].Clone(), true
}

// Selected returns the selected id, or "" when unset. After Remove it may
// name a tab that no longer exists.
func (s *TabStore) Selected() TabID {
	return s.selected
}

// SetSelected selects an existing tab.
func (s *TabStore) SetSelected(id TabID) error {
	if s.Index(id) == -1 {
		return fmt.Errorf("select tab %s: %w", id, ErrTabNotFound)
	}
	s.selected = id
	return nil
}

// Count returns the number of tabs.
func (s *TabStore) Count() int {
	return len(s.tabs)
}

// Reorder sorts the tabs to follow the relative order of ids in order.
// Tabs missing from order keep their relative order and sort before the
// listed ones. Applying the same order twice is a no-op.
func (s *TabStore) Reorder(order []TabID) {
	rank := make(map[TabID]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	position := func(id TabID) int {
		if r, ok := rank[id]; ok {
			return r
		}
		return -1
	}
	slices.SortStableFunc(s.tabs, func(a, b Tab) int {
		return position(a.ID) - position(b.ID)
	})
}

// Next returns the tab after (dir > 0) or before (dir < 0) the selected one,
// wrapping around.
func (s *TabStore) Next(dir int) (TabID, bool) {
	n := len(s.tabs)
	if n == 0 {
		return "", false
	}
	i := s.Index(s.selected)
	if i == -1 {
		return s.tabs[0].ID, true
	}
	step := 1
	if dir < 0 {
		step = -1
	}
	return s.tabs[(i+step+n)%n].ID, true
}

type storeSnapshot struct {
	Selected TabID `json:"selected,omitempty"`
	Tabs     []Tab `json:"tabs"`
}

// MarshalJSON encodes the tabs and the selection.
func (s *TabStore) MarshalJSON() ([]byte, error) {
	return json.Marshal(storeSnapshot{Selected: s.selected, Tabs: s.All()})
}
