package entity

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() IDGenerator {
	n := 0
	return func() TabID {
		n++
		return TabID(fmt.Sprintf("gen-%d", n))
	}
}

func storeWith(t *testing.T, ids ...TabID) *TabStore {
	t.Helper()
	s := NewTabStore(sequentialIDs())
	for _, id := range ids {
		_, err := s.Add(NewTab{ID: id, URL: "https://example.com/" + string(id)})
		require.NoError(t, err)
	}
	return s
}

func ids(tabs []Tab) []TabID {
	out := make([]TabID, len(tabs))
	for i, tab := range tabs {
		out[i] = tab.ID
	}
	return out
}

func TestTabStore_AddDefaults(t *testing.T) {
	s := NewTabStore(sequentialIDs())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	id, err := s.Add(NewTab{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, TabID("gen-1"), id)

	tab, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", tab.URL)
	assert.Equal(t, "", tab.Title)
	assert.Equal(t, fixed, tab.LastActivity)
	assert.Nil(t, tab.Secure)
	assert.False(t, tab.Private)
	assert.False(t, tab.Readerable)
	assert.Empty(t, tab.BackgroundColor)
	assert.Empty(t, tab.ForegroundColor)
	assert.Equal(t, TabID(""), s.Selected(), "add must not select")
}

func TestTabStore_AddKeepsProvidedFields(t *testing.T) {
	s := NewTabStore(nil)
	secure := true
	at := time.Unix(1700000000, 0)

	id, err := s.Add(NewTab{
		ID:              "custom",
		URL:             "https://example.com",
		Title:           "Example",
		LastActivity:    at,
		Secure:          &secure,
		Private:         true,
		Readerable:      true,
		BackgroundColor: "#112233",
		ForegroundColor: "#ffffff",
	})
	require.NoError(t, err)
	assert.Equal(t, TabID("custom"), id)

	tab, ok := s.Get("custom")
	require.True(t, ok)
	assert.Equal(t, "Example", tab.Title)
	assert.Equal(t, at, tab.LastActivity)
	assert.True(t, tab.IsSecure())
	assert.True(t, tab.Private)
	assert.True(t, tab.Readerable)
	assert.Equal(t, "#112233", tab.BackgroundColor)
	assert.Equal(t, "#ffffff", tab.ForegroundColor)

	// The store keeps its own copy of the pointer target.
	secure = false
	tab, _ = s.Get("custom")
	assert.True(t, tab.IsSecure())
}

func TestTabStore_AddRejectsDuplicateID(t *testing.T) {
	s := storeWith(t, "1")

	_, err := s.Add(NewTab{ID: "1"})
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, 1, s.Count())
}

func TestTabStore_AddAtInsertsAndClamps(t *testing.T) {
	s := storeWith(t, "a", "b")

	_, err := s.AddAt(NewTab{ID: "first"}, 0)
	require.NoError(t, err)
	_, err = s.AddAt(NewTab{ID: "middle"}, 2)
	require.NoError(t, err)
	_, err = s.AddAt(NewTab{ID: "last"}, 99)
	require.NoError(t, err)
	_, err = s.AddAt(NewTab{ID: "neg"}, -4)
	require.NoError(t, err)

	assert.Equal(t, []TabID{"neg", "first", "a", "middle", "b", "last"}, ids(s.All()))
}

func TestTabStore_CountAndIndexStayConsistent(t *testing.T) {
	s := NewTabStore(sequentialIDs())
	var live []TabID

	for round := 0; round < 20; round++ {
		id, err := s.Add(NewTab{})
		require.NoError(t, err)
		live = append(live, id)

		if round%3 == 2 {
			victim := live[len(live)/2]
			_, removed := s.Remove(victim)
			require.True(t, removed)
			live = removeID(live, victim)
		}

		require.Equal(t, len(live), s.Count())
		for _, id := range live {
			i := s.Index(id)
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, s.Count())
		}
	}
}

func removeID(list []TabID, id TabID) []TabID {
	out := list[:0:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func TestTabStore_UpdateMissingTab(t *testing.T) {
	s := storeWith(t, "1")
	before := s.All()

	err := s.Update("nope", TabPatch{Title: Some("x")})
	require.ErrorIs(t, err, ErrTabNotFound)
	assert.Equal(t, before, s.All())
}

func TestTabStore_UpdateUndefinedField(t *testing.T) {
	s := storeWith(t, "1")
	require.NoError(t, s.Update("1", TabPatch{Title: Some("kept")}))

	err := s.Update("1", TabPatch{URL: Some("https://changed.example"), Title: Undefined[string]()})
	require.ErrorIs(t, err, ErrInvalidValue)

	tab, _ := s.Get("1")
	assert.Equal(t, "kept", tab.Title)
	assert.Equal(t, "https://example.com/1", tab.URL, "a rejected patch must not partially apply")
}

func TestTabStore_UpdateMergesSetFields(t *testing.T) {
	s := storeWith(t, "1")

	require.NoError(t, s.Update("1", TabPatch{
		Secure:          Some(true),
		URL:             Some("https://next.example"),
		BackgroundColor: Some("#000000"),
	}))

	tab, _ := s.Get("1")
	assert.True(t, tab.IsSecure())
	assert.Equal(t, "https://next.example", tab.URL)
	assert.Equal(t, "#000000", tab.BackgroundColor)
	assert.Equal(t, "", tab.Title)
}

func TestTabPatch_JSONNullIsUndefined(t *testing.T) {
	s := storeWith(t, "1")

	var patch TabPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title": null}`), &patch))
	assert.ErrorIs(t, s.Update("1", patch), ErrInvalidValue)

	patch = TabPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"title": "From JSON"}`), &patch))
	assert.True(t, patch.URL.IsOmitted())
	require.NoError(t, s.Update("1", patch))

	tab, _ := s.Get("1")
	assert.Equal(t, "From JSON", tab.Title)
}

func TestTabStore_ReadsAreCopies(t *testing.T) {
	s := storeWith(t, "1")
	require.NoError(t, s.Update("1", TabPatch{Secure: Some(true)}))

	all := s.All()
	all[0].Title = "mutated"
	*all[0].Secure = false

	one, _ := s.Get("1")
	one.URL = "mutated"

	at, _ := s.AtIndex(0)
	assert.Equal(t, "", at.Title)
	assert.Equal(t, "https://example.com/1", at.URL)
	assert.True(t, at.IsSecure())
}

func TestTabStore_ReorderKeepsSelection(t *testing.T) {
	s := storeWith(t, "1", "2", "3")
	require.NoError(t, s.SetSelected("2"))

	s.Reorder([]TabID{"3", "1", "2"})

	assert.Equal(t, []TabID{"3", "1", "2"}, ids(s.All()))
	assert.Equal(t, TabID("2"), s.Selected())
}

func TestTabStore_ReorderIsIdempotent(t *testing.T) {
	s := storeWith(t, "1", "2", "3", "4", "5")
	order := []TabID{"4", "2", "ghost", "5"}

	s.Reorder(order)
	once := ids(s.All())
	s.Reorder(order)

	assert.Equal(t, once, ids(s.All()))
	// Unlisted tabs keep their relative order ahead of listed ones.
	assert.Equal(t, []TabID{"1", "3", "4", "2", "5"}, once)
}

func TestTabStore_RemoveSelectedLeavesSelectionDangling(t *testing.T) {
	s := storeWith(t, "1", "2", "3")
	require.NoError(t, s.SetSelected("2"))

	idx, ok := s.Remove("2")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []TabID{"1", "3"}, ids(s.All()))
	assert.Equal(t, TabID("2"), s.Selected())
	assert.Equal(t, -1, s.Index(s.Selected()))

	idx, ok = s.Remove("2")
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestTabStore_SetSelectedMissing(t *testing.T) {
	s := storeWith(t, "1")
	require.ErrorIs(t, s.SetSelected("9"), ErrTabNotFound)
	assert.Equal(t, TabID(""), s.Selected())
}

func TestTabStore_AtIndexBounds(t *testing.T) {
	s := storeWith(t, "1")

	_, ok := s.AtIndex(-1)
	assert.False(t, ok)
	_, ok = s.AtIndex(1)
	assert.False(t, ok)
	tab, ok := s.AtIndex(0)
	assert.True(t, ok)
	assert.Equal(t, TabID("1"), tab.ID)
}

func TestTabStore_NextWraps(t *testing.T) {
	s := storeWith(t, "1", "2", "3")

	next, ok := s.Next(1)
	require.True(t, ok)
	assert.Equal(t, TabID("1"), next, "no selection starts at the first tab")

	require.NoError(t, s.SetSelected("3"))
	next, _ = s.Next(1)
	assert.Equal(t, TabID("1"), next)
	prev, _ := s.Next(-1)
	assert.Equal(t, TabID("2"), prev)
}

func TestTabStore_MarshalJSON(t *testing.T) {
	s := storeWith(t, "1")
	require.NoError(t, s.SetSelected("1"))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"selected":"1"`)
	assert.Contains(t, string(data), `"url":"https://example.com/1"`)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty([]Tab{{URL: ""}}))
	assert.True(t, IsEmpty([]Tab{{URL: BlankURL}}))
	assert.False(t, IsEmpty([]Tab{{URL: "https://example.com"}}))
	assert.False(t, IsEmpty([]Tab{{URL: ""}, {URL: ""}}))
}

func TestPartitionFor(t *testing.T) {
	assert.Equal(t, "tab:42", PartitionFor("42"))
}
