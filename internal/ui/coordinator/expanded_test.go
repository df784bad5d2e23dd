package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

func TestExpandedMode_Enter(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "https://www.example.com/", "example.org/docs?page=2")
	h.strip.editing = ids[0]

	h.expanded.Enter(h.ctx)

	assert.Equal(t, ModeExpanded, h.expanded.Mode())
	assert.True(t, h.strip.drag)
	assert.Empty(t, h.strip.editing)
	assert.Equal(t, "example.com", h.strip.subtitles[ids[0]])
	assert.Equal(t, "example.org/docs?page=2", h.strip.subtitles[ids[1]])
	// Layout changes on the next loop turn.
	assert.False(t, h.strip.expanded)

	h.loop.drain()
	assert.True(t, h.strip.expanded)
	assert.Equal(t, 1, h.strip.focused)

	h.expanded.Enter(h.ctx)
	h.loop.drain()
	assert.Equal(t, 1, h.strip.focused)
}

func TestExpandedMode_LeaveBeforeLayout(t *testing.T) {
	h := newHarness(t)
	h.openTabs(t, "example.com")

	h.expanded.Enter(h.ctx)
	h.expanded.Leave(h.ctx)
	h.loop.drain()

	assert.Equal(t, ModeNormal, h.expanded.Mode())
	assert.False(t, h.strip.expanded)
	assert.False(t, h.strip.drag)
	assert.Zero(t, h.strip.focused)
}

func TestExpandedMode_LeaveWhenNormalIsNoop(t *testing.T) {
	h := newHarness(t)
	h.openTabs(t, "example.com")
	h.strip.expanded = true

	h.expanded.Leave(h.ctx)

	assert.True(t, h.strip.expanded)
}

func TestExpandedMode_Scroll(t *testing.T) {
	tests := []struct {
		name     string
		ev       port.ScrollEvent
		consumed bool
	}{
		{name: "swipe down", ev: port.ScrollEvent{DeltaX: 0, DeltaY: -40}, consumed: true},
		{name: "leftward drift still counts", ev: port.ScrollEvent{DeltaX: -50, DeltaY: -40}, consumed: true},
		{name: "too short", ev: port.ScrollEvent{DeltaX: 0, DeltaY: -30}, consumed: false},
		{name: "too diagonal", ev: port.ScrollEvent{DeltaX: 10, DeltaY: -80}, consumed: false},
		{name: "swipe up", ev: port.ScrollEvent{DeltaX: 0, DeltaY: 40}, consumed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.openTabs(t, "example.com")

			assert.Equal(t, tt.consumed, h.strip.handlers.OnScroll(tt.ev))
			assert.Equal(t, tt.consumed, h.expanded.IsExpanded())
		})
	}
}

func TestExpandedMode_ClickSelectsAndCollapses(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org", "example.net")
	h.expanded.Enter(h.ctx)
	h.loop.drain()

	h.strip.handlers.OnClick(ids[1])

	assert.Equal(t, ids[1], h.store.Selected())
	assert.Equal(t, ModeNormal, h.expanded.Mode())
	assert.False(t, h.strip.expanded)
	assert.False(t, h.strip.drag)
	assert.True(t, h.host.latest(ids[1]).visible)
	assert.False(t, h.host.latest(ids[0]).visible)
	assert.Equal(t, 1, h.host.latest(ids[1]).focused)
	assert.Empty(t, h.strip.editing)
}

func TestExpandedMode_ClickSelectedTabInExpandedMode(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org")
	h.expanded.Enter(h.ctx)
	h.loop.drain()

	h.strip.handlers.OnClick(ids[0])

	assert.Equal(t, ids[0], h.store.Selected())
	assert.False(t, h.expanded.IsExpanded())
	assert.Equal(t, 1, h.host.latest(ids[0]).focused)
	assert.Empty(t, h.strip.editing)
}

func TestExpandedMode_ClickInNormalMode(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org")

	h.strip.handlers.OnClick(ids[1])
	assert.Equal(t, ids[1], h.store.Selected())
	assert.Empty(t, h.strip.editing)
	assert.Zero(t, h.host.latest(ids[1]).focused)

	h.strip.handlers.OnClick(ids[1])
	assert.Equal(t, ids[1], h.strip.editing)
}

func TestExpandedMode_HoverPreviewsTab(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org", "example.net")
	h.expanded.Enter(h.ctx)
	h.loop.drain()

	h.strip.hovered[ids[2]] = true
	h.strip.handlers.OnHover(ids[2])

	require.Eventually(t, func() bool {
		h.loop.drain()
		return h.store.Selected() == ids[2]
	}, time.Second, 5*time.Millisecond)

	assert.True(t, h.expanded.IsExpanded())
	assert.True(t, h.host.latest(ids[2]).visible)
}

func TestExpandedMode_HoverRequiresPointerStillOverTab(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org")
	h.expanded.Enter(h.ctx)
	h.loop.drain()

	h.strip.handlers.OnHover(ids[1])
	time.Sleep(40 * time.Millisecond)
	h.loop.drain()

	assert.Equal(t, ids[0], h.store.Selected())
}

func TestExpandedMode_HoverIgnoredInNormalMode(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org")
	h.strip.hovered[ids[1]] = true

	h.strip.handlers.OnHover(ids[1])
	time.Sleep(40 * time.Millisecond)
	h.loop.drain()

	assert.Equal(t, ids[0], h.store.Selected())
}

func TestExpandedMode_LeaveCancelsPendingHover(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org")
	h.expanded.Enter(h.ctx)
	h.loop.drain()
	h.strip.hovered[ids[1]] = true

	h.strip.handlers.OnHover(ids[1])
	h.expanded.Leave(h.ctx)
	time.Sleep(40 * time.Millisecond)
	h.loop.drain()

	assert.Equal(t, ids[0], h.store.Selected())
}

func TestExpandedMode_Drop(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "a.example.com", "b.example.com", "c.example.com")

	// Dragging is only possible while expanded.
	h.strip.handlers.OnDrop([]entity.TabID{ids[2], ids[1], ids[0]})
	first, _ := h.store.AtIndex(0)
	assert.Equal(t, ids[0], first.ID)

	h.expanded.Enter(h.ctx)
	h.strip.handlers.OnDrop([]entity.TabID{ids[2], ids[0], ids[1]})

	var order []entity.TabID
	for _, tab := range h.store.All() {
		order = append(order, tab.ID)
	}
	assert.Equal(t, []entity.TabID{ids[2], ids[0], ids[1]}, order)
	assert.Equal(t, ids[0], h.store.Selected())
}
