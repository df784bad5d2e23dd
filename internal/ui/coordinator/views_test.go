package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

func TestViewManager_CreateView_Hidden(t *testing.T) {
	h := newHarness(t)
	id, err := h.store.Add(entity.NewTab{URL: "example.com"})
	require.NoError(t, err)

	view, err := h.views.CreateView(h.ctx, id)
	require.NoError(t, err)

	v := view.(*fakeView)
	assert.Equal(t, "https://example.com", v.url)
	assert.False(t, v.visible)
	assert.Empty(t, v.partition)
	assert.True(t, h.host.attached[v])

	again, err := h.views.CreateView(h.ctx, id)
	require.NoError(t, err)
	assert.Same(t, v, again.(*fakeView))
	assert.Len(t, h.host.created, 1)
}

func TestViewManager_CreateView_UnknownTab(t *testing.T) {
	h := newHarness(t)

	_, err := h.views.CreateView(h.ctx, "missing")
	require.ErrorIs(t, err, entity.ErrTabNotFound)
	assert.Empty(t, h.host.created)
}

func TestViewManager_CreateView_AttachFailureDestroysView(t *testing.T) {
	h := newHarness(t)
	h.host.attachErr = errors.New("no container")
	id, err := h.store.Add(entity.NewTab{URL: "example.com"})
	require.NoError(t, err)

	_, err = h.views.CreateView(h.ctx, id)
	require.Error(t, err)

	require.Len(t, h.host.created, 1)
	assert.True(t, h.host.created[0].destroyed)
	_, ok := h.views.GetView(id)
	assert.False(t, ok)
}

func TestViewManager_PrivateTabsGetOwnPartition(t *testing.T) {
	h := newHarness(t)

	id, err := h.tabs.NewTab(h.ctx, "example.com", true)
	require.NoError(t, err)

	v := h.host.latest(id)
	assert.Equal(t, entity.PartitionFor(id), v.partition)
	assert.Equal(t, []string{entity.PartitionFor(id)}, h.filter.registered)
	assert.Equal(t, 1, h.host.permissions[entity.PartitionFor(id)])

	// Recreating the view reuses the prepared partition.
	h.views.DestroyView(h.ctx, id)
	_, err = h.views.CreateView(h.ctx, id)
	require.NoError(t, err)
	assert.Len(t, h.filter.registered, 1)
	assert.Equal(t, 1, h.host.permissions[entity.PartitionFor(id)])
}

func TestViewManager_ActivateView_HidesOthers(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com", "example.org", "example.net")

	require.NoError(t, h.views.ActivateView(h.ctx, ids[2]))

	assert.False(t, h.host.latest(ids[0]).visible)
	assert.False(t, h.host.latest(ids[1]).visible)
	assert.True(t, h.host.latest(ids[2]).visible)
}

func TestViewManager_ActivateView_CreatesMissingView(t *testing.T) {
	h := newHarness(t)
	id, err := h.store.Add(entity.NewTab{URL: "example.com"})
	require.NoError(t, err)

	require.NoError(t, h.views.ActivateView(h.ctx, id))

	v := h.host.latest(id)
	require.NotNil(t, v)
	assert.True(t, v.visible)
}

func TestViewManager_UpdateView(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com")

	require.NoError(t, h.views.UpdateView(h.ctx, ids[0], "example.org/page"))
	assert.Equal(t, []string{"https://example.org/page"}, h.host.latest(ids[0]).loads)

	err := h.views.UpdateView(h.ctx, "missing", "example.org")
	require.ErrorIs(t, err, ErrViewNotFound)
}

func TestViewManager_Focus_MissingView(t *testing.T) {
	h := newHarness(t)

	err := h.views.Focus(h.ctx, "missing")
	require.ErrorIs(t, err, ErrViewNotFound)
}

func TestViewManager_DestroyView(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com")
	v := h.host.latest(ids[0])

	h.views.DestroyView(h.ctx, ids[0])

	assert.True(t, v.destroyed)
	assert.False(t, h.host.attached[v])
	_, ok := h.views.GetView(ids[0])
	assert.False(t, ok)

	// Destroying twice is harmless.
	h.views.DestroyView(h.ctx, ids[0])
}

func TestViewManager_DestroyAll(t *testing.T) {
	h := newHarness(t)
	h.openTabs(t, "example.com", "example.org")

	h.views.DestroyAll(h.ctx)

	for _, v := range h.host.created {
		assert.True(t, v.destroyed)
	}
	assert.Empty(t, h.host.attached)
}

func TestViewManager_DropsEventsOfDestroyedViews(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com")
	old := h.host.latest(ids[0])

	h.views.DestroyView(h.ctx, ids[0])
	_, err := h.views.CreateView(h.ctx, ids[0])
	require.NoError(t, err)

	old.sink(port.ViewEvent{Kind: port.EventTitleChanged, Title: "stale"})
	h.loop.drain()

	assert.Empty(t, h.tab(t, ids[0]).Title)
}

func TestRegistry_HandlersRunBeforeBuiltinAndSurviveFailures(t *testing.T) {
	h := newHarness(t)
	ids := h.openTabs(t, "example.com")

	var calls []string
	h.history.calls = &calls
	reg := h.views.Registry()
	reg.BindIPC(ChannelPageContent, func(context.Context, port.ContentView, []json.RawMessage) error {
		panic("boom")
	})
	reg.BindIPC(ChannelPageContent, func(context.Context, port.ContentView, []json.RawMessage) error {
		calls = append(calls, "failing")
		return errors.New("handler failed")
	})
	reg.BindIPC(ChannelPageContent, func(_ context.Context, view port.ContentView, args []json.RawMessage) error {
		assert.Equal(t, ids[0], view.TabID())
		require.Len(t, args, 1)
		calls = append(calls, "registry")
		return nil
	})
	reg.BindEvent(port.EventIPCMessage, func(_ context.Context, _ port.ContentView, ev port.ViewEvent) error {
		calls = append(calls, "event:"+ev.Channel)
		return nil
	})

	h.emit(t, ids[0], port.ViewEvent{
		Kind:    port.EventIPCMessage,
		Channel: ChannelPageContent,
		Args:    []json.RawMessage{json.RawMessage(`{"url":"https://example.com","text":"hello"}`)},
	})

	assert.Equal(t, []string{"event:" + ChannelPageContent, "failing", "registry", "builtin"}, calls)
	assert.Len(t, h.history.data, 1)
}

func TestRegistry_IgnoresNilHandlers(t *testing.T) {
	reg := NewRegistry()
	reg.BindEvent(port.EventCrashed, nil)
	reg.BindIPC("", func(context.Context, port.ContentView, []json.RawMessage) error { return nil })
	reg.BindIPC("x", nil)

	assert.Empty(t, reg.events)
	assert.Empty(t, reg.ipc)
}
