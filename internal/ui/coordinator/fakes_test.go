package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	domainurl "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
)

const testOrigin = "http://127.0.0.1:9"

// queueLoop is a main loop drained by hand.
type queueLoop struct {
	mu    sync.Mutex
	queue []func()
}

func (l *queueLoop) Post(fn func()) bool {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	return true
}

func (l *queueLoop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
	}
}

type fakeView struct {
	id         entity.TabID
	partition  string
	url        string
	visible    bool
	focused    int
	fullscreen bool
	destroyed  bool
	loads      []string
	sent       []string
	sink       port.EventSink
}

func (v *fakeView) TabID() entity.TabID { return v.id }
func (v *fakeView) URL() string         { return v.url }
func (v *fakeView) Visible() bool       { return v.visible }

func (v *fakeView) LoadURL(_ context.Context, url string) error {
	v.url = url
	v.loads = append(v.loads, url)
	return nil
}

func (v *fakeView) Show(context.Context) error { v.visible = true; return nil }
func (v *fakeView) Hide(context.Context) error { v.visible = false; return nil }

func (v *fakeView) Focus(context.Context) error {
	v.focused++
	return nil
}

func (v *fakeView) Send(_ context.Context, channel string, _ ...any) error {
	v.sent = append(v.sent, channel)
	return nil
}

func (v *fakeView) SetFullscreen(_ context.Context, fullscreen bool) error {
	v.fullscreen = fullscreen
	return nil
}

func (v *fakeView) Destroy(context.Context) error {
	v.destroyed = true
	return nil
}

type fakeHost struct {
	created     []*fakeView
	attached    map[*fakeView]bool
	permissions map[string]int
	attachErr   error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		attached:    make(map[*fakeView]bool),
		permissions: make(map[string]int),
	}
}

func (h *fakeHost) Create(_ context.Context, spec port.ViewSpec, sink port.EventSink) (port.ContentView, error) {
	v := &fakeView{id: spec.TabID, partition: spec.Partition, url: spec.URL, sink: sink}
	h.created = append(h.created, v)
	return v, nil
}

func (h *fakeHost) Attach(_ context.Context, view port.ContentView) error {
	if h.attachErr != nil {
		return h.attachErr
	}
	h.attached[view.(*fakeView)] = true
	return nil
}

func (h *fakeHost) Detach(_ context.Context, view port.ContentView) error {
	delete(h.attached, view.(*fakeView))
	return nil
}

func (h *fakeHost) ApplyPermissions(_ context.Context, partition string, _ port.PermissionPolicy) error {
	h.permissions[partition]++
	return nil
}

// latest returns the most recently created view of id.
func (h *fakeHost) latest(id entity.TabID) *fakeView {
	for i := len(h.created) - 1; i >= 0; i-- {
		if h.created[i].id == id {
			return h.created[i]
		}
	}
	return nil
}

type fakeStrip struct {
	handlers  port.StripHandlers
	order     []entity.TabID
	rerenders map[entity.TabID]int
	titles    map[entity.TabID]string
	subtitles map[entity.TabID]string
	hovered   map[entity.TabID]bool
	selected  entity.TabID
	editing   entity.TabID
	drag      bool
	expanded  bool
	focused   int
}

func newFakeStrip() *fakeStrip {
	return &fakeStrip{
		rerenders: make(map[entity.TabID]int),
		titles:    make(map[entity.TabID]string),
		subtitles: make(map[entity.TabID]string),
		hovered:   make(map[entity.TabID]bool),
	}
}

func (s *fakeStrip) SetHandlers(h port.StripHandlers) { s.handlers = h }

func (s *fakeStrip) AddTab(tab entity.Tab, index int) {
	s.order = slices.Insert(s.order, min(max(index, 0), len(s.order)), tab.ID)
}

func (s *fakeStrip) RemoveTab(id entity.TabID) {
	s.order = slices.DeleteFunc(s.order, func(o entity.TabID) bool { return o == id })
}

func (s *fakeStrip) Rerender(tab entity.Tab) {
	s.rerenders[tab.ID]++
	s.titles[tab.ID] = tab.DisplayTitle()
}

func (s *fakeStrip) SetSelected(id entity.TabID)              { s.selected = id }
func (s *fakeStrip) EnterEditMode(id entity.TabID)            { s.editing = id }
func (s *fakeStrip) LeaveEditMode()                           { s.editing = "" }
func (s *fakeStrip) SetDragEnabled(enabled bool)              { s.drag = enabled }
func (s *fakeStrip) SetSubtitle(id entity.TabID, text string) { s.subtitles[id] = text }
func (s *fakeStrip) SetExpanded(expanded bool)                { s.expanded = expanded }
func (s *fakeStrip) Focus()                                   { s.focused++ }
func (s *fakeStrip) IsHovered(id entity.TabID) bool           { return s.hovered[id] }

type fakeHistory struct {
	calls   *[]string
	updates []entity.Tab
	data    []json.RawMessage
}

func (h *fakeHistory) UpdateHistory(_ context.Context, tab entity.Tab) {
	h.updates = append(h.updates, tab)
}

func (h *fakeHistory) OnDataReceived(_ context.Context, data json.RawMessage) {
	if h.calls != nil {
		*h.calls = append(*h.calls, "builtin")
	}
	h.data = append(h.data, data)
}

type fakeFilter struct {
	registered []string
}

func (f *fakeFilter) Register(_ context.Context, partition string) error {
	f.registered = append(f.registered, partition)
	return nil
}

type fakeColors struct {
	colors port.TabColors
}

func (c fakeColors) Extract(context.Context, []string) (port.TabColors, error) {
	return c.colors, nil
}

type harness struct {
	ctx      context.Context
	store    *entity.TabStore
	loop     *queueLoop
	host     *fakeHost
	strip    *fakeStrip
	history  *fakeHistory
	filter   *fakeFilter
	parser   *domainurl.Parser
	views    *ViewManager
	tabs     *TabCoordinator
	expanded *ExpandedMode
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	next := 0
	h := &harness{
		ctx: logging.WithContext(context.Background(), zerolog.Nop()),
		store: entity.NewTabStore(func() entity.TabID {
			next++
			return entity.TabID(fmt.Sprintf("t%d", next))
		}),
		loop:    &queueLoop{},
		host:    newFakeHost(),
		strip:   newFakeStrip(),
		history: &fakeHistory{},
		filter:  &fakeFilter{},
		parser:  domainurl.NewParser(testOrigin),
	}
	h.views = NewViewManager(h.ctx, ViewManagerConfig{
		Store:   h.store,
		Host:    h.host,
		Parser:  h.parser,
		Pages:   h.parser,
		History: h.history,
		Filter:  h.filter,
		Colors:  fakeColors{colors: port.TabColors{Background: "#112233", Foreground: "#ffffff"}},
		Permissions: func(_ context.Context, _ entity.PermissionType, cb port.PermissionCallback) {
			cb.Deny()
		},
		Loop: h.loop,
	})
	h.tabs = NewTabCoordinator(h.ctx, TabCoordinatorConfig{
		Store:   h.store,
		Views:   h.views,
		Strip:   h.strip,
		Parser:  h.parser,
		History: h.history,
		Loop:    h.loop,
	})
	h.expanded = NewExpandedMode(h.ctx, ExpandedModeConfig{
		Store:      h.store,
		Tabs:       h.tabs,
		Views:      h.views,
		Strip:      h.strip,
		Parser:     h.parser,
		Loop:       h.loop,
		HoverDelay: 5 * time.Millisecond,
	})
	BindStrip(h.ctx, h.strip, h.tabs, h.expanded, nil)
	return h
}

// openTabs opens one tab per url and selects the first.
func (h *harness) openTabs(t *testing.T, urls ...string) []entity.TabID {
	t.Helper()
	ids := make([]entity.TabID, 0, len(urls))
	for _, u := range urls {
		id, err := h.tabs.NewTab(h.ctx, u, false)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, h.tabs.SwitchToTab(h.ctx, ids[0]))
	h.loop.drain()
	return ids
}

// emit delivers ev from the current view of id and runs the loop.
func (h *harness) emit(t *testing.T, id entity.TabID, ev port.ViewEvent) {
	t.Helper()
	v := h.host.latest(id)
	require.NotNil(t, v, "no view for %s", id)
	v.sink(ev)
	h.loop.drain()
}

func (h *harness) tab(t *testing.T, id entity.TabID) entity.Tab {
	t.Helper()
	tab, ok := h.store.Get(id)
	require.True(t, ok, "tab %s missing", id)
	return tab
}
