package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// ErrViewNotFound is returned when an operation needs a view the tab does not have.
var ErrViewNotFound = errors.New("content view not found")

// Poster schedules work on the main loop.
type Poster interface {
	Post(fn func()) bool
}

// ViewManagerConfig holds the collaborators of a ViewManager. Filter, Colors
// and Permissions are optional.
type ViewManagerConfig struct {
	Store       *entity.TabStore
	Host        port.ViewHost
	Parser      port.URLParser
	Pages       port.PageLocator
	History     port.HistoryRecorder
	Filter      port.ContentFilter
	Colors      port.ColorExtractor
	Permissions port.PermissionPolicy
	Loop        Poster
	Registry    *Registry
}

// ViewManager owns one content view per tab and mirrors view events into
// the tab store. It is only used from the main loop.
type ViewManager struct {
	store       *entity.TabStore
	host        port.ViewHost
	parser      port.URLParser
	pages       port.PageLocator
	history     port.HistoryRecorder
	filter      port.ContentFilter
	colors      port.ColorExtractor
	permissions port.PermissionPolicy
	loop        Poster
	registry    *Registry

	tabs       *TabCoordinator
	views      map[entity.TabID]port.ContentView
	partitions map[string]bool
}

// NewViewManager creates a ViewManager.
func NewViewManager(ctx context.Context, cfg ViewManagerConfig) *ViewManager {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating view manager")

	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	return &ViewManager{
		store:       cfg.Store,
		host:        cfg.Host,
		parser:      cfg.Parser,
		pages:       cfg.Pages,
		history:     cfg.History,
		filter:      cfg.Filter,
		colors:      cfg.Colors,
		permissions: cfg.Permissions,
		loop:        cfg.Loop,
		registry:    registry,
		views:       make(map[entity.TabID]port.ContentView),
		partitions:  make(map[string]bool),
	}
}

// SetTabCoordinator wires the tab flows triggered by view events.
func (m *ViewManager) SetTabCoordinator(tabs *TabCoordinator) {
	m.tabs = tabs
}

// Registry returns the handler registry of this manager.
func (m *ViewManager) Registry() *Registry {
	return m.registry
}

// boundView ties an event sink to the view it was created for, so events
// from a destroyed view are dropped.
type boundView struct {
	view port.ContentView
}

// CreateView creates the view of tab id, hidden and attached to the host.
// An existing view is returned unchanged.
func (m *ViewManager) CreateView(ctx context.Context, id entity.TabID) (port.ContentView, error) {
	log := logging.FromContext(logging.WithTabID(ctx, string(id)))

	if view, ok := m.views[id]; ok {
		return view, nil
	}
	tab, ok := m.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("create view for tab %s: %w", id, entity.ErrTabNotFound)
	}

	spec := port.ViewSpec{TabID: id, URL: m.parser.Parse(tab.URL)}
	if tab.Private {
		spec.Partition = entity.PartitionFor(id)
		m.preparePartition(ctx, spec.Partition)
	}

	bound := &boundView{}
	sink := func(ev port.ViewEvent) {
		m.loop.Post(func() { m.dispatch(ctx, id, bound, ev) })
	}

	view, err := m.host.Create(ctx, spec, sink)
	if err != nil {
		return nil, fmt.Errorf("create view for tab %s: %w", id, err)
	}
	bound.view = view

	if err := m.host.Attach(ctx, view); err != nil {
		if destroyErr := view.Destroy(ctx); destroyErr != nil {
			log.Warn().Err(destroyErr).Msg("failed to destroy unattached view")
		}
		return nil, fmt.Errorf("attach view for tab %s: %w", id, err)
	}

	m.views[id] = view
	log.Debug().Str("url", logging.TruncateURL(spec.URL, 60)).Bool("private", tab.Private).Msg("content view created")
	return view, nil
}

// preparePartition registers filtering and the permission policy for a
// private partition the first time it is seen.
func (m *ViewManager) preparePartition(ctx context.Context, partition string) {
	if m.partitions[partition] {
		return
	}
	m.partitions[partition] = true

	log := logging.FromContext(ctx)
	if m.filter != nil {
		if err := m.filter.Register(ctx, partition); err != nil {
			log.Warn().Err(err).Str("partition", partition).Msg("failed to register content filtering")
		}
	}
	if m.permissions != nil {
		if err := m.host.ApplyPermissions(ctx, partition, m.permissions); err != nil {
			log.Warn().Err(err).Str("partition", partition).Msg("failed to apply permission policy")
		}
	}
}

// ActivateView hides every other view and shows the view of id, creating
// it when missing.
func (m *ViewManager) ActivateView(ctx context.Context, id entity.TabID) error {
	log := logging.FromContext(ctx)

	for other, view := range m.views {
		if other == id || !view.Visible() {
			continue
		}
		if err := view.Hide(ctx); err != nil {
			log.Warn().Err(err).Str("tab_id", string(other)).Msg("failed to hide view")
		}
	}

	view, err := m.CreateView(ctx, id)
	if err != nil {
		return err
	}
	return view.Show(ctx)
}

// UpdateView navigates the view of id to the parsed url.
func (m *ViewManager) UpdateView(ctx context.Context, id entity.TabID, url string) error {
	view, ok := m.views[id]
	if !ok {
		return fmt.Errorf("update view for tab %s: %w", id, ErrViewNotFound)
	}
	return view.LoadURL(ctx, m.parser.Parse(url))
}

// DestroyView detaches and destroys the view of id. Missing views are ignored.
func (m *ViewManager) DestroyView(ctx context.Context, id entity.TabID) {
	view, ok := m.views[id]
	if !ok {
		return
	}
	delete(m.views, id)

	log := logging.FromContext(logging.WithTabID(ctx, string(id)))
	if err := m.host.Detach(ctx, view); err != nil {
		log.Warn().Err(err).Msg("failed to detach view")
	}
	if err := view.Destroy(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to destroy view")
	}
	log.Debug().Msg("content view destroyed")
}

// GetView returns the view of id.
func (m *ViewManager) GetView(id entity.TabID) (port.ContentView, bool) {
	view, ok := m.views[id]
	return view, ok
}

// Focus gives keyboard focus to the view of id.
func (m *ViewManager) Focus(ctx context.Context, id entity.TabID) error {
	view, ok := m.views[id]
	if !ok {
		return fmt.Errorf("focus view for tab %s: %w", id, ErrViewNotFound)
	}
	return view.Focus(ctx)
}

// DestroyAll destroys every view, for shutdown.
func (m *ViewManager) DestroyAll(ctx context.Context) {
	for id := range m.views {
		m.DestroyView(ctx, id)
	}
}
