package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabshell/internal/domain/entity"
	domainurl "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/component"
	"github.com/bnema/tabshell/internal/ui/coordinator"
	"github.com/bnema/tabshell/internal/ui/input"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// errQuit is the cancel cause when the user quits from the tab strip.
var errQuit = errors.New("quit requested")

// Window owns the state of one browser window. Everything except Run,
// Quit and Snapshot is only touched from the window's main loop.
type Window struct {
	deps *Dependencies

	loop     *mainloop.Loop
	store    *entity.TabStore
	parser   *domainurl.Parser
	strip    *component.TabStrip
	views    *coordinator.ViewManager
	tabs     *coordinator.TabCoordinator
	expanded *coordinator.ExpandedMode

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelCauseFunc
}

// New wires a Window from deps. Nothing runs until Run.
func New(deps *Dependencies) (*Window, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window dependencies: %w", err)
	}

	ctx, cancel := context.WithCancelCause(logging.WithComponent(deps.Ctx, "window"))
	cfg := deps.Config

	theme := component.DefaultTheme()
	if deps.Theme != nil {
		theme = *deps.Theme
	}

	w := &Window{
		deps:   deps,
		loop:   mainloop.New(),
		store:  entity.NewTabStore(entity.DefaultIDGenerator),
		parser: domainurl.NewParser(deps.Pages.Origin()),
		ctx:    ctx,
		cancel: cancel,
	}
	w.strip = component.NewTabStrip(w.loop.Post, theme)

	viewCfg := coordinator.ViewManagerConfig{
		Store:       w.store,
		Host:        deps.Host,
		Parser:      w.parser,
		Pages:       w.parser,
		History:     deps.HistoryUC,
		Colors:      deps.Colors,
		Permissions: deps.PermissionUC.Arbitrate,
		Loop:        w.loop,
	}
	if deps.Filter != nil {
		viewCfg.Filter = deps.Filter
	}
	w.views = coordinator.NewViewManager(ctx, viewCfg)

	w.tabs = coordinator.NewTabCoordinator(ctx, coordinator.TabCoordinatorConfig{
		Store:   w.store,
		Views:   w.views,
		Strip:   w.strip,
		Parser:  w.parser,
		History: deps.HistoryUC,
		Loop:    w.loop,
		HomeURL: cfg.Browser.HomeURL,
	})

	w.expanded = coordinator.NewExpandedMode(ctx, coordinator.ExpandedModeConfig{
		Store:      w.store,
		Tabs:       w.tabs,
		Views:      w.views,
		Strip:      w.strip,
		Parser:     w.parser,
		Loop:       w.loop,
		HoverDelay: cfg.Tabs.HoverDelay,
		Swipe:      input.NewSwipeDetector(cfg.Tabs.SwipeThresholdY, cfg.Tabs.SwipeThresholdX),
	})

	coordinator.BindStrip(ctx, w.strip, w.tabs, w.expanded, w.Quit)
	return w, nil
}

// Registry exposes the view event and IPC handler registry.
func (w *Window) Registry() *coordinator.Registry {
	return w.views.Registry()
}

// Quit stops Run.
func (w *Window) Quit() {
	w.cancel(errQuit)
}

// ApplyConfig pushes reloadable settings to running components.
func (w *Window) ApplyConfig(cfg *config.Config) {
	if w.deps.Filter == nil {
		return
	}
	if err := w.deps.Filter.Update(w.ctx, cfg.Filtering.Enabled, cfg.Filtering.Patterns); err != nil {
		logging.FromContext(w.ctx).Warn().Err(err).Msg("failed to apply filtering config")
	}
}

// prepareSharedPartition installs filtering and permissions for tabs that
// are not private.
func (w *Window) prepareSharedPartition(ctx context.Context) {
	log := logging.FromContext(ctx)
	if w.deps.Filter != nil {
		if err := w.deps.Filter.Register(ctx, ""); err != nil {
			log.Warn().Err(err).Msg("failed to register content filtering")
		}
	}
	if err := w.deps.Host.ApplyPermissions(ctx, "", w.deps.PermissionUC.Arbitrate); err != nil {
		log.Warn().Err(err).Msg("failed to apply permission policy")
	}
}

// openInitialTab runs on the main loop.
func (w *Window) openInitialTab(ctx context.Context) {
	log := logging.FromContext(ctx)
	if _, err := w.tabs.NewTab(ctx, w.deps.InitialURL, w.deps.Private); err != nil {
		log.Error().Err(err).Msg("failed to open initial tab")
	}
}

// Run drives the window until the user quits or the parent context ends.
func (w *Window) Run() error {
	ctx := w.ctx
	log := logging.FromContext(ctx)

	w.running.Store(true)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.loop.Run(gctx) })
	g.Go(func() error { return w.deps.HistoryUC.Run(gctx) })
	g.Go(func() error { return w.deps.Pages.Serve(gctx) })
	g.Go(func() error {
		defer w.Quit()
		return w.strip.Run(gctx, w.deps.StripIn, w.deps.StripOut)
	})

	w.prepareSharedPartition(ctx)
	if err := w.loop.Call(ctx, func() { w.openInitialTab(ctx) }); err != nil {
		log.Warn().Err(err).Msg("window stopped before the first tab opened")
	}

	err := g.Wait()
	w.running.Store(false)
	w.shutdown()

	if errors.Is(context.Cause(ctx), errQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Msg("window closed")
	return err
}

// shutdown releases views and timers once the loop has stopped.
func (w *Window) shutdown() {
	ctx := context.WithoutCancel(w.ctx)
	w.expanded.Close()
	w.tabs.Close()
	w.views.DestroyAll(ctx)
}

// Snapshot returns the tabs as JSON, in strip order.
func (w *Window) Snapshot() ([]byte, error) {
	if !w.running.Load() {
		return json.Marshal(w.store)
	}
	var (
		data []byte
		err  error
	)
	if callErr := w.loop.Call(w.ctx, func() { data, err = json.Marshal(w.store) }); callErr != nil {
		return nil, fmt.Errorf("snapshot tabs: %w", callErr)
	}
	return data, err
}
