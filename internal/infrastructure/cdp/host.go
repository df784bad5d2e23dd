// Package cdp hosts content views as Chromium targets driven over the
// DevTools protocol. Each tab gets its own target; private tabs live in
// their own browser context.
package cdp

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	cdproto "github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

const closeTimeout = 5 * time.Second

//go:embed preload.js
var preloadScript string

// ErrForeignView is returned for views not created by this host.
var ErrForeignView = errors.New("view was not created by this host")

// Config controls the Chromium process.
type Config struct {
	// ExecPath overrides Chromium discovery.
	ExecPath    string
	Headless    bool
	UserDataDir string
}

// Host launches Chromium and creates one target per content view. It
// implements port.ViewHost and filtering.RequestInterceptor.
type Host struct {
	allocCtx      context.Context
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc

	mu           sync.Mutex
	contexts     map[string]cdproto.BrowserContextID
	interceptors map[string]func(url string) bool
	views        map[target.ID]*View
}

var _ port.ViewHost = (*Host)(nil)

// NewHost starts Chromium. Close releases it.
func NewHost(ctx context.Context, cfg Config) (*Host, error) {
	log := logging.FromContext(ctx)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("headless", cfg.Headless),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}

	h := &Host{
		contexts:     make(map[string]cdproto.BrowserContextID),
		interceptors: make(map[string]func(string) bool),
		views:        make(map[target.ID]*View),
	}
	h.allocCtx, h.cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)
	h.browserCtx, h.cancelBrowser = chromedp.NewContext(h.allocCtx)

	if err := chromedp.Run(h.browserCtx); err != nil {
		h.Close()
		return nil, fmt.Errorf("start chromium: %w", err)
	}

	chromedp.ListenBrowser(h.browserCtx, h.onBrowserEvent)
	if err := chromedp.Run(h.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return target.SetDiscoverTargets(true).Do(h.browserExecutor(ctx))
	})); err != nil {
		h.Close()
		return nil, fmt.Errorf("discover targets: %w", err)
	}

	log.Info().Bool("headless", cfg.Headless).Msg("chromium started")
	return h, nil
}

func (h *Host) browserExecutor(ctx context.Context) context.Context {
	return cdproto.WithExecutor(ctx, chromedp.FromContext(h.browserCtx).Browser)
}

// browserContext returns the browser context of partition, creating it on
// first use. The shared partition uses the default context.
func (h *Host) browserContext(ctx context.Context, partition string) (cdproto.BrowserContextID, error) {
	if partition == "" {
		return "", nil
	}

	h.mu.Lock()
	id, ok := h.contexts[partition]
	h.mu.Unlock()
	if ok {
		return id, nil
	}

	err := chromedp.Run(h.browserCtx, chromedp.ActionFunc(func(runCtx context.Context) error {
		var err error
		id, err = target.CreateBrowserContext().Do(h.browserExecutor(runCtx))
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("create browser context for %s: %w", partition, err)
	}

	h.mu.Lock()
	h.contexts[partition] = id
	h.mu.Unlock()
	logging.FromContext(ctx).Debug().Str("partition", partition).Str("browser_context", string(id)).Msg("browser context created")
	return id, nil
}

// Create opens a blank target for spec. Events flow after Attach.
func (h *Host) Create(ctx context.Context, spec port.ViewSpec, sink port.EventSink) (port.ContentView, error) {
	contextID, err := h.browserContext(ctx, spec.Partition)
	if err != nil {
		return nil, err
	}

	var targetID target.ID
	err = chromedp.Run(h.browserCtx, chromedp.ActionFunc(func(runCtx context.Context) error {
		create := target.CreateTarget(entity.BlankURL)
		if contextID != "" {
			create = create.WithBrowserContextID(contextID)
		}
		var err error
		targetID, err = create.Do(h.browserExecutor(runCtx))
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("create target for tab %s: %w", spec.TabID, err)
	}

	view := newView(spec, targetID, sink)
	view.ctx, view.cancel = chromedp.NewContext(h.browserCtx, chromedp.WithTargetID(targetID))
	view.closeTarget = func(ctx context.Context) error {
		closeCtx, cancel := context.WithTimeout(h.browserCtx, closeTimeout)
		defer cancel()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()
		h.forget(targetID)
		return target.CloseTarget(targetID).Do(h.browserExecutor(closeCtx))
	}

	if err := chromedp.Run(view.ctx); err != nil {
		_ = view.Destroy(ctx)
		return nil, fmt.Errorf("connect to target of tab %s: %w", spec.TabID, err)
	}

	h.mu.Lock()
	h.views[targetID] = view
	h.mu.Unlock()
	return view, nil
}

func (h *Host) asView(cv port.ContentView) (*View, error) {
	view, ok := cv.(*View)
	if !ok {
		return nil, ErrForeignView
	}
	return view, nil
}

// Attach starts event delivery and loads the view's URL.
func (h *Host) Attach(ctx context.Context, cv port.ContentView) error {
	view, err := h.asView(cv)
	if err != nil {
		return err
	}
	h.mu.Lock()
	intercept := h.interceptors[view.partition]
	h.mu.Unlock()
	return view.attach(ctx, preloadScript, intercept)
}

// Detach stops event delivery.
func (h *Host) Detach(_ context.Context, cv port.ContentView) error {
	view, err := h.asView(cv)
	if err != nil {
		return err
	}
	view.detach()
	return nil
}

func (h *Host) forget(id target.ID) {
	h.mu.Lock()
	delete(h.views, id)
	h.mu.Unlock()
}

func (h *Host) view(id target.ID) (*View, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	view, ok := h.views[id]
	return view, ok
}

// ApplyPermissions resolves policy for every known capability and grants the
// allowed ones to the partition's browser context.
func (h *Host) ApplyPermissions(ctx context.Context, partition string, policy port.PermissionPolicy) error {
	contextID, err := h.browserContext(ctx, partition)
	if err != nil {
		return err
	}
	granted := grantedPermissions(ctx, policy)

	err = chromedp.Run(h.browserCtx, chromedp.ActionFunc(func(runCtx context.Context) error {
		exec := h.browserExecutor(runCtx)
		reset := browser.ResetPermissions()
		grant := browser.GrantPermissions(granted)
		if contextID != "" {
			reset = reset.WithBrowserContextID(contextID)
			grant = grant.WithBrowserContextID(contextID)
		}
		if err := reset.Do(exec); err != nil {
			return err
		}
		if len(granted) == 0 {
			return nil
		}
		return grant.Do(exec)
	}))
	if err != nil {
		return fmt.Errorf("apply permissions to partition %q: %w", partition, err)
	}
	return nil
}

// InterceptRequests routes every request of partition through block.
// Views attached later pick it up in Attach.
func (h *Host) InterceptRequests(ctx context.Context, partition string, block func(url string) bool) error {
	h.mu.Lock()
	h.interceptors[partition] = block
	var attached []*View
	for _, view := range h.views {
		if view.partition == partition && view.attached.Load() {
			attached = append(attached, view)
		}
	}
	h.mu.Unlock()

	var errs []error
	for _, view := range attached {
		if err := view.enableInterception(ctx, block); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// onBrowserEvent routes browser-level target events to views.
func (h *Host) onBrowserEvent(ev any) {
	switch e := ev.(type) {
	case *target.EventTargetInfoChanged:
		if e.TargetInfo == nil {
			return
		}
		if view, ok := h.view(e.TargetInfo.TargetID); ok {
			view.onTitle(e.TargetInfo.Title)
		}

	case *target.EventTargetCrashed:
		if view, ok := h.view(e.TargetID); ok {
			view.onCrashed()
		}

	case *target.EventTargetCreated:
		info := e.TargetInfo
		if info == nil || info.Type != "page" || info.OpenerID == "" {
			return
		}
		// Pages opened by a view are turned into tabs through the opener's
		// window-open event, so the popup target itself goes away.
		if _, ok := h.view(info.OpenerID); ok {
			go func() {
				ctx, cancel := context.WithTimeout(h.browserCtx, closeTimeout)
				defer cancel()
				_ = target.CloseTarget(info.TargetID).Do(h.browserExecutor(ctx))
			}()
		}
	}
}

// Close disposes private browser contexts and stops Chromium.
func (h *Host) Close() {
	h.mu.Lock()
	contexts := make([]cdproto.BrowserContextID, 0, len(h.contexts))
	for _, id := range h.contexts {
		contexts = append(contexts, id)
	}
	h.contexts = make(map[string]cdproto.BrowserContextID)
	h.mu.Unlock()

	if h.browserCtx != nil && len(contexts) > 0 {
		ctx, cancel := context.WithTimeout(h.browserCtx, closeTimeout)
		for _, id := range contexts {
			_ = target.DisposeBrowserContext(id).Do(h.browserExecutor(ctx))
		}
		cancel()
	}
	if h.cancelBrowser != nil {
		h.cancelBrowser()
	}
	if h.cancelAlloc != nil {
		h.cancelAlloc()
	}
}
