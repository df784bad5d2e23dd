package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// View is one browser target bound to a tab.
type View struct {
	tabID     entity.TabID
	partition string
	targetID  target.ID
	sink      port.EventSink

	ctx    context.Context
	cancel context.CancelFunc
	// closeTarget closes the browser target on Destroy.
	closeTarget func(ctx context.Context) error

	attached   atomic.Bool
	crashed    atomic.Bool
	stopListen context.CancelFunc
	intercept  atomic.Pointer[func(url string) bool]

	mu       sync.Mutex
	url      string
	title    string
	visible  bool
	requests map[network.RequestID]string
}

var _ port.ContentView = (*View)(nil)

func newView(spec port.ViewSpec, targetID target.ID, sink port.EventSink) *View {
	return &View{
		tabID:     spec.TabID,
		partition: spec.Partition,
		targetID:  targetID,
		sink:      sink,
		url:       spec.URL,
		requests:  make(map[network.RequestID]string),
	}
}

func (v *View) TabID() entity.TabID { return v.tabID }

func (v *View) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url
}

func (v *View) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// run executes actions on the view's target, cancelled with either ctx or
// the view itself.
func (v *View) run(ctx context.Context, actions ...chromedp.Action) error {
	if v.ctx == nil {
		return fmt.Errorf("view for tab %s has no target", v.tabID)
	}
	runCtx, cancel := context.WithCancel(v.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// LoadURL starts navigating to url without waiting for the load to finish.
func (v *View) LoadURL(ctx context.Context, url string) error {
	v.mu.Lock()
	v.url = url
	v.mu.Unlock()

	err := v.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var result json.RawMessage
		return chromedp.FromContext(ctx).Target.Execute(ctx, page.CommandNavigate, map[string]any{"url": url}, &result)
	}))
	if err != nil {
		return fmt.Errorf("navigate tab %s: %w", v.tabID, err)
	}
	return nil
}

func (v *View) Show(ctx context.Context) error {
	v.mu.Lock()
	v.visible = true
	v.mu.Unlock()

	if err := v.run(ctx, page.BringToFront()); err != nil {
		return fmt.Errorf("show tab %s: %w", v.tabID, err)
	}
	return nil
}

// Hide only marks the view hidden; the target keeps loading in the background.
func (v *View) Hide(_ context.Context) error {
	v.mu.Lock()
	v.visible = false
	v.mu.Unlock()
	return nil
}

func (v *View) Focus(ctx context.Context) error {
	if err := v.run(ctx, page.BringToFront(), chromedp.Evaluate("window.focus()", nil)); err != nil {
		return fmt.Errorf("focus tab %s: %w", v.tabID, err)
	}
	return nil
}

// Send dispatches a tabshell-message DOM event carrying channel and args.
func (v *View) Send(ctx context.Context, channel string, args ...any) error {
	script, err := messageScript(channel, args)
	if err != nil {
		return err
	}
	if err := v.run(ctx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("send %s to tab %s: %w", channel, v.tabID, err)
	}
	return nil
}

// SetFullscreen changes the state of the browser window holding the target.
func (v *View) SetFullscreen(ctx context.Context, fullscreen bool) error {
	state := "normal"
	if fullscreen {
		state = "fullscreen"
	}
	err := v.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		browser := chromedp.FromContext(ctx).Browser
		var window struct {
			WindowID int64 `json:"windowId"`
		}
		if err := browser.Execute(ctx, "Browser.getWindowForTarget", map[string]any{"targetId": v.targetID}, &window); err != nil {
			return err
		}
		return browser.Execute(ctx, "Browser.setWindowBounds", map[string]any{
			"windowId": window.WindowID,
			"bounds":   map[string]any{"windowState": state},
		}, nil)
	}))
	if err != nil {
		return fmt.Errorf("set fullscreen=%t for tab %s: %w", fullscreen, v.tabID, err)
	}
	return nil
}

// Destroy closes the target. It is safe to call more than once.
func (v *View) Destroy(ctx context.Context) error {
	v.detach()
	var err error
	if v.closeTarget != nil {
		err = v.closeTarget(ctx)
		v.closeTarget = nil
	}
	if v.cancel != nil {
		v.cancel()
	}
	if err != nil {
		return fmt.Errorf("close target of tab %s: %w", v.tabID, err)
	}
	return nil
}

// attach starts event delivery and loads the initial URL.
func (v *View) attach(ctx context.Context, preload string, intercept func(string) bool) error {
	listenCtx, stop := context.WithCancel(v.ctx)
	v.stopListen = stop
	if intercept != nil {
		v.intercept.Store(&intercept)
	}
	v.attached.Store(true)
	chromedp.ListenTarget(listenCtx, v.onTargetEvent)

	actions := []chromedp.Action{
		network.Enable(),
		runtime.AddBinding(bindingName),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(preload).Do(ctx)
			return err
		}),
	}
	if intercept != nil {
		actions = append(actions, fetch.Enable())
	}
	if err := v.run(ctx, actions...); err != nil {
		v.detach()
		return fmt.Errorf("prepare target of tab %s: %w", v.tabID, err)
	}
	return v.LoadURL(ctx, v.URL())
}

// enableInterception turns on request interception for an attached view.
func (v *View) enableInterception(ctx context.Context, intercept func(string) bool) error {
	v.intercept.Store(&intercept)
	return v.run(ctx, fetch.Enable())
}

func (v *View) detach() {
	v.attached.Store(false)
	if v.stopListen != nil {
		v.stopListen()
		v.stopListen = nil
	}
}

func (v *View) emit(ev port.ViewEvent) {
	if !v.attached.Load() || v.crashed.Load() {
		return
	}
	v.sink(ev)
}

// onTargetEvent runs on the CDP reader goroutine and must not block.
func (v *View) onTargetEvent(ev any) {
	switch e := ev.(type) {
	case *page.EventFrameNavigated:
		if e.Frame == nil || e.Frame.ParentID != "" {
			return
		}
		v.mu.Lock()
		v.url = e.Frame.URL + e.Frame.URLFragment
		v.mu.Unlock()

	case *page.EventNavigatedWithinDocument:
		v.mu.Lock()
		v.url = e.URL
		v.mu.Unlock()

	case *page.EventLoadEventFired:
		v.emit(port.ViewEvent{Kind: port.EventNavigationFinished, URL: v.URL()})

	case *page.EventWindowOpen:
		v.emit(port.ViewEvent{
			Kind:        port.EventNewWindow,
			URL:         e.URL,
			Disposition: windowOpenDisposition(e.WindowFeatures),
		})

	case *network.EventRequestWillBeSent:
		if e.Type != network.ResourceTypeDocument || e.Request == nil {
			return
		}
		v.mu.Lock()
		v.requests[e.RequestID] = e.Request.URL
		v.mu.Unlock()

	case *network.EventLoadingFinished:
		v.mu.Lock()
		delete(v.requests, e.RequestID)
		v.mu.Unlock()

	case *network.EventLoadingFailed:
		v.mu.Lock()
		failed, ok := v.requests[e.RequestID]
		delete(v.requests, e.RequestID)
		v.mu.Unlock()
		if !ok {
			return
		}
		v.emit(port.ViewEvent{Kind: port.EventLoadFailed, ErrorCode: loadFailureCode(e), ValidatedURL: failed})

	case *runtime.EventBindingCalled:
		if e.Name != bindingName {
			return
		}
		decoded, err := decodeBinding(e.Payload)
		if err != nil {
			return
		}
		v.emit(decoded)

	case *inspector.EventTargetCrashed:
		v.onCrashed()

	case *fetch.EventRequestPaused:
		go v.resolvePaused(e)
	}
}

// onTitle is called by the host when the target's title changes.
func (v *View) onTitle(title string) {
	v.mu.Lock()
	changed := title != v.title
	v.title = title
	v.mu.Unlock()
	if changed {
		v.emit(port.ViewEvent{Kind: port.EventTitleChanged, Title: title})
	}
}

func (v *View) onCrashed() {
	if !v.attached.Load() {
		return
	}
	// A crashed target reports once; the tab gets a fresh view.
	if v.crashed.Swap(true) {
		return
	}
	v.sink(port.ViewEvent{Kind: port.EventCrashed})
}

func (v *View) resolvePaused(ev *fetch.EventRequestPaused) {
	url := ""
	if ev.Request != nil {
		url = ev.Request.URL
	}

	action := chromedp.Action(fetch.ContinueRequest(ev.RequestID))
	if block := v.intercept.Load(); block != nil && (*block)(url) {
		action = fetch.FailRequest(ev.RequestID, network.ErrorReasonBlockedByClient)
	}
	if err := chromedp.Run(v.ctx, action); err != nil && v.attached.Load() {
		logging.FromContext(v.ctx).Debug().Err(err).Str("tab_id", string(v.tabID)).Msg("failed to resolve paused request")
	}
}
