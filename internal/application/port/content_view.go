// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns (the Chromium host, the terminal tab
// strip, persistence) so the coordinators can be driven by fakes in tests.
package port

import (
	"context"
	"encoding/json"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/neterr"
)

// ViewEventKind names a content view event.
type ViewEventKind string

const (
	EventFaviconUpdated     ViewEventKind = "favicon-updated"
	EventTitleChanged       ViewEventKind = "title-changed"
	EventNavigationFinished ViewEventKind = "navigation-finished"
	EventNewWindow          ViewEventKind = "new-window"
	EventCloseRequested     ViewEventKind = "close"
	EventIPCMessage         ViewEventKind = "ipc-message"
	EventCrashed            ViewEventKind = "crashed"
	EventLoadFailed         ViewEventKind = "load-failed"
	EventEnterFullscreen    ViewEventKind = "enter-fullscreen"
	EventLeaveFullscreen    ViewEventKind = "leave-fullscreen"
)

// AllViewEvents lists every kind a host can deliver.
var AllViewEvents = []ViewEventKind{
	EventFaviconUpdated,
	EventTitleChanged,
	EventNavigationFinished,
	EventNewWindow,
	EventCloseRequested,
	EventIPCMessage,
	EventCrashed,
	EventLoadFailed,
	EventEnterFullscreen,
	EventLeaveFullscreen,
}

// WindowDisposition tells where a page asked a new window to open.
type WindowDisposition string

const (
	DispositionForegroundTab WindowDisposition = "foreground-tab"
	DispositionBackgroundTab WindowDisposition = "background-tab"
	DispositionNewWindow     WindowDisposition = "new-window"
)

// ErrorCodeAborted is the load failure code of a navigation cancelled by the
// user or superseded by another one.
const ErrorCodeAborted = neterr.Aborted

// ViewEvent is a single event raised by a content view. Only the fields of
// the event's kind are populated.
type ViewEvent struct {
	Kind ViewEventKind

	// URL is the committed URL for EventNavigationFinished and the target
	// for EventNewWindow.
	URL string
	// Title is set for EventTitleChanged.
	Title string
	// Favicons lists candidate icon URLs for EventFaviconUpdated.
	Favicons []string
	// Disposition is set for EventNewWindow.
	Disposition WindowDisposition

	// Channel and Args carry an EventIPCMessage.
	Channel string
	Args    []json.RawMessage

	// ErrorCode and ValidatedURL describe an EventLoadFailed.
	ErrorCode    int
	ValidatedURL string
}

// EventSink receives the events of one view in delivery order.
type EventSink func(ViewEvent)

// ViewSpec describes a content view to create.
type ViewSpec struct {
	TabID entity.TabID
	URL   string
	// Partition isolates storage when non-empty.
	Partition string
}

// ContentView is an embedded web content surface bound to one tab.
type ContentView interface {
	TabID() entity.TabID
	// URL returns the current top-level URL.
	URL() string
	LoadURL(ctx context.Context, url string) error
	Show(ctx context.Context) error
	Hide(ctx context.Context) error
	Visible() bool
	Focus(ctx context.Context) error
	// Send posts a message to the page on the given channel.
	Send(ctx context.Context, channel string, args ...any) error
	SetFullscreen(ctx context.Context, fullscreen bool) error
	Destroy(ctx context.Context) error
}

// PermissionCallback provides allow/deny functions for a permission request.
// Exactly one of them must be called.
type PermissionCallback struct {
	Allow func()
	Deny  func()
}

// PermissionPolicy decides a capability request.
type PermissionPolicy func(ctx context.Context, perm entity.PermissionType, callback PermissionCallback)

// ViewHost creates content views and owns the container they are shown in.
// Views start hidden. A view must be attached before it delivers events and
// detached before it is destroyed.
type ViewHost interface {
	Create(ctx context.Context, spec ViewSpec, sink EventSink) (ContentView, error)
	Attach(ctx context.Context, view ContentView) error
	Detach(ctx context.Context, view ContentView) error
	// ApplyPermissions installs policy for a partition; "" is the shared one.
	ApplyPermissions(ctx context.Context, partition string, policy PermissionPolicy) error
}
