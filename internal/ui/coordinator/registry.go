package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/logging"
)

// EventHandler observes a content view event.
type EventHandler func(ctx context.Context, view port.ContentView, ev port.ViewEvent) error

// IPCHandler handles a message a page sent on a channel.
type IPCHandler func(ctx context.Context, view port.ContentView, args []json.RawMessage) error

// Registry lets shell features observe content views without changing the
// view manager. Handlers run on the main loop in registration order, before
// the built-in handling of the same event. A handler that fails or panics
// is logged and the next one still runs.
type Registry struct {
	events map[port.ViewEventKind][]EventHandler
	ipc    map[string][]IPCHandler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		events: make(map[port.ViewEventKind][]EventHandler),
		ipc:    make(map[string][]IPCHandler),
	}
}

// BindEvent registers fn for every view event of the given kind.
func (r *Registry) BindEvent(kind port.ViewEventKind, fn EventHandler) {
	if fn == nil {
		return
	}
	r.events[kind] = append(r.events[kind], fn)
}

// BindIPC registers fn for messages on channel.
func (r *Registry) BindIPC(channel string, fn IPCHandler) {
	if fn == nil || channel == "" {
		return
	}
	r.ipc[channel] = append(r.ipc[channel], fn)
}

func (r *Registry) dispatchEvent(ctx context.Context, view port.ContentView, ev port.ViewEvent) {
	for i, fn := range r.events[ev.Kind] {
		r.invoke(ctx, fmt.Sprintf("event %s handler %d", ev.Kind, i), func() error {
			return fn(ctx, view, ev)
		})
	}
}

func (r *Registry) dispatchIPC(ctx context.Context, view port.ContentView, channel string, args []json.RawMessage) {
	for i, fn := range r.ipc[channel] {
		r.invoke(ctx, fmt.Sprintf("ipc %s handler %d", channel, i), func() error {
			return fn(ctx, view, args)
		})
	}
}

func (*Registry) invoke(ctx context.Context, name string, fn func() error) {
	log := logging.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("handler", name).Str("panic", fmt.Sprint(r)).Msg("view handler panicked")
		}
	}()
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("handler", name).Msg("view handler failed")
	}
}
