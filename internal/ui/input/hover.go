package input

import (
	"sync"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// HoverIntentDelay is the default dwell time before a hover counts.
const HoverIntentDelay = 125 * time.Millisecond

// HoverCallback receives the tab the pointer dwelled on.
type HoverCallback func(id entity.TabID)

// HoverIntent debounces pointer hovers over tabs. Every Enter restarts the
// timer; only the last one fires. The callback is handed to post so it runs
// on the main loop.
type HoverIntent struct {
	delay    time.Duration
	post     func(func()) bool
	callback HoverCallback

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewHoverIntent creates a hover intent. A non-positive delay selects
// HoverIntentDelay.
func NewHoverIntent(delay time.Duration, post func(func()) bool, callback HoverCallback) *HoverIntent {
	if delay <= 0 {
		delay = HoverIntentDelay
	}
	return &HoverIntent{
		delay:    delay,
		post:     post,
		callback: callback,
	}
}

// Enter (re)starts the timer for id.
func (h *HoverIntent) Enter(id entity.TabID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen

	h.timer = time.AfterFunc(h.delay, func() {
		h.mu.Lock()
		stale := gen != h.gen
		h.mu.Unlock()
		if stale {
			return
		}
		h.post(func() { h.callback(id) })
	})
}

// Cancel abandons a pending hover.
func (h *HoverIntent) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
