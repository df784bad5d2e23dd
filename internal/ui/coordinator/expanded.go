package coordinator

import (
	"context"
	"time"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/input"
)

// Mode is the presentation mode of the tab strip.
type Mode int

const (
	// ModeNormal shows one tab row; tabs cannot be dragged.
	ModeNormal Mode = iota
	// ModeExpanded shows every tab with its address and allows reordering.
	ModeExpanded
)

func (m Mode) String() string {
	if m == ModeExpanded {
		return "expanded"
	}
	return "normal"
}

// ExpandedModeConfig holds configuration for ExpandedMode.
type ExpandedModeConfig struct {
	Store  *entity.TabStore
	Tabs   *TabCoordinator
	Views  *ViewManager
	Strip  port.TabStrip
	Parser port.URLParser
	Loop   Poster
	// HoverDelay is the dwell time before hovering a tab selects it.
	HoverDelay time.Duration
	Swipe      input.SwipeDetector
}

// ExpandedMode switches the tab strip between its compact and expanded
// presentations. In expanded mode, hovering a tab previews it and clicking
// one goes back to the page. It is only used from the main loop.
type ExpandedMode struct {
	store  *entity.TabStore
	tabs   *TabCoordinator
	views  *ViewManager
	strip  port.TabStrip
	parser port.URLParser
	loop   Poster
	swipe  input.SwipeDetector
	hover  *input.HoverIntent

	mode Mode
}

// NewExpandedMode creates the controller in normal mode.
func NewExpandedMode(ctx context.Context, cfg ExpandedModeConfig) *ExpandedMode {
	e := &ExpandedMode{
		store:  cfg.Store,
		tabs:   cfg.Tabs,
		views:  cfg.Views,
		strip:  cfg.Strip,
		parser: cfg.Parser,
		loop:   cfg.Loop,
		swipe:  cfg.Swipe,
	}
	if e.swipe == (input.SwipeDetector{}) {
		e.swipe = input.NewSwipeDetector(0, 0)
	}
	e.hover = input.NewHoverIntent(cfg.HoverDelay, cfg.Loop.Post, func(id entity.TabID) {
		e.onHoverIntent(ctx, id)
	})
	return e
}

// Mode returns the current mode.
func (e *ExpandedMode) Mode() Mode {
	return e.mode
}

// IsExpanded reports whether the strip is expanded.
func (e *ExpandedMode) IsExpanded() bool {
	return e.mode == ModeExpanded
}

// Enter expands the strip. Calling it while expanded does nothing.
func (e *ExpandedMode) Enter(ctx context.Context) {
	if e.mode == ModeExpanded {
		return
	}
	e.mode = ModeExpanded

	e.strip.SetDragEnabled(true)
	e.strip.LeaveEditMode()
	for _, tab := range e.store.All() {
		e.strip.SetSubtitle(tab.ID, e.parser.PrettyURL(tab.URL))
	}

	// The strip picks up the new subtitles before it changes layout.
	e.loop.Post(func() {
		if e.mode != ModeExpanded {
			return
		}
		e.strip.SetExpanded(true)
		e.strip.Focus()
	})

	logging.FromContext(ctx).Debug().Int("tabs", e.store.Count()).Msg("entered expanded mode")
}

// Leave collapses the strip. Calling it while not expanded does nothing.
func (e *ExpandedMode) Leave(ctx context.Context) {
	if e.mode != ModeExpanded {
		return
	}
	e.mode = ModeNormal

	e.hover.Cancel()
	e.strip.SetDragEnabled(false)
	e.strip.SetExpanded(false)

	logging.FromContext(ctx).Debug().Msg("left expanded mode")
}

// HandleScroll enters expanded mode on a swipe down (negative DeltaY). It
// reports whether the event was consumed.
func (e *ExpandedMode) HandleScroll(ctx context.Context, ev port.ScrollEvent) bool {
	if !e.swipe.IsExpandSwipe(ev) {
		return false
	}
	e.Enter(ctx)
	return true
}

// HandleTabClick selects the clicked tab. In expanded mode the strip then
// collapses and the page gets focus; in normal mode a click on the selected
// tab edits its address instead.
func (e *ExpandedMode) HandleTabClick(ctx context.Context, id entity.TabID) {
	log := logging.FromContext(ctx)

	if e.mode == ModeNormal && e.store.Selected() == id {
		e.strip.EnterEditMode(id)
		return
	}
	if err := e.tabs.SwitchToTab(ctx, id); err != nil {
		log.Warn().Err(err).Str("tab_id", string(id)).Msg("failed to switch tab")
	}
	if e.mode != ModeExpanded {
		return
	}

	e.Leave(ctx)
	if err := e.views.Focus(ctx, e.store.Selected()); err != nil {
		log.Debug().Err(err).Msg("failed to focus selected view")
	}
}

// HandleTabHover starts the hover intent for id in expanded mode.
func (e *ExpandedMode) HandleTabHover(ctx context.Context, id entity.TabID) {
	if e.mode != ModeExpanded {
		return
	}
	e.hover.Enter(id)
}

// HandleDrop applies the order the user dragged the tabs into.
func (e *ExpandedMode) HandleDrop(ctx context.Context, order []entity.TabID) {
	if e.mode != ModeExpanded {
		return
	}
	e.store.Reorder(order)
	logging.FromContext(ctx).Debug().Int("tabs", len(order)).Msg("tabs reordered")
}

func (e *ExpandedMode) onHoverIntent(ctx context.Context, id entity.TabID) {
	if e.mode != ModeExpanded || !e.strip.IsHovered(id) {
		return
	}
	if e.store.Selected() == id {
		return
	}
	if err := e.tabs.SwitchToTab(ctx, id); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("tab_id", string(id)).Msg("hover preview failed")
	}
}

// Close stops pending hover timers.
func (e *ExpandedMode) Close() {
	e.hover.Cancel()
}
