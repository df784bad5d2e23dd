package port

import "github.com/bnema/tabshell/internal/domain/entity"

// ScrollEvent is a wheel or touchpad scroll over the tab strip. Negative
// DeltaY scrolls up.
type ScrollEvent struct {
	DeltaX float64
	DeltaY float64
}

// StripHandlers receives user input from the tab strip. Handlers run on the
// window main loop.
type StripHandlers struct {
	OnScroll func(ev ScrollEvent) bool
	OnClick  func(id entity.TabID)
	OnHover  func(id entity.TabID)
	// OnDrop reports the on-screen order after a drag.
	OnDrop     func(order []entity.TabID)
	OnClose    func(id entity.TabID)
	OnNewTab   func()
	OnNavigate func(id entity.TabID, input string)
	OnQuit     func()
}

// TabStrip renders the tab strip. Implementations must be safe to call from
// the main loop only.
type TabStrip interface {
	SetHandlers(h StripHandlers)
	AddTab(tab entity.Tab, index int)
	RemoveTab(id entity.TabID)
	Rerender(tab entity.Tab)
	SetSelected(id entity.TabID)
	EnterEditMode(id entity.TabID)
	LeaveEditMode()
	SetDragEnabled(enabled bool)
	SetSubtitle(id entity.TabID, text string)
	SetExpanded(expanded bool)
	Focus()
	// IsHovered reports whether the pointer is currently over the tab.
	IsHovered(id entity.TabID) bool
}
