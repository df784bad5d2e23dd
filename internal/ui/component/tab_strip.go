package component

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// wheelStep is the scroll delta reported for one wheel notch. It exceeds
// the default swipe threshold so one notch up expands the strip.
const wheelStep = 40

type stripTab struct {
	tab      entity.Tab
	subtitle string
}

// TabStrip is a terminal tab strip. Its port.TabStrip methods are called
// from the main loop; the bubbletea program reads the same state under mu
// and posts user input back to the loop.
type TabStrip struct {
	post  func(func()) bool
	theme Theme

	mu       sync.Mutex
	handlers port.StripHandlers
	tabs     []stripTab
	selected entity.TabID
	editing  entity.TabID
	hovered  entity.TabID
	drag     bool
	expanded bool
	focused  bool

	dirty chan struct{}
}

var _ port.TabStrip = (*TabStrip)(nil)

// NewTabStrip creates a strip whose handlers run through post.
func NewTabStrip(post func(func()) bool, theme Theme) *TabStrip {
	return &TabStrip{
		post:  post,
		theme: theme,
		dirty: make(chan struct{}, 1),
	}
}

// changed wakes the program without blocking the caller.
func (s *TabStrip) changed() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *TabStrip) indexLocked(id entity.TabID) int {
	return slices.IndexFunc(s.tabs, func(t stripTab) bool { return t.tab.ID == id })
}

func (s *TabStrip) SetHandlers(h port.StripHandlers) {
	s.mu.Lock()
	s.handlers = h
	s.mu.Unlock()
}

func (s *TabStrip) AddTab(tab entity.Tab, index int) {
	s.mu.Lock()
	if i := s.indexLocked(tab.ID); i >= 0 {
		s.tabs = slices.Delete(s.tabs, i, i+1)
	}
	index = max(0, min(index, len(s.tabs)))
	s.tabs = slices.Insert(s.tabs, index, stripTab{tab: tab.Clone()})
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) RemoveTab(id entity.TabID) {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.tabs = slices.Delete(s.tabs, i, i+1)
	}
	if s.hovered == id {
		s.hovered = ""
	}
	if s.editing == id {
		s.editing = ""
	}
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) Rerender(tab entity.Tab) {
	s.mu.Lock()
	if i := s.indexLocked(tab.ID); i >= 0 {
		s.tabs[i].tab = tab.Clone()
	}
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) SetSelected(id entity.TabID) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) EnterEditMode(id entity.TabID) {
	s.mu.Lock()
	s.editing = id
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) LeaveEditMode() {
	s.mu.Lock()
	s.editing = ""
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) SetDragEnabled(enabled bool) {
	s.mu.Lock()
	s.drag = enabled
	s.mu.Unlock()
}

func (s *TabStrip) SetSubtitle(id entity.TabID, text string) {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.tabs[i].subtitle = text
	}
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) SetExpanded(expanded bool) {
	s.mu.Lock()
	s.expanded = expanded
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) Focus() {
	s.mu.Lock()
	s.focused = true
	s.mu.Unlock()
	s.changed()
}

func (s *TabStrip) IsHovered(id entity.TabID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return id != "" && s.hovered == id
}

// snapshot is the state one frame is drawn from.
type snapshot struct {
	tabs     []stripTab
	selected entity.TabID
	editing  entity.TabID
	hovered  entity.TabID
	drag     bool
	expanded bool
	focused  bool
}

func (s *TabStrip) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		tabs:     slices.Clone(s.tabs),
		selected: s.selected,
		editing:  s.editing,
		hovered:  s.hovered,
		drag:     s.drag,
		expanded: s.expanded,
		focused:  s.focused,
	}
}

// setHovered records the tab under the pointer and reports whether it changed.
func (s *TabStrip) setHovered(id entity.TabID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hovered == id {
		return false
	}
	s.hovered = id
	return true
}

// dispatch runs fn with the current handlers on the main loop.
func (s *TabStrip) dispatch(fn func(h port.StripHandlers)) {
	s.mu.Lock()
	h := s.handlers
	s.mu.Unlock()
	s.post(func() { fn(h) })
}

// Run drives the terminal UI until ctx is done or the user quits.
func (s *TabStrip) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := logging.FromContext(ctx)

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	_, err := tea.NewProgram(newStripModel(s), opts...).Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil) {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("tab strip stopped")
	}
	return err
}
