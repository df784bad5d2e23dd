package component

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

const maxTitleWidth = 24

type refreshMsg struct{}

// zone is the screen area of one tab, half-open on both axes.
type zone struct {
	id             entity.TabID
	x0, x1, y0, y1 int
}

func (z zone) contains(x, y int) bool {
	return x >= z.x0 && x < z.x1 && y >= z.y0 && y < z.y1
}

type stripModel struct {
	strip  *TabStrip
	keys   stripKeyMap
	styles stripStyles
	input  textinput.Model
	// editing is the tab the input was last seeded for.
	editing entity.TabID
	// pressed is the tab under the last left button press.
	pressed entity.TabID
	width   int
	height  int
}

func newStripModel(s *TabStrip) stripModel {
	input := textinput.New()
	input.Prompt = ""
	return stripModel{
		strip:  s,
		keys:   defaultStripKeyMap(),
		styles: newStripStyles(s.theme),
		input:  input,
		width:  80,
		height: 24,
	}
}

func (m stripModel) waitForChange() tea.Msg {
	<-m.strip.dirty
	return refreshMsg{}
}

// Init implements tea.Model.
func (m stripModel) Init() tea.Cmd {
	return m.waitForChange
}

// Update implements tea.Model.
func (m stripModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case refreshMsg:
		m = m.syncEditing()
		return m, m.waitForChange

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// syncEditing seeds the input when the strip enters edit mode for a tab.
func (m stripModel) syncEditing() stripModel {
	snap := m.strip.snapshot()
	if snap.editing == m.editing {
		return m
	}
	m.editing = snap.editing
	if m.editing == "" {
		m.input.Blur()
		return m
	}
	for _, t := range snap.tabs {
		if t.tab.ID == m.editing {
			value := t.tab.URL
			if value == entity.BlankURL {
				value = ""
			}
			m.input.SetValue(value)
			m.input.CursorEnd()
			break
		}
	}
	m.input.Focus()
	return m
}

func (m stripModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.strip

	if m.editing != "" {
		id := m.editing
		switch {
		case key.Matches(msg, m.keys.Submit):
			input := m.input.Value()
			s.dispatch(func(h port.StripHandlers) {
				if h.OnNavigate != nil {
					h.OnNavigate(id, input)
				}
			})
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			s.post(s.LeaveEditMode)
			return m, nil
		case key.Matches(msg, m.keys.Quit):
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	snap := s.snapshot()
	switch {
	case key.Matches(msg, m.keys.Quit):
		s.dispatch(func(h port.StripHandlers) {
			if h.OnQuit != nil {
				h.OnQuit()
			}
		})
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewTab):
		s.dispatch(func(h port.StripHandlers) {
			if h.OnNewTab != nil {
				h.OnNewTab()
			}
		})
	case key.Matches(msg, m.keys.CloseTab):
		if snap.selected != "" {
			id := snap.selected
			s.dispatch(func(h port.StripHandlers) {
				if h.OnClose != nil {
					h.OnClose(id)
				}
			})
		}
	case key.Matches(msg, m.keys.Edit):
		if snap.selected != "" {
			s.post(func() { s.EnterEditMode(snap.selected) })
		}
	case key.Matches(msg, m.keys.Next):
		m.clickNeighbour(snap, 1)
	case key.Matches(msg, m.keys.Previous):
		m.clickNeighbour(snap, -1)
	case key.Matches(msg, m.keys.Expand):
		m.scroll(port.ScrollEvent{DeltaY: -wheelStep})
	}
	return m, nil
}

func (m stripModel) clickNeighbour(snap snapshot, delta int) {
	if len(snap.tabs) < 2 {
		return
	}
	i := slices.IndexFunc(snap.tabs, func(t stripTab) bool { return t.tab.ID == snap.selected })
	if i < 0 {
		return
	}
	n := len(snap.tabs)
	id := snap.tabs[((i+delta)%n+n)%n].tab.ID
	m.click(id)
}

func (m stripModel) click(id entity.TabID) {
	m.strip.dispatch(func(h port.StripHandlers) {
		if h.OnClick != nil {
			h.OnClick(id)
		}
	})
}

func (m stripModel) scroll(ev port.ScrollEvent) {
	m.strip.dispatch(func(h port.StripHandlers) {
		if h.OnScroll != nil {
			h.OnScroll(ev)
		}
	})
}

func (m stripModel) handleMouse(msg tea.MouseMsg) stripModel {
	s := m.strip
	snap := s.snapshot()
	_, zones := m.layout(snap)
	over := tabAt(zones, msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(port.ScrollEvent{DeltaY: -wheelStep})
		return m
	case tea.MouseButtonWheelDown:
		m.scroll(port.ScrollEvent{DeltaY: wheelStep})
		return m
	case tea.MouseButtonWheelLeft:
		m.scroll(port.ScrollEvent{DeltaX: -wheelStep})
		return m
	case tea.MouseButtonWheelRight:
		m.scroll(port.ScrollEvent{DeltaX: wheelStep})
		return m
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if s.setHovered(over) && over != "" {
			s.dispatch(func(h port.StripHandlers) {
				if h.OnHover != nil {
					h.OnHover(over)
				}
			})
		}

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.pressed = over
		case tea.MouseButtonMiddle:
			if over != "" {
				s.dispatch(func(h port.StripHandlers) {
					if h.OnClose != nil {
						h.OnClose(over)
					}
				})
			}
		}

	case tea.MouseActionRelease:
		pressed := m.pressed
		m.pressed = ""
		switch {
		case pressed == "" || over == "":
		case pressed == over:
			m.click(over)
		case snap.drag:
			order := reorder(snap.tabs, pressed, over)
			s.dispatch(func(h port.StripHandlers) {
				if h.OnDrop != nil {
					h.OnDrop(order)
				}
			})
		}
	}
	return m
}

// reorder moves dragged onto target's slot and returns the new order.
func reorder(tabs []stripTab, dragged, target entity.TabID) []entity.TabID {
	order := make([]entity.TabID, 0, len(tabs))
	for _, t := range tabs {
		order = append(order, t.tab.ID)
	}
	from := slices.Index(order, dragged)
	to := slices.Index(order, target)
	if from < 0 || to < 0 {
		return order
	}
	order = slices.Delete(order, from, from+1)
	return slices.Insert(order, to, dragged)
}

func tabAt(zones []zone, x, y int) entity.TabID {
	for _, z := range zones {
		if z.contains(x, y) {
			return z.id
		}
	}
	return ""
}

// View implements tea.Model.
func (m stripModel) View() string {
	view, _ := m.layout(m.strip.snapshot())
	return view
}

// layout renders snap and reports where each tab landed.
func (m stripModel) layout(snap snapshot) (string, []zone) {
	if snap.expanded {
		return m.layoutExpanded(snap)
	}
	return m.layoutRow(snap)
}

func (m stripModel) tabStyle(snap snapshot, t stripTab) lipgloss.Style {
	style := m.styles.tab
	switch {
	case t.tab.ID == snap.selected:
		style = m.styles.selected
		if t.tab.BackgroundColor != "" && t.tab.ForegroundColor != "" {
			style = style.Background(lipgloss.Color(t.tab.BackgroundColor)).Foreground(lipgloss.Color(t.tab.ForegroundColor))
		}
	case t.tab.ID == snap.hovered:
		style = m.styles.hovered
	}
	if t.tab.Private {
		style = style.Italic(true)
	}
	return style
}

func (m stripModel) label(t stripTab) string {
	title := truncate(t.tab.DisplayTitle(), maxTitleWidth)
	if t.tab.Private {
		title = "◐ " + title
	}
	return title
}

func (m stripModel) layoutRow(snap snapshot) (string, []zone) {
	var b strings.Builder
	zones := make([]zone, 0, len(snap.tabs))
	sep := m.styles.sep.Render("│")
	x := 0
	for i, t := range snap.tabs {
		if i > 0 {
			b.WriteString(sep)
			x += lipgloss.Width(sep)
		}
		var cell string
		if t.tab.ID == snap.editing && t.tab.ID == m.editing {
			cell = m.styles.selected.Render(m.input.View())
		} else {
			cell = m.tabStyle(snap, t).Render(m.label(t))
		}
		w := lipgloss.Width(cell)
		zones = append(zones, zone{id: t.tab.ID, x0: x, x1: x + w, y0: 0, y1: 1})
		b.WriteString(cell)
		x += w
	}
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String(), zones
}

func (m stripModel) layoutExpanded(snap snapshot) (string, []zone) {
	lines := []string{m.styles.header.Render("Tabs")}
	zones := make([]zone, 0, len(snap.tabs))
	for _, t := range snap.tabs {
		y := len(lines)
		lines = append(lines,
			m.tabStyle(snap, t).Render(m.label(t)),
			m.styles.subtitle.Render(truncate(t.subtitle, max(m.width-2, 1))),
		)
		zones = append(zones, zone{id: t.tab.ID, x0: 0, x1: max(m.width, 1), y0: y, y1: y + 2})
	}
	lines = append(lines, m.helpLine())
	return strings.Join(lines, "\n"), zones
}

func (m stripModel) helpLine() string {
	parts := make([]string, 0, len(m.keys.shortHelp()))
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " · "))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
