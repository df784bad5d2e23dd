package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// AddTabOptions controls how a freshly added tab is shown.
type AddTabOptions struct {
	// OpenInBackground keeps the current selection.
	OpenInBackground bool
	// EnterEditMode puts the new tab's address field in edit mode.
	EnterEditMode bool
}

// historyForgetter is implemented by history recorders keeping per-tab state.
type historyForgetter interface {
	Forget(id entity.TabID)
}

// TabCoordinator implements the shell flows that touch the store, the views
// and the tab strip together. It is only used from the main loop.
type TabCoordinator struct {
	store   *entity.TabStore
	views   *ViewManager
	strip   port.TabStrip
	parser  port.URLParser
	history port.HistoryRecorder
	homeURL string
	now     func() time.Time

	rerender *mainloop.Coalescer[entity.TabID]
}

// TabCoordinatorConfig holds configuration for TabCoordinator.
type TabCoordinatorConfig struct {
	Store   *entity.TabStore
	Views   *ViewManager
	Strip   port.TabStrip
	Parser  port.URLParser
	History port.HistoryRecorder
	Loop    Poster
	// HomeURL is loaded by tabs opened without a URL.
	HomeURL string
}

// NewTabCoordinator creates a TabCoordinator and wires it into the view manager.
func NewTabCoordinator(ctx context.Context, cfg TabCoordinatorConfig) *TabCoordinator {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating tab coordinator")

	c := &TabCoordinator{
		store:    cfg.Store,
		views:    cfg.Views,
		strip:    cfg.Strip,
		parser:   cfg.Parser,
		history:  cfg.History,
		homeURL:  cfg.HomeURL,
		now:      time.Now,
		rerender: mainloop.NewCoalescer[entity.TabID](cfg.Loop.Post),
	}
	if c.homeURL == "" {
		c.homeURL = entity.BlankURL
	}
	cfg.Views.SetTabCoordinator(c)
	return c
}

// NewTab appends a tab for url (the home page when empty), then adds and
// selects it. Blank tabs start in edit mode.
func (c *TabCoordinator) NewTab(ctx context.Context, url string, private bool) (entity.TabID, error) {
	editMode := url == ""
	if url == "" {
		url = c.homeURL
	}
	id, err := c.store.Add(entity.NewTab{URL: c.parser.Parse(url), Private: private})
	if err != nil {
		return "", err
	}
	return id, c.AddTab(ctx, id, AddTabOptions{EnterEditMode: editMode})
}

// AddTab shows a tab already present in the store: it gets a strip entry
// and a content view, and is selected unless opened in background.
func (c *TabCoordinator) AddTab(ctx context.Context, id entity.TabID, opts AddTabOptions) error {
	log := logging.FromContext(ctx)

	tab, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("add tab %s: %w", id, entity.ErrTabNotFound)
	}
	c.strip.AddTab(tab, c.store.Index(id))

	if _, err := c.views.CreateView(ctx, id); err != nil {
		return err
	}
	if !opts.OpenInBackground {
		if err := c.SwitchToTab(ctx, id); err != nil {
			return err
		}
	}
	if opts.EnterEditMode {
		c.strip.EnterEditMode(id)
	}

	log.Debug().Str("tab_id", string(id)).Bool("background", opts.OpenInBackground).Msg("tab added")
	return nil
}

// SwitchToTab selects id and shows its view.
func (c *TabCoordinator) SwitchToTab(ctx context.Context, id entity.TabID) error {
	if err := c.store.SetSelected(id); err != nil {
		return err
	}
	if err := c.store.Update(id, entity.TabPatch{LastActivity: entity.Some(c.now())}); err != nil {
		return err
	}
	c.strip.SetSelected(id)
	return c.views.ActivateView(ctx, id)
}

// SwitchNext selects the tab after the selected one, wrapping around.
func (c *TabCoordinator) SwitchNext(ctx context.Context) error {
	return c.switchRelative(ctx, 1)
}

// SwitchPrevious selects the tab before the selected one, wrapping around.
func (c *TabCoordinator) SwitchPrevious(ctx context.Context) error {
	return c.switchRelative(ctx, -1)
}

func (c *TabCoordinator) switchRelative(ctx context.Context, dir int) error {
	id, ok := c.store.Next(dir)
	if !ok {
		return nil
	}
	return c.SwitchToTab(ctx, id)
}

// DestroyTab removes the tab from the strip, the store and the view manager.
// The selection is not changed.
func (c *TabCoordinator) DestroyTab(ctx context.Context, id entity.TabID) {
	c.strip.RemoveTab(id)
	c.store.Remove(id)
	c.views.DestroyView(ctx, id)
	c.rerender.Forget(id)
	if f, ok := c.history.(historyForgetter); ok {
		f.Forget(id)
	}
}

// CloseTab destroys id. When it was selected, the neighbour before it (or
// after it) is selected instead; closing the last tab opens a new one.
func (c *TabCoordinator) CloseTab(ctx context.Context, id entity.TabID) {
	log := logging.FromContext(ctx)

	wasSelected := c.store.Selected() == id
	index := c.store.Index(id)
	next, hasNext := c.store.AtIndex(index - 1)
	if !hasNext {
		next, hasNext = c.store.AtIndex(index + 1)
	}

	c.DestroyTab(ctx, id)
	if !wasSelected {
		return
	}

	if hasNext {
		if err := c.SwitchToTab(ctx, next.ID); err != nil {
			log.Error().Err(err).Str("tab_id", string(next.ID)).Msg("failed to switch after close")
		}
		return
	}
	if _, err := c.NewTab(ctx, "", false); err != nil {
		log.Error().Err(err).Msg("failed to open replacement tab")
	}
}

// Navigate points tab id at input, parsed into a URL.
func (c *TabCoordinator) Navigate(ctx context.Context, id entity.TabID, input string) error {
	url := c.parser.Parse(input)
	if err := c.store.Update(id, entity.TabPatch{URL: entity.Some(url)}); err != nil {
		return err
	}
	c.Rerender(id)

	if _, ok := c.views.GetView(id); !ok {
		_, err := c.views.CreateView(ctx, id)
		return err
	}
	return c.views.UpdateView(ctx, id, url)
}

// Close drops pending re-renders. Later calls to Rerender are ignored.
func (c *TabCoordinator) Close() {
	c.rerender.Destroy()
}

// Rerender schedules a strip refresh of the tab. Bursts are merged.
func (c *TabCoordinator) Rerender(id entity.TabID) {
	c.rerender.Post(id, func() {
		if tab, ok := c.store.Get(id); ok {
			c.strip.Rerender(tab)
		}
	})
}
