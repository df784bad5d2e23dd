package coordinator

import (
	"context"
	"errors"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// Built-in IPC channels.
const (
	ChannelPageContent = "bookmarksData"
	ChannelPhishing    = "phishingDetected"
	// ChannelLoadFinish is sent to the page after every finished navigation.
	// The page needs no reply; receiving it makes sure its script context exists.
	ChannelLoadFinish = "loadfinish"
)

// dispatch runs on the main loop for every event of a view.
func (m *ViewManager) dispatch(ctx context.Context, id entity.TabID, bound *boundView, ev port.ViewEvent) {
	view, ok := m.views[id]
	if !ok || view != bound.view {
		logging.FromContext(ctx).Debug().
			Str("tab_id", string(id)).
			Str("event", string(ev.Kind)).
			Msg("dropping event of a destroyed view")
		return
	}

	m.registry.dispatchEvent(ctx, view, ev)

	switch ev.Kind {
	case port.EventFaviconUpdated:
		m.onFaviconUpdated(ctx, id, ev.Favicons)
	case port.EventTitleChanged:
		m.onTitleChanged(ctx, id, ev.Title)
	case port.EventNavigationFinished:
		m.onNavigationFinished(ctx, id, view, ev.URL)
	case port.EventNewWindow:
		m.onNewWindow(ctx, id, ev)
	case port.EventCloseRequested:
		m.tabs.CloseTab(ctx, id)
	case port.EventIPCMessage:
		m.onIPCMessage(ctx, id, view, ev)
	case port.EventCrashed:
		m.onCrashed(ctx, id, view)
	case port.EventLoadFailed:
		m.onLoadFailed(ctx, id, view, ev)
	case port.EventEnterFullscreen, port.EventLeaveFullscreen:
		if err := view.SetFullscreen(ctx, ev.Kind == port.EventEnterFullscreen); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("tab_id", string(id)).Msg("failed to toggle fullscreen")
		}
	}
}

// update applies patch and logs a tab that vanished meanwhile.
func (m *ViewManager) update(ctx context.Context, id entity.TabID, patch entity.TabPatch) bool {
	if err := m.store.Update(id, patch); err != nil {
		log := logging.FromContext(ctx)
		if errors.Is(err, entity.ErrTabNotFound) {
			log.Debug().Str("tab_id", string(id)).Msg("event for a closed tab")
		} else {
			log.Error().Err(err).Str("tab_id", string(id)).Msg("failed to update tab")
		}
		return false
	}
	return true
}

func (m *ViewManager) onFaviconUpdated(ctx context.Context, id entity.TabID, favicons []string) {
	if m.colors == nil || len(favicons) == 0 {
		return
	}
	go func() {
		colors, err := m.colors.Extract(ctx, favicons)
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("tab_id", string(id)).Msg("favicon color extraction failed")
			return
		}
		m.loop.Post(func() {
			if m.update(ctx, id, entity.TabPatch{
				BackgroundColor: entity.Some(colors.Background),
				ForegroundColor: entity.Some(colors.Foreground),
			}) {
				m.tabs.Rerender(id)
			}
		})
	}()
}

func (m *ViewManager) onTitleChanged(ctx context.Context, id entity.TabID, title string) {
	if m.update(ctx, id, entity.TabPatch{Title: entity.Some(title)}) {
		m.tabs.Rerender(id)
	}
}

func (m *ViewManager) onNavigationFinished(ctx context.Context, id entity.TabID, view port.ContentView, url string) {
	if url == "" {
		url = view.URL()
	}
	if !m.update(ctx, id, entity.TabPatch{
		Secure: entity.Some(m.pages.IsSecure(url)),
		URL:    entity.Some(url),
	}) {
		return
	}

	tab, _ := m.store.Get(id)
	if !tab.Private && !m.pages.IsInternal(url) && m.history != nil {
		m.history.UpdateHistory(ctx, tab)
	}

	m.tabs.Rerender(id)

	if err := view.Send(ctx, ChannelLoadFinish); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("tab_id", string(id)).Msg("failed to send loadfinish")
	}
}

func (m *ViewManager) onNewWindow(ctx context.Context, id entity.TabID, ev port.ViewEvent) {
	origin, ok := m.store.Get(id)
	if !ok {
		return
	}

	index := m.store.Index(m.store.Selected()) + 1
	newID, err := m.store.AddAt(entity.NewTab{URL: ev.URL, Private: origin.Private}, index)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to add tab for new window")
		return
	}

	if err := m.tabs.AddTab(ctx, newID, AddTabOptions{
		OpenInBackground: ev.Disposition == port.DispositionBackgroundTab,
	}); err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("tab_id", string(newID)).Msg("failed to open new window tab")
	}
}

func (m *ViewManager) onIPCMessage(ctx context.Context, id entity.TabID, view port.ContentView, ev port.ViewEvent) {
	m.registry.dispatchIPC(ctx, view, ev.Channel, ev.Args)

	switch ev.Channel {
	case ChannelPageContent:
		if len(ev.Args) == 0 || m.history == nil {
			return
		}
		if tab, ok := m.store.Get(id); !ok || tab.Private {
			return
		}
		m.history.OnDataReceived(ctx, ev.Args[0])
	case ChannelPhishing:
		if err := m.tabs.Navigate(ctx, id, m.pages.PhishingPage(view.URL())); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("tab_id", string(id)).Msg("failed to show phishing warning")
		}
	}
}

// onCrashed replaces the crashed view with a fresh one showing the crash
// page. The new view is shown only if the tab is the selected one.
func (m *ViewManager) onCrashed(ctx context.Context, id entity.TabID, view port.ContentView) {
	log := logging.FromContext(ctx)
	crashedURL := view.URL()
	if tab, ok := m.store.Get(id); ok && tab.URL != "" {
		crashedURL = tab.URL
	}
	log.Warn().Str("tab_id", string(id)).Str("url", logging.TruncateURL(crashedURL, 60)).Msg("content view crashed")

	m.DestroyView(ctx, id)
	if !m.update(ctx, id, entity.TabPatch{URL: entity.Some(m.pages.CrashPage(crashedURL))}) {
		return
	}

	var err error
	if m.store.Selected() == id {
		err = m.ActivateView(ctx, id)
	} else {
		_, err = m.CreateView(ctx, id)
	}
	if err != nil {
		log.Error().Err(err).Str("tab_id", string(id)).Msg("failed to recreate crashed view")
	}
	m.tabs.Rerender(id)
}

func (m *ViewManager) onLoadFailed(ctx context.Context, id entity.TabID, view port.ContentView, ev port.ViewEvent) {
	if ev.ErrorCode == port.ErrorCodeAborted {
		return
	}
	current := view.URL()
	if !m.pages.SameDocument(ev.ValidatedURL, current) {
		return
	}
	logging.FromContext(ctx).Debug().
		Str("tab_id", string(id)).
		Int("code", ev.ErrorCode).
		Str("url", logging.TruncateURL(current, 60)).
		Msg("load failed")

	if err := m.tabs.Navigate(ctx, id, m.pages.ErrorPage(ev.ErrorCode, current)); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("tab_id", string(id)).Msg("failed to show error page")
	}
}
