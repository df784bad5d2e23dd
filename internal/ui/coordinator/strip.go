package coordinator

import (
	"context"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// BindStrip routes the tab strip input to the tab flows and the expanded
// mode controller. onQuit is called when the user asks to leave.
func BindStrip(ctx context.Context, strip port.TabStrip, tabs *TabCoordinator, expanded *ExpandedMode, onQuit func()) {
	log := logging.FromContext(ctx)

	strip.SetHandlers(port.StripHandlers{
		OnScroll: func(ev port.ScrollEvent) bool {
			return expanded.HandleScroll(ctx, ev)
		},
		OnClick: func(id entity.TabID) {
			expanded.HandleTabClick(ctx, id)
		},
		OnHover: func(id entity.TabID) {
			expanded.HandleTabHover(ctx, id)
		},
		OnDrop: func(order []entity.TabID) {
			expanded.HandleDrop(ctx, order)
		},
		OnClose: func(id entity.TabID) {
			tabs.CloseTab(ctx, id)
		},
		OnNewTab: func() {
			expanded.Leave(ctx)
			if _, err := tabs.NewTab(ctx, "", false); err != nil {
				log.Error().Err(err).Msg("failed to open new tab")
			}
		},
		OnNavigate: func(id entity.TabID, input string) {
			strip.LeaveEditMode()
			if err := tabs.Navigate(ctx, id, input); err != nil {
				log.Warn().Err(err).Str("tab_id", string(id)).Msg("navigation failed")
				return
			}
			if err := tabs.views.Focus(ctx, id); err != nil {
				log.Debug().Err(err).Msg("failed to focus view after navigation")
			}
		},
		OnQuit: func() {
			if onQuit != nil {
				onQuit()
			}
		},
	})
}
