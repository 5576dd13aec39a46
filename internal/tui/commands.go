package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// loadDeliveries fetches every delivery and builds the overview from the same list.
// The request is bound to the program context so quitting aborts it.
func (m Model) loadDeliveries() tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		deliveries, err := loader.AllDeliveries(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return deliveriesLoadedMsg{err: err}
		}
		return deliveriesLoadedMsg{
			deliveries: deliveries,
			dashboard:  loader.DashboardFrom(deliveries),
		}
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
