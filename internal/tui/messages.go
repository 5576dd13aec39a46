package tui

import (
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Data loading messages.
type deliveriesLoadedMsg struct {
	err        error
	dashboard  *engine.DashboardView
	deliveries []model.Delivery
}
