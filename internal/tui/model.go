// Package tui is the interactive terminal dashboard of the KABA console.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/tui/components"
	"github.com/kaba-chine/kaba-admin/internal/tui/themes"
)

// Loader provides the data shown by the dashboard. *engine.Engine satisfies it.
type Loader interface {
	AllDeliveries(ctx context.Context) ([]model.Delivery, error)
	DashboardFrom(deliveries []model.Delivery) *engine.DashboardView
}

// View represents the current view mode.
type View int

// Dashboard views.
const (
	ViewOverview View = iota
	ViewDeliveries
	ViewDetail
)

var statusFilters = append([]model.DeliveryStatus{""}, model.DeliveryStatuses...)

var paymentFilters = []model.PaymentStatus{
	"",
	model.PaymentPending,
	model.PaymentPartial,
	model.PaymentPaid,
	model.PaymentRefunded,
	model.PaymentFailed,
}

// Model holds the main TUI state.
type Model struct {
	ctx        context.Context
	loader     Loader
	lastError  error
	dashboard  *engine.DashboardView
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	spinner    spinner.Model
	overview   components.OverviewModel
	table      components.DeliveryTableModel
	detail     components.DeliveryDetailModel
	deliveries []model.Delivery
	visible    []model.Delivery
	config     Config
	statusIdx  int
	paymentIdx int
	width      int
	height     int
	view       View
	loading    bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, loader Loader, cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sp.Style.Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:      contextOrBackground(ctx),
		loader:   loader,
		config:   cfg,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		overview: components.NewOverviewModel(cfg.Theme, cfg.Currency),
		table:    components.NewDeliveryTableModel(cfg.Theme, cfg.Currency),
		detail:   components.NewDeliveryDetailModel(cfg.Theme, cfg.Currency),
		width:    cfg.Width,
		height:   cfg.Height,
		view:     ViewOverview,
		loading:  true,
	}
	m.handleResize()
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadDeliveries())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case deliveriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.deliveries = msg.deliveries
		m.dashboard = msg.dashboard
		if m.dashboard != nil {
			m.overview.SetData(m.dashboard.Summary, m.dashboard.Monthly)
		}
		m.applyFilters()
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey handles keys that work in any view first, then the active view's keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadDeliveries())

	case key.Matches(msg, m.keymap.NextView):
		if m.view == ViewOverview {
			m.view = ViewDeliveries
		} else {
			m.view = ViewOverview
		}
		return m, nil
	}

	switch m.view {
	case ViewDeliveries:
		switch {
		case key.Matches(msg, m.keymap.CycleStatus):
			m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
			m.applyFilters()
			return m, nil

		case key.Matches(msg, m.keymap.CyclePayment):
			m.paymentIdx = (m.paymentIdx + 1) % len(paymentFilters)
			m.applyFilters()
			return m, nil

		case key.Matches(msg, m.keymap.ClearFilters):
			m.statusIdx, m.paymentIdx = 0, 0
			m.applyFilters()
			return m, nil

		case key.Matches(msg, m.keymap.Select):
			if d, ok := m.table.Selected(); ok {
				m.detail.SetDelivery(d)
				m.view = ViewDetail
			}
			return m, nil

		case key.Matches(msg, m.keymap.Back):
			m.view = ViewOverview
			return m, nil
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case ViewDetail:
		if key.Matches(msg, m.keymap.Back) {
			m.view = ViewDeliveries
		}
		return m, nil
	}

	return m, nil
}

// Criteria returns the filter built from the selected status and payment filters.
func (m Model) Criteria() filter.Criteria {
	return filter.Criteria{
		Status:        statusFilters[m.statusIdx],
		PaymentStatus: paymentFilters[m.paymentIdx],
	}
}

func (m *Model) applyFilters() {
	m.visible = filter.Deliveries(m.deliveries, m.Criteria())
	m.table.SetDeliveries(m.visible)
}

// refreshDetail swaps the delivery shown in the detail view for its reloaded version.
func (m *Model) refreshDetail() {
	current := m.detail.Delivery()
	if current.ID == "" {
		return
	}
	for _, d := range m.deliveries {
		if d.ID == current.ID {
			m.detail.SetDelivery(d)
			return
		}
	}
	if m.view == ViewDetail {
		m.view = ViewDeliveries
	}
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	m.help.Width = m.width
	m.overview.Resize(m.width)
	m.detail.Resize(m.width)
	// Header, filter line and footer take about eight lines.
	m.table.Resize(m.width, m.height-8)
}

// CurrentView returns the active view.
func (m Model) CurrentView() View {
	return m.view
}

// Visible returns the deliveries left by the filters.
func (m Model) Visible() []model.Delivery {
	return m.visible
}
