// Package engine assembles the console's views: it loads raw records from the backend,
// normalizes them once, and hands filtered or aggregated results to every surface.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config holds the reporting constants of the views.
type Config struct {
	ProfitRate   decimal.Decimal
	SeriesMonths int
	RecentLimit  int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ProfitRate:   decimal.RequireFromString("0.3"),
		SeriesMonths: 6,
		RecentLimit:  5,
	}
}

// Engine builds views on top of the backend.
type Engine struct {
	backend Backend
	adapter *normalize.Adapter
	now     func() time.Time
	config  Config
}

// New creates an engine with the default configuration.
func New(backend Backend, adapter *normalize.Adapter) *Engine {
	return NewWithConfig(backend, adapter, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(backend Backend, adapter *normalize.Adapter, config Config) *Engine {
	if config.SeriesMonths <= 0 {
		config.SeriesMonths = DefaultConfig().SeriesMonths
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = DefaultConfig().RecentLimit
	}
	return &Engine{
		backend: backend,
		adapter: adapter,
		config:  config,
		now:     time.Now,
	}
}

// SetClock replaces the time source. Tests use it to pin "now".
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// AllDeliveries loads and normalizes every delivery.
func (e *Engine) AllDeliveries(ctx context.Context) ([]model.Delivery, error) {
	raw, err := e.backend.ListDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	return e.adapter.AdaptAll(raw), nil
}

// Deliveries returns the normalized deliveries that match criteria, in backend order.
func (e *Engine) Deliveries(ctx context.Context, criteria filter.Criteria) ([]model.Delivery, error) {
	deliveries, err := e.AllDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	filtered := filter.Deliveries(deliveries, criteria)
	slog.Debug("Filtered deliveries", "total", len(deliveries), "kept", len(filtered))
	return filtered, nil
}

// Delivery loads one delivery. A missing delivery becomes a user-facing error that
// still matches common.ErrNotFound.
func (e *Engine) Delivery(ctx context.Context, id string) (model.Delivery, error) {
	raw, err := e.backend.GetDelivery(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.Delivery{}, common.NewUserError("Livraison introuvable", err)
		}
		return model.Delivery{}, err
	}
	return e.adapter.Adapt(*raw), nil
}

// Clients derives clients from deliveries and keeps those matching criteria.
func (e *Engine) Clients(ctx context.Context, criteria filter.ClientCriteria) ([]model.Client, error) {
	deliveries, err := e.AllDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Clients(report.DeriveClients(deliveries), criteria, e.now()), nil
}

// Addresses loads addresses and deliveries concurrently, labels the addresses, and
// keeps those matching criteria. Client names come from the deliveries.
func (e *Engine) Addresses(ctx context.Context, criteria filter.AddressCriteria) ([]model.Address, map[string]string, error) {
	var (
		addresses  []model.Address
		deliveries []model.Delivery
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		addresses, err = e.backend.ListAddresses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		deliveries, err = e.AllDeliveries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	names := report.ClientNames(report.DeriveClients(deliveries))
	labelled := report.MarkDefaultAddresses(addresses)
	return filter.Addresses(labelled, criteria, names), names, nil
}

// FinanceView is everything the finance page shows.
type FinanceView struct {
	Stats       report.FinanceStats        `json:"stats"`
	Payments    []model.Payment            `json:"payments"`
	Remittances []model.Remittance         `json:"remittances"`
	Monthly     []report.MonthlyCommission `json:"monthly"`
}

// Finances loads payments and remittances concurrently. When the payments endpoint
// returns nothing, payments embedded in deliveries are used instead. The list, the
// stats and the monthly commissions all cover the payments matching criteria.
func (e *Engine) Finances(ctx context.Context, criteria filter.PaymentCriteria, commissionRate decimal.Decimal) (*FinanceView, error) {
	var (
		payments    []model.Payment
		remittances []model.Remittance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = e.backend.ListPayments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		remittances, err = e.backend.ListRemittances(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(payments) == 0 {
		slog.Info("No payments from the payments endpoint, extracting them from deliveries")
		deliveries, err := e.AllDeliveries(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load payments from deliveries: %w", err)
		}
		payments = report.PaymentsFromDeliveries(deliveries)
	}

	filtered := filter.Payments(payments, criteria, e.now())
	return &FinanceView{
		Stats:       report.FinanceSummary(filtered, remittances, commissionRate),
		Payments:    filtered,
		Remittances: remittances,
		Monthly:     report.MonthlyCommissions(filtered, commissionRate),
	}, nil
}

// DashboardView is the overview page.
type DashboardView struct {
	Summary report.Summary       `json:"summary"`
	Recent  []model.Delivery     `json:"recent"`
	Monthly []report.MonthBucket `json:"monthly"`
}

// Dashboard summarizes every delivery and builds the monthly revenue series.
func (e *Engine) Dashboard(ctx context.Context) (*DashboardView, error) {
	deliveries, err := e.AllDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	return e.DashboardFrom(deliveries), nil
}

// DashboardFrom builds the overview from already loaded deliveries.
func (e *Engine) DashboardFrom(deliveries []model.Delivery) *DashboardView {
	recent := deliveries
	if len(recent) > e.config.RecentLimit {
		recent = recent[:e.config.RecentLimit]
	}
	return &DashboardView{
		Summary: report.Summarize(deliveries),
		Recent:  recent,
		Monthly: report.MonthlySeries(deliveries, e.config.SeriesMonths, e.config.ProfitRate, e.now()),
	}
}

// ReportView is the period comparison plus the deliveries-per-month timeline.
type ReportView struct {
	report.PeriodComparison
	Timeline []report.TimelinePoint `json:"timeline"`
}

// Report compares the current period with the previous one.
func (e *Engine) Report(ctx context.Context, period report.Period) (*ReportView, error) {
	deliveries, err := e.AllDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now()
	return &ReportView{
		PeriodComparison: report.PeriodReport(deliveries, period, now),
		Timeline:         report.DeliveryTimeline(deliveries, now.Location()),
	}, nil
}
