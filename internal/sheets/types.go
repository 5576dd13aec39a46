package sheets

import (
	"context"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/shopspring/decimal"
)

// Tab titles of the exported spreadsheet.
const (
	TabMonthlyRevenue = "Revenus mensuels"
	TabCommissions    = "Commissions"
	TabDeliveries     = "Livraisons"
	TabClients        = "Clients"
)

// Tabs lists the tabs in spreadsheet order.
var Tabs = []string{TabMonthlyRevenue, TabCommissions, TabDeliveries, TabClients}

// ReportWriter writes a report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, data *TabData) error
}

// MonthlyRevenueRow represents a single row in the Monthly Revenue tab.
type MonthlyRevenueRow struct {
	Month      string
	Revenue    decimal.Decimal
	Profit     decimal.Decimal
	Deliveries int
}

// CommissionRow represents a single row in the Commissions tab.
type CommissionRow struct {
	Month         string
	TotalAmount   decimal.Decimal
	PartialAmount decimal.Decimal
	FullAmount    decimal.Decimal
	Commission    decimal.Decimal
	Payments      int
}

// DeliveryRow represents a single row in the Deliveries tab.
type DeliveryRow struct {
	Date          time.Time
	DeclaredValue decimal.Decimal
	Tracking      string
	Package       string
	Client        string
	Status        string
	Method        string
	Payment       string
	Weight        float64
}

// ClientRow represents a single row in the Clients tab.
type ClientRow struct {
	LastDelivery *time.Time
	TotalSpent   decimal.Decimal
	Name         string
	Phone        string
	Deliveries   int
	Pending      int
	HomeDelivery bool
}

// TabData holds all the data for the complete spreadsheet export.
type TabData struct {
	GeneratedAt    time.Time
	CommissionRate decimal.Decimal
	ProfitRate     decimal.Decimal
	MonthlyRevenue []MonthlyRevenueRow
	Commissions    []CommissionRow
	Deliveries     []DeliveryRow
	Clients        []ClientRow
}

// BuildTabData projects deliveries and payments into the export rows. Monthly revenue
// covers every month with deliveries, oldest first; commissions are newest first.
func BuildTabData(deliveries []model.Delivery, payments []model.Payment, commissionRate, profitRate decimal.Decimal, now time.Time) *TabData {
	data := &TabData{
		GeneratedAt:    now,
		CommissionRate: commissionRate,
		ProfitRate:     profitRate,
	}

	for _, b := range report.MonthlyBuckets(deliveries, profitRate, now.Location()) {
		data.MonthlyRevenue = append(data.MonthlyRevenue, MonthlyRevenueRow{
			Month:      b.Label(),
			Deliveries: b.Count,
			Revenue:    b.Revenue,
			Profit:     b.Profit,
		})
	}

	for _, m := range report.MonthlyCommissions(payments, commissionRate) {
		data.Commissions = append(data.Commissions, CommissionRow{
			Month:         m.Label(),
			Payments:      m.PaymentCount,
			TotalAmount:   m.TotalAmount,
			PartialAmount: m.PartialAmount,
			FullAmount:    m.FullAmount,
			Commission:    m.Commission,
		})
	}

	for _, d := range deliveries {
		data.Deliveries = append(data.Deliveries, DeliveryRow{
			Date:          d.CreatedAt,
			Tracking:      d.TrackingNumber,
			Package:       d.PackageName,
			Client:        d.RecipientName,
			Status:        d.Status.Label(),
			Method:        string(d.DeliveryMethod),
			Payment:       string(d.PaymentStatus),
			DeclaredValue: d.DeclaredValue,
			Weight:        d.Weight,
		})
	}

	for _, c := range report.DeriveClients(deliveries) {
		data.Clients = append(data.Clients, ClientRow{
			Name:         c.Name,
			Phone:        c.Phone,
			Deliveries:   c.DeliveryCount,
			Pending:      c.PendingDeliveryCount,
			TotalSpent:   c.TotalSpent,
			LastDelivery: c.LastDeliveryDate,
			HomeDelivery: c.PreferHomeDelivery,
		})
	}

	return data
}
