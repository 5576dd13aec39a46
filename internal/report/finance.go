package report

import (
	"sort"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
)

// FinanceStats are the headline figures of the finance view.
type FinanceStats struct {
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	PartialAmount        decimal.Decimal `json:"partialAmount"`
	FullAmount           decimal.Decimal `json:"fullAmount"`
	Commission           decimal.Decimal `json:"commission"`
	AfalikaAmount        decimal.Decimal `json:"afalikaAmount"`
	TotalRemittances     decimal.Decimal `json:"totalRemittances"`
	RemainingToRemit     decimal.Decimal `json:"remainingToRemit"`
	CommissionRate       decimal.Decimal `json:"commissionRate"`
	PaidCount            int             `json:"paidCount"`
	PartialCount         int             `json:"partialCount"`
	FullCount            int             `json:"fullCount"`
	PendingNotifications int             `json:"pendingNotifications"`
}

// FinanceSummary computes payment totals, the KABA commission and what is left to remit
// to Afalika. commissionRate is a fraction such as 0.10.
func FinanceSummary(payments []model.Payment, remittances []model.Remittance, commissionRate decimal.Decimal) FinanceStats {
	stats := FinanceStats{
		TotalAmount:      decimal.Zero,
		PartialAmount:    decimal.Zero,
		FullAmount:       decimal.Zero,
		TotalRemittances: decimal.Zero,
		CommissionRate:   commissionRate,
	}

	for _, p := range payments {
		stats.TotalAmount = stats.TotalAmount.Add(p.Amount)
		if p.IsPaid() {
			stats.PaidCount++
			if !p.NotifiedToAfalika {
				stats.PendingNotifications++
			}
		}
		switch p.PaymentType {
		case model.PaymentTypePartial:
			stats.PartialCount++
			stats.PartialAmount = stats.PartialAmount.Add(p.Amount)
		case model.PaymentTypeFull:
			stats.FullCount++
			stats.FullAmount = stats.FullAmount.Add(p.Amount)
		}
	}

	for _, r := range remittances {
		stats.TotalRemittances = stats.TotalRemittances.Add(r.Amount)
	}

	stats.Commission = stats.TotalAmount.Mul(commissionRate)
	stats.AfalikaAmount = stats.TotalAmount.Mul(decimal.NewFromInt(1).Sub(commissionRate))
	stats.RemainingToRemit = stats.AfalikaAmount.Sub(stats.TotalRemittances)
	return stats
}

// MonthlyCommission groups the payments of one month.
type MonthlyCommission struct {
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PartialAmount decimal.Decimal `json:"partialAmount"`
	FullAmount    decimal.Decimal `json:"fullAmount"`
	Commission    decimal.Decimal `json:"commission"`
	MonthKey
	PaymentCount int `json:"paymentCount"`
}

// MonthlyCommissions groups payments by payment month, newest month first.
func MonthlyCommissions(payments []model.Payment, commissionRate decimal.Decimal) []MonthlyCommission {
	months := make(map[MonthKey]*MonthlyCommission)
	for _, p := range payments {
		key := KeyOf(p.PaymentDate)
		m, ok := months[key]
		if !ok {
			m = &MonthlyCommission{
				MonthKey:      key,
				TotalAmount:   decimal.Zero,
				PartialAmount: decimal.Zero,
				FullAmount:    decimal.Zero,
			}
			months[key] = m
		}
		m.TotalAmount = m.TotalAmount.Add(p.Amount)
		m.PaymentCount++
		switch p.PaymentType {
		case model.PaymentTypePartial:
			m.PartialAmount = m.PartialAmount.Add(p.Amount)
		case model.PaymentTypeFull:
			m.FullAmount = m.FullAmount.Add(p.Amount)
		}
	}

	out := make([]MonthlyCommission, 0, len(months))
	for _, m := range months {
		m.Commission = m.TotalAmount.Mul(commissionRate)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].Before(out[i].MonthKey)
	})
	return out
}
