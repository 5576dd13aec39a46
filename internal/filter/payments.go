package filter

import (
	"strings"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Payment date range presets.
const (
	RangeCurrentMonth = "current-month"
	RangeLastMonth    = "last-month"
	RangeLast3Months  = "last-3-months"
)

// PaymentCriteria selects payments in the finance view.
type PaymentCriteria struct {
	Status      string
	PaymentType model.PaymentType
	DateRange   string
}

// Match reports whether p satisfies every criterion, with presets relative to now.
func (c PaymentCriteria) Match(p model.Payment, now time.Time) bool {
	if isSet(c.Status) && !strings.EqualFold(p.PaymentStatus, c.Status) {
		return false
	}
	if isSet(string(c.PaymentType)) && p.PaymentType != c.PaymentType {
		return false
	}
	return matchDateRange(c.DateRange, p.PaymentDate, now)
}

// Payments returns the payments matching criteria, in input order.
func Payments(payments []model.Payment, criteria PaymentCriteria, now time.Time) []model.Payment {
	return keep(payments, func(p model.Payment) bool {
		return criteria.Match(p, now)
	})
}

func matchDateRange(preset string, date, now time.Time) bool {
	current := startOfMonth(now)
	switch preset {
	case RangeCurrentMonth:
		return !date.Before(current)
	case RangeLastMonth:
		return !date.Before(current.AddDate(0, -1, 0)) && date.Before(current)
	case RangeLast3Months:
		return !date.Before(current.AddDate(0, -3, 0))
	default:
		return true
	}
}
