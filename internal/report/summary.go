// Package report derives dashboard, finance and period figures from fetched collections.
// No function in this package modifies its input.
package report

import (
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
)

// Summary holds the headline counts of a set of deliveries.
type Summary struct {
	StatusCounts       map[model.DeliveryStatus]int `json:"statusCounts"`
	MethodCounts       map[model.DeliveryMethod]int `json:"methodCounts"`
	TotalDeclaredValue decimal.Decimal              `json:"totalDeclaredValue"`
	Total              int                          `json:"total"`
}

// Summarize counts deliveries per status and per method and sums their declared value.
// Every known status and method is present in the maps, possibly with a zero count.
func Summarize(deliveries []model.Delivery) Summary {
	s := Summary{
		StatusCounts:       make(map[model.DeliveryStatus]int, len(model.DeliveryStatuses)),
		MethodCounts:       map[model.DeliveryMethod]int{model.MethodPlane: 0, model.MethodBoat: 0},
		TotalDeclaredValue: decimal.Zero,
		Total:              len(deliveries),
	}
	for _, status := range model.DeliveryStatuses {
		s.StatusCounts[status] = 0
	}

	for _, d := range deliveries {
		s.StatusCounts[d.Status]++
		s.MethodCounts[d.DeliveryMethod]++
		s.TotalDeclaredValue = s.TotalDeclaredValue.Add(d.DeclaredValue)
	}
	return s
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// KeyOf returns the month containing t, in t's location.
func KeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// KeyIn returns the month containing t as seen from loc. A nil loc means UTC.
func KeyIn(t time.Time, loc *time.Location) MonthKey {
	if loc == nil {
		loc = time.UTC
	}
	return KeyOf(t.In(loc))
}

// Before reports whether k is an earlier month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// AddMonths returns the month n months after k; n may be negative.
func (k MonthKey) AddMonths(n int) MonthKey {
	t := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return KeyOf(t)
}

// Label returns a short French label such as "mars 2025".
func (k MonthKey) Label() string {
	return frenchMonths[k.Month-1] + " " + itoa(k.Year)
}

// String returns the month as YYYY-MM.
func (k MonthKey) String() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

var frenchMonths = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}
