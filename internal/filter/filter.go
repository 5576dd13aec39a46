// Package filter applies view criteria to in-memory collections. Every filter is a pure,
// order-preserving projection; unset or "all" criteria match everything.
package filter

import (
	"errors"
	"strings"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// All is the criterion value that disables a filter.
const All = "all"

// ErrInvalidCriteria is returned when a criterion value is not recognized.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria selects deliveries. The date range applies only when both bounds are set.
type Criteria struct {
	StartDate      *time.Time
	EndDate        *time.Time
	Status         model.DeliveryStatus
	DeliveryMethod model.DeliveryMethod
	PaymentStatus  model.PaymentStatus
	Search         string
	and            []Criteria
}

// And returns criteria matching deliveries selected by both c and other.
func (c Criteria) And(other Criteria) Criteria {
	combined := c
	combined.and = append(append([]Criteria(nil), c.and...), other)
	return combined
}

// IsEmpty reports whether the criteria match every delivery.
func (c Criteria) IsEmpty() bool {
	if isSet(string(c.Status)) || isSet(string(c.DeliveryMethod)) || isSet(string(c.PaymentStatus)) ||
		strings.TrimSpace(c.Search) != "" || (c.StartDate != nil && c.EndDate != nil) {
		return false
	}
	for _, sub := range c.and {
		if !sub.IsEmpty() {
			return false
		}
	}
	return true
}

// Match reports whether d satisfies every criterion.
func (c Criteria) Match(d model.Delivery) bool {
	if isSet(string(c.Status)) && d.Status != c.Status {
		return false
	}
	if isSet(string(c.DeliveryMethod)) && d.DeliveryMethod != c.DeliveryMethod {
		return false
	}
	if isSet(string(c.PaymentStatus)) && d.PaymentStatus != c.PaymentStatus {
		return false
	}
	if !inRange(d.CreatedAt, c.StartDate, c.EndDate) {
		return false
	}
	if !containsFold(c.Search, d.RecipientName, d.RecipientPhone, d.ID, d.TrackingNumber) {
		return false
	}
	for _, sub := range c.and {
		if !sub.Match(d) {
			return false
		}
	}
	return true
}

// Deliveries returns the deliveries matching criteria, in input order.
func Deliveries(deliveries []model.Delivery, criteria Criteria) []model.Delivery {
	return keep(deliveries, criteria.Match)
}

func keep[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

func isSet(value string) bool {
	return value != "" && value != All
}

// A single bound is treated as no filter.
func inRange(t time.Time, start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !t.Before(*start) && !t.After(*end)
}

func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
