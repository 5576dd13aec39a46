package filter

import (
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Delivery count buckets.
const (
	CountNone    = "none"
	CountOneFive = "1-5"
	CountSixTen  = "6-10"
	CountMore10  = "more10"
)

// Delivery preferences.
const (
	PreferenceHome   = "home"
	PreferenceOffice = "office"
)

// Last delivery windows.
const (
	LastThisMonth = "thisMonth"
	LastLastMonth = "lastMonth"
	LastThisYear  = "thisYear"
)

// ClientCriteria selects derived clients.
type ClientCriteria struct {
	Search        string
	DeliveryCount string
	Preference    string
	LastDelivery  string
	PendingOnly   bool
}

// Match reports whether client satisfies every criterion, with windows relative to now.
func (c ClientCriteria) Match(client model.Client, now time.Time) bool {
	if !containsFold(c.Search, client.Name, client.Phone, client.ID) {
		return false
	}
	if c.PendingOnly && client.PendingDeliveryCount == 0 {
		return false
	}
	if !matchCountBucket(c.DeliveryCount, client.DeliveryCount) {
		return false
	}
	if isSet(c.Preference) && (c.Preference == PreferenceHome) != client.PreferHomeDelivery {
		return false
	}
	return matchLastDelivery(c.LastDelivery, client.LastDeliveryDate, now)
}

// Clients returns the clients matching criteria, in input order.
func Clients(clients []model.Client, criteria ClientCriteria, now time.Time) []model.Client {
	return keep(clients, func(c model.Client) bool {
		return criteria.Match(c, now)
	})
}

func matchCountBucket(bucket string, count int) bool {
	switch bucket {
	case CountNone:
		return count == 0
	case CountOneFive:
		return count >= 1 && count <= 5
	case CountSixTen:
		return count >= 6 && count <= 10
	case CountMore10:
		return count > 10
	default:
		return true
	}
}

// Clients without any delivery date are never excluded by the window.
func matchLastDelivery(window string, last *time.Time, now time.Time) bool {
	if !isSet(window) || last == nil {
		return true
	}
	date := last.In(now.Location())
	switch window {
	case LastThisMonth:
		return sameMonth(date, now)
	case LastLastMonth:
		return sameMonth(date, startOfMonth(now).AddDate(0, -1, 0))
	case LastThisYear:
		return date.Year() == now.Year()
	default:
		return true
	}
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
