package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
)

// MonthBucket is the revenue and profit of one calendar month.
type MonthBucket struct {
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
	MonthKey
	Count int `json:"count"`
}

// MonthlySeries returns the last months calendar months ending with now's month, oldest
// first. Months without deliveries are present with zero revenue.
func MonthlySeries(deliveries []model.Delivery, months int, profitRate decimal.Decimal, now time.Time) []MonthBucket {
	if months <= 0 {
		return nil
	}

	last := KeyOf(now)
	first := last.AddMonths(-(months - 1))
	index := make(map[MonthKey]int, months)
	series := make([]MonthBucket, months)
	for i := 0; i < months; i++ {
		key := first.AddMonths(i)
		index[key] = i
		series[i] = MonthBucket{MonthKey: key, Revenue: decimal.Zero}
	}

	for _, d := range deliveries {
		i, ok := index[KeyIn(d.CreatedAt, now.Location())]
		if !ok {
			continue
		}
		series[i].Revenue = series[i].Revenue.Add(d.DeclaredValue)
		series[i].Count++
	}

	for i := range series {
		series[i].Profit = series[i].Revenue.Mul(profitRate)
	}
	return series
}

// MonthlyBuckets returns one bucket per month present in deliveries, in ascending order.
// Months are calendar months in loc, as in MonthlySeries.
func MonthlyBuckets(deliveries []model.Delivery, profitRate decimal.Decimal, loc *time.Location) []MonthBucket {
	buckets := make(map[MonthKey]*MonthBucket)
	for _, d := range deliveries {
		key := KeyIn(d.CreatedAt, loc)
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{MonthKey: key, Revenue: decimal.Zero}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(d.DeclaredValue)
		b.Count++
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Profit = b.Revenue.Mul(profitRate)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j].MonthKey)
	})
	return out
}

// TimelinePoint is the number of deliveries created in one month.
type TimelinePoint struct {
	MonthKey
	Count int `json:"count"`
}

// DeliveryTimeline counts deliveries per month of loc present in the data, ascending.
func DeliveryTimeline(deliveries []model.Delivery, loc *time.Location) []TimelinePoint {
	buckets := MonthlyBuckets(deliveries, decimal.Zero, loc)
	out := make([]TimelinePoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TimelinePoint{MonthKey: b.MonthKey, Count: b.Count})
	}
	return out
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
