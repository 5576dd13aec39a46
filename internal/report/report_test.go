package report

import (
	"testing"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func delivery(id string, value int64, created time.Time, status model.DeliveryStatus, method model.DeliveryMethod) model.Delivery {
	return model.Delivery{
		ID:             id,
		DeclaredValue:  dec(value),
		CreatedAt:      created,
		Status:         status,
		DeliveryMethod: method,
	}
}

func TestSummarize(t *testing.T) {
	deliveries := []model.Delivery{
		delivery("1", 100, at(2025, 3, 1), model.StatusPending, model.MethodPlane),
		delivery("2", 250, at(2025, 3, 2), model.StatusInTransit, model.MethodBoat),
		delivery("3", 50, at(2025, 3, 3), model.StatusInTransit, model.MethodBoat),
		delivery("4", 0, at(2025, 3, 4), model.StatusCancelled, model.MethodPlane),
	}

	s := Summarize(deliveries)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.StatusCounts[model.StatusPending])
	assert.Equal(t, 2, s.StatusCounts[model.StatusInTransit])
	assert.Equal(t, 1, s.StatusCounts[model.StatusCancelled])
	assert.Equal(t, 0, s.StatusCounts[model.StatusDelivered])
	assert.Len(t, s.StatusCounts, len(model.DeliveryStatuses))
	assert.Equal(t, 2, s.MethodCounts[model.MethodBoat])
	assert.Equal(t, 2, s.MethodCounts[model.MethodPlane])
	assert.True(t, dec(400).Equal(s.TotalDeclaredValue))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.True(t, s.TotalDeclaredValue.IsZero())
}

func TestMonthlyBuckets_MarchRevenue(t *testing.T) {
	deliveries := []model.Delivery{
		delivery("1", 100, at(2025, 3, 2), model.StatusDelivered, model.MethodPlane),
		delivery("2", 200, at(2025, 3, 14), model.StatusDelivered, model.MethodPlane),
		delivery("3", 300, at(2025, 3, 30), model.StatusDelivered, model.MethodBoat),
	}
	rate := decimal.RequireFromString("0.3")

	buckets := MonthlyBuckets(deliveries, rate, time.UTC)

	require.Len(t, buckets, 1)
	assert.Equal(t, MonthKey{Year: 2025, Month: time.March}, buckets[0].MonthKey)
	assert.True(t, dec(600).Equal(buckets[0].Revenue))
	assert.True(t, dec(600).Mul(rate).Equal(buckets[0].Profit))
	assert.Equal(t, 3, buckets[0].Count)
}

func TestMonthlyBuckets_RateOnlyChangesProfit(t *testing.T) {
	deliveries := []model.Delivery{
		delivery("1", 100, at(2025, 1, 2), model.StatusDelivered, model.MethodPlane),
		delivery("2", 200, at(2025, 3, 14), model.StatusDelivered, model.MethodPlane),
		delivery("3", 300, at(2024, 12, 30), model.StatusDelivered, model.MethodBoat),
	}
	snapshot := append([]model.Delivery(nil), deliveries...)

	low := MonthlyBuckets(deliveries, decimal.RequireFromString("0.1"), time.UTC)
	high := MonthlyBuckets(deliveries, decimal.RequireFromString("0.3"), time.UTC)
	again := MonthlyBuckets(deliveries, decimal.RequireFromString("0.1"), time.UTC)

	assert.Equal(t, snapshot, deliveries)
	require.Len(t, low, 3)
	require.Len(t, high, 3)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.December}, low[0].MonthKey)
	assert.Equal(t, MonthKey{Year: 2025, Month: time.March}, low[2].MonthKey)
	for i := range low {
		assert.True(t, low[i].Revenue.Equal(high[i].Revenue))
		assert.True(t, low[i].Profit.Equal(again[i].Profit))
		assert.False(t, low[i].Profit.Equal(high[i].Profit))
	}
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	deliveries := []model.Delivery{
		delivery("old", 999, at(2024, 9, 1), model.StatusDelivered, model.MethodPlane),
		delivery("jan", 100, at(2025, 1, 5), model.StatusDelivered, model.MethodPlane),
		delivery("mar-1", 200, at(2025, 3, 1), model.StatusDelivered, model.MethodPlane),
		delivery("mar-2", 300, at(2025, 3, 19), model.StatusDelivered, model.MethodPlane),
	}

	series := MonthlySeries(deliveries, 6, decimal.RequireFromString("0.3"), now)

	require.Len(t, series, 6)
	assert.Equal(t, MonthKey{Year: 2024, Month: time.October}, series[0].MonthKey)
	assert.Equal(t, MonthKey{Year: 2025, Month: time.March}, series[5].MonthKey)
	assert.True(t, series[0].Revenue.IsZero())
	assert.True(t, dec(100).Equal(series[3].Revenue))
	assert.True(t, dec(500).Equal(series[5].Revenue))
	assert.True(t, decimal.RequireFromString("150").Equal(series[5].Profit))

	assert.Len(t, MonthlySeries(deliveries, 12, decimal.Zero, now), 12)
	assert.Nil(t, MonthlySeries(deliveries, 0, decimal.Zero, now))
}

func TestDeliveryTimeline(t *testing.T) {
	deliveries := []model.Delivery{
		delivery("1", 1, at(2025, 2, 1), model.StatusDelivered, model.MethodPlane),
		delivery("2", 1, at(2025, 1, 1), model.StatusDelivered, model.MethodPlane),
		delivery("3", 1, at(2025, 2, 10), model.StatusDelivered, model.MethodPlane),
	}

	timeline := DeliveryTimeline(deliveries, time.UTC)

	require.Len(t, timeline, 2)
	assert.Equal(t, time.January, timeline[0].Month)
	assert.Equal(t, 1, timeline[0].Count)
	assert.Equal(t, time.February, timeline[1].Month)
	assert.Equal(t, 2, timeline[1].Count)
}

func TestMonthKey(t *testing.T) {
	k := MonthKey{Year: 2025, Month: time.January}
	assert.Equal(t, MonthKey{Year: 2024, Month: time.December}, k.AddMonths(-1))
	assert.Equal(t, MonthKey{Year: 2026, Month: time.January}, k.AddMonths(12))
	assert.True(t, k.AddMonths(-1).Before(k))
	assert.False(t, k.Before(k))
	assert.Equal(t, "2025-01", k.String())
	assert.Equal(t, "janv. 2025", k.Label())
}

func TestMonthlyBuckets_AgreesWithSeriesAcrossOffsets(t *testing.T) {
	lome := time.UTC
	newYork := time.FixedZone("UTC-5", -5*3600)
	shanghai := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, lome)

	deliveries := []model.Delivery{
		// 31 March 21:00 in New York is 1 April 02:00 in Lomé.
		delivery("late-march-ny", 100, time.Date(2025, 3, 31, 21, 0, 0, 0, newYork), model.StatusDelivered, model.MethodPlane),
		// 1 April 05:00 in Shanghai is 31 March 21:00 in Lomé.
		delivery("early-april-sh", 200, time.Date(2025, 4, 1, 5, 0, 0, 0, shanghai), model.StatusDelivered, model.MethodPlane),
	}

	buckets := MonthlyBuckets(deliveries, decimal.Zero, now.Location())
	series := MonthlySeries(deliveries, 2, decimal.Zero, now)

	require.Len(t, buckets, 2)
	require.Len(t, series, 2)
	for i := range buckets {
		assert.Equal(t, series[i].MonthKey, buckets[i].MonthKey)
		assert.True(t, series[i].Revenue.Equal(buckets[i].Revenue), "month %s", buckets[i].MonthKey)
	}
	assert.True(t, dec(200).Equal(buckets[0].Revenue))
	assert.True(t, dec(100).Equal(buckets[1].Revenue))

	timeline := DeliveryTimeline(deliveries, now.Location())
	require.Len(t, timeline, 2)
	assert.Equal(t, time.March, timeline[0].Month)
}
