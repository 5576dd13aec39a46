package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func sampleDeliveries() []model.Delivery {
	statuses := model.DeliveryStatuses
	methods := []model.DeliveryMethod{model.MethodPlane, model.MethodBoat}
	payments := model.PaymentStatuses
	names := []string{"Ama Mensah", "Kofi Annan", "Yao Koffi", "Afi Dossou"}

	var out []model.Delivery
	for i := 0; i < 24; i++ {
		out = append(out, model.Delivery{
			ID:             fmt.Sprintf("d-%02d", i),
			TrackingNumber: fmt.Sprintf("KB-%06d", 100+i),
			RecipientName:  names[i%len(names)],
			RecipientPhone: fmt.Sprintf("+2289000%04d", i),
			Status:         statuses[i%len(statuses)],
			DeliveryMethod: methods[i%len(methods)],
			PaymentStatus:  payments[i%len(payments)],
			DeclaredValue:  decimal.NewFromInt(int64(1000 * (i + 1))),
			CreatedAt:      day(2025, time.Month(1+i%6), 1+i),
		})
	}
	return out
}

func ids(deliveries []model.Delivery) []string {
	out := make([]string, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, d.ID)
	}
	return out
}

func TestDeliveries_EmptyCriteriaIsIdentity(t *testing.T) {
	deliveries := sampleDeliveries()

	for _, c := range []Criteria{
		{},
		{Status: All, DeliveryMethod: All, PaymentStatus: All},
		{StartDate: timePtr(day(2025, 2, 1))},
		{EndDate: timePtr(day(2025, 2, 1))},
		{Search: "   "},
	} {
		assert.True(t, c.IsEmpty())
		assert.Equal(t, deliveries, Deliveries(deliveries, c))
	}
}

func TestDeliveries_DoesNotMutateInput(t *testing.T) {
	deliveries := sampleDeliveries()
	before := ids(deliveries)

	_ = Deliveries(deliveries, Criteria{Status: model.StatusCancelled})

	assert.Equal(t, before, ids(deliveries))
}

func TestDeliveries_Criteria(t *testing.T) {
	deliveries := sampleDeliveries()

	tests := []struct {
		name     string
		criteria Criteria
		check    func(t *testing.T, d model.Delivery)
	}{
		{
			name:     "status",
			criteria: Criteria{Status: model.StatusInTransit},
			check: func(t *testing.T, d model.Delivery) {
				assert.Equal(t, model.StatusInTransit, d.Status)
			},
		},
		{
			name:     "method",
			criteria: Criteria{DeliveryMethod: model.MethodBoat},
			check: func(t *testing.T, d model.Delivery) {
				assert.Equal(t, model.MethodBoat, d.DeliveryMethod)
			},
		},
		{
			name:     "payment status",
			criteria: Criteria{PaymentStatus: model.PaymentPaid},
			check: func(t *testing.T, d model.Delivery) {
				assert.Equal(t, model.PaymentPaid, d.PaymentStatus)
			},
		},
		{
			name:     "search is case-insensitive on name",
			criteria: Criteria{Search: "MENSAH"},
			check: func(t *testing.T, d model.Delivery) {
				assert.Equal(t, "Ama Mensah", d.RecipientName)
			},
		},
		{
			name:     "date range inclusive",
			criteria: Criteria{StartDate: timePtr(day(2025, 3, 3)), EndDate: timePtr(day(2025, 3, 15))},
			check: func(t *testing.T, d model.Delivery) {
				assert.False(t, d.CreatedAt.Before(day(2025, 3, 3)))
				assert.False(t, d.CreatedAt.After(day(2025, 3, 15)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deliveries(deliveries, tt.criteria)
			require.NotEmpty(t, got)
			for _, d := range got {
				tt.check(t, d)
			}
		})
	}
}

func TestDeliveries_DateBoundsAreInclusive(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "before", CreatedAt: day(2025, 3, 2)},
		{ID: "start", CreatedAt: day(2025, 3, 3)},
		{ID: "end", CreatedAt: day(2025, 3, 15)},
		{ID: "after", CreatedAt: day(2025, 3, 15).Add(time.Second)},
	}

	got := Deliveries(deliveries, Criteria{StartDate: timePtr(day(2025, 3, 3)), EndDate: timePtr(day(2025, 3, 15))})

	assert.Equal(t, []string{"start", "end"}, ids(got))
}

func TestDeliveries_SearchMatchesPhoneIDAndTrackingNumber(t *testing.T) {
	deliveries := sampleDeliveries()

	assert.Equal(t, []string{"d-07"}, ids(Deliveries(deliveries, Criteria{Search: "+22890000007"})))
	assert.Equal(t, []string{"d-11"}, ids(Deliveries(deliveries, Criteria{Search: "D-11"})))
	assert.Equal(t, []string{"d-05"}, ids(Deliveries(deliveries, Criteria{Search: "kb-000105"})))
}

func TestDeliveries_Composable(t *testing.T) {
	deliveries := sampleDeliveries()

	criteria := []Criteria{
		{},
		{Status: model.StatusPending},
		{Status: model.StatusDelivered},
		{DeliveryMethod: model.MethodPlane},
		{PaymentStatus: model.PaymentRefunded},
		{Search: "ko"},
		{StartDate: timePtr(day(2025, 2, 1)), EndDate: timePtr(day(2025, 4, 30))},
		{Status: model.StatusAccepted, DeliveryMethod: model.MethodBoat},
	}

	for i, a := range criteria {
		for j, b := range criteria {
			t.Run(fmt.Sprintf("%d_and_%d", i, j), func(t *testing.T) {
				sequential := Deliveries(Deliveries(deliveries, a), b)
				combined := Deliveries(deliveries, a.And(b))
				assert.Equal(t, ids(sequential), ids(combined))
			})
		}
	}
}

func TestCriteria_AndDoesNotAlias(t *testing.T) {
	base := Criteria{Status: model.StatusPending}
	left := base.And(Criteria{DeliveryMethod: model.MethodBoat})
	right := base.And(Criteria{DeliveryMethod: model.MethodPlane})

	d := model.Delivery{Status: model.StatusPending, DeliveryMethod: model.MethodBoat}
	assert.True(t, left.Match(d))
	assert.False(t, right.Match(d))
	assert.True(t, base.Match(d))
	assert.False(t, left.IsEmpty())
}
