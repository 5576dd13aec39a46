package report

import (
	"fmt"
	"math"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Period is the reporting window of the reports view.
type Period string

// Supported reporting periods.
const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod validates a period name. Empty selects the month.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodMonth, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown report period %q", s)
	}
}

// Label returns the French phrase for the period.
func (p Period) Label() string {
	switch p {
	case PeriodDay:
		return "aujourd'hui"
	case PeriodWeek:
		return "cette semaine"
	case PeriodMonth:
		return "ce mois"
	case PeriodQuarter:
		return "ce trimestre"
	case PeriodYear:
		return "cette année"
	default:
		return ""
	}
}

// shift moves t back by one period length.
func (p Period) shift(t time.Time) time.Time {
	switch p {
	case PeriodDay:
		return t.AddDate(0, 0, -1)
	case PeriodWeek:
		return t.AddDate(0, 0, -7)
	case PeriodQuarter:
		return t.AddDate(0, -3, 0)
	case PeriodYear:
		return t.AddDate(-1, 0, 0)
	default:
		return t.AddDate(0, -1, 0)
	}
}

// StatusCounts counts deliveries per display status.
type StatusCounts map[model.DeliveryStatus]int

// Active is the number of deliveries that were not cancelled.
func (c StatusCounts) Active() int {
	total := 0
	for status, n := range c {
		if status != model.StatusCancelled {
			total += n
		}
	}
	return total
}

// PeriodComparison compares the current period with the one before it.
type PeriodComparison struct {
	Start       time.Time                    `json:"start"`
	End         time.Time                    `json:"end"`
	Current     StatusCounts                 `json:"current"`
	Previous    StatusCounts                 `json:"previous"`
	Growth      map[model.DeliveryStatus]int `json:"growth"`
	Period      Period                       `json:"period"`
	TotalGrowth int                          `json:"totalGrowth"`
}

// PeriodReport counts deliveries created in the period ending at now and in the
// preceding period of the same length. Both windows include their bounds.
func PeriodReport(deliveries []model.Delivery, period Period, now time.Time) PeriodComparison {
	start := period.shift(now)
	previousStart := period.shift(start)

	current := countBetween(deliveries, start, now)
	previous := countBetween(deliveries, previousStart, start)

	growth := make(map[model.DeliveryStatus]int, len(model.DeliveryStatuses))
	for _, status := range model.DeliveryStatuses {
		growth[status] = Growth(current[status], previous[status])
	}

	return PeriodComparison{
		Period:      period,
		Start:       start,
		End:         now,
		Current:     current,
		Previous:    previous,
		Growth:      growth,
		TotalGrowth: Growth(current.Active(), previous.Active()),
	}
}

// Growth returns the rounded percentage change from previous to current. With no
// previous value it is 100 when current is positive and 0 otherwise.
func Growth(current, previous int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

func countBetween(deliveries []model.Delivery, start, end time.Time) StatusCounts {
	counts := make(StatusCounts, len(model.DeliveryStatuses))
	for _, status := range model.DeliveryStatuses {
		counts[status] = 0
	}
	for _, d := range deliveries {
		if d.CreatedAt.Before(start) || d.CreatedAt.After(end) {
			continue
		}
		counts[d.Status]++
	}
	return counts
}
