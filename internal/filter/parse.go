package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

const dateLayout = "2006-01-02"

// ParseCriteria builds delivery criteria from string parameters such as CLI flags or
// query values. Recognized keys: status, method, paymentStatus, startDate, endDate, search.
// A date-only endDate covers the whole day.
func ParseCriteria(params map[string]string) (Criteria, error) {
	var c Criteria

	if v := value(params, "status"); isSet(v) {
		status := model.DeliveryStatus(v)
		if !status.Valid() {
			return Criteria{}, fmt.Errorf("%w: status %q", ErrInvalidCriteria, v)
		}
		c.Status = status
	}

	if v := value(params, "method"); isSet(v) {
		method := model.DeliveryMethod(v)
		if !method.Valid() {
			return Criteria{}, fmt.Errorf("%w: method %q", ErrInvalidCriteria, v)
		}
		c.DeliveryMethod = method
	}

	if v := value(params, "paymentStatus"); isSet(v) {
		status := model.PaymentStatus(v)
		if !status.Valid() {
			return Criteria{}, fmt.Errorf("%w: payment status %q", ErrInvalidCriteria, v)
		}
		c.PaymentStatus = status
	}

	start, err := parseDate(value(params, "startDate"), false)
	if err != nil {
		return Criteria{}, err
	}
	end, err := parseDate(value(params, "endDate"), true)
	if err != nil {
		return Criteria{}, err
	}
	c.StartDate, c.EndDate = start, end

	c.Search = value(params, "search")
	return c, nil
}

// ParseClientCriteria builds client criteria. Recognized keys: search, deliveryCount,
// preference, lastDelivery, pendingOnly.
func ParseClientCriteria(params map[string]string) (ClientCriteria, error) {
	c := ClientCriteria{
		Search:        value(params, "search"),
		DeliveryCount: value(params, "deliveryCount"),
		Preference:    value(params, "preference"),
		LastDelivery:  value(params, "lastDelivery"),
	}

	if err := oneOf("deliveryCount", c.DeliveryCount, CountNone, CountOneFive, CountSixTen, CountMore10); err != nil {
		return ClientCriteria{}, err
	}
	if err := oneOf("preference", c.Preference, PreferenceHome, PreferenceOffice); err != nil {
		return ClientCriteria{}, err
	}
	if err := oneOf("lastDelivery", c.LastDelivery, LastThisMonth, LastLastMonth, LastThisYear); err != nil {
		return ClientCriteria{}, err
	}

	if v := value(params, "pendingOnly"); v != "" {
		pending, err := strconv.ParseBool(v)
		if err != nil {
			return ClientCriteria{}, fmt.Errorf("%w: pendingOnly %q", ErrInvalidCriteria, v)
		}
		c.PendingOnly = pending
	}
	return c, nil
}

// ParsePaymentCriteria builds payment criteria. Recognized keys: status, type, range.
func ParsePaymentCriteria(params map[string]string) (PaymentCriteria, error) {
	c := PaymentCriteria{
		Status:    value(params, "status"),
		DateRange: value(params, "range"),
	}

	if isSet(c.Status) && !model.PaymentStatus(strings.ToLower(c.Status)).Valid() {
		return PaymentCriteria{}, fmt.Errorf("%w: payment status %q", ErrInvalidCriteria, c.Status)
	}

	if v := strings.ToUpper(value(params, "type")); isSet(strings.ToLower(v)) {
		if err := oneOf("type", v, string(model.PaymentTypePartial), string(model.PaymentTypeFull)); err != nil {
			return PaymentCriteria{}, err
		}
		c.PaymentType = model.PaymentType(v)
	}

	if err := oneOf("range", c.DateRange, RangeCurrentMonth, RangeLastMonth, RangeLast3Months); err != nil {
		return PaymentCriteria{}, err
	}
	return c, nil
}

func value(params map[string]string, key string) string {
	return strings.TrimSpace(params[key])
}

func oneOf(name, v string, allowed ...string) error {
	if !isSet(v) {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q", ErrInvalidCriteria, name, v)
}

func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidCriteria, v)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
