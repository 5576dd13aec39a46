// Package normalize turns raw backend records into the display vocabulary used by every view.
package normalize

import (
	"log/slog"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

type deliveryStatusMapping struct {
	backend string
	display model.DeliveryStatus
}

// Lookup is case-sensitive: the backend always sends upper snake case.
var deliveryStatusTable = []deliveryStatusMapping{
	{"PENDING", model.StatusPending},
	{"ACCEPTED", model.StatusAccepted},
	{"COLLECTED", model.StatusCollected},
	{"IN_TRANSIT", model.StatusInTransit},
	{"SHIPPING", model.StatusInTransit},
	{"ARRIVED", model.StatusInTransit},
	{"READY_FOR_PICKUP", model.StatusInTransit},
	{"OUT_FOR_DELIVERY", model.StatusInTransit},
	{"DELIVERED", model.StatusDelivered},
	{"CANCELLED", model.StatusCancelled},
}

var paymentStatusTable = map[string]model.PaymentStatus{
	"PENDING":  model.PaymentPending,
	"PAID":     model.PaymentPaid,
	"REFUNDED": model.PaymentRefunded,
	"FAILED":   model.PaymentFailed,
	"PARTIAL":  model.PaymentPartial,
}

// KnownDeliveryStatuses returns every backend delivery status the mapper recognizes.
func KnownDeliveryStatuses() []string {
	out := make([]string, 0, len(deliveryStatusTable))
	for _, m := range deliveryStatusTable {
		out = append(out, m.backend)
	}
	return out
}

// MapDeliveryStatus converts a backend delivery status into its display status.
// Unrecognized values fall back to pending and are logged.
func MapDeliveryStatus(apiStatus string) model.DeliveryStatus {
	for _, m := range deliveryStatusTable {
		if m.backend == apiStatus {
			return m.display
		}
	}
	slog.Warn("unrecognized delivery status", "status", apiStatus, "fallback", model.StatusPending)
	return model.StatusPending
}

// MapPaymentStatus converts a backend payment status into its display status.
// Unrecognized values fall back to pending and are logged.
func MapPaymentStatus(apiStatus string) model.PaymentStatus {
	if status, ok := paymentStatusTable[apiStatus]; ok {
		return status
	}
	slog.Warn("unrecognized payment status", "status", apiStatus, "fallback", model.PaymentPending)
	return model.PaymentPending
}

// BackendStatuses lists the backend values that map onto a display status, in table order.
func BackendStatuses(status model.DeliveryStatus) []string {
	var out []string
	for _, m := range deliveryStatusTable {
		if m.display == status {
			out = append(out, m.backend)
		}
	}
	return out
}
