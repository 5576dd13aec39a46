package normalize

import (
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// RejectionNotePrefix starts the history note the backend writes when a request is refused.
const RejectionNotePrefix = "Demande refusée: "

// Adapter converts backend deliveries into normalized deliveries.
type Adapter struct {
	images *ImageResolver
}

// NewAdapter creates an adapter that resolves image URLs with images.
func NewAdapter(images *ImageResolver) *Adapter {
	return &Adapter{images: images}
}

// Adapt normalizes one backend delivery. It never fails: unknown values degrade to defaults.
func (a *Adapter) Adapt(raw model.BackendDelivery) model.Delivery {
	return model.Delivery{
		ID:                 raw.ID,
		TrackingNumber:     raw.TrackingCode,
		PackageName:        raw.PackageName,
		ClientID:           raw.KabaUserID,
		RecipientName:      raw.RecipientName,
		RecipientPhone:     raw.BuyerPhoneNumber,
		Status:             MapDeliveryStatus(raw.CurrentStatus),
		BackendStatus:      raw.CurrentStatus,
		PaymentStatus:      latestPaymentStatus(raw.Payments),
		DeliveryMethod:     DeliveryMethodFor(raw.ShippingMode),
		DeclaredValue:      raw.DeclaredValue,
		Weight:             raw.EstimatedWeight,
		ActualWeight:       raw.ActualWeight,
		HomeDelivery:       raw.HomeDelivery,
		ProductImage:       a.images.Resolve(raw.ProductImage),
		PurchaseProofImage: a.images.Resolve(raw.PurchaseProofImage),
		CreatedAt:          raw.CreatedAt,
		EstimatedArrival:   raw.EstimatedArrival,
		Notes:              raw.Notes,
		CancellationReason: CancellationReason(raw),
		AfalikaBatchID:     raw.AfalikaBatchID,
		Payments:           raw.Payments,
	}
}

// AdaptAll normalizes a list of backend deliveries, preserving order.
func (a *Adapter) AdaptAll(raw []model.BackendDelivery) []model.Delivery {
	out := make([]model.Delivery, 0, len(raw))
	for _, d := range raw {
		out = append(out, a.Adapt(d))
	}
	return out
}

// DeliveryMethodFor maps a backend shipping mode to a delivery method.
// BATEAU in any case is boat; everything else, including empty, is plane.
func DeliveryMethodFor(shippingMode string) model.DeliveryMethod {
	if strings.EqualFold(shippingMode, string(model.ShippingModeSea)) {
		return model.MethodBoat
	}
	return model.MethodPlane
}

// The last payment in array order wins, whatever its date.
func latestPaymentStatus(payments []model.BackendPayment) model.PaymentStatus {
	if len(payments) == 0 {
		return model.PaymentPending
	}
	return MapPaymentStatus(payments[len(payments)-1].PaymentStatus)
}

// CancellationReason returns the direct cancellation reason, or the note of the most
// recent CANCELLED history entry with its rejection prefix removed.
func CancellationReason(raw model.BackendDelivery) string {
	if raw.CancellationReason != "" {
		return raw.CancellationReason
	}

	var latest *model.StatusHistoryEntry
	for i := range raw.StatusHistory {
		entry := &raw.StatusHistory[i]
		if entry.Status != "CANCELLED" || entry.Note == nil || *entry.Note == "" {
			continue
		}
		if latest == nil || entry.Timestamp.After(latest.Timestamp) {
			latest = entry
		}
	}
	if latest == nil {
		return ""
	}

	if reason, ok := strings.CutPrefix(*latest.Note, RejectionNotePrefix); ok {
		return reason
	}
	return *latest.Note
}
