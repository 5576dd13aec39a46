package testutil

import (
	"fmt"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
)

// DeliveryBuilder builds backend deliveries with sensible defaults.
//
// Example:
//
//	d := testutil.NewDelivery("d-1").
//		WithStatus("SHIPPING").
//		WithValue(15000).
//		Build()
type DeliveryBuilder struct {
	d model.BackendDelivery
}

// NewDelivery starts a pending air delivery owned by user-1.
func NewDelivery(id string) *DeliveryBuilder {
	return &DeliveryBuilder{d: model.BackendDelivery{
		ID:                id,
		TrackingCode:      "KB-" + id,
		PackageName:       "Colis " + id,
		DeclaredValue:     decimal.NewFromInt(10000),
		EstimatedWeight:   1,
		RecipientName:     "Ama Mensah",
		BuyerPhoneNumber:  "+22890000000",
		KabaUserID:        "user-1",
		CurrentStatus:     "PENDING",
		ShippingMode:      "AVION",
		CollectionOffice:  "Guangzhou",
		DestinationOffice: "Lomé",
		CreatedAt:         time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
}

// WithStatus sets the backend status.
func (b *DeliveryBuilder) WithStatus(status string) *DeliveryBuilder {
	b.d.CurrentStatus = status
	return b
}

// WithMode sets the backend shipping mode.
func (b *DeliveryBuilder) WithMode(mode string) *DeliveryBuilder {
	b.d.ShippingMode = mode
	return b
}

// WithValue sets the declared value.
func (b *DeliveryBuilder) WithValue(value int64) *DeliveryBuilder {
	b.d.DeclaredValue = decimal.NewFromInt(value)
	return b
}

// WithClient sets the owning user and recipient details.
func (b *DeliveryBuilder) WithClient(userID, name, phone string) *DeliveryBuilder {
	b.d.KabaUserID = userID
	b.d.RecipientName = name
	b.d.BuyerPhoneNumber = phone
	return b
}

// WithCreatedAt sets the creation time.
func (b *DeliveryBuilder) WithCreatedAt(t time.Time) *DeliveryBuilder {
	b.d.CreatedAt = t
	return b
}

// WithHomeDelivery sets the home delivery flag.
func (b *DeliveryBuilder) WithHomeDelivery(home bool) *DeliveryBuilder {
	b.d.HomeDelivery = home
	return b
}

// WithPayment appends a payment with the given backend status.
func (b *DeliveryBuilder) WithPayment(status string, amount int64) *DeliveryBuilder {
	b.d.Payments = append(b.d.Payments, model.BackendPayment{
		ID:            fmt.Sprintf("%s-pay-%d", b.d.ID, len(b.d.Payments)+1),
		Amount:        decimal.NewFromInt(amount),
		PaymentStatus: status,
	})
	return b
}

// WithHistory appends a status history entry.
func (b *DeliveryBuilder) WithHistory(status, note string, at time.Time) *DeliveryBuilder {
	entry := model.StatusHistoryEntry{Status: status, Timestamp: at}
	if note != "" {
		entry.Note = &note
	}
	b.d.StatusHistory = append(b.d.StatusHistory, entry)
	return b
}

// WithImages sets the product and purchase proof image references.
func (b *DeliveryBuilder) WithImages(product, proof string) *DeliveryBuilder {
	b.d.ProductImage = product
	b.d.PurchaseProofImage = proof
	return b
}

// WithAfalikaBatch marks the delivery as sent to Afalika.
func (b *DeliveryBuilder) WithAfalikaBatch(batchID string) *DeliveryBuilder {
	b.d.AfalikaBatchID = batchID
	return b
}

// Build returns the delivery.
func (b *DeliveryBuilder) Build() model.BackendDelivery {
	return b.d
}

// SampleDeliveries returns a small mixed set covering every status family and both modes.
func SampleDeliveries() []model.BackendDelivery {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []model.BackendDelivery{
		NewDelivery("d-1").WithValue(100).WithCreatedAt(base).Build(),
		NewDelivery("d-2").WithStatus("SHIPPING").WithMode("BATEAU").WithValue(200).
			WithClient("user-2", "Kofi Annan", "+22891111111").WithCreatedAt(base.AddDate(0, 0, 5)).
			WithPayment("PAID", 200).Build(),
		NewDelivery("d-3").WithStatus("DELIVERED").WithValue(300).WithCreatedAt(base.AddDate(0, 0, 10)).
			WithPayment("PARTIAL", 100).WithHomeDelivery(true).Build(),
		NewDelivery("d-4").WithStatus("CANCELLED").WithMode("bateau").WithValue(50).
			WithClient("user-3", "Yao Koffi", "+22892222222").WithCreatedAt(base.AddDate(0, -1, 0)).
			WithHistory("CANCELLED", "Demande refusée: Adresse invalide", base.AddDate(0, -1, 1)).Build(),
	}
}
