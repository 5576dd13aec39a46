// Package model holds the KABA domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// The backend exchanges amounts as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DeliveryStatus is the display vocabulary for a delivery's progress.
type DeliveryStatus string

const (
	// StatusPending is a request that has not been reviewed yet.
	StatusPending DeliveryStatus = "pending"
	// StatusAccepted is a request accepted by an administrator.
	StatusAccepted DeliveryStatus = "accepted"
	// StatusCollected is a parcel picked up at the collection office.
	StatusCollected DeliveryStatus = "collected"
	// StatusInTransit covers every backend state between shipping and hand-over.
	StatusInTransit DeliveryStatus = "in-transit"
	// StatusDelivered is a parcel handed to the recipient.
	StatusDelivered DeliveryStatus = "delivered"
	// StatusCancelled is a rejected or cancelled request.
	StatusCancelled DeliveryStatus = "cancelled"
)

// DeliveryStatuses lists display statuses in lifecycle order.
var DeliveryStatuses = []DeliveryStatus{
	StatusPending,
	StatusAccepted,
	StatusCollected,
	StatusInTransit,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is a known display status.
func (s DeliveryStatus) Valid() bool {
	for _, known := range DeliveryStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the French label shown to administrators.
func (s DeliveryStatus) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusCollected:
		return "Collecté"
	case StatusInTransit:
		return "En transit"
	case StatusDelivered:
		return "Livré"
	case StatusCancelled:
		return "Annulé"
	default:
		return string(s)
	}
}

// DeliveryMethod is the transport channel in display vocabulary.
type DeliveryMethod string

const (
	// MethodBoat is sea freight (backend BATEAU).
	MethodBoat DeliveryMethod = "boat"
	// MethodPlane is air freight (backend AVION).
	MethodPlane DeliveryMethod = "plane"
)

// Valid reports whether m is a known delivery method.
func (m DeliveryMethod) Valid() bool {
	return m == MethodBoat || m == MethodPlane
}

// ShippingMode is the transport channel in backend vocabulary.
type ShippingMode string

const (
	// ShippingModeAir is air freight, priced per kg.
	ShippingModeAir ShippingMode = "AVION"
	// ShippingModeSea is sea freight, priced per CBM.
	ShippingModeSea ShippingMode = "BATEAU"
)

// StatusHistoryEntry is one recorded transition of a delivery.
type StatusHistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Note      *string   `json:"note,omitempty"`
}

// BackendDelivery is a delivery exactly as the backend serves it.
type BackendDelivery struct {
	CreatedAt          time.Time            `json:"createdAt"`
	EstimatedArrival   *time.Time           `json:"estimatedArrival,omitempty"`
	ActualWeight       *float64             `json:"actualWeight,omitempty"`
	DeclaredValue      decimal.Decimal      `json:"declaredValue"`
	ID                 string               `json:"id"`
	TrackingCode       string               `json:"trackingCode"`
	PackageName        string               `json:"packageName"`
	PurchaseProofImage string               `json:"purchaseProofImage"`
	ProductImage       string               `json:"productImage"`
	RecipientName      string               `json:"recipientName"`
	BuyerPhoneNumber   string               `json:"buyerPhoneNumber"`
	AddressID          string               `json:"addressId,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	CollectionOffice   string               `json:"collectionOffice"`
	DestinationOffice  string               `json:"destinationOffice"`
	KabaUserID         string               `json:"kabaUserId"`
	CurrentStatus      string               `json:"currentStatus"`
	AfalikaBatchID     string               `json:"afalikaBatchId,omitempty"`
	AfalikaTrackingID  string               `json:"afalikaTrackingId,omitempty"`
	ShippingMode       string               `json:"shippingMode,omitempty"`
	CancellationReason string               `json:"cancellationReason,omitempty"`
	Payments           []BackendPayment     `json:"payments,omitempty"`
	StatusHistory      []StatusHistoryEntry `json:"statusHistory,omitempty"`
	EstimatedWeight    float64              `json:"estimatedWeight"`
	HomeDelivery       bool                 `json:"homeDelivery"`
}

// Delivery is the normalized record every view consumes.
type Delivery struct {
	CreatedAt          time.Time        `json:"createdAt"`
	EstimatedArrival   *time.Time       `json:"estimatedArrival,omitempty"`
	ActualWeight       *float64         `json:"actualWeight,omitempty"`
	DeclaredValue      decimal.Decimal  `json:"declaredValue"`
	ID                 string           `json:"id"`
	TrackingNumber     string           `json:"trackingNumber"`
	PackageName        string           `json:"packageName"`
	ClientID           string           `json:"clientId"`
	RecipientName      string           `json:"recipientName"`
	RecipientPhone     string           `json:"recipientPhone"`
	Status             DeliveryStatus   `json:"status"`
	BackendStatus      string           `json:"backendStatus"`
	PaymentStatus      PaymentStatus    `json:"paymentStatus"`
	DeliveryMethod     DeliveryMethod   `json:"deliveryMethod"`
	ProductImage       string           `json:"productImage"`
	PurchaseProofImage string           `json:"purchaseProofImage"`
	Notes              string           `json:"notes,omitempty"`
	CancellationReason string           `json:"cancellationReason,omitempty"`
	AfalikaBatchID     string           `json:"afalikaBatchId,omitempty"`
	Payments           []BackendPayment `json:"payments,omitempty"`
	Weight             float64          `json:"weight"`
	HomeDelivery       bool             `json:"homeDelivery"`
}

// AcceptDetails carries the optional fields of a detailed acceptance.
type AcceptDetails struct {
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`
	ActualWeight     *float64   `json:"actualWeight,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}
