package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the display vocabulary for a payment.
type PaymentStatus string

const (
	// PaymentPending is an unpaid or unknown payment.
	PaymentPending PaymentStatus = "pending"
	// PaymentPaid is a settled payment.
	PaymentPaid PaymentStatus = "paid"
	// PaymentRefunded is a payment returned to the client.
	PaymentRefunded PaymentStatus = "refunded"
	// PaymentFailed is a rejected payment attempt.
	PaymentFailed PaymentStatus = "failed"
	// PaymentPartial is a deposit covering part of the price.
	PaymentPartial PaymentStatus = "partial"
)

// PaymentStatuses lists every display payment status.
var PaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentPaid,
	PaymentRefunded,
	PaymentFailed,
	PaymentPartial,
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	for _, known := range PaymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentType distinguishes deposits from full settlements.
type PaymentType string

const (
	// PaymentTypePartial is a deposit.
	PaymentTypePartial PaymentType = "PARTIAL"
	// PaymentTypeFull settles the whole price.
	PaymentTypeFull PaymentType = "FULL"
)

// BackendPayment is a payment embedded in a backend delivery.
type BackendPayment struct {
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ID            string          `json:"id"`
	PaymentStatus string          `json:"paymentStatus"`
	TransactionID string          `json:"transactionId,omitempty"`
}

// Payment is a row of the finance view.
type Payment struct {
	PaymentDate       time.Time        `json:"paymentDate"`
	TotalAmount       *decimal.Decimal `json:"totalAmount,omitempty"`
	Amount            decimal.Decimal  `json:"amount"`
	ID                string           `json:"id"`
	PaymentStatus     string           `json:"paymentStatus"`
	TransactionID     string           `json:"transactionId,omitempty"`
	Method            string           `json:"method"`
	TrackingNumber    string           `json:"trackingNumber"`
	DeliveryID        string           `json:"deliveryId"`
	PaymentType       PaymentType      `json:"paymentType"`
	NotifiedToAfalika bool             `json:"notifiedToAfalika"`
}

// IsPaid reports whether the backend status is PAID, ignoring case.
func (p Payment) IsPaid() bool {
	return strings.EqualFold(p.PaymentStatus, "PAID")
}

// MethodLabel returns the French label of the payment method.
func (p Payment) MethodLabel() string {
	switch p.Method {
	case "card":
		return "Carte bancaire"
	case "mobile_money":
		return "Mobile Money"
	case "bank_transfer":
		return "Virement bancaire"
	default:
		return p.Method
	}
}

// RemittanceStatus is the state of a payout to Afalika.
type RemittanceStatus string

const (
	// RemittancePending is a payout not yet transferred.
	RemittancePending RemittanceStatus = "pending"
	// RemittanceCompleted is a transferred payout.
	RemittanceCompleted RemittanceStatus = "completed"
)

// Remittance is a batched payout from KABA to Afalika.
type Remittance struct {
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	RemittanceDate time.Time       `json:"remittanceDate"`
	Amount         decimal.Decimal `json:"amount"`
	ID             string          `json:"id"`
	Reference      string          `json:"reference"`
	Status         string          `json:"status"`
	PaymentCount   int             `json:"paymentCount"`
}

// Completed reports whether the payout was transferred. The backend sends either case.
func (r Remittance) Completed() bool {
	return strings.EqualFold(r.Status, string(RemittanceCompleted))
}
