package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is derived from deliveries grouped by owning user; it is never stored.
type Client struct {
	LastDeliveryDate     *time.Time      `json:"lastDeliveryDate"`
	TotalSpent           decimal.Decimal `json:"totalSpent"`
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Phone                string          `json:"phone"`
	PendingDeliveries    []Delivery      `json:"pendingDeliveries"`
	DeliveryCount        int             `json:"deliveryCount"`
	PendingDeliveryCount int             `json:"pendingDeliveryCount"`
	PreferHomeDelivery   bool            `json:"preferHomeDelivery"`
}

// Address is a client's saved delivery address.
type Address struct {
	ID         string `json:"id"`
	KabaUserID string `json:"kabaUserId"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode,omitempty"`
	Label      string `json:"label,omitempty"`
	IsDefault  bool   `json:"isDefault"`
}
