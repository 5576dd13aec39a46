package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingRate is a backend pricing rule for one shipping mode.
// PricePerKg is per kg for AVION and per CBM for BATEAU.
type ShippingRate struct {
	EffectiveFrom   time.Time       `json:"effectiveFrom"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	EffectiveTo     *time.Time      `json:"effectiveTo,omitempty"`
	InsuranceRate   *float64        `json:"insuranceRate,omitempty"`
	MaxWeight       *float64        `json:"maxWeight,omitempty"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	PricePerKg      decimal.Decimal `json:"pricePerKg"`
	HomeDeliveryFee decimal.Decimal `json:"homeDeliveryFee"`
	ID              string          `json:"id"`
	ShippingMode    ShippingMode    `json:"shippingMode"`
	MinWeight       float64         `json:"minWeight"`
	IsActive        bool            `json:"isActive"`
}

// UnitLabel returns the pricing unit of the rate's mode.
func (r ShippingRate) UnitLabel() string {
	if r.ShippingMode == ShippingModeSea {
		return "CBM"
	}
	return "kg"
}

// ShippingRateInput is the body of a rate create or update. Nil fields are omitted
// so an update only sends what changed.
type ShippingRateInput struct {
	ShippingMode    *ShippingMode    `json:"shippingMode,omitempty" validate:"omitempty,oneof=AVION BATEAU"`
	BasePrice       *decimal.Decimal `json:"basePrice,omitempty"`
	PricePerKg      *decimal.Decimal `json:"pricePerKg,omitempty"`
	HomeDeliveryFee *decimal.Decimal `json:"homeDeliveryFee,omitempty"`
	InsuranceRate   *float64         `json:"insuranceRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	MinWeight       *float64         `json:"minWeight,omitempty" validate:"omitempty,gte=0"`
	MaxWeight       *float64         `json:"maxWeight,omitempty" validate:"omitempty,gt=0"`
	IsActive        *bool            `json:"isActive,omitempty"`
	EffectiveFrom   *time.Time       `json:"effectiveFrom,omitempty"`
	EffectiveTo     *time.Time       `json:"effectiveTo,omitempty"`
}
