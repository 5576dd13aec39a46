package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
)

var validate = validator.New()

// ValidateRateInput checks the bounds of a create or update body.
func ValidateRateInput(input model.ShippingRateInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}
	if input.MinWeight != nil && input.MaxWeight != nil && *input.MaxWeight < *input.MinWeight {
		return fmt.Errorf("%w: maxWeight must not be below minWeight", common.ErrInvalidInput)
	}
	if input.EffectiveFrom != nil && input.EffectiveTo != nil && input.EffectiveTo.Before(*input.EffectiveFrom) {
		return fmt.Errorf("%w: effectiveTo must not be before effectiveFrom", common.ErrInvalidInput)
	}
	return nil
}

// ListShippingRates fetches pricing rules, optionally only the active ones.
func (c *Client) ListShippingRates(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error) {
	query := url.Values{"activeOnly": {strconv.FormatBool(activeOnly)}}
	var rates []model.ShippingRate
	if err := c.do(ctx, http.MethodGet, "/shipping-rates", query, nil, &rates); err != nil {
		return nil, fmt.Errorf("failed to list shipping rates: %w", err)
	}
	return rates, nil
}

// GetShippingRate fetches one pricing rule.
func (c *Client) GetShippingRate(ctx context.Context, id string) (*model.ShippingRate, error) {
	var rate model.ShippingRate
	if err := c.do(ctx, http.MethodGet, "/shipping-rates/"+escape(id), nil, nil, &rate); err != nil {
		return nil, fmt.Errorf("failed to get shipping rate %s: %w", id, err)
	}
	return &rate, nil
}

// CreateShippingRate creates a pricing rule. Mode and prices are required.
func (c *Client) CreateShippingRate(ctx context.Context, input model.ShippingRateInput) (*model.ShippingRate, error) {
	if input.ShippingMode == nil || input.BasePrice == nil || input.PricePerKg == nil {
		return nil, fmt.Errorf("%w: shippingMode, basePrice and pricePerKg are required", common.ErrInvalidInput)
	}
	if err := ValidateRateInput(input); err != nil {
		return nil, err
	}
	var rate model.ShippingRate
	if err := c.do(ctx, http.MethodPost, "/shipping-rates", nil, input, &rate); err != nil {
		return nil, fmt.Errorf("failed to create shipping rate: %w", err)
	}
	return &rate, nil
}

// UpdateShippingRate sends only the fields set in input.
func (c *Client) UpdateShippingRate(ctx context.Context, id string, input model.ShippingRateInput) (*model.ShippingRate, error) {
	if err := ValidateRateInput(input); err != nil {
		return nil, err
	}
	var rate model.ShippingRate
	if err := c.do(ctx, http.MethodPatch, "/shipping-rates/"+escape(id), nil, input, &rate); err != nil {
		return nil, fmt.Errorf("failed to update shipping rate %s: %w", id, err)
	}
	return &rate, nil
}

// DeleteShippingRate removes a pricing rule. A soft delete only deactivates it.
func (c *Client) DeleteShippingRate(ctx context.Context, id string, soft bool) error {
	query := url.Values{"softDelete": {strconv.FormatBool(soft)}}
	if err := c.do(ctx, http.MethodDelete, "/shipping-rates/"+escape(id), query, nil, nil); err != nil {
		return fmt.Errorf("failed to delete shipping rate %s: %w", id, err)
	}
	return nil
}
