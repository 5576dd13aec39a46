package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// ListPayments fetches the payment ledger. An empty list is returned as is; callers
// decide whether to fall back to payments embedded in deliveries.
func (c *Client) ListPayments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := c.do(ctx, http.MethodGet, "/payments", nil, nil, &payments); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListRemittances fetches the payouts made to Afalika.
func (c *Client) ListRemittances(ctx context.Context) ([]model.Remittance, error) {
	var remittances []model.Remittance
	if err := c.do(ctx, http.MethodGet, "/remittances", nil, nil, &remittances); err != nil {
		return nil, fmt.Errorf("failed to list remittances: %w", err)
	}
	return remittances, nil
}

// ListAddresses fetches every saved client address.
func (c *Client) ListAddresses(ctx context.Context) ([]model.Address, error) {
	var addresses []model.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, nil, &addresses); err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}
