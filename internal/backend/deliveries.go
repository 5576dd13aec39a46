package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
)

// ListDeliveries fetches every delivery. The backend does not filter server-side.
func (c *Client) ListDeliveries(ctx context.Context) ([]model.BackendDelivery, error) {
	var deliveries []model.BackendDelivery
	if err := c.do(ctx, http.MethodGet, "/deliveries", nil, nil, &deliveries); err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return deliveries, nil
}

// GetDelivery fetches one delivery. A missing delivery yields common.ErrNotFound,
// whether the backend answers 404 or a null body.
func (c *Client) GetDelivery(ctx context.Context, id string) (*model.BackendDelivery, error) {
	var delivery *model.BackendDelivery
	if err := c.do(ctx, http.MethodGet, "/deliveries/"+escape(id), nil, nil, &delivery); err != nil {
		return nil, fmt.Errorf("failed to get delivery %s: %w", id, err)
	}
	if delivery == nil {
		return nil, fmt.Errorf("delivery %s: %w", id, common.ErrNotFound)
	}
	return delivery, nil
}

// AcceptDelivery moves a pending delivery to ACCEPTED without extra details.
func (c *Client) AcceptDelivery(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPost, "/deliveries/"+escape(id)+"/accept-simple", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to accept delivery %s: %w", id, err)
	}
	return nil
}

// AcceptDeliveryWithDetails accepts a delivery recording arrival, weight and notes.
func (c *Client) AcceptDeliveryWithDetails(ctx context.Context, id string, details model.AcceptDetails) error {
	if err := c.do(ctx, http.MethodPatch, "/deliveries/"+escape(id)+"/accept", nil, details, nil); err != nil {
		return fmt.Errorf("failed to accept delivery %s: %w", id, err)
	}
	return nil
}

// RejectDelivery cancels a delivery. A blank reason is refused before any request is sent.
func (c *Client) RejectDelivery(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return common.ErrReasonRequired
	}
	body := struct {
		RejectionReason string `json:"rejectionReason"`
	}{RejectionReason: reason}
	if err := c.do(ctx, http.MethodPost, "/deliveries/"+escape(id)+"/reject", nil, body, nil); err != nil {
		return fmt.Errorf("failed to reject delivery %s: %w", id, err)
	}
	return nil
}
