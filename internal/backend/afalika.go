package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// DefaultSyncLogLimit is the page size of the sync log list.
const DefaultSyncLogLimit = 20

// SyncPackage pushes one delivery to Afalika.
func (c *Client) SyncPackage(ctx context.Context, deliveryID string) (*model.SyncResponse, error) {
	var resp model.SyncResponse
	if err := c.do(ctx, http.MethodPost, "/afalika/sync/package/"+escape(deliveryID), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to sync package %s: %w", deliveryID, err)
	}
	return &resp, nil
}

// UpdateStatuses asks the backend to pull delivery statuses from Afalika.
func (c *Client) UpdateStatuses(ctx context.Context) (*model.SyncResponse, error) {
	var resp model.SyncResponse
	if err := c.do(ctx, http.MethodGet, "/afalika/update-statuses", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to update statuses: %w", err)
	}
	return &resp, nil
}

// ListSyncLogs fetches one page of Afalika exchange logs. Pages are 1-based.
func (c *Client) ListSyncLogs(ctx context.Context, page, limit int) (*model.SyncLogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultSyncLogLimit
	}
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	var logs model.SyncLogPage
	if err := c.do(ctx, http.MethodGet, "/afalika/sync-logs", query, nil, &logs); err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	return &logs, nil
}
