package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
)

// FakeBackend is an in-memory stand-in for the KABA API client.
// Err, when set, is returned by every call.
type FakeBackend struct {
	Err         error
	Rejected    map[string]string
	calls       map[string]int
	Deliveries  []model.BackendDelivery
	Payments    []model.Payment
	Remittances []model.Remittance
	Addresses   []model.Address
	Rates       []model.ShippingRate
	SyncLogs    []model.SyncLog
	Accepted    []string
	Synced      []string
	mu          sync.Mutex
}

// NewFakeBackend returns a backend serving the given deliveries.
func NewFakeBackend(deliveries ...model.BackendDelivery) *FakeBackend {
	return &FakeBackend{
		Deliveries: deliveries,
		Rejected:   make(map[string]string),
		calls:      make(map[string]int),
	}
}

// Calls returns how many times method was invoked.
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeBackend) record(ctx context.Context, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Err
}

// ListDeliveries returns a copy of the deliveries.
func (f *FakeBackend) ListDeliveries(ctx context.Context) ([]model.BackendDelivery, error) {
	if err := f.record(ctx, "ListDeliveries"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.BackendDelivery(nil), f.Deliveries...), nil
}

// GetDelivery finds a delivery by id.
func (f *FakeBackend) GetDelivery(ctx context.Context, id string) (*model.BackendDelivery, error) {
	if err := f.record(ctx, "GetDelivery"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.Deliveries {
		if d.ID == id {
			found := d
			return &found, nil
		}
	}
	return nil, fmt.Errorf("delivery %s: %w", id, common.ErrNotFound)
}

// ListPayments returns the configured payments.
func (f *FakeBackend) ListPayments(ctx context.Context) ([]model.Payment, error) {
	if err := f.record(ctx, "ListPayments"); err != nil {
		return nil, err
	}
	return f.Payments, nil
}

// ListRemittances returns the configured remittances.
func (f *FakeBackend) ListRemittances(ctx context.Context) ([]model.Remittance, error) {
	if err := f.record(ctx, "ListRemittances"); err != nil {
		return nil, err
	}
	return f.Remittances, nil
}

// ListAddresses returns the configured addresses.
func (f *FakeBackend) ListAddresses(ctx context.Context) ([]model.Address, error) {
	if err := f.record(ctx, "ListAddresses"); err != nil {
		return nil, err
	}
	return f.Addresses, nil
}

// AcceptDelivery marks a delivery ACCEPTED.
func (f *FakeBackend) AcceptDelivery(ctx context.Context, id string) error {
	return f.setStatus(ctx, "AcceptDelivery", id, "ACCEPTED", "")
}

// AcceptDeliveryWithDetails marks a delivery ACCEPTED and records the notes.
func (f *FakeBackend) AcceptDeliveryWithDetails(ctx context.Context, id string, details model.AcceptDetails) error {
	return f.setStatus(ctx, "AcceptDeliveryWithDetails", id, "ACCEPTED", details.Notes)
}

// RejectDelivery cancels a delivery, refusing a blank reason like the real client.
func (f *FakeBackend) RejectDelivery(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return common.ErrReasonRequired
	}
	return f.setStatus(ctx, "RejectDelivery", id, "CANCELLED", reason)
}

func (f *FakeBackend) setStatus(ctx context.Context, method, id, status, note string) error {
	if err := f.record(ctx, method); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Deliveries {
		if f.Deliveries[i].ID != id {
			continue
		}
		f.Deliveries[i].CurrentStatus = status
		switch status {
		case "ACCEPTED":
			f.Accepted = append(f.Accepted, id)
		case "CANCELLED":
			f.Deliveries[i].CancellationReason = note
			f.Rejected[id] = note
		}
		return nil
	}
	return fmt.Errorf("delivery %s: %w", id, common.ErrNotFound)
}

// ListShippingRates returns the rates, optionally only the active ones.
func (f *FakeBackend) ListShippingRates(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error) {
	if err := f.record(ctx, "ListShippingRates"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ShippingRate
	for _, r := range f.Rates {
		if activeOnly && !r.IsActive {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// GetShippingRate finds a rate by id.
func (f *FakeBackend) GetShippingRate(ctx context.Context, id string) (*model.ShippingRate, error) {
	if err := f.record(ctx, "GetShippingRate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Rates {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("shipping rate %s: %w", id, common.ErrNotFound)
}

// CreateShippingRate appends a rate built from input.
func (f *FakeBackend) CreateShippingRate(ctx context.Context, input model.ShippingRateInput) (*model.ShippingRate, error) {
	if err := f.record(ctx, "CreateShippingRate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rate := model.ShippingRate{ID: fmt.Sprintf("rate-%d", len(f.Rates)+1), IsActive: true}
	applyRateInput(&rate, input)
	f.Rates = append(f.Rates, rate)
	return &rate, nil
}

// UpdateShippingRate applies the set fields of input.
func (f *FakeBackend) UpdateShippingRate(ctx context.Context, id string, input model.ShippingRateInput) (*model.ShippingRate, error) {
	if err := f.record(ctx, "UpdateShippingRate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rates {
		if f.Rates[i].ID == id {
			applyRateInput(&f.Rates[i], input)
			updated := f.Rates[i]
			return &updated, nil
		}
	}
	return nil, fmt.Errorf("shipping rate %s: %w", id, common.ErrNotFound)
}

// DeleteShippingRate deactivates or removes a rate.
func (f *FakeBackend) DeleteShippingRate(ctx context.Context, id string, soft bool) error {
	if err := f.record(ctx, "DeleteShippingRate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rates {
		if f.Rates[i].ID != id {
			continue
		}
		if soft {
			f.Rates[i].IsActive = false
		} else {
			f.Rates = append(f.Rates[:i], f.Rates[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("shipping rate %s: %w", id, common.ErrNotFound)
}

// SyncPackage records a sync of deliveryID.
func (f *FakeBackend) SyncPackage(ctx context.Context, deliveryID string) (*model.SyncResponse, error) {
	if err := f.record(ctx, "SyncPackage"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Synced = append(f.Synced, deliveryID)
	return &model.SyncResponse{Success: true, Message: "synced " + deliveryID}, nil
}

// UpdateStatuses reports success.
func (f *FakeBackend) UpdateStatuses(ctx context.Context) (*model.SyncResponse, error) {
	if err := f.record(ctx, "UpdateStatuses"); err != nil {
		return nil, err
	}
	return &model.SyncResponse{Success: true, Message: "statuses updated"}, nil
}

// ListSyncLogs pages through SyncLogs.
func (f *FakeBackend) ListSyncLogs(ctx context.Context, page, limit int) (*model.SyncLogPage, error) {
	if err := f.record(ctx, "ListSyncLogs"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(f.SyncLogs)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return &model.SyncLogPage{
		Data: append([]model.SyncLog(nil), f.SyncLogs[start:end]...),
		Meta: model.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

func applyRateInput(rate *model.ShippingRate, input model.ShippingRateInput) {
	if input.ShippingMode != nil {
		rate.ShippingMode = *input.ShippingMode
	}
	if input.BasePrice != nil {
		rate.BasePrice = *input.BasePrice
	}
	if input.PricePerKg != nil {
		rate.PricePerKg = *input.PricePerKg
	}
	if input.HomeDeliveryFee != nil {
		rate.HomeDeliveryFee = *input.HomeDeliveryFee
	}
	if input.InsuranceRate != nil {
		rate.InsuranceRate = input.InsuranceRate
	}
	if input.MinWeight != nil {
		rate.MinWeight = *input.MinWeight
	}
	if input.MaxWeight != nil {
		rate.MaxWeight = input.MaxWeight
	}
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}
	if input.EffectiveFrom != nil {
		rate.EffectiveFrom = *input.EffectiveFrom
	}
	if input.EffectiveTo != nil {
		rate.EffectiveTo = input.EffectiveTo
	}
}
