package engine

import (
	"context"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Backend is the part of the KABA API the views read from.
type Backend interface {
	ListDeliveries(ctx context.Context) ([]model.BackendDelivery, error)
	GetDelivery(ctx context.Context, id string) (*model.BackendDelivery, error)
	ListPayments(ctx context.Context) ([]model.Payment, error)
	ListRemittances(ctx context.Context) ([]model.Remittance, error)
	ListAddresses(ctx context.Context) ([]model.Address, error)
}
