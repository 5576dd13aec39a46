// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Settings keys persisted in local storage.
const (
	SettingAuthenticated  = "authenticated"
	SettingCommissionRate = "commission_rate"
)

// SettingsStore persists small key/value application settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// SyncLogCache keeps the last Afalika sync logs fetched from the backend.
type SyncLogCache interface {
	SaveSyncLogs(ctx context.Context, logs []model.SyncLog) error
	GetSyncLogs(ctx context.Context, limit int) ([]model.SyncLog, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	SettingsStore
	SyncLogCache

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions returns a single attempt: failed requests surface to the caller.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  1,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}
