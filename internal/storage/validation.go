// Package storage provides the local persistence layer for the kaba console.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidSyncLog = errors.New("invalid sync log")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSyncLog validates a sync log before caching it.
func validateSyncLog(log *model.SyncLog) error {
	if log.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidSyncLog)
	}
	if log.Operation == "" {
		return fmt.Errorf("%w: missing operation", ErrInvalidSyncLog)
	}
	if log.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidSyncLog)
	}
	return nil
}
