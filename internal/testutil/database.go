// Package testutil provides shared test helpers for the kaba console: an isolated
// settings database and fluent builders for backend fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/kaba-chine/kaba-admin/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory test database.
// It is closed automatically when the test finishes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustSetSetting stores a setting or fails the test.
func (db *TestDB) MustSetSetting(key, value string) {
	db.t.Helper()
	if err := db.Storage.SetSetting(context.Background(), key, value); err != nil {
		db.t.Fatalf("failed to set setting %q: %v", key, err)
	}
}

// MustGetSetting reads a setting or fails the test.
func (db *TestDB) MustGetSetting(key string) string {
	db.t.Helper()
	value, err := db.Storage.GetSetting(context.Background(), key)
	if err != nil {
		db.t.Fatalf("failed to get setting %q: %v", key, err)
	}
	return value
}
