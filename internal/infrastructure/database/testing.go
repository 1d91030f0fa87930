package database

import (
	"context"
	"testing"
)

// NewTestStore returns a private in-memory SQLite store with the schema applied.
// It is closed automatically when the test ends.
func NewTestStore(t testing.TB) *Store {
	t.Helper()

	db, err := OpenSQLite(memoryPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}

	store := NewSQLiteStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		db.Close()
		t.Fatalf("apply test schema: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}
