// Package testutil provides in-memory ledger databases and a fluent fixture
// builder for tests.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	fx := testutil.NewLedgerBuilder(t).
//		WithCategory("Food").
//		WithExpense("Bread", "2026-02-01", "Food", "25.50", "UAH").
//		Build(db)
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/storage"
)

// TestDB is a migrated in-memory database with a repository on top.
type TestDB struct {
	Store *storage.Store
	Repo  *ledger.Repository
}

// SetupTestDB creates a new in-memory SQLite ledger. It runs the schema
// setup and closes the store when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.OpenSQLite(context.Background(), storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return &TestDB{
		Store: store,
		Repo:  ledger.NewRepository(store),
	}
}
