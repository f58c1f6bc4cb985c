package testutil_test

import (
	"context"
	"testing"

	"github.com/Veraticus/expense-ledger/internal/testutil"
)

func TestLedgerBuilder_Build(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewLedgerBuilder(t).
		WithCategory("Food").
		WithCategory("Empty").
		WithExpense("Bread", "2026-02-01", "Food", "25.50", "").
		WithExpense("Taxi", "2026-02-02", "Transport", "80", "usd").
		WithDeletedExpense("Refund", "2026-02-03", "Food", "10", "UAH").
		Build(db)

	if len(fx.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(fx.Categories))
	}
	if len(fx.Expenses) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(fx.Expenses))
	}

	rows, err := db.Repo.ListActiveExpenses(context.Background())
	if err != nil {
		t.Fatalf("failed to list expenses: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 active expenses, got %d", len(rows))
	}
	if rows[0].Currency != "UAH" {
		t.Errorf("expected default currency UAH, got %q", rows[0].Currency)
	}
	if rows[1].Currency != "USD" || rows[1].CategoryName != "Transport" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}
