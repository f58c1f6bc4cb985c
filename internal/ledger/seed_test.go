package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/testutil"
)

func TestSeed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	var calls, last int
	res, err := db.Repo.Seed(ctx, func(done, total int) {
		calls++
		last = done
		assert.Equal(t, ledger.SeedTotal(), total)
	})
	require.NoError(t, err)
	assert.Equal(t, len(ledger.DemoCategories), res.Categories)
	assert.Equal(t, 14, res.Expenses)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, ledger.SeedTotal(), calls)
	assert.Equal(t, ledger.SeedTotal(), last)

	cats, err := db.Repo.ListActiveCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(ledger.DemoCategories))

	rows, err := db.Repo.ListActiveExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 14)

	missingCurrency := 0
	for _, r := range rows {
		if r.Currency == "" {
			missingCurrency++
		}
	}
	assert.Equal(t, 2, missingCurrency)
}

func TestSeed_Twice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := db.Repo.Seed(ctx, nil)
	require.NoError(t, err)
	_, err = db.Repo.Seed(ctx, nil)
	require.NoError(t, err)

	cats, err := db.Repo.ListActiveCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(ledger.DemoCategories), "categories are reused")

	rows, err := db.Repo.ListActiveExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 28)
}

func TestSeed_SkipsDeletedCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	other, err := db.Repo.AddCategory(ctx, "Other")
	require.NoError(t, err)
	require.NoError(t, db.Repo.SoftDeleteCategory(ctx, other.ID))

	res, err := db.Repo.Seed(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 13, res.Expenses)
	assert.Equal(t, 1, res.Skipped)
}
