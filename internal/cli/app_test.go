package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-ledger/internal/report"
	"github.com/Veraticus/expense-ledger/internal/testutil"
)

type appHarness struct {
	db         *testutil.TestDB
	out        *bytes.Buffer
	exportPath string
}

func newAppHarness(t *testing.T) *appHarness {
	t.Helper()
	return &appHarness{
		db:         testutil.SetupTestDB(t),
		out:        &bytes.Buffer{},
		exportPath: filepath.Join(t.TempDir(), "export", "report.csv"),
	}
}

func (h *appHarness) run(t *testing.T, lines ...string) string {
	t.Helper()
	h.out.Reset()
	input := strings.Join(lines, "\n") + "\n"
	app := NewApp(h.db.Repo, report.NewEngine(h.db.Store), NewPrompter(strings.NewReader(input), h.out), h.exportPath)
	require.NoError(t, app.Run(context.Background()))
	return h.out.String()
}

func TestApp_ExitAndClosedInput(t *testing.T) {
	h := newAppHarness(t)

	assert.Contains(t, h.run(t, "0"), "Goodbye!")
	assert.Contains(t, h.run(t, "1", "2"), "Goodbye!")
}

func TestApp_CategoryLifecycle(t *testing.T) {
	h := newAppHarness(t)
	ctx := context.Background()

	out := h.run(t, "1", "1", "", "Food", "2", "0", "0")
	assert.Contains(t, out, `Category "Food" saved`)
	assert.Contains(t, out, "A value is required.")

	cats, err := h.db.Repo.ListActiveCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	id := fmt.Sprint(cats[0].ID)

	out = h.run(t, "1", "3", id, "Groceries", "0", "0")
	assert.Contains(t, out, `renamed to "Groceries"`)

	out = h.run(t, "1", "4", id, "n", "0", "0")
	assert.NotContains(t, out, "deleted.")

	out = h.run(t, "1", "4", id, "y", "0", "0")
	assert.Contains(t, out, `Category "Groceries" deleted.`)

	cats, err = h.db.Repo.ListActiveCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestApp_AddExpense(t *testing.T) {
	h := newAppHarness(t)
	ctx := context.Background()
	c, err := h.db.Repo.AddCategory(ctx, "Food")
	require.NoError(t, err)

	out := h.run(t, "2", "1",
		"Bread",
		"2026-02-30", "2026-02-01",
		"-1", "45.50",
		fmt.Sprint(c.ID),
		"usd",
		"Fresh loaf",
		"0", "0")
	assert.Contains(t, out, `Expense "Bread" added`)
	assert.Contains(t, out, "YYYY-MM-DD format")
	assert.Contains(t, out, "positive number")

	rows, err := h.db.Repo.ListActiveExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "45.50", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "USD", rows[0].Currency)
	assert.Equal(t, "Fresh loaf", rows[0].Description)
}

func TestApp_AddExpenseWithoutCategories(t *testing.T) {
	h := newAppHarness(t)

	out := h.run(t, "2", "1", "0", "0")
	assert.Contains(t, out, "Add a category first.")
}

func TestApp_DomainErrorsKeepMenuOpen(t *testing.T) {
	h := newAppHarness(t)
	fx := testutil.NewLedgerBuilder(t).
		WithExpense("Bread", "2026-02-01", "Food", "40", "UAH").
		Build(h.db)

	out := h.run(t,
		"2", "1", "Milk", "2026-02-02", "30", "99", "", "",
		"3", "999",
		"0",
		"1", "4", fmt.Sprint(fx.Categories["Food"]), "y",
		"0", "0")

	assert.Contains(t, out, "category not found")
	assert.Contains(t, out, "expense not found")
	assert.Contains(t, out, "still used by active expenses")
	assert.Contains(t, out, "Goodbye!")
}

func TestApp_ShowUpdateDeleteExpense(t *testing.T) {
	h := newAppHarness(t)
	ctx := context.Background()
	fx := testutil.NewLedgerBuilder(t).
		WithExpense("Bread", "2026-02-01", "Food", "40", "UAH").
		Build(h.db)
	id := fmt.Sprint(fx.Expenses["Bread"])

	out := h.run(t, "2", "3", id, "0", "0")
	assert.Contains(t, out, "Expense #"+id)
	assert.Contains(t, out, "Bread")

	out = h.run(t, "2", "5", id, "Rye bread", "", "55", "", "eur", "fresh", "0", "0")
	assert.Contains(t, out, "updated: Rye bread, 55.00 EUR")

	row, err := h.db.Repo.GetExpense(ctx, fx.Expenses["Bread"])
	require.NoError(t, err)
	assert.Equal(t, "fresh", row.Description)
	assert.Equal(t, "2026-02-01", row.Date.Format("2006-01-02"))

	h.run(t, "2", "5", id, "", "", "", "", "", "clear", "0", "0")
	row, err = h.db.Repo.GetExpense(ctx, fx.Expenses["Bread"])
	require.NoError(t, err)
	assert.Empty(t, row.Description)

	out = h.run(t, "2", "6", id, "y", "2", "0", "0")
	assert.Contains(t, out, "Expense "+id+" deleted.")
	assert.Contains(t, out, "No expenses found.")
}

func TestApp_Search(t *testing.T) {
	h := newAppHarness(t)
	testutil.NewLedgerBuilder(t).
		WithExpense("Silpo groceries", "2026-02-01", "Food", "850", "UAH").
		WithExpense("Taxi", "2026-02-10", "Transport", "180", "UAH").
		Build(h.db)

	out := h.run(t, "2", "4", "", "trans", "bad-date", "2026-02-01", "", "0", "0")
	assert.Contains(t, out, "Taxi")
	assert.NotContains(t, out, "Silpo groceries")
}

func TestApp_Reports(t *testing.T) {
	h := newAppHarness(t)
	_, err := h.db.Repo.Seed(context.Background(), nil)
	require.NoError(t, err)

	out := h.run(t, "3", "1", "2", "3", "5", "0", "0")
	assert.Contains(t, out, "12580.50")
	assert.Contains(t, out, "720.00")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Groceries")

	out = h.run(t, "3", "4", "2026-03-01", "2026-03-31", "6", "2026-02-10", "2026-02-01", "0", "0")
	assert.Contains(t, out, "No expenses in this period.")
	assert.Contains(t, out, "end date must not be before start date")
}

func TestApp_ExportCSV(t *testing.T) {
	h := newAppHarness(t)
	testutil.NewLedgerBuilder(t).
		WithExpense("Bread", "2026-02-01", "Food", "40", "UAH").
		Build(h.db)

	out := h.run(t, "3", "8", "", "0", "0")
	assert.Contains(t, out, "Exported 1 expenses to "+h.exportPath)

	data, err := os.ReadFile(h.exportPath)
	require.NoError(t, err)
	assert.Equal(t, "Date,Title,Amount,Category\n2026-02-01,Bread,40.00,Food\n", string(data))
}

func TestApp_ExportCSVUnwritablePath(t *testing.T) {
	h := newAppHarness(t)
	h.exportPath = t.TempDir()

	out := h.run(t, "3", "8", "", "0", "0")
	assert.Contains(t, out, "Cannot write "+h.exportPath+"; check the path and its permissions.")
	assert.NotContains(t, out, "Exported")
}

func TestApp_Seed(t *testing.T) {
	h := newAppHarness(t)

	out := h.run(t, "4", "0")
	assert.Contains(t, out, "Prepared 7 categories and added 14 expenses.")

	rows, err := h.db.Repo.ListActiveExpenses(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 14)
}
