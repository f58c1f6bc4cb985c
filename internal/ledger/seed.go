package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/storage"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

// DemoCategories are the canonical categories created by Seed.
var DemoCategories = []string{
	"Groceries", "Transport", "Entertainment", "Utilities", "Health", "Education", "Other",
}

type demoExpense struct {
	title       string
	date        string
	category    string
	amount      string
	description string
	currency    string
}

// Two entries carry no currency, like rows written before the column existed.
var demoExpenses = []demoExpense{
	{"Silpo", "2026-02-01", "Groceries", "850.50", "Weekly shopping", "UAH"},
	{"WOG fuel", "2026-02-02", "Transport", "1200.00", "", "UAH"},
	{"Gym", "2026-02-03", "Health", "1500.00", "Monthly membership", "UAH"},
	{"Cinema", "2026-02-05", "Entertainment", "400.00", "Evening show tickets", ""},
	{"Internet", "2026-02-07", "Utilities", "350.00", "", "UAH"},
	{"Python course", "2026-02-10", "Education", "5000.00", "Module payment", "UAH"},
	{"Pharmacy", "2026-02-12", "Health", "320.00", "Vitamins", ""},
	{"Bolt taxi", "2026-02-14", "Transport", "180.00", "", "UAH"},
	{"Dinner", "2026-02-15", "Entertainment", "750.00", "Meeting friends", "UAH"},
	{"Vegetables", "2026-02-18", "Groceries", "420.00", "Market", "UAH"},
	{"Electricity", "2026-02-20", "Utilities", "980.00", "For January", "UAH"},
	{"Gift", "2026-02-22", "Other", "600.00", "Mechanical keyboard", "UAH"},
	{"Metro", "2026-02-23", "Transport", "200.00", "Smart card top-up", "UAH"},
	{"Blender book", "2026-02-24", "Education", "550.00", "Composition handbook", "UAH"},
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	Categories int
	Expenses   int
	Skipped    int
}

// SeedTotal is the number of progress steps Seed reports.
func SeedTotal() int {
	return len(DemoCategories) + len(demoExpenses)
}

// Seed fills the ledger with demo data. Existing categories are reused;
// expenses whose category was soft-deleted are skipped. progress, when not
// nil, is called after every step.
func (r *Repository) Seed(ctx context.Context, progress func(done, total int)) (SeedResult, error) {
	var res SeedResult
	total := SeedTotal()
	step := 0
	tick := func() {
		step++
		if progress != nil {
			progress(step, total)
		}
	}

	ids := make(map[string]int64, len(DemoCategories))
	for _, name := range DemoCategories {
		c, err := r.EnsureCategory(ctx, name)
		if err != nil {
			return res, fmt.Errorf("seed category %q: %w", name, err)
		}
		if !c.IsDeleted {
			ids[name] = c.ID
		}
		res.Categories++
		tick()
	}

	err := r.store.InTx(ctx, func(q storage.Runner) error {
		for _, d := range demoExpenses {
			id, ok := ids[d.category]
			if !ok {
				slog.Warn("skipping demo expense, category deleted", "title", d.title, "category", d.category)
				res.Skipped++
				tick()
				continue
			}
			date, err := validation.ParseDate(d.date)
			if err != nil {
				return fmt.Errorf("%w: %w", common.ErrInvalidData, err)
			}
			if _, err := insertExpense(ctx, q, model.Expense{
				Date:        date,
				Amount:      decimal.RequireFromString(d.amount),
				Title:       d.title,
				Description: d.description,
				Currency:    d.currency,
				CategoryID:  id,
			}); err != nil {
				return err
			}
			res.Expenses++
			tick()
		}
		return nil
	})
	if err != nil {
		res.Expenses, res.Skipped = 0, 0
		return res, fmt.Errorf("seed expenses: %w", err)
	}

	slog.Info("demo data seeded", "categories", res.Categories, "expenses", res.Expenses, "skipped", res.Skipped)
	return res, nil
}
