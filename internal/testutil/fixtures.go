package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/expense-ledger/internal/ledger"
)

type expenseFixture struct {
	key      string
	in       ledger.NewExpense
	category string
	deleted  bool
}

// LedgerBuilder collects categories and expenses and writes them through the
// repository, so fixtures obey the same rules as user input.
type LedgerBuilder struct {
	t          *testing.T
	categories []string
	expenses   []expenseFixture
}

// Fixtures maps fixture names to the ids they were stored under.
type Fixtures struct {
	Categories map[string]int64
	Expenses   map[string]int64
}

// NewLedgerBuilder creates an empty builder.
func NewLedgerBuilder(t *testing.T) *LedgerBuilder {
	t.Helper()
	return &LedgerBuilder{t: t}
}

// WithCategory adds an active category.
func (b *LedgerBuilder) WithCategory(name string) *LedgerBuilder {
	b.categories = append(b.categories, name)
	return b
}

// WithExpense adds an active expense keyed by its title. An empty currency
// falls back to the repository default.
func (b *LedgerBuilder) WithExpense(title, date, category, amount, currency string) *LedgerBuilder {
	return b.withExpense(title, date, category, amount, currency, false)
}

// WithDeletedExpense adds an expense and soft-deletes it right away.
func (b *LedgerBuilder) WithDeletedExpense(title, date, category, amount, currency string) *LedgerBuilder {
	return b.withExpense(title, date, category, amount, currency, true)
}

func (b *LedgerBuilder) withExpense(title, date, category, amount, currency string, deleted bool) *LedgerBuilder {
	b.expenses = append(b.expenses, expenseFixture{
		key:      title,
		category: category,
		deleted:  deleted,
		in: ledger.NewExpense{
			Title:    title,
			Date:     date,
			Amount:   amount,
			Currency: currency,
		},
	})
	return b
}

// Build stores everything in db. Categories named by an expense but not
// added explicitly are created on demand.
func (b *LedgerBuilder) Build(db *TestDB) Fixtures {
	b.t.Helper()
	ctx := context.Background()
	fx := Fixtures{
		Categories: make(map[string]int64),
		Expenses:   make(map[string]int64),
	}

	ensure := func(name string) int64 {
		if id, ok := fx.Categories[name]; ok {
			return id
		}
		c, err := db.Repo.AddCategory(ctx, name)
		if err != nil {
			b.t.Fatalf("failed to seed category %q: %v", name, err)
		}
		fx.Categories[name] = c.ID
		return c.ID
	}

	for _, name := range b.categories {
		ensure(name)
	}
	for _, e := range b.expenses {
		in := e.in
		in.CategoryID = ensure(e.category)
		created, err := db.Repo.AddExpense(ctx, in)
		if err != nil {
			b.t.Fatalf("failed to seed expense %q: %v", e.key, err)
		}
		if e.deleted {
			if err := db.Repo.SoftDeleteExpense(ctx, created.ID); err != nil {
				b.t.Fatalf("failed to delete expense %q: %v", e.key, err)
			}
		}
		fx.Expenses[e.key] = created.ID
	}
	return fx
}
