// Package ledger owns the mutation contracts of the expense ledger: category
// and expense CRUD with soft delete, the referential checks that keep
// expenses pointing at active categories, and expense search.
package ledger

import (
	"database/sql"
	"strings"

	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/storage"
)

// Repository reads and writes categories and expenses.
type Repository struct {
	store *storage.Store
}

// NewRepository creates a repository backed by store.
func NewRepository(store *storage.Store) *Repository {
	return &Repository{store: store}
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanCategory(sc storage.Scanner) (model.Category, error) {
	var c model.Category
	err := sc.Scan(&c.ID, &c.Name, &c.IsDeleted)
	return c, err
}

const expenseRowColumns = `e.id, e.title, e.date, e.amount, e.category_id, c.name, e.currency, e.description`

func scanExpenseRow(sc storage.Scanner) (model.ExpenseRow, error) {
	var (
		row         model.ExpenseRow
		currency    sql.NullString
		description sql.NullString
	)
	err := sc.Scan(&row.ID, &row.Title, &row.Date, &row.Amount, &row.CategoryID,
		&row.CategoryName, &currency, &description)
	row.Currency = strings.TrimSpace(currency.String)
	row.Description = description.String
	return row, err
}

func scanExpense(sc storage.Scanner) (model.Expense, error) {
	var (
		e           model.Expense
		currency    sql.NullString
		description sql.NullString
	)
	err := sc.Scan(&e.ID, &e.Title, &e.Date, &e.Amount, &e.CategoryID, &currency, &description)
	e.Currency = strings.TrimSpace(currency.String)
	e.Description = description.String
	return e, err
}
