package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/storage"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

// clearTokens set the description to NULL when given as an update.
var clearTokens = map[string]bool{"clear": true, "none": true, "-": true}

// NewExpense is raw user input for AddExpense.
type NewExpense struct {
	Title       string
	Date        string
	Amount      string
	Description string
	// Currency defaults to model.DefaultCurrency when empty.
	Currency   string
	CategoryID int64
}

// ExpenseChanges is raw user input for UpdateExpense. Empty fields and a
// zero CategoryID keep the stored value.
type ExpenseChanges struct {
	Title    string
	Date     string
	Amount   string
	Currency string
	// Description is kept when empty, cleared by "clear", "none" or "-",
	// and replaced otherwise.
	Description string
	CategoryID  int64
}

type parsedExpense struct {
	date   time.Time
	amount decimal.Decimal
}

func parseDateAmount(date, amount string) (parsedExpense, error) {
	d, err := validation.ParseDate(date)
	if err != nil {
		return parsedExpense{}, fmt.Errorf("%w: %w", common.ErrInvalidData, common.ErrInvalidDate)
	}
	a, err := parseMoney(amount)
	if err != nil {
		return parsedExpense{}, err
	}
	return parsedExpense{date: d, amount: a}, nil
}

// parseMoney accepts positive amounts with at most two decimal places, the
// precision of the amount column.
func parseMoney(s string) (decimal.Decimal, error) {
	a, err := validation.ParseAmount(s)
	if err != nil || !a.Equal(a.Round(2)) {
		return decimal.Zero, fmt.Errorf("%w: %w", common.ErrInvalidData, common.ErrInvalidAmount)
	}
	return a.Round(2), nil
}

func normalizeCurrency(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.DefaultCurrency, nil
	}
	if !validation.ValidCurrency(code) {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidCurrency, code)
	}
	return strings.ToUpper(code), nil
}

// AddExpense validates in and records a new expense against an active
// category. Nothing is written when any check fails.
func (r *Repository) AddExpense(ctx context.Context, in NewExpense) (model.Expense, error) {
	added, err := r.AddExpenses(ctx, []NewExpense{in})
	if err != nil {
		return model.Expense{}, err
	}
	return added[0], nil
}

// AddExpenses records several expenses in one transaction. Either all of
// them are written or none is.
func (r *Repository) AddExpenses(ctx context.Context, in []NewExpense) ([]model.Expense, error) {
	added := make([]model.Expense, 0, len(in))
	for i, ne := range in {
		e, err := prepareExpense(ne)
		if err != nil {
			if len(in) > 1 {
				return nil, fmt.Errorf("expense %d (%q): %w", i+1, ne.Title, err)
			}
			return nil, err
		}
		added = append(added, e)
	}

	err := r.store.InTx(ctx, func(q storage.Runner) error {
		checked := make(map[int64]bool)
		for i := range added {
			if !checked[added[i].CategoryID] {
				if _, err := activeCategory(ctx, q, added[i].CategoryID); err != nil {
					return err
				}
				checked[added[i].CategoryID] = true
			}
			id, err := insertExpense(ctx, q, added[i])
			if err != nil {
				return err
			}
			added[i].ID = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range added {
		slog.Info("expense added", "id", e.ID, "title", e.Title, "amount", e.Amount.String(), "currency", e.Currency)
	}
	return added, nil
}

func prepareExpense(in NewExpense) (model.Expense, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Expense{}, common.ErrBlankTitle
	}
	if in.CategoryID <= 0 {
		return model.Expense{}, common.ErrInvalidID
	}
	parsed, err := parseDateAmount(in.Date, in.Amount)
	if err != nil {
		return model.Expense{}, err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return model.Expense{}, err
	}

	return model.Expense{
		Date:        parsed.date,
		Title:       title,
		Amount:      parsed.amount,
		Description: strings.TrimSpace(in.Description),
		Currency:    currency,
		CategoryID:  in.CategoryID,
	}, nil
}

// insertExpense writes e without any checks. Empty currency and description
// are stored as NULL.
func insertExpense(ctx context.Context, q storage.Runner, e model.Expense) (int64, error) {
	id, _, err := storage.One(ctx, q, scanID, `
		INSERT INTO expenses (title, date, category_id, amount, description, currency)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		e.Title, validation.FormatDate(e.Date), e.CategoryID, e.Amount,
		nullable(e.Description), nullable(e.Currency))
	return id, err
}

// UpdateExpense applies the supplied changes to an active expense. The read
// and the write share one transaction.
func (r *Repository) UpdateExpense(ctx context.Context, id int64, ch ExpenseChanges) (model.Expense, error) {
	if id <= 0 {
		return model.Expense{}, common.ErrInvalidID
	}
	if ch.CategoryID < 0 {
		return model.Expense{}, common.ErrInvalidID
	}

	var updated model.Expense
	err := r.store.InTx(ctx, func(q storage.Runner) error {
		cur, found, err := storage.One(ctx, q, scanExpense, `
			SELECT id, title, date, amount, category_id, currency, description
			FROM expenses WHERE id = ? AND is_deleted = FALSE`, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: id %d", common.ErrExpenseNotFound, id)
		}

		next, err := applyChanges(cur, ch)
		if err != nil {
			return err
		}
		if ch.CategoryID > 0 {
			if _, err := activeCategory(ctx, q, ch.CategoryID); err != nil {
				return err
			}
		}

		_, err = q.Exec(ctx, `
			UPDATE expenses
			SET category_id = ?, title = ?, date = ?, amount = ?, description = ?, currency = ?
			WHERE id = ?`,
			next.CategoryID, next.Title, validation.FormatDate(next.Date), next.Amount,
			nullable(next.Description), nullable(next.Currency), id)
		updated = next
		return err
	})
	if err != nil {
		return model.Expense{}, err
	}

	slog.Info("expense updated", "id", id)
	return updated, nil
}

func applyChanges(cur model.Expense, ch ExpenseChanges) (model.Expense, error) {
	next := cur
	if ch.CategoryID > 0 {
		next.CategoryID = ch.CategoryID
	}
	if t := strings.TrimSpace(ch.Title); t != "" {
		next.Title = t
	}
	if strings.TrimSpace(ch.Date) != "" {
		d, err := validation.ParseDate(ch.Date)
		if err != nil {
			return cur, fmt.Errorf("%w: %w", common.ErrInvalidData, common.ErrInvalidDate)
		}
		next.Date = d
	}
	if strings.TrimSpace(ch.Amount) != "" {
		a, err := parseMoney(ch.Amount)
		if err != nil {
			return cur, err
		}
		next.Amount = a
	}
	if strings.TrimSpace(ch.Currency) != "" {
		c, err := normalizeCurrency(ch.Currency)
		if err != nil {
			return cur, err
		}
		next.Currency = c
	}
	switch d := strings.TrimSpace(ch.Description); {
	case d == "":
	case clearTokens[strings.ToLower(d)]:
		next.Description = ""
	default:
		next.Description = d
	}
	return next, nil
}

// SoftDeleteExpense marks an expense deleted. Deleting an id that does not
// exist or is already deleted succeeds without effect.
func (r *Repository) SoftDeleteExpense(ctx context.Context, id int64) error {
	if id <= 0 {
		return common.ErrInvalidID
	}
	n, err := r.store.Exec(ctx, `UPDATE expenses SET is_deleted = TRUE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	slog.Info("expense deleted", "id", id, "affected", n)
	return nil
}

// ListActiveExpenses returns non-deleted expenses with their category name,
// ordered by id.
func (r *Repository) ListActiveExpenses(ctx context.Context) ([]model.ExpenseRow, error) {
	return storage.All(ctx, r.store, scanExpenseRow, `
		SELECT `+expenseRowColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.is_deleted = FALSE
		ORDER BY e.id`)
}

// GetExpense returns the details of one active expense.
func (r *Repository) GetExpense(ctx context.Context, id int64) (model.ExpenseRow, error) {
	if id <= 0 {
		return model.ExpenseRow{}, common.ErrInvalidID
	}
	row, found, err := storage.One(ctx, r.store, scanExpenseRow, `
		SELECT `+expenseRowColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = ? AND e.is_deleted = FALSE`, id)
	if err != nil {
		return model.ExpenseRow{}, err
	}
	if !found {
		return model.ExpenseRow{}, fmt.Errorf("%w: id %d", common.ErrExpenseNotFound, id)
	}
	return row, nil
}
