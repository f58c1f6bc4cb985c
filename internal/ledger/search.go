package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/storage"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

// SearchFilter narrows SearchExpenses. Every field is optional and the
// supplied ones are combined with AND.
type SearchFilter struct {
	// Title and Category match case-insensitive substrings.
	Title    string
	Category string
	// Start and End are inclusive YYYY-MM-DD bounds.
	Start string
	End   string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// SearchExpenses returns active expenses matching f, ordered by date then id.
func (r *Repository) SearchExpenses(ctx context.Context, f SearchFilter) ([]model.ExpenseRow, error) {
	conds := []string{"e.is_deleted = FALSE"}
	var args []any

	if t := strings.TrimSpace(f.Title); t != "" {
		conds = append(conds, `LOWER(e.title) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, containsPattern(t))
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		conds = append(conds, `LOWER(c.name) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, containsPattern(c))
	}
	for _, bound := range []struct {
		value string
		op    string
	}{{f.Start, ">="}, {f.End, "<="}} {
		if strings.TrimSpace(bound.value) == "" {
			continue
		}
		d, err := validation.ParseDate(bound.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", common.ErrInvalidDate, bound.value)
		}
		conds = append(conds, "e.date "+bound.op+" ?")
		args = append(args, validation.FormatDate(d))
	}

	query := `SELECT ` + expenseRowColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY e.date, e.id`
	return storage.All(ctx, r.store, scanExpenseRow, query, args...)
}
