// Package report computes read-only aggregates over active expenses.
//
// Currency is a partition key: sums and averages are always grouped by
// currency code and never added across codes. The one exception is
// MaxMinByCategory, which compares amounts numerically regardless of
// currency. Every report returns an empty result on an empty ledger.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/storage"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

// Engine runs report queries. It never writes.
type Engine struct {
	db storage.Runner
}

// NewEngine creates an engine reading through db.
func NewEngine(db storage.Runner) *Engine {
	return &Engine{db: db}
}

// money rounds sums that SQLite may return as binary floats.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Total sums active expenses per currency, ordered by code. Expenses
// without a currency form their own bucket with an empty code.
func (e *Engine) Total(ctx context.Context) ([]model.CurrencyTotal, error) {
	return storage.All(ctx, e.db, func(sc storage.Scanner) (model.CurrencyTotal, error) {
		var t model.CurrencyTotal
		err := sc.Scan(&t.Currency, &t.Total)
		t.Currency = strings.TrimSpace(t.Currency)
		t.Total = money(t.Total)
		return t, err
	}, `
		SELECT COALESCE(currency, ''), SUM(amount)
		FROM expenses
		WHERE is_deleted = FALSE
		GROUP BY currency
		ORDER BY COALESCE(currency, '')`)
}

// TotalsByCategory sums active expenses per category and currency, ordered
// by category name.
func (e *Engine) TotalsByCategory(ctx context.Context) ([]model.CategoryTotal, error) {
	return storage.All(ctx, e.db, scanCategoryTotal, `
		SELECT c.name, COALESCE(e.currency, ''), SUM(e.amount)
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.is_deleted = FALSE
		GROUP BY c.name, e.currency
		ORDER BY c.name, COALESCE(e.currency, '')`)
}

func scanCategoryTotal(sc storage.Scanner) (model.CategoryTotal, error) {
	var t model.CategoryTotal
	err := sc.Scan(&t.Category, &t.Currency, &t.Total)
	t.Currency = strings.TrimSpace(t.Currency)
	t.Total = money(t.Total)
	return t, err
}

// MaxMinByCategory reports the largest and smallest active expense and the
// expense count of each category. Amounts in different currencies are
// compared as plain numbers.
func (e *Engine) MaxMinByCategory(ctx context.Context) ([]model.CategoryExtremes, error) {
	return storage.All(ctx, e.db, func(sc storage.Scanner) (model.CategoryExtremes, error) {
		var x model.CategoryExtremes
		err := sc.Scan(&x.Category, &x.Max, &x.Min, &x.Count)
		x.Max, x.Min = money(x.Max), money(x.Min)
		return x, err
	}, `
		SELECT c.name, MAX(e.amount), MIN(e.amount), COUNT(e.id)
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.is_deleted = FALSE
		GROUP BY c.name
		ORDER BY c.name`)
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := validation.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, start)
	}
	en, err := validation.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, end)
	}
	return s, en, nil
}

func scanExtreme(sc storage.Scanner) (model.ExpenseExtreme, error) {
	var (
		x        model.ExpenseExtreme
		currency *string
	)
	err := sc.Scan(&x.ID, &x.Title, &x.Amount, &currency, &x.Date)
	if currency != nil {
		x.Currency = strings.TrimSpace(*currency)
	}
	return x, err
}

// ExtremeInPeriod returns the most and least expensive active expense dated
// within [start, end]. Ties go to the lowest id. The result is nil when no
// expense falls in the range.
func (e *Engine) ExtremeInPeriod(ctx context.Context, start, end string) (*model.PeriodExtremes, error) {
	s, en, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}
	if en.Before(s) {
		return nil, common.ErrInvalidRange
	}
	from, to := validation.FormatDate(s), validation.FormatDate(en)

	const pick = `
		SELECT id, title, amount, currency, date
		FROM expenses
		WHERE is_deleted = FALSE AND date BETWEEN ? AND ?
		ORDER BY amount %s, id ASC
		LIMIT 1`

	maxExp, found, err := storage.One(ctx, e.db, scanExtreme, fmt.Sprintf(pick, "DESC"), from, to)
	if err != nil || !found {
		return nil, err
	}
	minExp, _, err := storage.One(ctx, e.db, scanExtreme, fmt.Sprintf(pick, "ASC"), from, to)
	if err != nil {
		return nil, err
	}
	return &model.PeriodExtremes{Max: maxExp, Min: minExp}, nil
}

// AverageDaily divides each currency's total over [start, end] by the number
// of calendar days in the range, both ends included. An end before start is
// common.ErrInvalidRange. ByCurrency is empty when nothing was spent.
func (e *Engine) AverageDaily(ctx context.Context, start, end string) (model.DailyAverage, error) {
	s, en, err := parseRange(start, end)
	if err != nil {
		return model.DailyAverage{}, err
	}
	days := int(en.Sub(s).Hours()/24) + 1
	if days <= 0 {
		return model.DailyAverage{}, common.ErrInvalidRange
	}

	divisor := decimal.NewFromInt(int64(days))
	avgs, err := storage.All(ctx, e.db, func(sc storage.Scanner) (model.CurrencyAverage, error) {
		var a model.CurrencyAverage
		err := sc.Scan(&a.Currency, &a.Total)
		a.Currency = strings.TrimSpace(a.Currency)
		a.Total = money(a.Total)
		a.Average = a.Total.DivRound(divisor, 2)
		return a, err
	}, `
		SELECT COALESCE(currency, ''), SUM(amount)
		FROM expenses
		WHERE is_deleted = FALSE AND date BETWEEN ? AND ?
		GROUP BY currency
		ORDER BY COALESCE(currency, '')`,
		validation.FormatDate(s), validation.FormatDate(en))
	if err != nil {
		return model.DailyAverage{}, err
	}

	return model.DailyAverage{Start: s, End: en, Days: days, ByCurrency: avgs}, nil
}

// TopCategory picks, for every currency, the category with the largest
// total. Results are ordered by that total, largest first; equal totals
// fall back to category name. Totals are compared to the cent, since
// SQLite sums amounts as floating point.
func (e *Engine) TopCategory(ctx context.Context) ([]model.TopCategory, error) {
	ranked, err := storage.All(ctx, e.db, scanCategoryTotal, `
		SELECT c.name, COALESCE(e.currency, ''), ROUND(SUM(e.amount), 2) AS total
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.is_deleted = FALSE
		GROUP BY c.name, e.currency
		ORDER BY total DESC, c.name`)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	top := []model.TopCategory{}
	for _, r := range ranked {
		if seen[r.Currency] {
			continue
		}
		seen[r.Currency] = true
		top = append(top, model.TopCategory{Category: r.Category, Currency: r.Currency, Total: r.Total})
	}
	return top, nil
}

// ExportRows lists every active expense as (date, title, amount, category),
// ordered by id.
func (e *Engine) ExportRows(ctx context.Context) ([]model.ExportRow, error) {
	return storage.All(ctx, e.db, func(sc storage.Scanner) (model.ExportRow, error) {
		var r model.ExportRow
		err := sc.Scan(&r.Date, &r.Title, &r.Amount, &r.Category)
		return r, err
	}, `
		SELECT e.date, e.title, e.amount, c.name
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.is_deleted = FALSE
		ORDER BY e.id`)
}
