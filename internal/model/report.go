package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyTotal is the sum of active expenses in one currency.
type CurrencyTotal struct {
	Total    decimal.Decimal
	Currency string
}

// CategoryTotal is the sum of active expenses for a category in one currency.
type CategoryTotal struct {
	Total    decimal.Decimal
	Category string
	Currency string
}

// CategoryExtremes holds the largest and smallest expense of a category.
// Amounts are compared across currencies.
type CategoryExtremes struct {
	Max      decimal.Decimal
	Min      decimal.Decimal
	Category string
	Count    int
}

// ExpenseExtreme identifies one expense picked as a period extreme.
type ExpenseExtreme struct {
	Date     time.Time
	Amount   decimal.Decimal
	Title    string
	Currency string
	ID       int64
}

// PeriodExtremes holds the most and least expensive expense in a period.
type PeriodExtremes struct {
	Max ExpenseExtreme
	Min ExpenseExtreme
}

// CurrencyAverage is the per-day spending of one currency over a period.
type CurrencyAverage struct {
	Total    decimal.Decimal
	Average  decimal.Decimal
	Currency string
}

// DailyAverage is the result of the average-per-day report.
type DailyAverage struct {
	Start      time.Time
	End        time.Time
	ByCurrency []CurrencyAverage
	Days       int
}

// TopCategory is the category with the largest spend in a currency.
type TopCategory struct {
	Total    decimal.Decimal
	Currency string
	Category string
}

// ExportRow is one line of the CSV export.
type ExportRow struct {
	Date     time.Time
	Amount   decimal.Decimal
	Title    string
	Category string
}
