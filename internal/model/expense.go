package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when an expense is added without a currency.
const DefaultCurrency = "UAH"

// Expense is a single spending record.
//
// Currency and Description are empty when the stored value is NULL. Expenses
// seeded before the currency column existed carry no currency.
type Expense struct {
	Date        time.Time
	Amount      decimal.Decimal
	Title       string
	Description string
	Currency    string
	ID          int64
	CategoryID  int64
	IsDeleted   bool
}

// ExpenseRow is an active expense joined with its category name.
type ExpenseRow struct {
	Date         time.Time
	Amount       decimal.Decimal
	Title        string
	CategoryName string
	Currency     string
	Description  string
	ID           int64
	CategoryID   int64
}

// CurrencyLabel renders a currency code, marking missing codes explicitly.
func CurrencyLabel(code string) string {
	if code == "" {
		return "N/A"
	}
	return code
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
