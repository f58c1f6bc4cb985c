// Package validation checks raw user input before it reaches the store.
//
// Every Valid* function is total: it never panics and never returns an error,
// only whether the input is acceptable. The Parse* companions return the typed
// value for input that has already been checked.
package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ValidAmount reports whether s is a decimal number strictly greater than zero.
func ValidAmount(s string) bool {
	_, err := ParseAmount(s)
	return err == nil
}

// ValidID reports whether s is an integer strictly greater than zero.
func ValidID(s string) bool {
	_, err := ParseID(s)
	return err == nil
}

// ValidCurrency reports whether s looks like a currency code: three ASCII
// letters. The code is not checked against any ISO list.
func ValidCurrency(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ParseDate parses a YYYY-MM-DD date. time.Parse rejects out-of-range days
// such as 2026-04-31 and months such as 13.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseAmount parses a strictly positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, strconv.ErrRange
	}
	return d, nil
}

// ParseID parses a strictly positive integer id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

// FormatDate renders t in the accepted date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
