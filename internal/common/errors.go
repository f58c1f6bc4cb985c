// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidData     = errors.New("invalid data: check the date format and the amount")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidCurrency = errors.New("currency must be a three-letter code")
	ErrBlankName       = errors.New("name cannot be empty")
	ErrBlankTitle      = errors.New("title cannot be empty")
	ErrInvalidRange    = errors.New("end date must not be before start date")
)

// Integrity errors.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is still used by active expenses")
	ErrCategoryExists   = errors.New("category already exists")
	ErrExpenseNotFound  = errors.New("expense not found")
)

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRecoverable reports whether err is a validation or integrity failure the
// user can fix by re-entering input.
func IsRecoverable(err error) bool {
	for _, target := range []error{
		ErrInvalidID, ErrInvalidData, ErrInvalidDate, ErrInvalidAmount,
		ErrInvalidCurrency, ErrBlankName, ErrBlankTitle, ErrInvalidRange,
		ErrCategoryNotFound, ErrCategoryInUse, ErrCategoryExists, ErrExpenseNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
