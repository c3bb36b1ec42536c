package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance is matched by every *InsufficientBalanceError.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPortfolioNotFound is returned by a Store that has no portfolio for a user.
	ErrPortfolioNotFound = errors.New("portfolio not found")
)

// InsufficientBalanceError reports a debit larger than the available balance.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %.6f, available %.6f", e.Required, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// InvalidInputError reports a missing or malformed request field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
