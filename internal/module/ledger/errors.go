package ledger

import (
	"errors"
	"fmt"
)

// Ledger errors.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrMissingUserID       = errors.New("user id is required")
)

// SoftError wraps a debit failure that happened after the vendor call
// already succeeded. The orchestrator logs it and still reports success
// to the client.
type SoftError struct {
	UID    string
	Amount int64
	Err    error
}

func (e *SoftError) Error() string {
	return fmt.Sprintf("debit %d coins for user %s failed after dispatch: %v", e.Amount, e.UID, e.Err)
}

func (e *SoftError) Unwrap() error {
	return e.Err
}
