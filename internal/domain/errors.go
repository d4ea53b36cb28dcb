package domain

import "errors"

// Ledger error kinds. Callers match them with errors.Is; the messages carry
// the user-facing reason.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient coin quantity to sell")
	ErrCorruptState         = errors.New("corrupt ledger state")
	ErrInvariantViolation   = errors.New("ledger invariant violated")
)

// Collaborator errors.
var (
	ErrCoinNotFound    = errors.New("coin not found")
	ErrPersistence     = errors.New("persistence failure")
	ErrUnauthenticated = errors.New("unauthenticated")
)
