package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the side of a trade
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// ParseTransactionType accepts "buy" or "sell" in any case
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TransactionTypeBuy:
		return TransactionTypeBuy, nil
	case TransactionTypeSell:
		return TransactionTypeSell, nil
	default:
		return "", fmt.Errorf("%w: transaction type must be buy or sell, got %q", ErrInvalidInput, s)
	}
}

// Transaction is an immutable record of a single buy or sell.
// Quantity is a unit count of Coin, Price the unit price in the wallet currency
// at the time of the trade.
type Transaction struct {
	ID        uuid.UUID
	Type      TransactionType
	Coin      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Timestamp time.Time
}

// Amount returns Quantity * Price: the cost of a buy or the proceeds of a sell
func (t Transaction) Amount() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

// Validate ensures the transaction adheres to domain rules
func (t Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: transaction id cannot be empty", ErrInvalidInput)
	}
	if t.Type != TransactionTypeBuy && t.Type != TransactionTypeSell {
		return fmt.Errorf("%w: transaction type must be buy or sell", ErrInvalidInput)
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("%w: transaction timestamp cannot be empty", ErrInvalidInput)
	}
	return validateTrade(t.Coin, t.Quantity, t.Price)
}

// validateTrade checks the caller-supplied part of a trade
func validateTrade(coin string, quantity, price decimal.Decimal) error {
	if strings.TrimSpace(coin) == "" {
		return fmt.Errorf("%w: coin cannot be empty", ErrInvalidInput)
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	return nil
}
