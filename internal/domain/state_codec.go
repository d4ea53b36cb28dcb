package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keys of the wallet state
const (
	StateKeyBalance        = "balance"
	StateKeyTransactions   = "transactions"
	StateKeyInitialBalance = "initialBalance"
)

// legacyDateLayout is the "YYYY-MM-DD HH:mm:ss" form written by older wallets
const legacyDateLayout = "2006-01-02 15:04:05"

// storedTransaction is the JSON shape of a transaction in the store.
// Quantity and price decode from JSON numbers or strings.
type storedTransaction struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Coin     string          `json:"coin"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Date     string          `json:"date"`
}

// EncodeState serializes a ledger state into the balance and transactions values
func EncodeState(state LedgerState) (balance string, transactions string, err error) {
	stored := make([]storedTransaction, 0, len(state.Transactions))
	for _, tx := range state.Transactions {
		stored = append(stored, storedTransaction{
			ID:       tx.ID.String(),
			Type:     string(tx.Type),
			Coin:     tx.Coin,
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Date:     tx.Timestamp.UTC().Format(time.RFC3339Nano),
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode transactions: %w", err)
	}

	return state.CashBalance.String(), string(data), nil
}

// DecodeState parses stored values back into a ledger state.
// Any malformed value yields ErrCorruptState.
func DecodeState(balance string, transactions string) (LedgerState, error) {
	cash, err := decimal.NewFromString(strings.TrimSpace(balance))
	if err != nil {
		return LedgerState{}, fmt.Errorf("%w: balance %q is not a number: %v", ErrCorruptState, balance, err)
	}

	raw := strings.TrimSpace(transactions)
	if raw == "" || raw == "null" {
		return LedgerState{}, fmt.Errorf("%w: transactions must be a JSON array", ErrCorruptState)
	}

	var stored []storedTransaction
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return LedgerState{}, fmt.Errorf("%w: failed to parse transactions: %v", ErrCorruptState, err)
	}

	state := LedgerState{CashBalance: cash, Transactions: make([]Transaction, 0, len(stored))}
	for i, st := range stored {
		tx, legacy, err := st.toDomain()
		if err != nil {
			return LedgerState{}, fmt.Errorf("%w: transaction %d: %v", ErrCorruptState, i, err)
		}
		state.Transactions = append(state.Transactions, tx)
		state.Legacy = state.Legacy || legacy
	}

	return state, nil
}

// DecodeInitialBalance parses the stored starting balance of a wallet
func DecodeInitialBalance(value string) (decimal.Decimal, error) {
	initial, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: initial balance %q is not a number: %v", ErrCorruptState, value, err)
	}
	if initial.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: initial balance %s is negative", ErrCorruptState, initial)
	}
	return initial, nil
}

// toDomain converts st; legacy reports a date in the old browser format
func (st storedTransaction) toDomain() (Transaction, bool, error) {
	id, err := uuid.Parse(st.ID)
	if err != nil {
		return Transaction{}, false, fmt.Errorf("invalid id %q: %w", st.ID, err)
	}

	txType, err := ParseTransactionType(st.Type)
	if err != nil {
		return Transaction{}, false, err
	}

	ts, legacy, err := parseStoredDate(st.Date)
	if err != nil {
		return Transaction{}, false, err
	}

	return Transaction{
		ID:        id,
		Type:      txType,
		Coin:      st.Coin,
		Quantity:  st.Quantity,
		Price:     st.Price,
		Timestamp: ts,
	}, legacy, nil
}

func parseStoredDate(s string) (ts time.Time, legacy bool, err error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, false, nil
	}
	ts, err = time.ParseInLocation(legacyDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q", s)
	}
	return ts, true, nil
}
