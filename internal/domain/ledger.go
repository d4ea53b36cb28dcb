package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultInitialBalance is the virtual cash a new wallet starts with
var DefaultInitialBalance = decimal.NewFromInt(10000)

// LegacyBalanceTolerance bounds the drift accepted between a legacy stored
// balance and the exact replay of its log. Older wallets kept the balance as a
// float, so every trade could add rounding error in the last digits.
var LegacyBalanceTolerance = decimal.New(1, -6)

// LedgerState is the persistable part of a Ledger
type LedgerState struct {
	CashBalance  decimal.Decimal
	Transactions []Transaction

	// Legacy is set on state written by older wallets (float arithmetic,
	// "YYYY-MM-DD HH:mm:ss" dates). Never persisted.
	Legacy bool
}

// Ledger owns the virtual cash balance and the append-only transaction log.
// It performs no I/O and is not safe for concurrent use.
type Ledger struct {
	initialBalance decimal.Decimal
	cashBalance    decimal.Decimal
	transactions   []Transaction
	positions      map[string]decimal.Decimal // net quantity per coin

	now   func() time.Time
	newID func() uuid.UUID
}

// LedgerOption configures a Ledger
type LedgerOption func(*Ledger)

// WithClock overrides the clock used to timestamp new transactions
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides how transaction ids are assigned
func WithIDGenerator(newID func() uuid.UUID) LedgerOption {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger creates an empty ledger holding initialBalance in cash
func NewLedger(initialBalance decimal.Decimal, opts ...LedgerOption) (*Ledger, error) {
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrInvalidInput)
	}

	l := &Ledger{
		initialBalance: initialBalance,
		cashBalance:    initialBalance,
		transactions:   make([]Transaction, 0),
		positions:      make(map[string]decimal.Decimal),
		now:            time.Now,
		newID:          uuid.New,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// RestoreLedger rebuilds a ledger from persisted state by replaying its log.
// Returns ErrCorruptState if any recorded transaction is invalid, duplicated,
// would have overdrawn the balance or the holdings at its position in the log,
// or if the stored balance disagrees with the replayed one.
func RestoreLedger(initialBalance decimal.Decimal, state LedgerState, opts ...LedgerOption) (*Ledger, error) {
	l, err := NewLedger(initialBalance, opts...)
	if err != nil {
		return nil, err
	}

	if state.CashBalance.IsNegative() {
		return nil, fmt.Errorf("%w: stored balance %s is negative", ErrCorruptState, state.CashBalance)
	}

	seen := make(map[uuid.UUID]bool, len(state.Transactions))
	for i, tx := range state.Transactions {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrCorruptState, i, err)
		}
		if seen[tx.ID] {
			return nil, fmt.Errorf("%w: duplicate transaction id %s", ErrCorruptState, tx.ID)
		}
		seen[tx.ID] = true

		if err := l.check(tx.Type, tx.Coin, tx.Quantity, tx.Price); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrCorruptState, i, err)
		}
		if err := l.apply(tx); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrCorruptState, i, err)
		}
	}

	if !balanceMatches(state, l.cashBalance) {
		return nil, fmt.Errorf("%w: stored balance %s does not match replayed balance %s",
			ErrCorruptState, state.CashBalance, l.cashBalance)
	}

	return l, nil
}

// balanceMatches compares a stored balance with the replayed one. Legacy state
// only has to agree within LegacyBalanceTolerance; the replay then wins.
func balanceMatches(state LedgerState, replayed decimal.Decimal) bool {
	if state.CashBalance.Equal(replayed) {
		return true
	}
	return state.Legacy && state.CashBalance.Sub(replayed).Abs().LessThanOrEqual(LegacyBalanceTolerance)
}

// Buy spends quantity*price of cash on coin.
// Fails with ErrInvalidInput or ErrInsufficientBalance without changing state.
func (l *Ledger) Buy(coin string, quantity, price decimal.Decimal) (Transaction, error) {
	return l.trade(TransactionTypeBuy, coin, quantity, price)
}

// Sell turns quantity units of coin back into cash at price.
// Fails with ErrInvalidInput or ErrInsufficientHoldings without changing state.
func (l *Ledger) Sell(coin string, quantity, price decimal.Decimal) (Transaction, error) {
	return l.trade(TransactionTypeSell, coin, quantity, price)
}

func (l *Ledger) trade(txType TransactionType, coin string, quantity, price decimal.Decimal) (Transaction, error) {
	if err := l.check(txType, coin, quantity, price); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:        l.newID(),
		Type:      txType,
		Coin:      coin,
		Quantity:  quantity,
		Price:     price,
		Timestamp: l.now(),
	}
	if err := l.apply(tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// check validates a trade against the current balance and holdings
func (l *Ledger) check(txType TransactionType, coin string, quantity, price decimal.Decimal) error {
	if err := validateTrade(coin, quantity, price); err != nil {
		return err
	}

	switch txType {
	case TransactionTypeBuy:
		cost := quantity.Mul(price)
		if cost.GreaterThan(l.cashBalance) {
			return fmt.Errorf("%w: cost %s exceeds cash balance %s", ErrInsufficientBalance, cost, l.cashBalance)
		}
	case TransactionTypeSell:
		owned := l.NetOwned(coin)
		if quantity.GreaterThan(owned) {
			return fmt.Errorf("%w: selling %s %s but only %s owned", ErrInsufficientHoldings, quantity, coin, owned)
		}
	default:
		return fmt.Errorf("%w: transaction type must be buy or sell", ErrInvalidInput)
	}
	return nil
}

// apply records tx, then re-checks the invariants and rolls back on failure
func (l *Ledger) apply(tx Transaction) error {
	prevCash := l.cashBalance
	prevNet, hadPosition := l.positions[tx.Coin]

	switch tx.Type {
	case TransactionTypeBuy:
		l.cashBalance = l.cashBalance.Sub(tx.Amount())
		l.positions[tx.Coin] = prevNet.Add(tx.Quantity)
	case TransactionTypeSell:
		l.cashBalance = l.cashBalance.Add(tx.Amount())
		l.positions[tx.Coin] = prevNet.Sub(tx.Quantity)
	}

	if l.cashBalance.IsNegative() || l.positions[tx.Coin].IsNegative() {
		err := fmt.Errorf("%w: %s %s would leave cash %s and net quantity %s",
			ErrInvariantViolation, tx.Type, tx.Coin, l.cashBalance, l.positions[tx.Coin])
		l.cashBalance = prevCash
		if hadPosition {
			l.positions[tx.Coin] = prevNet
		} else {
			delete(l.positions, tx.Coin)
		}
		return err
	}

	l.transactions = append(l.transactions, tx)
	return nil
}

// Holdings returns one entry per coin with a positive net quantity.
// Same result as DeriveHoldings(l.Transactions()).
func (l *Ledger) Holdings() []Holding {
	return DeriveHoldings(l.transactions)
}

// NetOwned returns total bought minus total sold for coin
func (l *Ledger) NetOwned(coin string) decimal.Decimal {
	return l.positions[coin]
}

// CashBalance returns the current virtual cash
func (l *Ledger) CashBalance() decimal.Decimal {
	return l.cashBalance
}

// InitialBalance returns the cash the ledger started with
func (l *Ledger) InitialBalance() decimal.Decimal {
	return l.initialBalance
}

// Transactions returns a copy of the log in insertion order
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// State returns a snapshot suitable for persistence
func (l *Ledger) State() LedgerState {
	return LedgerState{
		CashBalance:  l.cashBalance,
		Transactions: l.Transactions(),
	}
}
