package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// TransactionQuery selects a page of the transaction log.
// Limit <= 0 means no limit.
type TransactionQuery struct {
	Limit       int
	Offset      int
	NewestFirst bool
}

// TransactionPage is one page of the log plus the total log length
type TransactionPage struct {
	Transactions []domain.Transaction
	Total        int
}

// TradeResult is an executed trade and the cash balance right after it
type TradeResult struct {
	Transaction domain.Transaction
	Balance     decimal.Decimal
}

// WalletService runs trades against the ledger and keeps the store in sync.
// It is the single writer for the session; all operations are serialized.
type WalletService struct {
	Store          domain.KeyValueStore
	Prices         domain.PriceCatalog
	InitialBalance decimal.Decimal
	Logger         zerolog.Logger

	mu         sync.Mutex
	ledger     *domain.Ledger
	ledgerOpts []domain.LedgerOption
}

// NewWalletService creates a new WalletService instance.
// The ledger is loaded from store on first use.
func NewWalletService(
	store domain.KeyValueStore,
	prices domain.PriceCatalog,
	initialBalance decimal.Decimal,
	logger zerolog.Logger,
	opts ...domain.LedgerOption,
) *WalletService {
	return &WalletService{
		Store:          store,
		Prices:         prices,
		InitialBalance: initialBalance,
		Logger:         logger.With().Str("component", "wallet").Logger(),
		ledgerOpts:     opts,
	}
}

// Load reads the persisted wallet, replacing any ledger already in memory.
// Absent keys fall back to the initial balance and an empty log; malformed
// values yield ErrCorruptState and leave the store untouched.
// A stored initial balance takes precedence over the configured one.
func (s *WalletService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *WalletService) load(ctx context.Context) error {
	balance, hasBalance, err := s.Store.Get(ctx, domain.StateKeyBalance)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", domain.ErrPersistence, domain.StateKeyBalance, err)
	}
	transactions, hasTransactions, err := s.Store.Get(ctx, domain.StateKeyTransactions)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", domain.ErrPersistence, domain.StateKeyTransactions, err)
	}
	storedInitial, hasInitial, err := s.Store.Get(ctx, domain.StateKeyInitialBalance)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", domain.ErrPersistence, domain.StateKeyInitialBalance, err)
	}

	initial := s.InitialBalance
	if hasInitial {
		if initial, err = domain.DecodeInitialBalance(storedInitial); err != nil {
			s.Logger.Error().Err(err).Msg("Stored wallet is unreadable")
			return err
		}
		if !initial.Equal(s.InitialBalance) {
			s.Logger.Debug().
				Str("stored", initial.String()).
				Str("configured", s.InitialBalance.String()).
				Msg("Using stored initial balance")
		}
	}

	if !hasBalance && !hasTransactions {
		ledger, err := domain.NewLedger(initial, s.ledgerOpts...)
		if err != nil {
			return err
		}
		s.ledger = ledger
		s.Logger.Info().Str("balance", initial.String()).Msg("Started new wallet")
		return nil
	}

	if !hasBalance {
		balance = initial.String()
	}
	if !hasTransactions {
		transactions = "[]"
	}

	state, err := domain.DecodeState(balance, transactions)
	if err != nil {
		s.Logger.Error().Err(err).Msg("Stored wallet is unreadable")
		return err
	}

	s.canonicalizeCoins(ctx, &state)

	ledger, err := domain.RestoreLedger(initial, state, s.ledgerOpts...)
	if err != nil {
		s.Logger.Error().Err(err).Msg("Stored wallet failed validation")
		return err
	}

	s.ledger = ledger
	s.Logger.Info().
		Str("balance", ledger.CashBalance().String()).
		Int("transactions", len(state.Transactions)).
		Bool("legacy", state.Legacy).
		Msg("Loaded wallet")
	return nil
}

// canonicalizeCoins rewrites coins recorded by display name ("Bitcoin") to
// their catalog symbol so they can be traded and priced again. Only legacy
// logs and keys not in symbol form are resolved; unresolvable keys are kept.
func (s *WalletService) canonicalizeCoins(ctx context.Context, state *domain.LedgerState) {
	resolved := make(map[string]string)
	for _, tx := range state.Transactions {
		if _, done := resolved[tx.Coin]; done {
			continue
		}
		if !state.Legacy && tx.Coin == strings.ToUpper(tx.Coin) {
			continue
		}

		coin, err := s.Prices.FindCoin(ctx, tx.Coin)
		if err != nil {
			s.Logger.Warn().Err(err).Str("coin", tx.Coin).Msg("Stored coin has no catalog symbol")
			resolved[tx.Coin] = tx.Coin
			continue
		}
		resolved[tx.Coin] = coin.LedgerKey()
	}

	for i, tx := range state.Transactions {
		if key, ok := resolved[tx.Coin]; ok && key != tx.Coin {
			state.Transactions[i].Coin = key
		}
	}
}

// ensureLoaded loads the ledger on first use; callers hold s.mu
func (s *WalletService) ensureLoaded(ctx context.Context) error {
	if s.ledger != nil {
		return nil
	}
	return s.load(ctx)
}

// save writes the full ledger state to the store in one atomic write;
// callers hold s.mu
func (s *WalletService) save(ctx context.Context) error {
	balance, transactions, err := domain.EncodeState(s.ledger.State())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	err = s.Store.SetMany(ctx, map[string]string{
		domain.StateKeyBalance:        balance,
		domain.StateKeyTransactions:   transactions,
		domain.StateKeyInitialBalance: s.ledger.InitialBalance().String(),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to write wallet state: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Buy purchases quantity units of the referenced coin at its current price.
// If the trade succeeds but cannot be persisted, the result is returned
// together with an error wrapping ErrPersistence.
func (s *WalletService) Buy(ctx context.Context, coinRef string, quantity decimal.Decimal) (*TradeResult, error) {
	return s.trade(ctx, domain.TransactionTypeBuy, coinRef, quantity)
}

// Sell sells quantity units of the referenced coin at its current price.
// Persistence failures are reported as in Buy.
func (s *WalletService) Sell(ctx context.Context, coinRef string, quantity decimal.Decimal) (*TradeResult, error) {
	return s.trade(ctx, domain.TransactionTypeSell, coinRef, quantity)
}

func (s *WalletService) trade(ctx context.Context, txType domain.TransactionType, coinRef string, quantity decimal.Decimal) (*TradeResult, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	coin, err := s.Prices.FindCoin(ctx, coinRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve coin %q: %w", coinRef, err)
	}

	var tx domain.Transaction
	switch txType {
	case domain.TransactionTypeBuy:
		tx, err = s.ledger.Buy(coin.LedgerKey(), quantity, coin.Price)
	case domain.TransactionTypeSell:
		tx, err = s.ledger.Sell(coin.LedgerKey(), quantity, coin.Price)
	}
	if err != nil {
		s.Logger.Info().Err(err).
			Str("type", string(txType)).
			Str("coin", coin.LedgerKey()).
			Str("quantity", quantity.String()).
			Msg("Trade rejected")
		return nil, err
	}

	event := s.Logger.Info()
	if user, ok := domain.UserFromContext(ctx); ok {
		event = event.Str("user", user.ID)
	}
	event.
		Str("type", string(tx.Type)).
		Str("coin", tx.Coin).
		Str("quantity", tx.Quantity.String()).
		Str("price", tx.Price.String()).
		Str("balance", s.ledger.CashBalance().String()).
		Msg("Trade executed")

	result := &TradeResult{Transaction: tx, Balance: s.ledger.CashBalance()}
	if err := s.save(ctx); err != nil {
		s.Logger.Error().Err(err).Str("tx_id", tx.ID.String()).Msg("Trade not persisted")
		return result, err
	}
	return result, nil
}

// Balance returns the current cash balance
func (s *WalletService) Balance(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return decimal.Zero, err
	}
	return s.ledger.CashBalance(), nil
}

// Holdings returns the current positive positions in first-buy order
func (s *WalletService) Holdings(ctx context.Context) ([]domain.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.ledger.Holdings(), nil
}

// Snapshot returns balance and holdings read under one lock
func (s *WalletService) Snapshot(ctx context.Context) (*domain.WalletSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return &domain.WalletSnapshot{
		InitialBalance: s.ledger.InitialBalance(),
		CashBalance:    s.ledger.CashBalance(),
		Holdings:       s.ledger.Holdings(),
	}, nil
}

// Transactions returns a page of the transaction log
func (s *WalletService) Transactions(ctx context.Context, query TransactionQuery) (*TransactionPage, error) {
	if query.Offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	all := s.ledger.Transactions()
	if query.NewestFirst {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}

	page := &TransactionPage{Total: len(all), Transactions: []domain.Transaction{}}
	if query.Offset >= len(all) {
		return page, nil
	}
	end := len(all)
	if query.Limit > 0 && query.Limit < end-query.Offset {
		end = query.Offset + query.Limit
	}
	page.Transactions = all[query.Offset:end]
	return page, nil
}

// Reset discards all trades and restores the initial balance
func (s *WalletService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := domain.NewLedger(s.InitialBalance, s.ledgerOpts...)
	if err != nil {
		return err
	}
	s.ledger = ledger
	s.Logger.Warn().Str("balance", s.InitialBalance.String()).Msg("Wallet reset")

	return s.save(ctx)
}
