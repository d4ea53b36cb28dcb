package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// WalletReader is the read side of the wallet the dashboard needs
type WalletReader interface {
	Snapshot(ctx context.Context) (*domain.WalletSnapshot, error)
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	Wallet WalletReader
	Prices domain.PriceCatalog
	Logger zerolog.Logger
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(wallet WalletReader, prices domain.PriceCatalog, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		Wallet: wallet,
		Prices: prices,
		Logger: logger.With().Str("component", "dashboard").Logger(),
	}
}

// GetPortfolioValue values the wallet at current prices
// Logic:
//   - HoldingsValue: sum of netQuantity * current price over all holdings
//   - A coin missing from the catalog is valued at its reference price and marked Stale
//   - Total: CashBalance + HoldingsValue
//   - Profit: Total - initial balance
func (s *DashboardService) GetPortfolioValue(ctx context.Context) (*domain.PortfolioValue, error) {
	snapshot, err := s.Wallet.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}

	// 1. Index current prices by ledger key
	prices := make(map[string]decimal.Decimal)
	if len(snapshot.Holdings) > 0 {
		coins, err := s.Prices.ListCoins(ctx)
		if err != nil {
			s.Logger.Warn().Err(err).Msg("Price catalog unavailable, using reference prices")
		}
		for _, coin := range coins {
			key := coin.LedgerKey()
			if _, seen := prices[key]; !seen {
				prices[key] = coin.Price
			}
		}
	}

	// 2. Value each holding
	holdingsValue := decimal.Zero
	values := make([]domain.HoldingValue, 0, len(snapshot.Holdings))
	for _, h := range snapshot.Holdings {
		price, ok := prices[h.Coin]
		if !ok {
			price = h.ReferencePrice
		}
		marketValue := h.NetQuantity.Mul(price)
		holdingsValue = holdingsValue.Add(marketValue)

		values = append(values, domain.HoldingValue{
			Holding:     h,
			Price:       price,
			MarketValue: marketValue,
			Stale:       !ok,
		})
	}

	// 3. Totals
	total := snapshot.CashBalance.Add(holdingsValue)

	return &domain.PortfolioValue{
		CashBalance:   snapshot.CashBalance,
		HoldingsValue: holdingsValue,
		Total:         total,
		Profit:        total.Sub(snapshot.InitialBalance),
		Holdings:      values,
	}, nil
}
