package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/paperwallet-backend/internal/domain"
	"github.com/simaogato/paperwallet-backend/internal/usecase/dashboard"
	"github.com/simaogato/paperwallet-backend/internal/usecase/profile"
	"github.com/simaogato/paperwallet-backend/internal/usecase/wallet"
)

var _ WalletServiceServer = (*Server)(nil)

// Server implements the WalletService gRPC server
type Server struct {
	WalletService    *wallet.WalletService
	DashboardService *dashboard.DashboardService
	ProfileService   *profile.ProfileService
	Prices           domain.PriceCatalog
}

// NewServer creates a new gRPC server instance
func NewServer(
	walletService *wallet.WalletService,
	dashboardService *dashboard.DashboardService,
	profileService *profile.ProfileService,
	prices domain.PriceCatalog,
) *Server {
	return &Server{
		WalletService:    walletService,
		DashboardService: dashboardService,
		ProfileService:   profileService,
		Prices:           prices,
	}
}

// GetBalance handles the GetBalance RPC
func (s *Server) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	balance, err := s.WalletService.Balance(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &GetBalanceResponse{Balance: balance.String()}, nil
}

// Buy handles the Buy RPC
func (s *Server) Buy(ctx context.Context, req *TradeRequest) (*TradeResponse, error) {
	return s.trade(ctx, req, s.WalletService.Buy)
}

// Sell handles the Sell RPC
func (s *Server) Sell(ctx context.Context, req *TradeRequest) (*TradeResponse, error) {
	return s.trade(ctx, req, s.WalletService.Sell)
}

func (s *Server) trade(
	ctx context.Context,
	req *TradeRequest,
	execute func(context.Context, string, decimal.Decimal) (*wallet.TradeResult, error),
) (*TradeResponse, error) {
	if strings.TrimSpace(req.Coin) == "" {
		return nil, status.Errorf(codes.InvalidArgument, "coin is required")
	}

	// Parse quantity from string to decimal
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid quantity format: %v", err)
	}

	result, err := execute(ctx, req.Coin, quantity)
	if err != nil {
		return nil, mapError(err)
	}

	return &TradeResponse{
		Transaction: domainTransactionToProto(result.Transaction),
		Balance:     result.Balance.String(),
	}, nil
}

// ListHoldings handles the ListHoldings RPC
func (s *Server) ListHoldings(ctx context.Context, req *ListHoldingsRequest) (*ListHoldingsResponse, error) {
	holdings, err := s.WalletService.Holdings(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]*Holding, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, &Holding{
			Coin:           h.Coin,
			Quantity:       h.NetQuantity.String(),
			ReferencePrice: h.ReferencePrice.String(),
		})
	}

	return &ListHoldingsResponse{Holdings: out}, nil
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	// Validate limit (zero means everything)
	if req.Limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must be non-negative")
	}

	// Validate offset (must be non-negative)
	if req.Offset < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}

	page, err := s.WalletService.Transactions(ctx, wallet.TransactionQuery{
		Limit:       int(req.Limit),
		Offset:      int(req.Offset),
		NewestFirst: req.NewestFirst,
	})
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]*Transaction, 0, len(page.Transactions))
	for _, tx := range page.Transactions {
		out = append(out, domainTransactionToProto(tx))
	}

	return &ListTransactionsResponse{
		Transactions: out,
		TotalCount:   int32(page.Total),
	}, nil
}

// GetPortfolioValue handles the GetPortfolioValue RPC
func (s *Server) GetPortfolioValue(ctx context.Context, req *GetPortfolioValueRequest) (*GetPortfolioValueResponse, error) {
	result, err := s.DashboardService.GetPortfolioValue(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	holdings := make([]*HoldingValue, 0, len(result.Holdings))
	for _, h := range result.Holdings {
		holdings = append(holdings, &HoldingValue{
			Coin:        h.Coin,
			Quantity:    h.NetQuantity.String(),
			Price:       h.Price.String(),
			MarketValue: h.MarketValue.String(),
			Stale:       h.Stale,
		})
	}

	return &GetPortfolioValueResponse{
		CashBalance:   result.CashBalance.String(),
		HoldingsValue: result.HoldingsValue.String(),
		Total:         result.Total.String(),
		Profit:        result.Profit.String(),
		Holdings:      holdings,
	}, nil
}

// ListCoins handles the ListCoins RPC
func (s *Server) ListCoins(ctx context.Context, req *ListCoinsRequest) (*ListCoinsResponse, error) {
	coins, err := s.Prices.ListCoins(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "price catalog unavailable: %v", err)
	}

	out := make([]*Coin, 0, len(coins))
	for _, c := range coins {
		out = append(out, &Coin{
			ID:        c.ID,
			Symbol:    c.Symbol,
			Name:      c.Name,
			Price:     c.Price.String(),
			IconURL:   c.IconURL,
			Rank:      int32(c.Rank),
			Change:    c.Change.String(),
			MarketCap: c.MarketCap.String(),
		})
	}

	return &ListCoinsResponse{Coins: out}, nil
}

// GetProfile handles the GetProfile RPC
func (s *Server) GetProfile(ctx context.Context, req *GetProfileRequest) (*ProfileResponse, error) {
	p, err := s.ProfileService.Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return domainProfileToProto(p), nil
}

// UpdateProfile handles the UpdateProfile RPC
func (s *Server) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*ProfileResponse, error) {
	p, err := s.ProfileService.Update(ctx, domain.Profile{
		Username:   req.Username,
		Email:      req.Email,
		PictureURL: req.PictureURL,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return domainProfileToProto(p), nil
}

// ResetWallet handles the ResetWallet RPC
func (s *Server) ResetWallet(ctx context.Context, req *ResetWalletRequest) (*ResetWalletResponse, error) {
	if err := s.WalletService.Reset(ctx); err != nil {
		return nil, mapError(err)
	}

	balance, err := s.WalletService.Balance(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &ResetWalletResponse{Balance: balance.String()}, nil
}

// domainTransactionToProto converts a domain Transaction to its wire message
func domainTransactionToProto(tx domain.Transaction) *Transaction {
	return &Transaction{
		ID:       tx.ID.String(),
		Type:     string(tx.Type),
		Coin:     tx.Coin,
		Quantity: tx.Quantity.String(),
		Price:    tx.Price.String(),
		Amount:   tx.Amount().String(),
		Date:     tx.Timestamp.UTC().Format(time.RFC3339),
	}
}

func domainProfileToProto(p *domain.Profile) *ProfileResponse {
	return &ProfileResponse{
		Username:   p.Username,
		Email:      p.Email,
		PictureURL: p.PictureURL,
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientHoldings):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrCoinNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrCorruptState):
		return status.Errorf(codes.DataLoss, "%s", errorMsg)
	case errors.Is(err, domain.ErrUnauthenticated):
		return status.Errorf(codes.Unauthenticated, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors, including invariant violations
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
