package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/simaogato/paperwallet-backend/internal/adapter/coinranking"
	grpcadapter "github.com/simaogato/paperwallet-backend/internal/adapter/grpc"
	"github.com/simaogato/paperwallet-backend/internal/adapter/identity"
	"github.com/simaogato/paperwallet-backend/internal/adapter/repository/memory"
	"github.com/simaogato/paperwallet-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/paperwallet-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/paperwallet-backend/internal/config"
	"github.com/simaogato/paperwallet-backend/internal/domain"
	"github.com/simaogato/paperwallet-backend/internal/pkg/grpcserver"
	"github.com/simaogato/paperwallet-backend/internal/usecase/dashboard"
	"github.com/simaogato/paperwallet-backend/internal/usecase/profile"
	"github.com/simaogato/paperwallet-backend/internal/usecase/seeder"
	"github.com/simaogato/paperwallet-backend/internal/usecase/wallet"
)

// App holds the wired services shared by the server and the CLI
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	Store   domain.KeyValueStore
	Prices  domain.PriceCatalog
	Wallet  *wallet.WalletService
	Board   *dashboard.DashboardService
	Profile *profile.ProfileService

	closers []func() error
}

// New opens the configured store, seeds it and builds the services.
// prices may be nil, in which case the Coinranking client is used.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, prices domain.PriceCatalog) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	// 1. Setup store
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	// 2. Seed defaults for a fresh session
	if err := seeder.NewSessionSeeder(store, cfg.InitialBalance, logger).Seed(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed session: %w", err)
	}

	// 3. Initialize market catalog
	if prices == nil {
		prices = coinranking.NewClient(coinranking.Config{
			BaseURL:   cfg.CoinrankingBaseURL,
			APIKey:    cfg.CoinrankingAPIKey,
			Limit:     cfg.CoinLimit,
			CacheTTL:  cfg.PriceCacheTTL,
			RateLimit: cfg.PriceRateLimit,
		}, logger)
	}
	a.Prices = prices

	// 4. Initialize services
	a.Wallet = wallet.NewWalletService(store, prices, cfg.InitialBalance, logger)
	a.Board = dashboard.NewDashboardService(a.Wallet, prices, logger)
	a.Profile = profile.NewProfileService(store, logger)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (domain.KeyValueStore, error) {
	switch a.Config.StoreDriver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, a.Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.Logger.Info().Str("path", a.Config.DatabasePath).Msg("Using sqlite store")
		return sqlite.NewKeyValueStore(db), nil
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, a.Config.DBConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.Logger.Info().Msg("Using postgres store")
		return postgres.NewKeyValueStore(db), nil
	case config.DriverMemory:
		a.Logger.Warn().Msg("Using in-memory store, state is lost on exit")
		return memory.NewKeyValueStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}
}

// IdentityProvider returns the JWT provider when a secret is configured,
// otherwise the static API token provider
func (a *App) IdentityProvider() domain.IdentityProvider {
	if a.Config.JWTSecret != "" {
		return identity.NewJWTProvider(a.Config.JWTSecret)
	}
	return identity.NewStaticTokenProvider(a.Config.APIToken)
}

// NewGRPCServer builds the gRPC server with logging and auth interceptors
func (a *App) NewGRPCServer() *grpcserver.Server {
	srv := grpcserver.New(a.Config.GRPCAddr,
		grpc.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(a.Logger),
			grpcadapter.AuthInterceptor(a.IdentityProvider()),
		),
	)

	grpcadapter.RegisterWalletServiceServer(srv.Server, grpcadapter.NewServer(a.Wallet, a.Board, a.Profile, a.Prices))
	srv.MarkServing(grpcadapter.ServiceName)
	return srv
}

// Close releases the store
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
