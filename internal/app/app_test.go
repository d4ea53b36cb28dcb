package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/paperwallet-backend/internal/adapter/identity"
	"github.com/simaogato/paperwallet-backend/internal/config"
	"github.com/simaogato/paperwallet-backend/internal/domain"
	"github.com/simaogato/paperwallet-backend/internal/logger"
)

type fixedCatalog struct{}

func (fixedCatalog) ListCoins(ctx context.Context) ([]domain.Coin, error) {
	return []domain.Coin{{Symbol: "BTC", Name: "Bitcoin", Price: decimal.NewFromInt(100)}}, nil
}

func (fixedCatalog) FindCoin(ctx context.Context, ref string) (*domain.Coin, error) {
	coins, _ := fixedCatalog{}.ListCoins(ctx)
	if coins[0].Matches(ref) {
		return &coins[0], nil
	}
	return nil, domain.ErrCoinNotFound
}

func (fixedCatalog) GetCurrentPrice(ctx context.Context, ref string) (decimal.Decimal, error) {
	coin, err := fixedCatalog{}.FindCoin(ctx, ref)
	if err != nil {
		return decimal.Zero, err
	}
	return coin.Price, nil
}

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom("", func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	require.NoError(t, err)
	return cfg
}

func TestNew_SQLiteStatePersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, map[string]string{
		"DATABASE_PATH":   filepath.Join(t.TempDir(), "wallet.db"),
		"INITIAL_BALANCE": "5000",
	})

	first, err := New(ctx, cfg, logger.Nop(), fixedCatalog{})
	require.NoError(t, err)
	_, err = first.Wallet.Buy(ctx, "BTC", decimal.NewFromInt(3))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, logger.Nop(), fixedCatalog{})
	require.NoError(t, err)
	defer second.Close()

	balance, err := second.Wallet.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(4700)))

	p, err := second.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUsername, p.Username)
}

func TestNew_MemoryStoreSeeds(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, map[string]string{"STORE_DRIVER": "memory"})

	a, err := New(ctx, cfg, logger.Nop(), fixedCatalog{})
	require.NoError(t, err)
	defer a.Close()

	value, found, err := a.Store.Get(ctx, domain.StateKeyTransactions)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)
}

func TestIdentityProvider(t *testing.T) {
	static := &App{Config: testConfig(t, nil)}
	assert.IsType(t, &identity.StaticTokenProvider{}, static.IdentityProvider())

	jwt := &App{Config: testConfig(t, map[string]string{"JWT_SECRET": "s3cret"})}
	assert.IsType(t, &identity.JWTProvider{}, jwt.IdentityProvider())
}
