package grpc

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/paperwallet-backend/internal/adapter/identity"
	"github.com/simaogato/paperwallet-backend/internal/adapter/repository/memory"
	"github.com/simaogato/paperwallet-backend/internal/domain"
	"github.com/simaogato/paperwallet-backend/internal/logger"
	"github.com/simaogato/paperwallet-backend/internal/pkg/grpcserver"
	"github.com/simaogato/paperwallet-backend/internal/usecase/dashboard"
	"github.com/simaogato/paperwallet-backend/internal/usecase/profile"
	"github.com/simaogato/paperwallet-backend/internal/usecase/wallet"
)

const testToken = "test-token"

// staticCatalog serves a fixed price list; prices can be changed between calls
type staticCatalog struct {
	coins []domain.Coin
}

func (c *staticCatalog) ListCoins(ctx context.Context) ([]domain.Coin, error) {
	out := make([]domain.Coin, len(c.coins))
	copy(out, c.coins)
	return out, nil
}

func (c *staticCatalog) FindCoin(ctx context.Context, ref string) (*domain.Coin, error) {
	for _, coin := range c.coins {
		if coin.Matches(ref) {
			found := coin
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrCoinNotFound, ref)
}

func (c *staticCatalog) GetCurrentPrice(ctx context.Context, ref string) (decimal.Decimal, error) {
	coin, err := c.FindCoin(ctx, ref)
	if err != nil {
		return decimal.Zero, err
	}
	return coin.Price, nil
}

func (c *staticCatalog) setPrice(symbol, price string) {
	for i := range c.coins {
		if c.coins[i].Symbol == symbol {
			c.coins[i].Price = decimal.RequireFromString(price)
		}
	}
}

type testEnv struct {
	client  *WalletServiceClient
	conn    *grpc.ClientConn
	catalog *staticCatalog
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()

	catalog := &staticCatalog{coins: []domain.Coin{
		{ID: "Qwsogvtv82FCd", Symbol: "BTC", Name: "Bitcoin", Price: decimal.NewFromInt(100), Rank: 1},
		{ID: "razxDUgYGNAdQ", Symbol: "ETH", Name: "Ethereum", Price: decimal.NewFromInt(50), Rank: 2},
	}}
	store := memory.NewKeyValueStore()
	log := logger.Nop()

	walletService := wallet.NewWalletService(store, catalog, domain.DefaultInitialBalance, log)
	dashboardService := dashboard.NewDashboardService(walletService, catalog, log)
	profileService := profile.NewProfileService(store, log)

	srv := grpcserver.New("",
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(identity.NewStaticTokenProvider(testToken)),
		),
	)
	RegisterWalletServiceServer(srv.Server, NewServer(walletService, dashboardService, profileService, catalog))
	srv.MarkServing(ServiceName)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})

	return &testEnv{client: NewWalletServiceClient(conn), conn: conn, catalog: catalog}
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func TestServer_ConcurrentTradesReportOwnBalance(t *testing.T) {
	env := setupServer(t)
	ctx := authed()
	const trades = 20

	balances := make([]string, trades)
	var wg sync.WaitGroup
	for i := 0; i < trades; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := env.client.Buy(ctx, &TradeRequest{Coin: "BTC", Quantity: "1"})
			if assert.NoError(t, err) {
				balances[i] = resp.Balance
			}
		}(i)
	}
	wg.Wait()

	// every response carries the balance right after its own trade
	want := make([]string, 0, trades)
	for i := 1; i <= trades; i++ {
		want = append(want, decimal.NewFromInt(10000-int64(100*i)).String())
	}
	assert.ElementsMatch(t, want, balances)
}

func TestServer_TradingFlow(t *testing.T) {
	env := setupServer(t)
	ctx := authed()

	balance, err := env.client.GetBalance(ctx, &GetBalanceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "10000", balance.Balance)

	// Buy 2 BTC @100
	bought, err := env.client.Buy(ctx, &TradeRequest{Coin: "btc", Quantity: "2"})
	require.NoError(t, err)
	assert.Equal(t, "9800", bought.Balance)
	assert.Equal(t, "buy", bought.Transaction.Type)
	assert.Equal(t, "BTC", bought.Transaction.Coin)
	assert.Equal(t, "200", bought.Transaction.Amount)

	holdings, err := env.client.ListHoldings(ctx, &ListHoldingsRequest{})
	require.NoError(t, err)
	require.Len(t, holdings.Holdings, 1)
	assert.Equal(t, "BTC", holdings.Holdings[0].Coin)
	assert.Equal(t, "2", holdings.Holdings[0].Quantity)

	// Oversell is rejected
	_, err = env.client.Sell(ctx, &TradeRequest{Coin: "BTC", Quantity: "3"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	// Price moves, sell everything
	env.catalog.setPrice("BTC", "150")
	sold, err := env.client.Sell(ctx, &TradeRequest{Coin: "Bitcoin", Quantity: "2"})
	require.NoError(t, err)
	assert.Equal(t, "10100", sold.Balance)

	holdings, err = env.client.ListHoldings(ctx, &ListHoldingsRequest{})
	require.NoError(t, err)
	assert.Empty(t, holdings.Holdings)

	history, err := env.client.ListTransactions(ctx, &ListTransactionsRequest{Limit: 1, NewestFirst: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), history.TotalCount)
	require.Len(t, history.Transactions, 1)
	assert.Equal(t, "sell", history.Transactions[0].Type)
	assert.Equal(t, "150", history.Transactions[0].Price)
}

func TestServer_ErrorCodes(t *testing.T) {
	env := setupServer(t)
	ctx := authed()

	tests := []struct {
		name string
		req  *TradeRequest
		buy  bool
		want codes.Code
	}{
		{"Insufficient balance", &TradeRequest{Coin: "BTC", Quantity: "1000"}, true, codes.FailedPrecondition},
		{"Unknown coin", &TradeRequest{Coin: "DOGE", Quantity: "1"}, true, codes.NotFound},
		{"Malformed quantity", &TradeRequest{Coin: "BTC", Quantity: "lots"}, true, codes.InvalidArgument},
		{"Zero quantity", &TradeRequest{Coin: "BTC", Quantity: "0"}, true, codes.InvalidArgument},
		{"Missing coin", &TradeRequest{Quantity: "1"}, false, codes.InvalidArgument},
		{"Sell not owned", &TradeRequest{Coin: "ETH", Quantity: "1"}, false, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.buy {
				_, err = env.client.Buy(ctx, tt.req)
			} else {
				_, err = env.client.Sell(ctx, tt.req)
			}
			assert.Equal(t, tt.want, status.Code(err))
		})
	}

	balance, err := env.client.GetBalance(ctx, &GetBalanceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "10000", balance.Balance)
}

func TestServer_RequiresToken(t *testing.T) {
	env := setupServer(t)

	_, err := env.client.GetBalance(context.Background(), &GetBalanceRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	badCtx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "nope")
	_, err = env.client.GetBalance(badCtx, &GetBalanceRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_PortfolioValue(t *testing.T) {
	env := setupServer(t)
	ctx := authed()

	_, err := env.client.Buy(ctx, &TradeRequest{Coin: "BTC", Quantity: "2"})
	require.NoError(t, err)
	_, err = env.client.Buy(ctx, &TradeRequest{Coin: "ETH", Quantity: "10"})
	require.NoError(t, err)

	env.catalog.setPrice("ETH", "60")
	value, err := env.client.GetPortfolioValue(ctx, &GetPortfolioValueRequest{})
	require.NoError(t, err)

	assert.Equal(t, "9300", value.CashBalance)
	assert.Equal(t, "800", value.HoldingsValue)
	assert.Equal(t, "10100", value.Total)
	assert.Equal(t, "100", value.Profit)
	require.Len(t, value.Holdings, 2)
	assert.Equal(t, "600", value.Holdings[1].MarketValue)
}

func TestServer_ListCoins(t *testing.T) {
	env := setupServer(t)

	resp, err := env.client.ListCoins(authed(), &ListCoinsRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Coins, 2)
	assert.Equal(t, "BTC", resp.Coins[0].Symbol)
	assert.Equal(t, "100", resp.Coins[0].Price)
	assert.Equal(t, int32(1), resp.Coins[0].Rank)
}

func TestServer_Profile(t *testing.T) {
	env := setupServer(t)
	ctx := authed()

	p, err := env.client.GetProfile(ctx, &GetProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUsername, p.Username)

	p, err = env.client.UpdateProfile(ctx, &UpdateProfileRequest{Username: "vitalik", Email: "v@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "vitalik", p.Username)
	assert.Equal(t, domain.DefaultPictureURL, p.PictureURL)

	_, err = env.client.UpdateProfile(ctx, &UpdateProfileRequest{Username: "vitalik", Email: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_ResetWallet(t *testing.T) {
	env := setupServer(t)
	ctx := authed()

	_, err := env.client.Buy(ctx, &TradeRequest{Coin: "BTC", Quantity: "5"})
	require.NoError(t, err)

	resp, err := env.client.ResetWallet(ctx, &ResetWalletRequest{})
	require.NoError(t, err)
	assert.Equal(t, "10000", resp.Balance)

	history, err := env.client.ListTransactions(ctx, &ListTransactionsRequest{})
	require.NoError(t, err)
	assert.Zero(t, history.TotalCount)
}

func TestServer_HealthOverJSON(t *testing.T) {
	env := setupServer(t)
	client := healthpb.NewHealthClient(env.conn)

	resp, err := client.Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName},
		grpc.CallContentSubtype(CodecName),
	)

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}

	data, err := codec.Marshal(&TradeRequest{Coin: "BTC", Quantity: "0.5"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"coin":"BTC","quantity":"0.5"}`, string(data))

	var req TradeRequest
	require.NoError(t, codec.Unmarshal(data, &req))
	assert.Equal(t, "0.5", req.Quantity)

	data, err = codec.Marshal(&healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING})
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "SERVING"))

	assert.NoError(t, codec.Unmarshal(nil, &GetBalanceRequest{}))
	assert.Error(t, codec.Unmarshal([]byte("{"), &GetBalanceRequest{}))
}
