package coinranking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/simaogato/paperwallet-backend/internal/domain"
)

const coinsCacheKey = "coins"

var _ domain.PriceCatalog = (*Client)(nil)

// Config configures the Coinranking client
type Config struct {
	BaseURL    string        // e.g. https://api.coinranking.com/v2
	APIKey     string        // sent as x-access-token; optional for the free tier
	Limit      int           // number of coins to list
	CacheTTL   time.Duration // 0 disables caching
	RateLimit  float64       // outbound requests per second
	HTTPClient *http.Client
}

// Structs for Coinranking API responses
type coinsResponse struct {
	Status  string `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Data    struct {
		Coins []apiCoin `json:"coins"`
	} `json:"data"`
}

type apiCoin struct {
	UUID      string  `json:"uuid"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     *string `json:"price"`
	IconURL   string  `json:"iconUrl"`
	Rank      int     `json:"rank"`
	Change    *string `json:"change"`
	MarketCap *string `json:"marketCap"`
}

// Client is a domain.PriceCatalog backed by the Coinranking REST API.
// The coin list is cached for CacheTTL; if a refresh fails the last good
// list is served instead.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *cache.Cache
	limiter    *rate.Limiter
	log        zerolog.Logger

	mu       sync.Mutex
	lastGood []domain.Coin
}

// NewClient creates a new Coinranking client
func NewClient(cfg Config, log zerolog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}

	var c *cache.Cache
	if cfg.CacheTTL > 0 {
		c = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		cache:      c,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		log:        log.With().Str("component", "coinranking").Logger(),
	}
}

// ListCoins returns the listed coins ordered by rank
func (c *Client) ListCoins(ctx context.Context) ([]domain.Coin, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(coinsCacheKey); found {
			return cloneCoins(cached.([]domain.Coin)), nil
		}
	}

	coins, err := c.fetchCoins(ctx)
	if err != nil {
		c.mu.Lock()
		stale := c.lastGood
		c.mu.Unlock()
		if stale != nil {
			c.log.Warn().Err(err).Msg("Coin refresh failed, serving last known prices")
			return cloneCoins(stale), nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.lastGood = coins
	c.mu.Unlock()
	if c.cache != nil {
		c.cache.SetDefault(coinsCacheKey, coins)
	}

	return cloneCoins(coins), nil
}

// FindCoin resolves ref by symbol, then by name, then by provider id
func (c *Client) FindCoin(ctx context.Context, ref string) (*domain.Coin, error) {
	coins, err := c.ListCoins(ctx)
	if err != nil {
		return nil, err
	}

	ref = strings.TrimSpace(ref)
	matchers := []func(domain.Coin) bool{
		func(coin domain.Coin) bool { return strings.EqualFold(coin.Symbol, ref) },
		func(coin domain.Coin) bool { return strings.EqualFold(coin.Name, ref) },
		func(coin domain.Coin) bool { return coin.ID == ref },
	}
	for _, match := range matchers {
		for i := range coins {
			if match(coins[i]) {
				coin := coins[i]
				return &coin, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrCoinNotFound, ref)
}

// GetCurrentPrice returns the current price of the referenced coin
func (c *Client) GetCurrentPrice(ctx context.Context, ref string) (decimal.Decimal, error) {
	coin, err := c.FindCoin(ctx, ref)
	if err != nil {
		return decimal.Zero, err
	}
	return coin.Price, nil
}

// fetchCoins calls GET /coins and converts the payload
func (c *Client) fetchCoins(ctx context.Context) ([]domain.Coin, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/coins?%s", strings.TrimRight(c.cfg.BaseURL, "/"),
		url.Values{"limit": []string{strconv.Itoa(c.cfg.Limit)}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build coins request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-access-token", c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call coinranking coins API: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("GET /coins")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coinranking coins API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload coinsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode coinranking coins response: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("coinranking coins API returned %s: %s", payload.Status, payload.Message)
	}

	coins := make([]domain.Coin, 0, len(payload.Data.Coins))
	for _, ac := range payload.Data.Coins {
		coin, err := ac.toDomain()
		if err != nil {
			c.log.Debug().Err(err).Str("symbol", ac.Symbol).Msg("Skipping coin without a usable price")
			continue
		}
		coins = append(coins, coin)
	}

	return coins, nil
}

func (ac apiCoin) toDomain() (domain.Coin, error) {
	if ac.Price == nil {
		return domain.Coin{}, fmt.Errorf("coin %s has no price", ac.Symbol)
	}
	price, err := decimal.NewFromString(*ac.Price)
	if err != nil {
		return domain.Coin{}, fmt.Errorf("coin %s price %q: %w", ac.Symbol, *ac.Price, err)
	}
	if price.IsNegative() {
		return domain.Coin{}, fmt.Errorf("coin %s has negative price %s", ac.Symbol, price)
	}

	return domain.Coin{
		ID:        ac.UUID,
		Symbol:    ac.Symbol,
		Name:      ac.Name,
		Price:     price,
		IconURL:   ac.IconURL,
		Rank:      ac.Rank,
		Change:    optionalDecimal(ac.Change),
		MarketCap: optionalDecimal(ac.MarketCap),
	}, nil
}

// optionalDecimal parses display-only fields; absent or malformed values become zero
func optionalDecimal(s *string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

func cloneCoins(coins []domain.Coin) []domain.Coin {
	out := make([]domain.Coin, len(coins))
	copy(out, coins)
	return out
}
