package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// KeyValueStore defines the interface for durable string-keyed persistence.
// Values survive restarts. Writes through SetMany are atomic; no
// concurrent-writer arbitration is expected from implementations.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value string) error

	// SetMany stores every key/value pair in one atomic write:
	// either all keys are updated or none is.
	SetMany(ctx context.Context, values map[string]string) error
}

// PriceCatalog defines the interface for the read-only market price feed.
// Prices may be stale relative to the real-time market.
type PriceCatalog interface {
	// ListCoins returns the coins currently listed, ordered by rank
	ListCoins(ctx context.Context) ([]Coin, error)

	// FindCoin resolves a symbol, name or provider id to a listed coin.
	// Returns ErrCoinNotFound if nothing matches.
	FindCoin(ctx context.Context, ref string) (*Coin, error)

	// GetCurrentPrice returns the current unit price of the referenced coin
	GetCurrentPrice(ctx context.Context, ref string) (decimal.Decimal, error)
}

// IdentityProvider defines the interface for authenticating callers
type IdentityProvider interface {
	// Authenticate validates token and returns the user it belongs to.
	// Returns an error wrapping ErrUnauthenticated if the token is rejected.
	Authenticate(ctx context.Context, token string) (*User, error)
}
