package seeder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// SessionSeeder writes the default session keys into a fresh store
type SessionSeeder struct {
	store          domain.KeyValueStore
	initialBalance decimal.Decimal
	logger         zerolog.Logger
}

// NewSessionSeeder creates a new SessionSeeder instance
func NewSessionSeeder(store domain.KeyValueStore, initialBalance decimal.Decimal, logger zerolog.Logger) *SessionSeeder {
	return &SessionSeeder{
		store:          store,
		initialBalance: initialBalance,
		logger:         logger,
	}
}

// Seed ensures every session key exists in the store.
// If a key doesn't exist, it writes the default; existing keys are never touched.
func (s *SessionSeeder) Seed(ctx context.Context) error {
	defaults := []struct {
		key   string
		value string
	}{
		{domain.StateKeyBalance, s.initialBalance.String()},
		{domain.StateKeyTransactions, "[]"},
		{domain.StateKeyInitialBalance, s.initialBalance.String()},
		{domain.ProfileKeyUsername, domain.DefaultUsername},
		{domain.ProfileKeyEmail, domain.DefaultEmail},
		{domain.ProfileKeyPicture, domain.DefaultPictureURL},
	}

	seeded := 0
	for _, d := range defaults {
		_, found, err := s.store.Get(ctx, d.key)
		if err != nil {
			return fmt.Errorf("failed to check key %s: %w", d.key, err)
		}
		if found {
			continue
		}

		if err := s.store.Set(ctx, d.key, d.value); err != nil {
			return fmt.Errorf("failed to seed key %s: %w", d.key, err)
		}
		seeded++
	}

	if seeded > 0 {
		s.logger.Info().Int("keys", seeded).Msg("Seeded session defaults")
	}
	return nil
}
