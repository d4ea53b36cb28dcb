package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore
type kvStore struct {
	db *DB
}

// NewKeyValueStore creates a new key-value store backed by the kv_store table
func NewKeyValueStore(db *DB) domain.KeyValueStore {
	return &kvStore{db: db}
}

// Get retrieves the value stored under key
func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, true, nil
}

const upsertQuery = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

// Set upserts value under key
func (s *kvStore) Set(ctx context.Context, key string, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// SetMany upserts all values inside one BEGIN/COMMIT.
// Keys are written in sorted order so concurrent writers lock rows consistently.
func (s *kvStore) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, err := tx.ExecContext(ctx, upsertQuery, key, values[key]); err != nil {
			return fmt.Errorf("failed to set key %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
