package memory

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// kvStore implements domain.KeyValueStore in process memory.
// Values never expire; nothing survives a restart.
type kvStore struct {
	mu    sync.RWMutex // makes SetMany visible all at once
	items *cache.Cache
}

// NewKeyValueStore creates an empty in-memory key-value store
func NewKeyValueStore() domain.KeyValueStore {
	return &kvStore{items: cache.New(cache.NoExpiration, 0)}
}

// Get retrieves the value stored under key
func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, found := s.items.Get(key)
	if !found {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Set stores value under key
func (s *kvStore) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.Set(key, value, cache.NoExpiration)
	return nil
}

// SetMany stores all values under one lock
func (s *kvStore) SetMany(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.items.Set(key, value, cache.NoExpiration)
	}
	return nil
}
