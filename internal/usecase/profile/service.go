package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// ProfileService reads and edits the user's display profile
type ProfileService struct {
	Store  domain.KeyValueStore
	Logger zerolog.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(store domain.KeyValueStore, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		Store:  store,
		Logger: logger.With().Str("component", "profile").Logger(),
	}
}

// Get returns the stored profile; fields never set take their defaults
func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	profile := domain.DefaultProfile()

	fields := []struct {
		key  string
		dest *string
	}{
		{domain.ProfileKeyUsername, &profile.Username},
		{domain.ProfileKeyEmail, &profile.Email},
		{domain.ProfileKeyPicture, &profile.PictureURL},
	}
	for _, f := range fields {
		value, found, err := s.Store.Get(ctx, f.key)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrPersistence, f.key, err)
		}
		if found {
			*f.dest = value
		}
	}

	return &profile, nil
}

// Update validates and stores profile.
// An empty PictureURL keeps the current picture.
func (s *ProfileService) Update(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	profile.Username = strings.TrimSpace(profile.Username)
	profile.Email = strings.TrimSpace(profile.Email)
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	values := []struct {
		key   string
		value string
	}{
		{domain.ProfileKeyUsername, profile.Username},
		{domain.ProfileKeyEmail, profile.Email},
	}
	if profile.PictureURL != "" {
		values = append(values, struct {
			key   string
			value string
		}{domain.ProfileKeyPicture, profile.PictureURL})
	}

	for _, v := range values {
		if err := s.Store.Set(ctx, v.key, v.value); err != nil {
			return nil, fmt.Errorf("%w: failed to write %s: %v", domain.ErrPersistence, v.key, err)
		}
	}

	s.Logger.Info().Str("username", profile.Username).Msg("Profile updated")
	return s.Get(ctx)
}
