package identity

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/simaogato/paperwallet-backend/internal/domain"
)

var (
	_ domain.IdentityProvider = (*StaticTokenProvider)(nil)
	_ domain.IdentityProvider = (*JWTProvider)(nil)
)

// LocalUserID identifies the single user behind a static API token
const LocalUserID = "local"

// StaticTokenProvider accepts exactly one shared token
type StaticTokenProvider struct {
	token string
	user  domain.User
}

// NewStaticTokenProvider creates a provider that maps token to the local user
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{
		token: token,
		user:  domain.User{ID: LocalUserID, Name: domain.DefaultUsername},
	}
}

// Authenticate compares token with the configured one in constant time
func (p *StaticTokenProvider) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if p.token == "" || token == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	user := p.user
	return &user, nil
}
