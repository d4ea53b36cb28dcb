package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simaogato/paperwallet-backend/internal/domain"
)

// JWTProvider validates HS256 tokens signed with a shared secret.
// The sub claim becomes the user id and the name claim the display name.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider creates a JWT identity provider
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

// Authenticate parses and verifies token
func (p *JWTProvider) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: 'sub' claim missing or not a string", domain.ErrUnauthenticated)
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = sub
	}

	return &domain.User{ID: sub, Name: name}, nil
}

// IssueToken signs a token for userID; walletctl token prints one
func (p *JWTProvider) IssueToken(userID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
