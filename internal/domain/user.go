package domain

import (
	"context"
	"fmt"
	"strings"
)

// User is the authenticated caller as exposed by the identity provider.
// The ledger never consumes it.
type User struct {
	ID   string
	Name string
}

// Profile is the user's display information
type Profile struct {
	Username   string
	Email      string
	PictureURL string // http(s) or data: URL
}

// Profile store keys and defaults
const (
	ProfileKeyUsername = "username"
	ProfileKeyEmail    = "email"
	ProfileKeyPicture  = "profilePicture"

	DefaultUsername   = "Username"
	DefaultEmail      = "user@example.com"
	DefaultPictureURL = "https://www.example.com/profile.jpg"
)

// DefaultProfile returns the profile shown before the user edits it
func DefaultProfile() Profile {
	return Profile{
		Username:   DefaultUsername,
		Email:      DefaultEmail,
		PictureURL: DefaultPictureURL,
	}
}

// Validate ensures the profile adheres to domain rules
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	at := strings.Index(p.Email, "@")
	if at <= 0 || at == len(p.Email)-1 {
		return fmt.Errorf("%w: email must look like name@domain", ErrInvalidInput)
	}
	return nil
}

type userContextKey struct{}

// ContextWithUser returns a copy of ctx carrying user
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}
