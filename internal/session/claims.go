package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// represents the claims the backend puts in its access tokens
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what `ptb whoami` prints. it is read without verifying the
// signature and is never used to decide access.
type Identity struct {
	Subject   string
	Email     string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// reports whether the token's exp claim is in the past
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// decodes token's claims for display. tokens that are not JWTs return an error
func Describe(token string) (*Identity, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	id := &Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Username: claims.Username,
	}

	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}

	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}

	return id, nil
}
