package tokenstore

import (
	"context"
	"fmt"

	"codeberg.org/practicetestbulk/client/internal/config"
)

// fixed keys shared by every backend
const (
	KeyAccessToken  = "access_token"
	KeyPendingEmail = "pending_verification_email"
)

// persistent key-value storage for client session state. values are opaque.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Tokens is the typed view over a Store that the rest of the client uses.
type Tokens struct {
	store Store
}

func NewTokens(store Store) *Tokens {
	return &Tokens{store: store}
}

// returns the bearer token, or "" when none is stored
func (t *Tokens) Token(ctx context.Context) (string, error) {
	token, _, err := t.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return token, nil
}

// reports whether a token is present; storage errors count as absent
func (t *Tokens) HasToken(ctx context.Context) bool {
	token, err := t.Token(ctx)
	return err == nil && token != ""
}

func (t *Tokens) SetToken(ctx context.Context, token string) error {
	if err := t.store.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

func (t *Tokens) RemoveToken(ctx context.Context) error {
	if err := t.store.Remove(ctx, KeyAccessToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	return nil
}

func (t *Tokens) PendingEmail(ctx context.Context) (string, error) {
	email, _, err := t.store.Get(ctx, KeyPendingEmail)
	if err != nil {
		return "", fmt.Errorf("failed to read pending email: %w", err)
	}

	return email, nil
}

func (t *Tokens) SetPendingEmail(ctx context.Context, email string) error {
	if err := t.store.Set(ctx, KeyPendingEmail, email); err != nil {
		return fmt.Errorf("failed to store pending email: %w", err)
	}

	return nil
}

// builds the backend selected in cfg
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.TokenStore {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreRedis:
		return NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.Profile)
	default:
		return NewFileStore(cfg.TokenPath), nil
	}
}
