package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"codeberg.org/practicetestbulk/client/internal/config"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// mints a session token for a local backend and stores it in the configured
// session store, so `ptb whoami` and the TUI can be tried without signing in
func main() {
	email := flag.String("email", "test@practicetestbulk.dev", "email claim")
	username := flag.String("username", "Test User", "username claim")
	secret := flag.String("secret", "dev-secret", "HS256 signing key of the local backend")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	store, err := tokenstore.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	now := time.Now()
	claims := session.Claims{
		Email:    *email,
		Username: *username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*secret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	if err := tokenstore.NewTokens(store).SetToken(ctx, token); err != nil {
		log.Fatalf("Failed to store token: %v", err)
	}

	fmt.Printf("✅ Stored test session for %s (profile %s)\n", *email, cfg.Profile)
	fmt.Printf("\n🔑 Test JWT Token:\n%s\n", token)
}
