package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
)

// Guard makes the per-screen redirect decisions.
type Guard struct {
	tokens *tokenstore.Tokens
	nav    Navigator
}

func NewGuard(tokens *tokenstore.Tokens, nav Navigator) *Guard {
	return &Guard{tokens: tokens, nav: nav}
}

// reports whether a token is stored
func (g *Guard) IsAuthenticated(ctx context.Context) bool {
	return g.tokens.HasToken(ctx)
}

// sends unauthenticated users to login. returns false when it navigated away
func (g *Guard) RequireAuth(ctx context.Context) (bool, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read token: %w", err)
	}

	if token == "" {
		g.nav.Navigate(ctx, To(RouteLogin))
		return false, nil
	}

	return true, nil
}

// skips login/register for users who already have a token. target defaults
// to the app screen. returns true when it navigated away
func (g *Guard) RedirectIfAuthenticated(ctx context.Context, target Route) (bool, error) {
	if target == "" {
		target = RouteApp
	}

	token, err := g.tokens.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read token: %w", err)
	}

	if token == "" {
		return false, nil
	}

	g.nav.Navigate(ctx, To(target))
	return true, nil
}

// stores the token carried in rawURL's fragment (an OAuth return) and moves
// on to the app screen. must run before anything that looks at auth state.
// returns false if the fragment holds no token
func (g *Guard) AbsorbOAuthFragment(ctx context.Context, rawURL string) (bool, error) {
	token := FragmentToken(rawURL)
	if token == "" {
		return false, nil
	}

	if err := g.tokens.SetToken(ctx, token); err != nil {
		return false, fmt.Errorf("failed to store oauth token: %w", err)
	}

	logger.Info("oauth callback absorbed, token stored")

	g.nav.Navigate(ctx, To(RouteApp))
	return true, nil
}

// clears the token and navigates to target (default landing)
func (g *Guard) Logout(ctx context.Context, target Route) error {
	if target == "" {
		target = RouteLanding
	}

	if err := g.tokens.RemoveToken(ctx); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	g.nav.Navigate(ctx, To(target))
	return nil
}

// the api client calls this after a 401 has already cleared the token
func (g *Guard) Unauthorized(ctx context.Context) {
	logger.Warn("session expired, redirecting to login")
	g.nav.Navigate(ctx, To(RouteLogin))
}

// returns the access_token carried in a URL fragment. accepts a full URL,
// "#access_token=..." or a bare "access_token=..." fragment
func FragmentToken(raw string) string {
	fragment := raw
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		fragment = raw[i+1:]
	} else if strings.Contains(raw, "://") || strings.HasPrefix(raw, "/") {
		return ""
	}

	if !strings.Contains(fragment, "access_token") {
		return ""
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(values.Get("access_token"))
}
