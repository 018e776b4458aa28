package session

import (
	"context"
	"testing"

	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNavigator struct {
	visited []Location
}

func (n *recordingNavigator) Navigate(_ context.Context, to Location) {
	n.visited = append(n.visited, to)
}

func (n *recordingNavigator) last() Location {
	if len(n.visited) == 0 {
		return Location{}
	}
	return n.visited[len(n.visited)-1]
}

func newGuard(t *testing.T) (*Guard, *tokenstore.Tokens, *recordingNavigator) {
	t.Helper()

	tokens := tokenstore.NewTokens(tokenstore.NewMemoryStore())
	nav := &recordingNavigator{}

	return NewGuard(tokens, nav), tokens, nav
}

func TestRequireAuth_NoToken(t *testing.T) {
	guard, _, nav := newGuard(t)

	ok, err := guard.RequireAuth(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, RouteLogin, nav.last().Route)
}

func TestRequireAuth_WithToken(t *testing.T) {
	guard, tokens, nav := newGuard(t)
	require.NoError(t, tokens.SetToken(context.Background(), "tok"))

	ok, err := guard.RequireAuth(context.Background())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, nav.visited)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		target     Route
		wantMoved  bool
		wantTarget Route
	}{
		{name: "anonymous stays", token: "", target: RouteApp, wantMoved: false},
		{name: "default target", token: "tok", target: "", wantMoved: true, wantTarget: RouteApp},
		{name: "explicit target", token: "tok", target: RoutePricing, wantMoved: true, wantTarget: RoutePricing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, tokens, nav := newGuard(t)
			if tt.token != "" {
				require.NoError(t, tokens.SetToken(context.Background(), tt.token))
			}

			moved, err := guard.RedirectIfAuthenticated(context.Background(), tt.target)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMoved, moved)
			if tt.wantMoved {
				assert.Equal(t, tt.wantTarget, nav.last().Route)
			} else {
				assert.Empty(t, nav.visited)
			}
		})
	}
}

func TestAbsorbOAuthFragment(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantToken string
	}{
		{name: "full url", raw: "http://127.0.0.1:8765/#access_token=abc&token_type=bearer", wantToken: "abc"},
		{name: "hash only", raw: "#access_token=xyz", wantToken: "xyz"},
		{name: "bare fragment", raw: "refresh_token=r&access_token=def", wantToken: "def"},
		{name: "no fragment", raw: "http://127.0.0.1:8765/", wantToken: ""},
		{name: "token in query is ignored", raw: "/?access_token=abc", wantToken: ""},
		{name: "other fragment", raw: "http://x/#section-2", wantToken: ""},
		{name: "empty token", raw: "#access_token=", wantToken: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard, tokens, nav := newGuard(t)
			ctx := context.Background()

			absorbed, err := guard.AbsorbOAuthFragment(ctx, tt.raw)
			require.NoError(t, err)

			token, err := tokens.Token(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)

			if tt.wantToken != "" {
				assert.True(t, absorbed)
				assert.Equal(t, RouteApp, nav.last().Route)
			} else {
				assert.False(t, absorbed)
				assert.Empty(t, nav.visited)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	guard, tokens, nav := newGuard(t)
	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "tok"))

	require.NoError(t, guard.Logout(ctx, ""))

	assert.False(t, tokens.HasToken(ctx))
	assert.Equal(t, RouteLanding, nav.last().Route)
}

func TestUnauthorized_NavigatesToLogin(t *testing.T) {
	guard, _, nav := newGuard(t)

	guard.Unauthorized(context.Background())

	assert.Equal(t, RouteLogin, nav.last().Route)
}

func TestLocation(t *testing.T) {
	loc := ToWith(RouteVerifyEmail, "email", "sam@example.com")
	assert.Equal(t, "/verify-email?email=sam%40example.com", loc.String())
	assert.Equal(t, "sam@example.com", loc.Param("email"))

	parsed, err := ParseLocation("/login/?verified=true#ignored")
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, parsed.Route)
	assert.Equal(t, "true", parsed.Param("verified"))

	root, err := ParseLocation("")
	require.NoError(t, err)
	assert.Equal(t, RouteLanding, root.Route)
	assert.Equal(t, "/", root.String())
}
