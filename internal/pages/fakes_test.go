package pages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"codeberg.org/practicetestbulk/client/internal/api"
	"codeberg.org/practicetestbulk/client/internal/oauth"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"codeberg.org/practicetestbulk/client/internal/usage"
)

// records everything a controller asks of its screen
type fakeView struct {
	mu            sync.Mutex
	statuses      []Status
	busy          []bool
	usage         []UsageSnapshot
	prompts       []usage.Prompt
	plans         []PricingSnapshot
	email         string
	verified      bool
	authenticated *bool
}

func (v *fakeView) ShowStatus(s Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *fakeView) ClearStatus() {}

func (v *fakeView) SetBusy(busy bool, _ string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = append(v.busy, busy)
}

func (v *fakeView) RenderUsage(s UsageSnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.usage = append(v.usage, s)
}

func (v *fakeView) OfferUpgrade(p usage.Prompt) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prompts = append(v.prompts, p)
}

func (v *fakeView) RenderPlans(s PricingSnapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plans = append(v.plans, s)
}

func (v *fakeView) ShowEmail(email string) { v.email = email }

func (v *fakeView) ShowVerifiedBanner() { v.verified = true }

func (v *fakeView) ShowAuthenticated(ok bool) { v.authenticated = &ok }

func (v *fakeView) lastStatus() Status {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.statuses) == 0 {
		return Status{}
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) lastUsage() UsageSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.usage) == 0 {
		return UsageSnapshot{}
	}
	return v.usage[len(v.usage)-1]
}

type fakeNav struct {
	mu      sync.Mutex
	visited []session.Location
}

func (n *fakeNav) Navigate(_ context.Context, to session.Location) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visited = append(n.visited, to)
}

func (n *fakeNav) last() session.Location {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.visited) == 0 {
		return session.Location{}
	}
	return n.visited[len(n.visited)-1]
}

type harness struct {
	deps   *Deps
	nav    *fakeNav
	view   *fakeView
	opened []string
}

// builds Deps around a test backend, wired the same way Wire does it
func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	h := &harness{nav: &fakeNav{}, view: &fakeView{}}

	tokens := tokenstore.NewTokens(tokenstore.NewMemoryStore())
	guard := session.NewGuard(tokens, h.nav)
	client := api.New(server.URL, tokens,
		api.WithTimeouts(5*time.Second, 5*time.Second),
		api.WithDownloadDir(t.TempDir()),
		api.WithUnauthorizedHandler(guard.Unauthorized),
	)

	h.deps = &Deps{
		Tokens: tokens,
		API:    client,
		Guard:  guard,
		Nav:    h.nav,
		OAuth: oauth.AdapterFunc(func(context.Context) (*oauth.Event, error) {
			return &oauth.Event{
				Type:        oauth.EventSignedIn,
				CallbackURL: "http://127.0.0.1:1/callback#access_token=oauth-token",
				Token:       "oauth-token",
			}, nil
		}),
		Open: func(u string) error {
			h.opened = append(h.opened, u)
			return nil
		},
	}

	return h
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if err := h.deps.Tokens.SetToken(context.Background(), "tok"); err != nil {
		t.Fatal(err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck,gosec // test server
}
