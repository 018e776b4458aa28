package pages

import (
	"context"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"codeberg.org/practicetestbulk/client/internal/api"
	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/generator"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a backend with a usage counter that generation advances
type fakeBackend struct {
	mu          sync.Mutex
	tier        usage.Tier
	used        int
	limit       int
	generated   atomic.Int32
	failUsage   int
	failGen     bool
	generateHit chan struct{}
	release     chan struct{}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case api.PathUsage:
		if b.failUsage != 0 {
			writeJSON(w, b.failUsage, map[string]string{"detail": "usage unavailable"})
			return
		}

		b.mu.Lock()
		u := usage.UserUsage{Username: "sam", Tier: b.tier, QuestionsUsed: b.used, MonthlyLimit: b.limit}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, u)

	case api.PathGenerate:
		b.generated.Add(1)

		if b.generateHit != nil {
			b.generateHit <- struct{}{}
			<-b.release
		}

		if b.failGen {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "AI generation failed"})
			return
		}

		b.mu.Lock()
		b.used += 2
		b.mu.Unlock()

		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Question,Answer\nQ1,A1\nQ2,A2\n")) //nolint:errcheck,gosec // test server

	default:
		http.NotFound(w, r)
	}
}

func validForm(questions string) generator.Form {
	return generator.Form{
		WorkingTitle:       "Go Basics",
		PracticeTestTitle:  "Go Basics Practice",
		Category:           "Development",
		LearningObjectives: []string{"goroutines", "channels", "interfaces", "errors"},
		DifficultyLevel:    "beginner",
		NumQuestions:       questions,
		ExplanationStyle:   "detailed",
	}
}

func TestApp_LoadRequiresAuth(t *testing.T) {
	h := newHarness(t, &fakeBackend{tier: usage.TierFree, limit: 20})
	page := NewApp(h.deps, h.view)

	require.NoError(t, page.Load(context.Background()))

	assert.Equal(t, session.RouteLogin, h.nav.last().Route)
	assert.Empty(t, h.view.usage)
}

func TestApp_LoadRendersUsage(t *testing.T) {
	h := newHarness(t, &fakeBackend{tier: usage.TierFree, used: 15, limit: 20})
	h.signIn(t)
	page := NewApp(h.deps, h.view)

	require.NoError(t, page.Load(context.Background()))

	s := h.view.lastUsage()
	assert.True(t, s.Known)
	assert.Equal(t, 5, s.Remaining)
	assert.Equal(t, 75, s.Percent)
	assert.Equal(t, usage.BandWarning, s.ProgressBand)
	assert.Equal(t, usage.BandWarning, s.BadgeBand)
	assert.Equal(t, "15 of 20 questions used (5 remaining)", s.UsageText)
	assert.True(t, s.ShowBanner)
	assert.Equal(t, StateReady, page.State())
}

func TestApp_Load401RedirectsToLogin(t *testing.T) {
	h := newHarness(t, &fakeBackend{failUsage: http.StatusUnauthorized})
	h.signIn(t)
	page := NewApp(h.deps, h.view)

	err := page.Load(context.Background())

	assert.True(t, errors.IsAuthExpired(err))
	assert.Equal(t, session.RouteLogin, h.nav.last().Route)
	assert.False(t, h.deps.Tokens.HasToken(context.Background()))
}

func TestApp_LoadFailureDegrades(t *testing.T) {
	h := newHarness(t, &fakeBackend{failUsage: http.StatusInternalServerError})
	h.signIn(t)
	page := NewApp(h.deps, h.view)

	require.NoError(t, page.Load(context.Background()))

	assert.False(t, h.view.lastUsage().Known)
	assert.Equal(t, StateReady, page.State())
	assert.Nil(t, page.Usage())
}

func TestApp_SubmitSuccessRefreshesUsage(t *testing.T) {
	backend := &fakeBackend{tier: usage.TierFree, used: 0, limit: 20}
	h := newHarness(t, backend)
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()
	require.NoError(t, page.Load(ctx))

	dl, err := page.Submit(ctx, validForm("2"))

	require.NoError(t, err)
	assert.FileExists(t, dl.Path)
	assert.Contains(t, dl.Path, "Go_Basics_practice_test.csv")

	data, err := os.ReadFile(dl.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Q2,A2")

	status := h.view.lastStatus()
	assert.Equal(t, SeveritySuccess, status.Severity)
	assert.Contains(t, status.Message, msgDownloaded)
	assert.Contains(t, status.Message, "2 questions")

	assert.Equal(t, 2, page.Usage().QuestionsUsed, "usage is refetched after a download")
	assert.Equal(t, []bool{true, false}, h.view.busy)
	assert.Equal(t, StateReady, page.State())
}

func TestApp_SubmitGate(t *testing.T) {
	tests := []struct {
		name       string
		tier       usage.Tier
		used       int
		requested  string
		wantErr    bool
		wantPrompt bool
		wantCalls  int32
	}{
		{name: "limit reached", tier: usage.TierFree, used: 20, requested: "1", wantErr: true, wantPrompt: true, wantCalls: 0},
		{name: "insufficient", tier: usage.TierFree, used: 17, requested: "5", wantErr: true, wantPrompt: true, wantCalls: 0},
		{name: "running low", tier: usage.TierFree, used: 17, requested: "2", wantErr: false, wantPrompt: true, wantCalls: 1},
		{name: "plenty", tier: usage.TierFree, used: 0, requested: "10", wantErr: false, wantPrompt: false, wantCalls: 1},
		{name: "paid ignores counters", tier: usage.TierPro, used: 99999, requested: "250", wantErr: false, wantPrompt: false, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{tier: tt.tier, used: tt.used, limit: 20}
			h := newHarness(t, backend)
			h.signIn(t)
			page := NewApp(h.deps, h.view)
			ctx := context.Background()
			require.NoError(t, page.Load(ctx))

			_, err := page.Submit(ctx, validForm(tt.requested))

			if tt.wantErr {
				assert.Equal(t, errors.KindValidation, errors.KindOf(err))
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantPrompt, len(h.view.prompts) > 0)
			assert.Equal(t, tt.wantCalls, backend.generated.Load())
		})
	}
}

func TestApp_SubmitInsufficientReportsRemaining(t *testing.T) {
	h := newHarness(t, &fakeBackend{tier: usage.TierFree, used: 17, limit: 20})
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()
	require.NoError(t, page.Load(ctx))

	_, err := page.Submit(ctx, validForm("5"))

	require.Error(t, err)
	require.Len(t, h.view.prompts, 1)
	assert.True(t, h.view.prompts[0].OfferUpgrade)
	assert.Contains(t, h.view.prompts[0].Message, "You only have 3 questions remaining")
}

func TestApp_SubmitValidationMakesNoCall(t *testing.T) {
	backend := &fakeBackend{tier: usage.TierFree, limit: 20}
	h := newHarness(t, backend)
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()
	require.NoError(t, page.Load(ctx))

	form := validForm("5")
	form.LearningObjectives = []string{"one", "two", " ", "three"}

	_, err := page.Submit(ctx, form)

	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, Failure(generator.MsgTooFewObjectives), h.view.lastStatus())
	assert.Zero(t, backend.generated.Load())
}

func TestApp_SubmitFailureReturnsToReady(t *testing.T) {
	backend := &fakeBackend{tier: usage.TierFree, limit: 20, failGen: true}
	h := newHarness(t, backend)
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()
	require.NoError(t, page.Load(ctx))

	dl, err := page.Submit(ctx, validForm("2"))

	assert.Nil(t, dl)
	assert.Equal(t, errors.KindRequestFailed, errors.KindOf(err))
	assert.Equal(t, Failure("Error: AI generation failed"), h.view.lastStatus())
	assert.Equal(t, StateReady, page.State())
	assert.Equal(t, 0, page.Usage().QuestionsUsed)
}

func TestApp_RejectsOverlappingSubmit(t *testing.T) {
	backend := &fakeBackend{
		tier:        usage.TierPro,
		limit:       20,
		generateHit: make(chan struct{}),
		release:     make(chan struct{}),
	}
	h := newHarness(t, backend)
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()
	require.NoError(t, page.Load(ctx))

	done := make(chan error, 1)
	go func() {
		_, err := page.Submit(ctx, validForm("2"))
		done <- err
	}()

	<-backend.generateHit
	assert.Equal(t, StateSubmitting, page.State())

	_, err := page.Submit(ctx, validForm("2"))
	assert.ErrorIs(t, err, ErrBusy)

	close(backend.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), backend.generated.Load())
}

func TestApp_PacingPerTier(t *testing.T) {
	backend := &fakeBackend{tier: usage.TierFree, limit: 1000}
	h := newHarness(t, backend)
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()
	require.NoError(t, page.Load(ctx))

	budget := usage.RateFor(usage.TierFree)
	for i := 0; i < budget; i++ {
		_, err := page.Submit(ctx, validForm("1"))
		require.NoError(t, err)
	}

	_, err := page.Submit(ctx, validForm("1"))

	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, Failure(msgTooManyTries), h.view.lastStatus())
	assert.Equal(t, int32(budget), backend.generated.Load())
}

func TestApp_LogoutAndUpgrade(t *testing.T) {
	h := newHarness(t, &fakeBackend{})
	h.signIn(t)
	page := NewApp(h.deps, h.view)
	ctx := context.Background()

	page.Upgrade(ctx)
	assert.Equal(t, session.RoutePricing, h.nav.last().Route)

	require.NoError(t, page.Logout(ctx))
	assert.Equal(t, session.RouteLanding, h.nav.last().Route)
	assert.False(t, h.deps.Tokens.HasToken(ctx))
}

func TestUsageSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		usage   usage.UserUsage
		compare func(t *testing.T, got UsageSnapshot)
	}{
		{
			name:  "business",
			usage: usage.UserUsage{Username: "biz", Tier: usage.TierBusiness, QuestionsRemaining: 7400},
			compare: func(t *testing.T, got UsageSnapshot) {
				assert.True(t, got.Unlimited)
				assert.False(t, got.ShowBanner)
				assert.Equal(t, 7400, got.Remaining)
				assert.Equal(t, usage.BandSuccess, got.BadgeBand)
				assert.Equal(t, "Manage Plan", got.UpgradeLabel)
				assert.Equal(t, "BUSINESS", got.TierLabel)
			},
		},
		{
			name:  "free over limit floors at zero",
			usage: usage.UserUsage{Tier: usage.TierFree, QuestionsUsed: 25, MonthlyLimit: 20},
			compare: func(t *testing.T, got UsageSnapshot) {
				assert.Equal(t, 0, got.Remaining)
				assert.Equal(t, usage.BandError, got.BadgeBand)
				assert.Equal(t, usage.BandError, got.ProgressBand)
				assert.Equal(t, "User", got.Username)
			},
		},
		{
			name:  "free half used",
			usage: usage.UserUsage{Username: "sam", Tier: usage.TierFree, QuestionsUsed: 10, MonthlyLimit: 20},
			compare: func(t *testing.T, got UsageSnapshot) {
				assert.Equal(t, 50, got.Percent)
				assert.Equal(t, usage.BandNormal, got.ProgressBand)
				assert.Equal(t, usage.BandNormal, got.BadgeBand)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.compare(t, NewUsageSnapshot(tt.usage))
		})
	}
}
