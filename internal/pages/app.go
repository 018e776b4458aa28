package pages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/practicetestbulk/client/internal/api"
	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/generator"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"golang.org/x/time/rate"
)

const (
	msgGenerating   = "AI is generating your questions. This may take 30-60 seconds..."
	msgDownloaded   = "CSV file downloaded successfully!"
	msgTooManyTries = "You're generating too quickly. Please wait a moment and try again."
)

type AppView interface {
	StatusView
	BusyView
	RenderUsage(s UsageSnapshot)
	// the gate denied or warned; the view offers a way to the pricing screen
	OfferUpgrade(p usage.Prompt)
}

// App drives the generator screen.
type App struct {
	deps  *Deps
	view  AppView
	state *machine

	mu       sync.Mutex
	usage    *usage.UserUsage
	limiters map[usage.Tier]*rate.Limiter
}

func NewApp(deps *Deps, view AppView) *App {
	return &App{
		deps:     deps,
		view:     view,
		state:    newMachine(),
		limiters: make(map[usage.Tier]*rate.Limiter),
	}
}

// requires a session, then loads usage. a failed usage fetch leaves the
// screen usable with defaults; a 401 has already sent the user to login
func (p *App) Load(ctx context.Context) error {
	ok, err := p.deps.Guard.RequireAuth(ctx)
	if err != nil {
		p.state.set(StateError)
		return err
	}

	if !ok {
		return nil
	}

	if err := p.refreshUsage(ctx); errors.IsAuthExpired(err) {
		return err
	}

	p.state.set(StateReady)
	return nil
}

func (p *App) refreshUsage(ctx context.Context) error {
	u, err := p.deps.API.Usage(ctx)
	if err != nil {
		if errors.IsAuthExpired(err) {
			return err
		}

		logger.ErrorErr(err, "failed to load user data")

		p.mu.Lock()
		known := p.usage
		p.mu.Unlock()

		if known == nil {
			p.view.RenderUsage(unknownUsage())
		}

		return err
	}

	p.mu.Lock()
	p.usage = u
	p.mu.Unlock()

	p.view.RenderUsage(NewUsageSnapshot(*u))
	return nil
}

// last usage loaded, nil if none
func (p *App) Usage() *usage.UserUsage {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.usage == nil {
		return nil
	}

	u := *p.usage
	return &u
}

// validates form, checks quota and pacing, then generates and saves the CSV
func (p *App) Submit(ctx context.Context, form generator.Form) (*api.Download, error) {
	if !p.state.begin() {
		return nil, ErrBusy
	}
	defer p.state.finish()

	p.view.ClearStatus()

	req, err := generator.Collect(form)
	if err != nil {
		p.view.ShowStatus(Failure(errors.Message(err)))
		return nil, err
	}

	current := p.Usage()

	// without usage data the backend is left to enforce the quota
	if current != nil {
		decision := usage.Gate(*current, req.NumQuestions)
		prompt := usage.PromptFor(decision)

		if !decision.Allowed() {
			p.view.ShowStatus(Failure(prompt.Message))
			p.view.OfferUpgrade(prompt)
			return nil, errors.Validation(prompt.Message)
		}

		if decision.Outcome == usage.WarnRunningLow {
			p.view.ShowStatus(Warning(prompt.Message))
			p.view.OfferUpgrade(prompt)
		}
	}

	tier := usage.TierFree
	if current != nil {
		tier = current.Tier
	}

	if !p.limiter(tier).Allow() {
		p.view.ShowStatus(Failure(msgTooManyTries))
		return nil, errors.Validation(msgTooManyTries)
	}

	p.view.SetBusy(true, "Generating questions...")
	p.view.ShowStatus(Info(msgGenerating))

	started := time.Now()
	dl, err := p.deps.API.Generate(ctx, req, generator.DownloadFilename(req.WorkingTitle))

	p.view.SetBusy(false, "")

	if err != nil {
		if errors.IsAuthExpired(err) {
			return nil, err
		}

		logger.ErrorErr(err, "generation failed", "questions", req.NumQuestions)
		p.view.ShowStatus(Failure("Error: " + errors.Message(err)))
		return nil, err
	}

	logger.Info("practice test downloaded",
		"path", dl.Path,
		"bytes", dl.Bytes,
		"duration", time.Since(started).Round(time.Millisecond))

	var msg string
	if rows, err := generator.SummarizeCSV(dl.Data); err == nil && rows > 0 {
		msg = fmt.Sprintf("%s %d questions saved to %s", msgDownloaded, rows, dl.Path)
	} else {
		msg = fmt.Sprintf("%s Saved to %s", msgDownloaded, dl.Path)
	}

	p.view.ShowStatus(Success(msg))

	if err := p.refreshUsage(ctx); errors.IsAuthExpired(err) {
		return dl, err
	}

	return dl, nil
}

// pacing per tier; rebuilt lazily so a tier change takes the new budget
func (p *App) limiter(t usage.Tier) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[t]
	if !ok {
		n := usage.RateFor(t)
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
		p.limiters[t] = l
	}

	return l
}

func (p *App) Logout(ctx context.Context) error {
	return p.deps.Guard.Logout(ctx, session.RouteLanding)
}

func (p *App) Upgrade(ctx context.Context) {
	p.deps.Nav.Navigate(ctx, session.To(session.RoutePricing))
}

func (p *App) State() State {
	return p.state.State()
}
