package pages

import (
	"context"
)

type LandingView interface {
	// authenticated visitors get "Go to App"; everyone else login/signup
	ShowAuthenticated(authenticated bool)
}

type Landing struct {
	deps  *Deps
	view  LandingView
	state *machine
}

func NewLanding(deps *Deps, view LandingView) *Landing {
	return &Landing{deps: deps, view: view, state: newMachine()}
}

// entryURL is the URL the screen was opened with; an OAuth return carries
// the token in its fragment and is absorbed before anything else runs
func (p *Landing) Load(ctx context.Context, entryURL string) error {
	absorbed, err := p.deps.Guard.AbsorbOAuthFragment(ctx, entryURL)
	if err != nil {
		p.state.set(StateError)
		return err
	}

	if absorbed {
		return nil
	}

	p.view.ShowAuthenticated(p.deps.Guard.IsAuthenticated(ctx))
	p.state.set(StateReady)

	return nil
}

func (p *Landing) State() State {
	return p.state.State()
}
