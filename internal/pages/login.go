package pages

import (
	"context"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/session"
)

const (
	msgLoginNoToken = "Login successful but no token received. Please try again."
	msgVerified     = "Email verified! You can now sign in."
)

type LoginView interface {
	StatusView
	BusyView
	ShowVerifiedBanner()
}

type Login struct {
	deps  *Deps
	view  LoginView
	state *machine
}

func NewLogin(deps *Deps, view LoginView) *Login {
	return &Login{deps: deps, view: view, state: newMachine()}
}

// returns true when the visitor was already signed in and got redirected
func (p *Login) Load(ctx context.Context, loc session.Location) (bool, error) {
	redirected, err := p.deps.Guard.RedirectIfAuthenticated(ctx, session.RouteApp)
	if err != nil || redirected {
		return redirected, err
	}

	if loc.Param("verified") == "true" {
		p.view.ShowVerifiedBanner()
	}

	p.state.set(StateReady)
	return false, nil
}

func (p *Login) Submit(ctx context.Context, email, password string) error {
	if !p.state.begin() {
		return ErrBusy
	}
	defer p.state.finish()

	p.view.ClearStatus()
	p.view.SetBusy(true, "Signing in...")
	defer p.view.SetBusy(false, "")

	resp, err := p.deps.API.Login(ctx, email, password)
	if err != nil {
		p.view.ShowStatus(Failure(loginFailure(err)))
		return err
	}

	if resp.AccessToken == "" {
		p.view.ShowStatus(Failure(msgLoginNoToken))
		return errors.RequestFailed(200, msgLoginNoToken)
	}

	if err := p.deps.Tokens.SetToken(ctx, resp.AccessToken); err != nil {
		logger.ErrorErr(err, "failed to store token")
		p.view.ShowStatus(Failure("Could not save your session: " + err.Error()))
		return err
	}

	logger.Info("signed in", "email", email)
	p.deps.Nav.Navigate(ctx, session.To(session.RouteApp))

	return nil
}

func (p *Login) SignInWithOAuth(ctx context.Context) error {
	if !p.state.begin() {
		return ErrBusy
	}
	defer p.state.finish()

	return signInWithOAuth(ctx, p.deps, p.view)
}

func (p *Login) State() State {
	return p.state.State()
}

func loginFailure(err error) string {
	if errors.KindOf(err) == errors.KindNetwork {
		return errors.Message(err)
	}

	detail := errors.Detail(err)
	if detail == "" {
		detail = "Invalid credentials"
	}

	return "Login failed: " + detail
}
