package pages

import (
	"context"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/session"
)

type RegisterView interface {
	StatusView
	BusyView
}

type Register struct {
	deps  *Deps
	view  RegisterView
	state *machine
}

func NewRegister(deps *Deps, view RegisterView) *Register {
	return &Register{deps: deps, view: view, state: newMachine()}
}

func (p *Register) Load(ctx context.Context) (bool, error) {
	redirected, err := p.deps.Guard.RedirectIfAuthenticated(ctx, session.RouteApp)
	if err != nil || redirected {
		return redirected, err
	}

	p.state.set(StateReady)
	return false, nil
}

// creates the account. depending on the backend the user is sent to email
// verification, straight into the app, or to login
func (p *Register) Submit(ctx context.Context, username, email, password string) error {
	if !p.state.begin() {
		return ErrBusy
	}
	defer p.state.finish()

	p.view.ClearStatus()
	p.view.SetBusy(true, "Creating account...")
	defer p.view.SetBusy(false, "")

	resp, err := p.deps.API.Register(ctx, username, email, password)
	if err != nil {
		msg := errors.Message(err)
		if errors.KindOf(err) != errors.KindNetwork {
			msg = "Registration failed: " + msg
		}

		p.view.ShowStatus(Failure(msg))
		return err
	}

	switch {
	case resp.EmailConfirmationRequired:
		if err := p.deps.Tokens.SetPendingEmail(ctx, email); err != nil {
			logger.ErrorErr(err, "failed to store pending verification email")
		}

		p.deps.Nav.Navigate(ctx, session.ToWith(session.RouteVerifyEmail, "email", email))

	case resp.AccessToken != "":
		if err := p.deps.Tokens.SetToken(ctx, resp.AccessToken); err != nil {
			logger.ErrorErr(err, "failed to store token")
			p.view.ShowStatus(Failure("Could not save your session: " + err.Error()))
			return err
		}

		msg := resp.Message
		if msg == "" {
			msg = "Registration successful!"
		}

		p.view.ShowStatus(Success(msg))
		p.deps.Nav.Navigate(ctx, session.To(session.RouteApp))

	default:
		p.view.ShowStatus(Success("Registration successful! Please login."))
		p.deps.Nav.Navigate(ctx, session.To(session.RouteLogin))
	}

	logger.Info("registered", "username", username, "confirmation_required", resp.EmailConfirmationRequired)

	return nil
}

func (p *Register) SignInWithOAuth(ctx context.Context) error {
	if !p.state.begin() {
		return ErrBusy
	}
	defer p.state.finish()

	return signInWithOAuth(ctx, p.deps, p.view)
}

func (p *Register) State() State {
	return p.state.State()
}
