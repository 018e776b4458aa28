package pages

import (
	"context"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/session"
)

const (
	placeholderEmail   = "your email address"
	msgEmailNotFound   = "Email not found. Please register again."
	msgVerificationSet = "Verification email sent."
)

type VerifyEmailView interface {
	StatusView
	BusyView
	ShowEmail(email string)
}

type VerifyEmail struct {
	deps  *Deps
	view  VerifyEmailView
	state *machine
}

func NewVerifyEmail(deps *Deps, view VerifyEmailView) *VerifyEmail {
	return &VerifyEmail{deps: deps, view: view, state: newMachine()}
}

// shows the address the confirmation went to. an email in the location wins
// and is remembered for Resend
func (p *VerifyEmail) Load(ctx context.Context, loc session.Location) error {
	email := loc.Param("email")

	if email != "" {
		if err := p.deps.Tokens.SetPendingEmail(ctx, email); err != nil {
			logger.ErrorErr(err, "failed to store pending verification email")
		}
	} else {
		stored, err := p.deps.Tokens.PendingEmail(ctx)
		if err != nil {
			logger.ErrorErr(err, "failed to read pending verification email")
		}
		email = stored
	}

	if email == "" {
		email = placeholderEmail
	}

	p.view.ShowEmail(email)
	p.state.set(StateReady)

	return nil
}

func (p *VerifyEmail) Resend(ctx context.Context) error {
	if !p.state.begin() {
		return ErrBusy
	}
	defer p.state.finish()

	p.view.ClearStatus()

	email, err := p.deps.Tokens.PendingEmail(ctx)
	if err != nil {
		logger.ErrorErr(err, "failed to read pending verification email")
	}

	if email == "" || email == placeholderEmail {
		p.view.ShowStatus(Failure(msgEmailNotFound))
		p.deps.Nav.Navigate(ctx, session.To(session.RouteRegister))
		return errors.Validation(msgEmailNotFound)
	}

	p.view.SetBusy(true, "Sending...")
	defer p.view.SetBusy(false, "")

	resp, err := p.deps.API.ResendVerification(ctx, email)
	if err != nil {
		p.view.ShowStatus(Failure(errors.Message(err)))
		return err
	}

	msg := resp.Message
	if msg == "" {
		msg = msgVerificationSet
	}

	p.view.ShowStatus(Success(msg))
	return nil
}

func (p *VerifyEmail) State() State {
	return p.state.State()
}
