package pages

import (
	"context"
	"fmt"

	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/oauth"
)

type oauthView interface {
	StatusView
	BusyView
}

// shared by login and register: run the provider flow and let the guard
// absorb the returned fragment
func signInWithOAuth(ctx context.Context, deps *Deps, view oauthView) error {
	view.ClearStatus()
	view.SetBusy(true, "Waiting for Google sign-in...")
	defer view.SetBusy(false, "")

	event, err := deps.OAuth.SignIn(ctx)
	if err != nil {
		logger.ErrorErr(err, "oauth sign-in failed")
		view.ShowStatus(Failure("Google sign-in failed: " + err.Error()))
		return err
	}

	if event.Type != oauth.EventSignedIn {
		err := fmt.Errorf("unexpected sign-in event %q", event.Type)
		view.ShowStatus(Failure(err.Error()))
		return err
	}

	absorbed, err := deps.Guard.AbsorbOAuthFragment(ctx, event.CallbackURL)
	if err != nil {
		view.ShowStatus(Failure(err.Error()))
		return err
	}

	if !absorbed {
		err := fmt.Errorf("sign-in returned no session")
		view.ShowStatus(Failure("Google sign-in failed: " + err.Error()))
		return err
	}

	return nil
}
