package pages

import (
	"codeberg.org/practicetestbulk/client/internal/api"
	"codeberg.org/practicetestbulk/client/internal/browser"
	"codeberg.org/practicetestbulk/client/internal/config"
	"codeberg.org/practicetestbulk/client/internal/oauth"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
)

// Deps is the single composition point a front end builds once and hands to
// every controller.
type Deps struct {
	Tokens *tokenstore.Tokens
	API    *api.Client
	Guard  *session.Guard
	Nav    session.Navigator
	OAuth  oauth.Adapter
	Open   browser.Opener
}

// wires the client stack for cfg around store and nav. opener may be nil
// (system browser)
func Wire(cfg *config.Config, store tokenstore.Store, nav session.Navigator, opener browser.Opener) *Deps {
	if opener == nil {
		opener = browser.Open
	}

	tokens := tokenstore.NewTokens(store)
	guard := session.NewGuard(tokens, nav)

	client := api.New(cfg.APIEndpoint, tokens,
		api.WithTimeouts(cfg.RequestTimeout, cfg.GenerateTimeout),
		api.WithDownloadDir(cfg.DownloadDir),
		api.WithUnauthorizedHandler(guard.Unauthorized),
	)

	adapter := oauth.NewLoopback(client.OAuthURL, cfg.OAuthPort, cfg.SessionSecret,
		oauth.WithOpener(opener))

	return &Deps{
		Tokens: tokens,
		API:    client,
		Guard:  guard,
		Nav:    nav,
		OAuth:  adapter,
		Open:   opener,
	}
}
