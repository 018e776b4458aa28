package oauth

import (
	"context"
	"time"
)

type EventType string

// the only event the backend's identity flow produces
const EventSignedIn EventType = "SIGNED_IN"

// Event is delivered once the provider redirects back with a session.
type Event struct {
	Type EventType
	// the URL the browser landed on, fragment included. controllers hand it
	// to the session guard, which absorbs the token
	CallbackURL string
	Token       string
}

// Adapter runs one provider sign-in and reports the resulting session.
// login and register share the same adapter.
type Adapter interface {
	SignIn(ctx context.Context) (*Event, error)
}

// AdapterFunc adapts a function to Adapter.
type AdapterFunc func(ctx context.Context) (*Event, error)

func (f AdapterFunc) SignIn(ctx context.Context) (*Event, error) {
	return f(ctx)
}

const (
	sessionName   = "ptb_oauth"
	stateKey      = "state"
	defaultWindow = 5 * time.Minute
)

// body the callback page posts back to the loopback server
type callbackPayload struct {
	State    string `json:"state" form:"state" binding:"required"`
	Fragment string `json:"fragment" form:"fragment"`
}
