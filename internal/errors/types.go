package errors

// classifies a client-side failure
type Kind string

const (
	// 401 from the backend; the session is gone and the user was sent to login
	KindAuthExpired Kind = "auth_expired"
	// any other non-2xx response, or a response the client could not use
	KindRequestFailed Kind = "request_failed"
	// a local rule rejected the action; no network call was made
	KindValidation Kind = "validation_failed"
	// the request never produced a response (offline, DNS, refused, timeout)
	KindNetwork Kind = "network_unreachable"
)

// Error is the single error type surfaced by the api and form layers.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, zero when no response was received
	Message string // human-readable, safe to show in a status line
	Detail  string // the server's own message; empty when Message is generic
	Err     error  // underlying cause, if any
}
