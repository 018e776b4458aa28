package errors

import (
	stderrors "errors"
	"fmt"
)

// Error Handling Guidelines:
//
// For packages below the page controllers (api, tokenstore, generator, ...):
//   - Return *Error for anything the user should see, wrapped errors otherwise
//   - Do not log; let the controller decide
//
// For page controllers:
//   - KindAuthExpired has already been handled (token cleared, login shown);
//     return without rendering anything
//   - Everything else becomes a status message via Message(err)
//   - Log once with logger.ErrorErr for request/network failures

// returned by the api client on a 401; callers must not try to recover
var ErrUnauthorized = &Error{
	Kind:    KindAuthExpired,
	Status:  401,
	Message: "Unauthorized - redirecting to login",
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// two errors match when they share a kind; lets callers write
// errors.Is(err, ErrUnauthorized)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

// returns a validation error; no network call should follow
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// returns a request-failed error carrying the server (or generic) message
func RequestFailed(status int, message string) *Error {
	e := &Error{Kind: KindRequestFailed, Status: status, Message: message, Detail: message}
	if message == "" {
		e.Message = fmt.Sprintf("HTTP Error %d", status)
	}

	return e
}

// wraps a transport-level failure
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: sanitizeTransport(err), Err: err}
}

// returns the kind of err, or "" when err is not one of ours
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}

	return ""
}

// reports whether err means the session expired
func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// returns the server-supplied message carried by err, or "" when the server
// sent none (pages fall back to their own wording)
func Detail(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Detail
	}

	return ""
}

// returns the text a status line should show for err
func Message(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}

	return err.Error()
}
