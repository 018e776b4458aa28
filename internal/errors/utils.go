package errors

import (
	"context"
	stderrors "errors"
	"net"
	"os"
	"strings"
)

// turns a transport error into something a user can act on. outside
// production the raw error is kept for debugging.
func sanitizeTransport(err error) string {
	if err == nil {
		return "network error"
	}

	if os.Getenv("PTB_ENV") != "production" {
		return "Network error: " + err.Error()
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return "Network error: request timed out"
	}

	if stderrors.Is(err, context.Canceled) {
		return "Network error: request canceled"
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return "Network error: request timed out"
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "dial") ||
		strings.Contains(errMsg, "no such host") {
		return "Network error: could not reach the server"
	}

	return "Network error. Please try again."
}
