package oauth

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/practicetestbulk/client/internal/browser"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// the page the provider redirects to. it forwards the URL fragment, which
// never reaches a server on its own, back to the loopback listener
var callbackPage = template.Must(template.New("callback").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>PracticeTestBulk sign-in</title></head>
<body>
<p id="status">Completing sign-in...</p>
<script>
fetch("/token", {
  method: "POST",
  headers: {"Content-Type": "application/json"},
  body: JSON.stringify({state: {{.State}}, fragment: window.location.hash.substring(1)})
}).then(function (res) {
  document.getElementById("status").textContent = res.ok
    ? "Signed in. You can close this tab and return to the terminal."
    : "Sign-in failed. Return to the terminal and try again.";
});
</script>
</body>
</html>`))

// Loopback signs in through the system browser and a short-lived listener on
// 127.0.0.1. the backend's provider flow redirects to the listener with the
// session token in the URL fragment.
type Loopback struct {
	authURL func(redirectTo string) string
	open    browser.Opener
	port    int
	store   *sessions.CookieStore
	window  time.Duration
}

type LoopbackOption func(*Loopback)

// replaces the browser launcher (headless sessions, tests)
func WithOpener(open browser.Opener) LoopbackOption {
	return func(l *Loopback) { l.open = open }
}

// how long SignIn waits for the browser to come back
func WithWindow(d time.Duration) LoopbackOption {
	return func(l *Loopback) { l.window = d }
}

// creates a loopback adapter. authURL builds the backend's provider URL for
// a given redirect target (api.Client.OAuthURL). port 0 picks a free port.
// an empty secret gets a random per-process key
func NewLoopback(authURL func(redirectTo string) string, port int, secret string, opts ...LoopbackOption) *Loopback {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(defaultWindow.Seconds()),
		HttpOnly: true,
		Secure:   false, // plain http on loopback
		SameSite: http.SameSiteLaxMode,
	}

	l := &Loopback{
		authURL: authURL,
		open:    browser.Open,
		port:    port,
		store:   store,
		window:  defaultWindow,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

type result struct {
	event *Event
	err   error
}

// opens the browser and blocks until the provider redirects back, ctx is
// done, or the sign-in window passes
func (l *Loopback) SignIn(ctx context.Context) (*Event, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", l.port))
	if err != nil {
		return nil, fmt.Errorf("failed to start sign-in listener: %w", err)
	}

	base := "http://" + ln.Addr().String()
	results := make(chan result, 1)

	srv := &http.Server{
		Handler:           l.router(base, results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.ErrorErr(err, "sign-in listener failed")
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to stop sign-in listener", "error", err)
		}
	}()

	logger.Info("waiting for browser sign-in", "listener", base)

	if err := l.open(base + "/start"); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.window)
	defer cancel()

	select {
	case r := <-results:
		return r.event, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("sign-in did not complete: %w", ctx.Err())
	}
}

func (l *Loopback) router(base string, results chan<- result) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(callbackPage)

	router.GET("/start", l.startHandler(base))
	router.GET("/callback", callbackHandler)
	router.POST("/token", l.tokenHandler(base, results))

	return router
}

// issues the state nonce and sends the browser to the provider
func (l *Loopback) startHandler(base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.NewString()

		sess, _ := l.store.Get(c.Request, sessionName) //nolint:errcheck // a stale cookie yields a fresh session
		sess.Values[stateKey] = state

		if err := sess.Save(c.Request, c.Writer); err != nil {
			c.String(http.StatusInternalServerError, "failed to start sign-in")
			return
		}

		redirectTo := base + "/callback?" + url.Values{"state": {state}}.Encode()
		c.Redirect(http.StatusFound, l.authURL(redirectTo))
	}
}

func callbackHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "callback", gin.H{"State": c.Query("state")})
}

// receives the forwarded fragment, checks the nonce and delivers the event
func (l *Loopback) tokenHandler(base string, results chan<- result) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload callbackPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid callback"})
			return
		}

		sess, err := l.store.Get(c.Request, sessionName)
		expected, _ := sess.Values[stateKey].(string)

		if err != nil || expected == "" || payload.State != expected {
			logger.Warn("sign-in callback rejected: state mismatch")
			c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
			return
		}

		// one-shot nonce
		sess.Options.MaxAge = -1
		if err := sess.Save(c.Request, c.Writer); err != nil {
			logger.Warn("failed to clear sign-in cookie", "error", err)
		}

		fragment, _ := url.ParseQuery(payload.Fragment) //nolint:errcheck // partial values are still useful

		token := session.FragmentToken(payload.Fragment)
		if token == "" {
			reason := fragment.Get("error_description")
			if reason == "" {
				reason = fragment.Get("error")
			}
			if reason == "" {
				reason = "no access token in callback"
			}

			deliver(results, result{err: fmt.Errorf("sign-in failed: %s", reason)})
			c.JSON(http.StatusBadRequest, gin.H{"error": reason})
			return
		}

		deliver(results, result{event: &Event{
			Type:        EventSignedIn,
			CallbackURL: base + "/callback#" + payload.Fragment,
			Token:       token,
		}})

		c.JSON(http.StatusOK, gin.H{"status": "signed_in"})
	}
}

// first result wins; later callbacks are dropped
func deliver(results chan<- result, r result) {
	select {
	case results <- r:
	default:
	}
}
