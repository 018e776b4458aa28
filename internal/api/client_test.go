package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/generator"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *tokenstore.Tokens) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := tokenstore.NewTokens(tokenstore.NewMemoryStore())
	opts = append([]Option{WithTimeouts(5*time.Second, 5*time.Second)}, opts...)

	return New(server.URL, tokens, opts...), tokens
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck,gosec // test server
}

func TestCall_AttachesBearerAndJSONHeaders(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	})
	require.NoError(t, tokens.SetToken(context.Background(), "tok-123"))

	res, err := client.Get(context.Background(), "/ping", CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, ResultJSON, res.Kind)
}

func TestCall_NoTokenNoAuthorization(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello")) //nolint:errcheck,gosec // test server
	})

	res, err := client.Get(context.Background(), "/ping", CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, ResultText, res.Kind)
	assert.Equal(t, "hello", res.Text())
}

func TestCall_CallerOverridesContentType(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		assert.Equal(t, "1", r.Header.Get("X-Extra"))
		w.WriteHeader(http.StatusNoContent)
	})

	headers := http.Header{}
	headers.Set("Content-Type", "text/plain")
	headers.Set("X-Extra", "1")

	_, err := client.Post(context.Background(), "/x", map[string]int{"a": 1}, CallOptions{Headers: headers})

	require.NoError(t, err)
}

func TestCall_401ClearsTokenAndNotifies(t *testing.T) {
	notified := false

	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	}, WithUnauthorizedHandler(func(context.Context) { notified = true }))

	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "expired"))

	res, err := client.Get(ctx, PathUsage, CallOptions{})

	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
	assert.True(t, notified)
	assert.False(t, tokens.HasToken(ctx), "token must be cleared")
}

func TestCall_Anonymous401IsOrdinaryFailure(t *testing.T) {
	notified := false

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid login credentials"})
	}, WithUnauthorizedHandler(func(context.Context) { notified = true }))

	_, err := client.Login(context.Background(), "a@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, errors.KindRequestFailed, errors.KindOf(err))
	assert.Equal(t, "Invalid login credentials", errors.Message(err))
	assert.False(t, notified)
}

func TestCall_ErrorMessageFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{name: "detail wins", contentType: "application/json", body: `{"detail":"Invalid tier","message":"ignored"}`, want: "Invalid tier"},
		{name: "message fallback", contentType: "application/json", body: `{"message":"quota exceeded"}`, want: "quota exceeded"},
		{name: "numeric message does not hide detail", contentType: "application/json", body: `{"detail":"Invalid tier","message":42}`, want: "Invalid tier"},
		{name: "numeric detail falls back to message", contentType: "application/json", body: `{"detail":42,"message":"quota exceeded"}`, want: "quota exceeded"},
		{name: "validation error list", contentType: "application/json", body: `{"detail":[{"loc":["body","email"],"msg":"field required","type":"value_error.missing"}]}`, want: "field required"},
		{name: "json without fields", contentType: "application/json", body: `{"foo":1}`, want: "HTTP Error 500"},
		{name: "html body", contentType: "text/html", body: `<h1>Bad Gateway</h1>`, want: "HTTP Error 500"},
		{name: "empty body", contentType: "", body: ``, want: "HTTP Error 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body)) //nolint:errcheck,gosec // test server
			})

			_, err := client.Get(context.Background(), "/x", CallOptions{})

			require.Error(t, err)
			assert.Equal(t, errors.KindRequestFailed, errors.KindOf(err))
			assert.Equal(t, tt.want, errors.Message(err))
		})
	}
}

func TestCall_CSVIsBlob(t *testing.T) {
	csv := "Question,Answer\nWhat is Go?,A language\n"

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(csv)) //nolint:errcheck,gosec // test server
	})

	res, err := client.Post(context.Background(), PathGenerate, nil, CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, ResultBlob, res.Kind)
	assert.Equal(t, []byte(csv), res.Body)

	var v map[string]any
	assert.Error(t, res.Decode(&v), "a blob must not be parsed as JSON")
}

func TestCall_OctetStreamIsBlob(t *testing.T) {
	assert.Equal(t, ResultBlob, classify("application/octet-stream"))
	assert.Equal(t, ResultJSON, classify("application/json; charset=utf-8"))
	assert.Equal(t, ResultText, classify("text/plain"))
	assert.Equal(t, ResultText, classify(""))
}

func TestCall_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(url, tokenstore.NewTokens(tokenstore.NewMemoryStore()), WithTimeouts(time.Second, time.Second))

	_, err := client.Get(context.Background(), PathUsage, CallOptions{})

	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
}

func TestUsage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PathUsage, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"username":            "sam",
			"tier":                "free",
			"questions_used":      17,
			"questions_remaining": 3,
			"monthly_limit":       20,
		})
	})

	u, err := client.Usage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, usage.UserUsage{
		Username:           "sam",
		Tier:               usage.TierFree,
		QuestionsUsed:      17,
		QuestionsRemaining: 3,
		MonthlyLimit:       20,
	}, *u)
}

func TestRegister(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sam", body.Username)
		writeJSON(w, http.StatusOK, map[string]any{
			"message":                     "check your email",
			"email_confirmation_required": true,
		})
	})

	out, err := client.Register(context.Background(), "sam", "sam@example.com", "pw")

	require.NoError(t, err)
	assert.True(t, out.EmailConfirmationRequired)
	assert.Empty(t, out.AccessToken)
}

func TestCreateCheckoutSession(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "business", r.URL.Query().Get("tier"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]string{"checkout_url": "https://checkout.example.com/s/1"})
	})
	require.NoError(t, tokens.SetToken(context.Background(), "t"))

	out, err := client.CreateCheckoutSession(context.Background(), usage.TierBusiness)

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/s/1", out.CheckoutURL)
}

func TestGenerate_SavesFile(t *testing.T) {
	dir := t.TempDir()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generator.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.NumQuestions)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Question\nQ1\n")) //nolint:errcheck,gosec // test server
	}, WithDownloadDir(dir))

	dl, err := client.Generate(context.Background(), generator.Request{NumQuestions: 5}, "Go_practice_test.csv")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Go_practice_test.csv"), dl.Path)

	data, err := os.ReadFile(dl.Path)
	require.NoError(t, err)
	assert.Equal(t, "Question\nQ1\n", string(data))
}

func TestDownloadFile_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "AI generation failed: timeout"})
	}, WithDownloadDir(dir))

	dl, err := client.DownloadFile(context.Background(), PathGenerate, "out.csv", generator.Request{})

	assert.Nil(t, dl)
	assert.Equal(t, "AI generation failed: timeout", errors.Message(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadFile_NonBlobRejected(t *testing.T) {
	dir := t.TempDir()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "queued"})
	}, WithDownloadDir(dir))

	_, err := client.DownloadFile(context.Background(), PathGenerate, "out.csv", nil)

	require.Error(t, err)
	assert.Equal(t, errors.KindRequestFailed, errors.KindOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadFile_StripsDirectories(t *testing.T) {
	dir := t.TempDir()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("x")) //nolint:errcheck,gosec // test server
	}, WithDownloadDir(dir))

	dl, err := client.DownloadFile(context.Background(), PathGenerate, "../../escape.csv", nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.csv"), dl.Path)
}

func TestOAuthURL(t *testing.T) {
	client := New("https://api.example.com/", tokenstore.NewTokens(tokenstore.NewMemoryStore()))

	assert.Equal(t,
		"https://api.example.com/auth/oauth/google?redirect_to=http%3A%2F%2F127.0.0.1%3A8765%2Fcallback",
		client.OAuthURL("http://127.0.0.1:8765/callback"))
}
