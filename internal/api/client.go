package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"github.com/google/uuid"
)

const defaultRequestTimeout = 30 * time.Second

// manages authenticated HTTP requests to the PracticeTestBulk backend
type Client struct {
	endpoint        string
	httpClient      *http.Client
	tokens          *tokenstore.Tokens
	requestTimeout  time.Duration
	generateTimeout time.Duration
	downloadDir     string
	onUnauthorized  func(ctx context.Context)
}

type Option func(*Client)

// replaces the underlying http.Client (tests, custom transports)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// zero keeps the default for that timeout
func WithTimeouts(request, generate time.Duration) Option {
	return func(c *Client) {
		if request > 0 {
			c.requestTimeout = request
		}
		if generate > 0 {
			c.generateTimeout = generate
		}
	}
}

// directory DownloadFile writes into; empty keeps the working directory
func WithDownloadDir(dir string) Option {
	return func(c *Client) {
		if dir != "" {
			c.downloadDir = dir
		}
	}
}

// called after a 401 has cleared the token; the session guard uses it to
// send the user to the login screen
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// creates a new API client
func New(endpoint string, tokens *tokenstore.Tokens, opts ...Option) *Client {
	c := &Client{
		endpoint:        strings.TrimRight(endpoint, "/"),
		httpClient:      &http.Client{},
		tokens:          tokens,
		requestTimeout:  defaultRequestTimeout,
		generateTimeout: 3 * time.Minute,
		downloadDir:     ".",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// sets the unauthorized hook after construction; the guard and the client
// reference each other, so one side has to be wired late
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// sends one request. body, when non-nil, is sent as JSON. see Result for how
// successful responses are classified.
func (c *Client) Call(ctx context.Context, method, endpoint string, body any, opts CallOptions) (*Result, error) {
	timeout := c.requestTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	url := c.endpoint + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.setHeaders(ctx, req, opts); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With("method", method, "endpoint", endpoint, "request_id", req.Header.Get("X-Request-ID"))
	log.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network(fmt.Errorf("failed to read response: %w", err))
	}

	log.Debug("received response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode == http.StatusUnauthorized && !opts.Anonymous {
		return nil, c.unauthorized(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.RequestFailed(resp.StatusCode, parseErrorMessage(data))
	}

	contentType := resp.Header.Get("Content-Type")

	return &Result{
		Kind:        classify(contentType),
		Status:      resp.StatusCode,
		ContentType: contentType,
		Header:      resp.Header,
		Body:        data,
	}, nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, opts CallOptions) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if !opts.Anonymous {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range opts.Headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return nil
}

// clears the session and hands control to the unauthorized hook
func (c *Client) unauthorized(ctx context.Context) error {
	if err := c.tokens.RemoveToken(ctx); err != nil {
		logger.ErrorErr(err, "failed to clear token after 401")
	}

	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	return errors.ErrUnauthorized
}

// picks the server's message out of an error body: detail, then message,
// then the generic "HTTP Error <status>" (returned as ""). fields are read one
// at a time so a mistyped field does not hide a usable one
func parseErrorMessage(data []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "message"} {
		if msg := errorText(fields[key]); msg != "" {
			return msg
		}
	}

	return ""
}

// a string, or the first "msg" of a validation error list
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}

	return ""
}

func classify(contentType string) ResultKind {
	ct := strings.ToLower(contentType)

	switch {
	case strings.Contains(ct, "application/json"):
		return ResultJSON
	case strings.Contains(ct, "text/csv"), strings.Contains(ct, "application/octet-stream"):
		return ResultBlob
	default:
		return ResultText
	}
}

// decodes a JSON result into v
func (r *Result) Decode(v any) error {
	if r.Kind != ResultJSON {
		return errors.RequestFailed(r.Status, fmt.Sprintf("expected a JSON response, got %q", r.ContentType))
	}

	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.RequestFailed(r.Status, fmt.Sprintf("failed to parse response: %v", err))
	}

	return nil
}

// returns the body as text regardless of kind
func (r *Result) Text() string {
	return string(r.Body)
}

func (c *Client) Get(ctx context.Context, endpoint string, opts CallOptions) (*Result, error) {
	return c.Call(ctx, http.MethodGet, endpoint, nil, opts)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, opts CallOptions) (*Result, error) {
	return c.Call(ctx, http.MethodPost, endpoint, body, opts)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any, opts CallOptions) (*Result, error) {
	return c.Call(ctx, http.MethodPut, endpoint, body, opts)
}

func (c *Client) Delete(ctx context.Context, endpoint string, opts CallOptions) (*Result, error) {
	return c.Call(ctx, http.MethodDelete, endpoint, nil, opts)
}
