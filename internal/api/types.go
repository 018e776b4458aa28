package api

import (
	"net/http"
	"time"
)

// how a successful response body was interpreted
type ResultKind int

const (
	ResultText ResultKind = iota
	ResultJSON
	ResultBlob
)

func (k ResultKind) String() string {
	switch k {
	case ResultJSON:
		return "json"
	case ResultBlob:
		return "blob"
	default:
		return "text"
	}
}

// Result is a successful response, classified by its declared content type.
type Result struct {
	Kind        ResultKind
	Status      int
	ContentType string
	Header      http.Header
	Body        []byte
}

// per-call options
type CallOptions struct {
	// extra headers; these win over the defaults, Content-Type included
	Headers http.Header
	// skip the bearer header and treat 401 as an ordinary failure. used by
	// login/register where 401 means bad credentials, not an expired session
	Anonymous bool
	// overrides the client's request timeout
	Timeout time.Duration
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	EmailConfirmationRequired bool   `json:"email_confirmation_required"`
	AccessToken               string `json:"access_token"`
	Message                   string `json:"message"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success,omitempty"`
}

// an existing subscriber switching plans gets Message instead of a URL
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message,omitempty"`
}

// Download describes a file saved by DownloadFile.
type Download struct {
	Path  string
	Bytes int
	Data  []byte
}
