package api

import (
	"context"
	"net/url"

	"codeberg.org/practicetestbulk/client/internal/generator"
	"codeberg.org/practicetestbulk/client/internal/usage"
)

// backend routes
const (
	PathUsage              = "/usage"
	PathLogin              = "/login"
	PathRegister           = "/register"
	PathResendVerification = "/resend-verification"
	PathGenerate           = "/api/generator/generate"
	PathCheckout           = "/create-checkout-session"
	PathOAuthGoogle        = "/auth/oauth/google"
)

// fetches the signed-in user's tier and quota counters
func (c *Client) Usage(ctx context.Context) (*usage.UserUsage, error) {
	res, err := c.Get(ctx, PathUsage, CallOptions{})
	if err != nil {
		return nil, err
	}

	var u usage.UserUsage
	if err := res.Decode(&u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	res, err := c.Post(ctx, PathLogin, LoginRequest{Email: email, Password: password}, CallOptions{Anonymous: true})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := res.Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*RegisterResponse, error) {
	body := RegisterRequest{Username: username, Email: email, Password: password}

	res, err := c.Post(ctx, PathRegister, body, CallOptions{Anonymous: true})
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := res.Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	res, err := c.Post(ctx, PathResendVerification, ResendVerificationRequest{Email: email}, CallOptions{Anonymous: true})
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := res.Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

// asks the backend for a checkout session for tier (pro or business)
func (c *Client) CreateCheckoutSession(ctx context.Context, tier usage.Tier) (*CheckoutResponse, error) {
	endpoint := PathCheckout + "?tier=" + url.QueryEscape(string(tier))

	res, err := c.Post(ctx, endpoint, nil, CallOptions{})
	if err != nil {
		return nil, err
	}

	var out CheckoutResponse
	if err := res.Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

// generates a practice test and saves the CSV as filename in the download dir
func (c *Client) Generate(ctx context.Context, req generator.Request, filename string) (*Download, error) {
	return c.DownloadFile(ctx, PathGenerate, filename, req)
}

// URL that starts the provider sign-in and redirects back to redirectTo
// with the session token in the fragment
func (c *Client) OAuthURL(redirectTo string) string {
	return c.endpoint + PathOAuthGoogle + "?redirect_to=" + url.QueryEscape(redirectTo)
}
