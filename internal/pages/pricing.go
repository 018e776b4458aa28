package pages

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
)

const (
	msgCheckoutFailed = "Error creating checkout session. Please try again."
	msgCheckoutNet    = "Network error. Please try again."
)

// PricingSnapshot is what the pricing screen renders.
type PricingSnapshot struct {
	Billing  usage.Billing
	Current  usage.Tier
	Markdown string
}

type PricingView interface {
	StatusView
	BusyView
	RenderPlans(s PricingSnapshot)
}

type Pricing struct {
	deps  *Deps
	view  PricingView
	state *machine

	mu      sync.Mutex
	billing usage.Billing
	current usage.Tier
}

func NewPricing(deps *Deps, view PricingView) *Pricing {
	return &Pricing{
		deps:    deps,
		view:    view,
		state:   newMachine(),
		billing: usage.BillingMonthly,
	}
}

// the pricing screen is public; no session needed to look
func (p *Pricing) Load(ctx context.Context) error {
	p.render()
	p.state.set(StateReady)
	return nil
}

// marks t as the user's plan when the caller knows it
func (p *Pricing) SetCurrentTier(t usage.Tier) {
	p.mu.Lock()
	p.current = t
	p.mu.Unlock()

	p.render()
}

func (p *Pricing) ToggleBilling(b usage.Billing) {
	if b != usage.BillingAnnual {
		b = usage.BillingMonthly
	}

	p.mu.Lock()
	p.billing = b
	p.mu.Unlock()

	p.render()
}

func (p *Pricing) Billing() usage.Billing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.billing
}

func (p *Pricing) render() {
	p.mu.Lock()
	s := PricingSnapshot{Billing: p.billing, Current: p.current}
	p.mu.Unlock()

	s.Markdown = usage.PricingMarkdown(s.Billing, s.Current)
	p.view.RenderPlans(s)
}

// starts checkout for tier and opens it. returns the checkout URL, or "" when
// the backend answered with a message instead (plan switch)
func (p *Pricing) Upgrade(ctx context.Context, tier usage.Tier) (string, error) {
	if tier != usage.TierPro && tier != usage.TierBusiness {
		msg := fmt.Sprintf("Unknown plan %q", tier)
		p.view.ShowStatus(Failure(msg))
		return "", errors.Validation(msg)
	}

	if !p.state.begin() {
		return "", ErrBusy
	}
	defer p.state.finish()

	p.view.ClearStatus()

	if !p.deps.Tokens.HasToken(ctx) {
		p.deps.Nav.Navigate(ctx, session.To(session.RouteLogin))
		return "", nil
	}

	p.view.SetBusy(true, "Creating checkout session...")
	defer p.view.SetBusy(false, "")

	resp, err := p.deps.API.CreateCheckoutSession(ctx, tier)
	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindAuthExpired:
		case errors.KindNetwork:
			p.view.ShowStatus(Failure(msgCheckoutNet))
		default:
			logger.ErrorErr(err, "checkout session failed", "tier", tier)
			p.view.ShowStatus(Failure(msgCheckoutFailed))
		}

		return "", err
	}

	if resp.CheckoutURL == "" {
		if resp.Message == "" {
			p.view.ShowStatus(Failure(msgCheckoutFailed))
			return "", errors.RequestFailed(200, msgCheckoutFailed)
		}

		p.view.ShowStatus(Success(resp.Message))
		return "", nil
	}

	if err := p.deps.Open(resp.CheckoutURL); err != nil {
		logger.Warn("failed to open checkout page", "error", err)
		p.view.ShowStatus(Info("Open this link to complete checkout: " + resp.CheckoutURL))
		return resp.CheckoutURL, nil
	}

	p.view.ShowStatus(Info("Checkout opened in your browser."))
	return resp.CheckoutURL, nil
}

func (p *Pricing) State() State {
	return p.state.State()
}
