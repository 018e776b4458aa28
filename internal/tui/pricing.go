package tui

import (
	"context"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

type pricingScreen struct {
	ctx  context.Context
	b    *binding
	page *pages.Pricing
	nav  session.Navigator

	plans    *pages.PricingSnapshot
	viewport viewport.Model
	width    int
	busy     busyState
}

func newPricingScreen(ctx context.Context, deps *pages.Deps, b *binding) *pricingScreen {
	return &pricingScreen{
		ctx:      ctx,
		b:        b,
		page:     pages.NewPricing(deps, b),
		nav:      deps.Nav,
		viewport: viewport.New(80, 20),
		busy:     newBusyState(),
	}
}

func (s *pricingScreen) Init() tea.Cmd {
	return action(s.ctx, s.b.id, s.page.Load)
}

// renders plan markdown for the terminal; plain text if glamour fails
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "error", err)
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		logger.Warn("failed to render markdown", "error", err)
		return md
	}

	return out
}

func (s *pricingScreen) refresh() {
	if s.plans == nil {
		return
	}
	s.viewport.SetContent(renderMarkdown(s.plans.Markdown, s.viewport.Width))
}

// the controller answers through the binding, so it cannot run inside Update
func (s *pricingScreen) toggle(b usage.Billing) tea.Cmd {
	return action(s.ctx, s.b.id, func(context.Context) error {
		s.page.ToggleBilling(b)
		return nil
	})
}

func (s *pricingScreen) upgrade(tier usage.Tier) tea.Cmd {
	return tea.Batch(s.busy.start("Creating checkout session..."), action(s.ctx, s.b.id, func(ctx context.Context) error {
		_, err := s.page.Upgrade(ctx, tier)
		return err
	}))
}

func (s *pricingScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.busy.update(msg); cmd != nil {
		return cmd
	}

	switch msg := msg.(type) {
	case plansMsg:
		snap := msg.snapshot
		s.plans = &snap
		s.refresh()
		return nil

	case tea.WindowSizeMsg:
		s.viewport.Width = msg.Width
		s.viewport.Height = max(msg.Height-8, 5)
		s.refresh()
		return nil

	case tea.KeyMsg:
		if s.busy.busy {
			return nil
		}

		switch msg.String() {
		case "m":
			return s.toggle(usage.BillingMonthly)
		case "a":
			return s.toggle(usage.BillingAnnual)
		case "1", "p":
			return s.upgrade(usage.TierPro)
		case "2", "b":
			return s.upgrade(usage.TierBusiness)
		case "esc", "backspace":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteApp))
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

func (s *pricingScreen) View(int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Plans"))
	b.WriteString("\n")

	if s.plans == nil {
		b.WriteString(infoStyle.Render("loading plans..."))
		return b.String()
	}

	b.WriteString(s.viewport.View())
	b.WriteString("\n")
	b.WriteString(s.busy.view())
	b.WriteString(helpStyle.Render("[m: monthly] [a: annual] [1: upgrade to Pro] [2: upgrade to Business] [↑/↓: scroll] [esc: back]"))

	return b.String()
}
