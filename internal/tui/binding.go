package tui

import (
	"context"
	"sync"

	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
	tea "github.com/charmbracelet/bubbletea"
)

// forwards messages into the running program. controllers run on command
// goroutines, so every view call becomes a message for Update
type sender struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func (s *sender) attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *sender) Send(msg tea.Msg) {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()

	if send != nil {
		send(msg)
	}
}

// navigator used by the controllers
type navigator struct {
	out *sender
}

func (n navigator) Navigate(_ context.Context, to session.Location) {
	n.out.Send(navigateMsg{to: to})
}

// binding implements every page view interface for one screen instance
type binding struct {
	id  int
	out *sender
}

func (b *binding) msg() screenMsg {
	return screenMsg{id: b.id}
}

func (b *binding) ShowStatus(s pages.Status) {
	b.out.Send(statusMsg{status: s})
}

func (b *binding) ClearStatus() {
	b.out.Send(clearStatusMsg{})
}

func (b *binding) SetBusy(busy bool, label string) {
	b.out.Send(busyMsg{screenMsg: b.msg(), busy: busy, label: label})
}

func (b *binding) RenderUsage(s pages.UsageSnapshot) {
	b.out.Send(usageMsg{screenMsg: b.msg(), snapshot: s})
}

func (b *binding) OfferUpgrade(p usage.Prompt) {
	b.out.Send(promptMsg{screenMsg: b.msg(), prompt: p})
}

func (b *binding) RenderPlans(s pages.PricingSnapshot) {
	b.out.Send(plansMsg{screenMsg: b.msg(), snapshot: s})
}

func (b *binding) ShowEmail(email string) {
	b.out.Send(emailMsg{screenMsg: b.msg(), email: email})
}

func (b *binding) ShowVerifiedBanner() {
	b.out.Send(verifiedMsg{screenMsg: b.msg()})
}

func (b *binding) ShowAuthenticated(ok bool) {
	b.out.Send(authStateMsg{screenMsg: b.msg(), authenticated: ok})
}
