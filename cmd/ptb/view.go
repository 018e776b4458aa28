package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
)

// consoleView prints controller output line by line. it implements every
// page view so one instance serves any command
type consoleView struct {
	out    io.Writer
	errOut io.Writer

	failed        bool
	usage         *pages.UsageSnapshot
	plans         *pages.PricingSnapshot
	email         string
	authenticated bool
}

func newConsoleView(out, errOut io.Writer) *consoleView {
	return &consoleView{out: out, errOut: errOut}
}

func (v *consoleView) ShowStatus(s pages.Status) {
	switch s.Severity {
	case pages.SeverityError:
		v.failed = true
		fmt.Fprintln(v.errOut, "error: "+s.Message)
	case pages.SeverityWarning:
		fmt.Fprintln(v.errOut, "warning: "+s.Message)
	default:
		fmt.Fprintln(v.out, s.Message)
	}
}

func (v *consoleView) ClearStatus() {}

func (v *consoleView) SetBusy(bool, string) {}

func (v *consoleView) RenderUsage(s pages.UsageSnapshot) { v.usage = &s }

func (v *consoleView) RenderPlans(s pages.PricingSnapshot) { v.plans = &s }

func (v *consoleView) ShowEmail(email string) { v.email = email }

func (v *consoleView) ShowAuthenticated(ok bool) { v.authenticated = ok }

func (v *consoleView) ShowVerifiedBanner() {
	fmt.Fprintln(v.out, "Email verified! You can now sign in.")
}

func (v *consoleView) OfferUpgrade(p usage.Prompt) {
	if p.OfferUpgrade {
		fmt.Fprintln(v.out, "Run `ptb pricing` to compare plans or `ptb upgrade pro` to upgrade.")
	}
}

// keeps the controllers' navigation requests so the command can print a
// matching next step
type recordingNav struct {
	mu  sync.Mutex
	log []session.Location
}

func (n *recordingNav) Navigate(_ context.Context, to session.Location) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.log = append(n.log, to)
}

func (n *recordingNav) last() (session.Location, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.log) == 0 {
		return session.Location{}, false
	}
	return n.log[len(n.log)-1], true
}
