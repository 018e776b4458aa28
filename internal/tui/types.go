package tui

import (
	"context"

	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/usage"
	tea "github.com/charmbracelet/bubbletea"
)

// one screen of the client, bound to a page controller
type screen interface {
	// runs the controller's Load
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
}

// messages below are sent by the view binding from controller goroutines

// sent when a controller navigates
type navigateMsg struct {
	to session.Location
}

type statusMsg struct {
	status pages.Status
}

type clearStatusMsg struct{}

// fires StatusDismissAfter after a non-error status
type dismissStatusMsg struct {
	seq int
}

// carried by messages that belong to one screen instance; stale ones from a
// screen the user already left are dropped
type targeted interface {
	screenID() int
}

type screenMsg struct {
	id int
}

func (m screenMsg) screenID() int { return m.id }

type busyMsg struct {
	screenMsg
	busy  bool
	label string
}

type usageMsg struct {
	screenMsg
	snapshot pages.UsageSnapshot
}

type promptMsg struct {
	screenMsg
	prompt usage.Prompt
}

type plansMsg struct {
	screenMsg
	snapshot pages.PricingSnapshot
}

type emailMsg struct {
	screenMsg
	email string
}

type verifiedMsg struct {
	screenMsg
}

type authStateMsg struct {
	screenMsg
	authenticated bool
}

// returned by every controller action once it finishes
type actionDoneMsg struct {
	screenMsg
	err error
}

// runs fn on a command goroutine and reports back to screen id
func action(ctx context.Context, id int, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{screenMsg: screenMsg{id}, err: fn(ctx)}
	}
}
