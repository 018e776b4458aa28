package tui

import (
	"context"
	"strings"
	"time"

	"codeberg.org/practicetestbulk/client/internal/config"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	tea "github.com/charmbracelet/bubbletea"
)

// main TUI application model
type Model struct {
	ctx   context.Context
	deps  *pages.Deps
	out   *sender
	entry string

	screen   screen
	screenID int
	route    session.Route

	status    *pages.Status
	statusSeq int

	width  int
	height int
}

// creates the TUI around cfg and store. entry is the URL the client was
// opened with ("" for the landing screen); an OAuth return fragment in it is
// absorbed first
func NewApp(ctx context.Context, cfg *config.Config, store tokenstore.Store, entry string) *Model {
	out := &sender{}
	deps := pages.Wire(cfg, store, navigator{out: out}, nil)

	return newModel(ctx, deps, out, entry)
}

func newModel(ctx context.Context, deps *pages.Deps, out *sender, entry string) *Model {
	return &Model{
		ctx:   ctx,
		deps:  deps,
		out:   out,
		entry: entry,
		width: 80,
	}
}

// runs the program until the user quits
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.out.attach(p.Send)

	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	loc, err := session.ParseLocation(m.entry)
	if err != nil || m.entry == "" {
		loc = session.To(session.RouteLanding)
	}

	return m.open(loc)
}

// swaps in the screen for loc and loads it
func (m *Model) open(loc session.Location) tea.Cmd {
	m.screenID++
	b := &binding{id: m.screenID, out: m.out}

	switch loc.Route {
	case session.RouteLogin:
		m.screen = newLoginScreen(m.ctx, m.deps, b, loc)
	case session.RouteRegister:
		m.screen = newRegisterScreen(m.ctx, m.deps, b)
	case session.RouteVerifyEmail:
		m.screen = newVerifyScreen(m.ctx, m.deps, b, loc)
	case session.RouteApp:
		m.screen = newAppScreen(m.ctx, m.deps, b)
	case session.RoutePricing:
		m.screen = newPricingScreen(m.ctx, m.deps, b)
	default:
		loc.Route = session.RouteLanding
		m.screen = newLandingScreen(m.ctx, m.deps, b, m.entry)
	}

	// the entry URL only applies to the first screen
	m.entry = ""
	m.route = loc.Route

	logger.Debug("screen opened", "route", loc.String())

	if m.height == 0 {
		return m.screen.Init()
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	return tea.Batch(m.screen.Init(), func() tea.Msg { return size })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case navigateMsg:
		return m, m.open(msg.to)

	case statusMsg:
		s := msg.status
		m.status = &s
		m.statusSeq++

		if s.AutoDismiss() {
			seq := m.statusSeq
			return m, tea.Tick(pages.StatusDismissAfter, func(time.Time) tea.Msg {
				return dismissStatusMsg{seq: seq}
			})
		}

		return m, nil

	case clearStatusMsg:
		m.status = nil
		m.statusSeq++
		return m, nil

	case dismissStatusMsg:
		if msg.seq == m.statusSeq && m.status != nil && m.status.AutoDismiss() {
			m.status = nil
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			logger.Debug("action finished with error", "route", m.route, "error", msg.err)
		}
	}

	if t, ok := msg.(targeted); ok && t.screenID() != m.screenID {
		return m, nil
	}

	if m.screen == nil {
		return m, nil
	}

	return m, m.screen.Update(msg)
}

func (m *Model) View() string {
	if m.screen == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.screen.View(m.width))

	if m.status != nil {
		b.WriteString("\n\n")
		b.WriteString(severityStyle(m.status.Severity).Render(m.status.Message))
	}

	b.WriteString("\n")
	return b.String()
}

// current route, for tests and logs
func (m *Model) Route() session.Route {
	return m.route
}
