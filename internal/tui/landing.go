package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

type menuItem struct {
	key   string
	label string
	route session.Route
}

type landingScreen struct {
	ctx   context.Context
	b     *binding
	page  *pages.Landing
	nav   session.Navigator
	entry string

	loaded        bool
	authenticated bool
}

func newLandingScreen(ctx context.Context, deps *pages.Deps, b *binding, entry string) *landingScreen {
	return &landingScreen{
		ctx:   ctx,
		b:     b,
		page:  pages.NewLanding(deps, b),
		nav:   deps.Nav,
		entry: entry,
	}
}

func (s *landingScreen) Init() tea.Cmd {
	return action(s.ctx, s.b.id, func(ctx context.Context) error {
		return s.page.Load(ctx, s.entry)
	})
}

func (s *landingScreen) items() []menuItem {
	if s.authenticated {
		return []menuItem{
			{key: "enter", label: "Go to App", route: session.RouteApp},
			{key: "p", label: "pricing", route: session.RoutePricing},
		}
	}

	return []menuItem{
		{key: "l", label: "log in", route: session.RouteLogin},
		{key: "s", label: "sign up free", route: session.RouteRegister},
		{key: "p", label: "pricing", route: session.RoutePricing},
	}
}

func (s *landingScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case authStateMsg:
		s.loaded = true
		s.authenticated = msg.authenticated

	case tea.KeyMsg:
		key := msg.String()
		if key == "q" {
			return tea.Quit
		}

		for _, item := range s.items() {
			if item.key == key {
				route := item.route
				return func() tea.Msg {
					s.nav.Navigate(s.ctx, session.To(route))
					return nil
				}
			}
		}
	}

	return nil
}

func (s *landingScreen) View(int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("AI-generated practice tests, exported as CSV"))
	b.WriteString("\n\n")

	if !s.loaded {
		b.WriteString(infoStyle.Render("loading..."))
		return b.String()
	}

	for _, item := range s.items() {
		fmt.Fprintf(&b, "  %s %s\n", menuKeyStyle.Render(item.key), menuDescStyle.Render("- "+item.label))
	}

	b.WriteString(helpStyle.Render("press a key to continue. q or ctrl+c to quit."))

	return b.String()
}
