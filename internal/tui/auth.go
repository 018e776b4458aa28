package tui

import (
	"context"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// submit-control state shared by the auth screens
type busyState struct {
	busy    bool
	label   string
	spinner spinner.Model
}

func newBusyState() busyState {
	return busyState{spinner: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

// flips the control on before the controller confirms, so a second key
// press is not sent while the command is starting
func (b *busyState) start(label string) tea.Cmd {
	b.busy = true
	b.label = label
	return b.spinner.Tick
}

func (b *busyState) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case busyMsg:
		b.busy = msg.busy
		if msg.label != "" {
			b.label = msg.label
		}
		if b.busy {
			return b.spinner.Tick
		}

	case actionDoneMsg:
		b.busy = false

	case spinner.TickMsg:
		if b.busy {
			var cmd tea.Cmd
			b.spinner, cmd = b.spinner.Update(msg)
			return cmd
		}
	}

	return nil
}

func (b *busyState) view() string {
	if !b.busy {
		return ""
	}
	return b.spinner.View() + " " + infoStyle.Render(b.label)
}

func navigateCmd(ctx context.Context, nav session.Navigator, to session.Location) tea.Cmd {
	return func() tea.Msg {
		nav.Navigate(ctx, to)
		return nil
	}
}

type loginScreen struct {
	ctx  context.Context
	b    *binding
	page *pages.Login
	nav  session.Navigator
	loc  session.Location

	form     *form
	email    *textControl
	password *textControl
	busy     busyState
	verified bool
}

func newLoginScreen(ctx context.Context, deps *pages.Deps, b *binding, loc session.Location) *loginScreen {
	s := &loginScreen{
		ctx:      ctx,
		b:        b,
		page:     pages.NewLogin(deps, b),
		nav:      deps.Nav,
		loc:      loc,
		email:    newTextControl("Email", "you@example.com", 254),
		password: newPasswordControl("Password"),
		busy:     newBusyState(),
	}
	s.form = newForm(s.email, s.password)

	return s
}

func (s *loginScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, action(s.ctx, s.b.id, func(ctx context.Context) error {
		_, err := s.page.Load(ctx, s.loc)
		return err
	}))
}

func (s *loginScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.busy.update(msg); cmd != nil {
		return cmd
	}

	switch msg := msg.(type) {
	case verifiedMsg:
		s.verified = true
		return nil

	case tea.KeyMsg:
		if s.busy.busy {
			return nil
		}

		switch msg.String() {
		case "enter":
			if !s.form.onLast() {
				return s.form.move(1)
			}

			email, password := strings.TrimSpace(s.email.Value()), s.password.Value()
			return tea.Batch(s.busy.start("Signing in..."), action(s.ctx, s.b.id, func(ctx context.Context) error {
				return s.page.Submit(ctx, email, password)
			}))

		case "ctrl+g":
			return tea.Batch(s.busy.start("Waiting for Google sign-in..."), action(s.ctx, s.b.id, s.page.SignInWithOAuth))

		case "ctrl+r":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteRegister))

		case "esc":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteLanding))
		}
	}

	return s.form.Update(msg)
}

func (s *loginScreen) View(int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n")

	if s.verified {
		b.WriteString(severityStyle(pages.SeveritySuccess).Render("Email verified! You can now sign in."))
		b.WriteString("\n\n")
	}

	b.WriteString(s.form.View())
	b.WriteString("\n")
	b.WriteString(s.busy.view())
	b.WriteString(helpStyle.Render("[enter: next/submit] [ctrl+g: continue with Google] [ctrl+r: create account] [esc: back]"))

	return b.String()
}

type registerScreen struct {
	ctx  context.Context
	b    *binding
	page *pages.Register
	nav  session.Navigator

	form     *form
	username *textControl
	email    *textControl
	password *textControl
	busy     busyState
}

func newRegisterScreen(ctx context.Context, deps *pages.Deps, b *binding) *registerScreen {
	s := &registerScreen{
		ctx:      ctx,
		b:        b,
		page:     pages.NewRegister(deps, b),
		nav:      deps.Nav,
		username: newTextControl("Username", "", 64),
		email:    newTextControl("Email", "you@example.com", 254),
		password: newPasswordControl("Password"),
		busy:     newBusyState(),
	}
	s.form = newForm(s.username, s.email, s.password)

	return s
}

func (s *registerScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, action(s.ctx, s.b.id, func(ctx context.Context) error {
		_, err := s.page.Load(ctx)
		return err
	}))
}

func (s *registerScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.busy.update(msg); cmd != nil {
		return cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if s.busy.busy {
			return nil
		}

		switch key.String() {
		case "enter":
			if !s.form.onLast() {
				return s.form.move(1)
			}

			username := strings.TrimSpace(s.username.Value())
			email := strings.TrimSpace(s.email.Value())
			password := s.password.Value()

			return tea.Batch(s.busy.start("Creating account..."), action(s.ctx, s.b.id, func(ctx context.Context) error {
				return s.page.Submit(ctx, username, email, password)
			}))

		case "ctrl+g":
			return tea.Batch(s.busy.start("Waiting for Google sign-in..."), action(s.ctx, s.b.id, s.page.SignInWithOAuth))

		case "ctrl+l":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteLogin))

		case "esc":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteLanding))
		}
	}

	return s.form.Update(msg)
}

func (s *registerScreen) View(int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Create your account"))
	b.WriteString("\n")
	b.WriteString(s.form.View())
	b.WriteString("\n")
	b.WriteString(s.busy.view())
	b.WriteString(helpStyle.Render("[enter: next/submit] [ctrl+g: sign up with Google] [ctrl+l: log in] [esc: back]"))

	return b.String()
}

type verifyScreen struct {
	ctx  context.Context
	b    *binding
	page *pages.VerifyEmail
	nav  session.Navigator
	loc  session.Location

	email string
	busy  busyState
}

func newVerifyScreen(ctx context.Context, deps *pages.Deps, b *binding, loc session.Location) *verifyScreen {
	return &verifyScreen{
		ctx:  ctx,
		b:    b,
		page: pages.NewVerifyEmail(deps, b),
		nav:  deps.Nav,
		loc:  loc,
		busy: newBusyState(),
	}
}

func (s *verifyScreen) Init() tea.Cmd {
	return action(s.ctx, s.b.id, func(ctx context.Context) error {
		return s.page.Load(ctx, s.loc)
	})
}

func (s *verifyScreen) Update(msg tea.Msg) tea.Cmd {
	if cmd := s.busy.update(msg); cmd != nil {
		return cmd
	}

	switch msg := msg.(type) {
	case emailMsg:
		s.email = msg.email

	case tea.KeyMsg:
		if s.busy.busy {
			return nil
		}

		switch msg.String() {
		case "r":
			return tea.Batch(s.busy.start("Sending..."), action(s.ctx, s.b.id, s.page.Resend))
		case "l":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteLogin))
		case "esc":
			return navigateCmd(s.ctx, s.nav, session.To(session.RouteLanding))
		}
	}

	return nil
}

func (s *verifyScreen) View(int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Check your email"))
	b.WriteString("\n")
	b.WriteString("We sent a confirmation link to ")
	b.WriteString(menuKeyStyle.Render(s.email))
	b.WriteString(".\nOpen it to activate your account, then sign in.\n\n")
	b.WriteString(s.busy.view())
	b.WriteString(helpStyle.Render("[r: resend email] [l: log in] [esc: back]"))

	return b.String()
}
