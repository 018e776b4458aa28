package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/practicetestbulk/client/internal/browser"
	"codeberg.org/practicetestbulk/client/internal/config"
	"codeberg.org/practicetestbulk/client/internal/errors"
	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"codeberg.org/practicetestbulk/client/internal/tokenstore"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// returned when a controller already printed its failure
var errReported = stderrors.New("reported")

// shared state of one ptb invocation
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	lines  *bufio.Reader

	flags     config.Flags
	verbose   bool
	noBrowser bool

	// replaced in tests
	load   func() (*config.Config, error)
	opener browser.Opener

	cfg     *config.Config
	store   tokenstore.Store
	deps    *pages.Deps
	nav     *recordingNav
	view    *consoleView
	logFile *os.File
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		in:     in,
		out:    out,
		errOut: errOut,
		lines:  bufio.NewReader(in),
		load:   config.LoadEnvironmentVariables,
	}
}

func newRootCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ptb",
		Short:         "Generate practice tests with PracticeTestBulk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context(), cmd.Name() == "tui")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.flags.Endpoint, "endpoint", "", "API endpoint (overrides PTB_API_ENDPOINT)")
	flags.StringVar(&c.flags.Profile, "profile", "", "session profile to use")
	flags.BoolVar(&c.flags.Ephemeral, "ephemeral", false, "keep the session in memory only")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")
	flags.BoolVar(&c.noBrowser, "no-browser", false, "print URLs instead of opening a browser")

	cmd.AddCommand(newLoginCommand(c))
	cmd.AddCommand(newRegisterCommand(c))
	cmd.AddCommand(newOAuthCommand(c))
	cmd.AddCommand(newLogoutCommand(c))
	cmd.AddCommand(newWhoamiCommand(c))
	cmd.AddCommand(newVerifyEmailCommand(c))
	cmd.AddCommand(newUsageCommand(c))
	cmd.AddCommand(newGenerateCommand(c))
	cmd.AddCommand(newPricingCommand(c))
	cmd.AddCommand(newUpgradeCommand(c))
	cmd.AddCommand(newTUICommand(c))

	return cmd
}

// loads config, logging and the session store; the TUI owns the terminal so
// it never logs to stderr
func (c *cli) setup(ctx context.Context, fullscreen bool) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	if err := cfg.ApplyFlags(c.flags); err != nil {
		return err
	}

	if err := c.initLogging(cfg, fullscreen); err != nil {
		return err
	}

	store, err := tokenstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	opener := c.opener
	if opener == nil && c.noBrowser {
		opener = browser.Print(func(format string, args ...any) {
			fmt.Fprintf(c.errOut, format, args...)
		})
	}

	c.cfg = cfg
	c.store = store
	c.nav = &recordingNav{}
	c.view = newConsoleView(c.out, c.errOut)
	c.deps = pages.Wire(cfg, store, c.nav, opener)

	logger.Debug("ptb configured",
		"endpoint", cfg.APIEndpoint,
		"profile", cfg.Profile,
		"store", cfg.TokenStore)

	return nil
}

func (c *cli) initLogging(cfg *config.Config, fullscreen bool) error {
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		c.logFile = f
		logger.Init(cfg.Environment, f)
	case c.verbose && !fullscreen:
		logger.Init(cfg.Environment, c.errOut)
	default:
		logger.Discard()
	}

	return nil
}

func (c *cli) close() {
	if closer, ok := c.store.(io.Closer); ok {
		_ = closer.Close()
	}

	if c.logFile != nil {
		_ = c.logFile.Close()
	}
}

// turns a controller result into the command's error
func (c *cli) result(err error) error {
	if err == nil {
		return nil
	}

	if errors.IsAuthExpired(err) {
		return fmt.Errorf("your session has expired; run `ptb login`")
	}

	if c.view.failed {
		return errReported
	}

	return err
}

// prints where the controller would have taken a browser user next
func (c *cli) followUp() {
	last, ok := c.nav.last()
	if !ok {
		return
	}

	switch last.Route {
	case session.RouteVerifyEmail:
		fmt.Fprintf(c.out, "Check %s for a confirmation link. Run `ptb verify-email --resend` if it does not arrive.\n", last.Param("email"))
	case session.RouteLogin:
		fmt.Fprintln(c.out, "Run `ptb login` to sign in.")
	case session.RouteRegister:
		fmt.Fprintln(c.out, "Run `ptb register` to create an account.")
	case session.RouteApp:
		fmt.Fprintln(c.out, "Run `ptb generate` to create a practice test.")
	}
}

// reads one line, printing label first when stdin is interactive
func (c *cli) prompt(label string) (string, error) {
	if c.interactive() {
		fmt.Fprint(c.errOut, label)
	}

	line, err := c.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}

	return strings.TrimSpace(line), nil
}

// reads a password without echo on a terminal, or a plain line otherwise
func (c *cli) password() (string, error) {
	f, ok := c.in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return c.prompt("Password: ")
	}

	fmt.Fprint(c.errOut, "Password: ")
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(c.errOut)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(b), nil
}

func (c *cli) interactive() bool {
	f, ok := c.in.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// whether stdout can take colour output
func (c *cli) colorOut() bool {
	f, ok := c.out.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
