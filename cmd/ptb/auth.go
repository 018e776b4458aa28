package main

import (
	"fmt"
	"time"

	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCommand(c *cli) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			page := pages.NewLogin(c.deps, c.view)

			redirected, err := page.Load(ctx, session.To(session.RouteLogin))
			if err != nil {
				return c.result(err)
			}
			if redirected {
				fmt.Fprintln(c.out, "Already signed in. Run `ptb logout` first to switch accounts.")
				return nil
			}

			if email == "" {
				if email, err = c.prompt("Email: "); err != nil {
					return err
				}
			}

			password, err := c.password()
			if err != nil {
				return err
			}

			if err := page.Submit(ctx, email, password); err != nil {
				return c.result(err)
			}

			fmt.Fprintf(c.out, "Signed in as %s.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newRegisterCommand(c *cli) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			page := pages.NewRegister(c.deps, c.view)

			redirected, err := page.Load(ctx)
			if err != nil {
				return c.result(err)
			}
			if redirected {
				fmt.Fprintln(c.out, "Already signed in. Run `ptb logout` first to create another account.")
				return nil
			}

			if username == "" {
				if username, err = c.prompt("Username: "); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = c.prompt("Email: "); err != nil {
					return err
				}
			}

			password, err := c.password()
			if err != nil {
				return err
			}

			if err := page.Submit(ctx, username, email, password); err != nil {
				return c.result(err)
			}

			c.followUp()
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newOAuthCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "oauth",
		Short: "Sign in with Google in the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewLogin(c.deps, c.view)

			if err := page.SignInWithOAuth(cmd.Context()); err != nil {
				return c.result(err)
			}

			fmt.Fprintln(c.out, "Signed in with Google.")
			return nil
		},
	}
}

func newLogoutCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.deps.Guard.Logout(cmd.Context(), session.RouteLanding); err != nil {
				return err
			}

			fmt.Fprintln(c.out, "Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.deps.Tokens.Token(cmd.Context())
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("not signed in")
			}

			id, err := session.Describe(token)
			if err != nil {
				fmt.Fprintln(c.out, "Signed in (opaque session token).")
				return nil
			}

			name := id.Email
			if name == "" {
				name = id.Subject
			}
			if id.Username != "" {
				name = fmt.Sprintf("%s <%s>", id.Username, name)
			}
			fmt.Fprintf(c.out, "Signed in as %s\n", name)

			if !id.ExpiresAt.IsZero() {
				state := "expires"
				if id.Expired(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(c.out, "Session %s %s\n", state, id.ExpiresAt.Local().Format(time.RFC1123))
			}

			return nil
		},
	}
}

func newVerifyEmailCommand(c *cli) *cobra.Command {
	var (
		email  string
		resend bool
	)

	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Show or resend the pending email confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			page := pages.NewVerifyEmail(c.deps, c.view)

			loc := session.To(session.RouteVerifyEmail)
			if email != "" {
				loc = session.ToWith(session.RouteVerifyEmail, "email", email)
			}

			if err := page.Load(ctx, loc); err != nil {
				return c.result(err)
			}

			if !resend {
				fmt.Fprintf(c.out, "A confirmation link was sent to %s.\n", c.view.email)
				return nil
			}

			if err := page.Resend(ctx); err != nil {
				err = c.result(err)
				c.followUp()
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "address to confirm (defaults to the one from registration)")
	cmd.Flags().BoolVar(&resend, "resend", false, "send the confirmation email again")
	return cmd
}
