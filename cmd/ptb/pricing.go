package main

import (
	"fmt"

	"codeberg.org/practicetestbulk/client/internal/logger"
	"codeberg.org/practicetestbulk/client/internal/pages"
	"codeberg.org/practicetestbulk/client/internal/usage"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newPricingCommand(c *cli) *cobra.Command {
	var annual bool

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Compare plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			page := pages.NewPricing(c.deps, c.view)

			if err := page.Load(ctx); err != nil {
				return err
			}

			if c.deps.Tokens.HasToken(ctx) {
				if u, err := c.deps.API.Usage(ctx); err == nil {
					page.SetCurrentTier(u.Tier)
				} else {
					logger.Debug("current plan unknown", "error", err)
				}
			}

			if annual {
				page.ToggleBilling(usage.BillingAnnual)
			}

			fmt.Fprint(c.out, c.markdown(c.view.plans.Markdown))
			return nil
		},
	}

	cmd.Flags().BoolVar(&annual, "annual", false, "show annual prices")
	return cmd
}

func newUpgradeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "upgrade <pro|business>",
		Short:     "Open checkout for a paid plan",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(usage.TierPro), string(usage.TierBusiness)},
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewPricing(c.deps, c.view)

			if _, err := page.Upgrade(cmd.Context(), usage.Tier(args[0])); err != nil {
				return c.result(err)
			}

			if _, ok := c.nav.last(); ok {
				c.followUp()
				return fmt.Errorf("not signed in")
			}

			return nil
		},
	}
}

// renders markdown with colours on a terminal and plain styling otherwise
func (c *cli) markdown(md string) string {
	style := "notty"
	if c.colorOut() {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(80))
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}

	return out
}
