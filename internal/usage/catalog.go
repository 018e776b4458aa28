package usage

import (
	"fmt"
	"strings"
)

// Plan describes one subscription tier as sold on the pricing screen.
type Plan struct {
	Tier                Tier
	Name                string
	QuestionsPerMonth   int
	MaxQuestionsPerTest int
	PriceMonthly        int // USD
	PriceAnnual         int // USD
	Features            []string
}

var Catalog = map[Tier]Plan{
	TierFree: {
		Tier:                TierFree,
		Name:                "Free",
		QuestionsPerMonth:   20,
		MaxQuestionsPerTest: 20,
		Features: []string{
			"20 questions per month",
			"Test the AI quality",
			"All question formats",
			"All explanation styles",
			"Udemy CSV export",
			"Email support (48h response)",
		},
	},
	TierPro: {
		Tier:                TierPro,
		Name:                "Pro",
		QuestionsPerMonth:   2500,
		MaxQuestionsPerTest: 250,
		PriceMonthly:        9,
		PriceAnnual:         90,
		Features: []string{
			"2,500 questions per month",
			"Create 3-5 complete courses",
			"Unlimited test downloads",
			"Up to 250 questions per test",
			"Email support (24h response)",
		},
	},
	TierBusiness: {
		Tier:                TierBusiness,
		Name:                "Business",
		QuestionsPerMonth:   7500,
		MaxQuestionsPerTest: 250,
		PriceMonthly:        19,
		PriceAnnual:         190,
		Features: []string{
			"7,500 questions per month",
			"Create 10-15 courses per month",
			"Priority generation (faster)",
			"Perfect for agencies & teams",
			"Bulk test creation",
			"Priority email support",
		},
	},
}

// tiers in display order
var Tiers = []Tier{TierFree, TierPro, TierBusiness}

// generation requests per minute the backend allows per tier
var RequestsPerMinute = map[Tier]int{
	TierFree:     5,
	TierPro:      20,
	TierBusiness: 50,
}

// returns the pacing budget for t, defaulting to the free budget
func RateFor(t Tier) int {
	if n, ok := RequestsPerMinute[t]; ok {
		return n
	}

	return RequestsPerMinute[TierFree]
}

// billing period on the pricing screen
type Billing string

const (
	BillingMonthly Billing = "monthly"
	BillingAnnual  Billing = "annual"
)

// price label for a plan, e.g. "$9/mo" or "$90/yr ($7.50/mo)"
func (p Plan) PriceLabel(b Billing) string {
	if p.PriceMonthly == 0 && p.PriceAnnual == 0 {
		return "$0"
	}

	if b == BillingAnnual {
		return fmt.Sprintf("$%d/yr ($%.2f/mo)", p.PriceAnnual, float64(p.PriceAnnual)/12)
	}

	return fmt.Sprintf("$%d/mo", p.PriceMonthly)
}

// renders the catalog as markdown for the pricing screen
func PricingMarkdown(b Billing, current Tier) string {
	var sb strings.Builder

	sb.WriteString("# Plans\n\n")
	fmt.Fprintf(&sb, "_Billing: %s_\n\n", b)

	for _, t := range Tiers {
		p := Catalog[t]

		heading := p.Name
		if t == current {
			heading += " (current plan)"
		}

		fmt.Fprintf(&sb, "## %s - %s\n\n", heading, p.PriceLabel(b))
		fmt.Fprintf(&sb, "Up to **%s** questions per month, **%d** per test.\n\n",
			FormatNumber(p.QuestionsPerMonth), p.MaxQuestionsPerTest)

		for _, f := range p.Features {
			fmt.Fprintf(&sb, "- %s\n", f)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
