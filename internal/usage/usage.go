package usage

import (
	"fmt"
	"math"
	"strings"
)

// reports whether the tier is capped by a monthly limit. only "free" is;
// any other tier string passes the gate and the backend enforces it.
func (t Tier) IsFree() bool {
	return t == TierFree
}

func (t Tier) String() string {
	return string(t)
}

// returns the limit used for arithmetic, falling back to the free default
func (u UserUsage) Limit() int {
	if u.MonthlyLimit <= 0 {
		return DefaultMonthlyLimit
	}

	return u.MonthlyLimit
}

// computes remaining quota. pure: the same input always gives the same output.
func ComputeRemaining(u UserUsage) Remaining {
	if !u.Tier.IsFree() {
		return Remaining{Unlimited: true}
	}

	raw := u.Limit() - u.QuestionsUsed

	return Remaining{
		Raw:     raw,
		Display: max(raw, 0),
	}
}

// decides whether a generation of requested questions may go ahead
func Gate(u UserUsage, requested int) Decision {
	if !u.Tier.IsFree() {
		return Decision{Outcome: Allow, Requested: requested, Unlimited: true}
	}

	remaining := u.Limit() - u.QuestionsUsed
	d := Decision{Requested: requested, Remaining: remaining, Limit: u.Limit()}

	switch {
	case remaining <= 0:
		d.Outcome = DenyLimitReached
	case requested > remaining:
		d.Outcome = DenyInsufficientRemaining
	case remaining <= RunningLowThreshold:
		d.Outcome = WarnRunningLow
	default:
		d.Outcome = Allow
	}

	return d
}

// reports whether the decision lets the submission proceed
func (d Decision) Allowed() bool {
	return d.Outcome == Allow || d.Outcome == WarnRunningLow
}

// consumed share of the monthly limit, rounded to the nearest percent
func ConsumedPercent(u UserUsage) int {
	return int(math.Round(float64(u.QuestionsUsed) / float64(u.Limit()) * 100))
}

// band for the progress bar, evaluated on consumed percentage
func ProgressBand(percent int) Band {
	switch {
	case percent >= 90:
		return BandError
	case percent >= 70:
		return BandWarning
	default:
		return BandNormal
	}
}

// band for the remaining-count badge, evaluated on the absolute remaining
// count. independent of ProgressBand on purpose: the two can disagree.
func BadgeBand(u UserUsage) Band {
	if !u.Tier.IsFree() {
		return BandSuccess
	}

	remaining := ComputeRemaining(u).Raw

	switch {
	case remaining <= 0:
		return BandError
	case remaining <= RunningLowThreshold:
		return BandWarning
	default:
		return BandNormal
	}
}

// e.g. "15 of 20 questions used (5 remaining)"
func UsageText(u UserUsage) string {
	return fmt.Sprintf("%d of %d questions used (%d remaining)",
		u.QuestionsUsed, u.Limit(), ComputeRemaining(u).Display)
}

// tier label as shown on the badge
func TierLabel(t Tier) string {
	if t == "" {
		return strings.ToUpper(string(TierFree))
	}

	return strings.ToUpper(string(t))
}

// Prompt is the user-facing text for a gate decision.
type Prompt struct {
	Message      string
	OfferUpgrade bool // ask whether to open the pricing screen
}

// returns the upgrade prompt for d; Allow yields an empty prompt
func PromptFor(d Decision) Prompt {
	pro := Catalog[TierPro]

	switch d.Outcome {
	case DenyLimitReached:
		return Prompt{
			Message: fmt.Sprintf("You've reached your monthly limit of %d questions. Upgrade to Pro for %s questions/month!",
				d.Limit, FormatNumber(pro.QuestionsPerMonth)),
			OfferUpgrade: true,
		}
	case DenyInsufficientRemaining:
		return Prompt{
			Message: fmt.Sprintf("You only have %d questions remaining this month, but you're trying to generate %d. Upgrade to Pro for unlimited generation!",
				d.Remaining, d.Requested),
			OfferUpgrade: true,
		}
	case WarnRunningLow:
		return Prompt{
			Message: fmt.Sprintf("You only have %d questions left this month. Consider upgrading to Pro for %s questions/month.",
				d.Remaining, FormatNumber(pro.QuestionsPerMonth)),
		}
	default:
		return Prompt{}
	}
}

// formats n with thousands separators, e.g. 2500 -> "2,500"
func FormatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}

	return b.String()
}
