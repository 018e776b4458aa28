package pages

import "codeberg.org/practicetestbulk/client/internal/usage"

// UsageSnapshot is everything the app screen shows about quota.
type UsageSnapshot struct {
	// false when /usage could not be loaded; the screen shows defaults
	Known bool

	Username  string
	Tier      usage.Tier
	TierLabel string

	Remaining int
	Unlimited bool
	BadgeBand usage.Band

	// usage banner, free tier only
	ShowBanner   bool
	UsageText    string
	Percent      int
	ProgressBand usage.Band

	UpgradeLabel string
}

func NewUsageSnapshot(u usage.UserUsage) UsageSnapshot {
	s := UsageSnapshot{
		Known:     true,
		Username:  u.Username,
		Tier:      u.Tier,
		TierLabel: usage.TierLabel(u.Tier),
		BadgeBand: usage.BadgeBand(u),
	}

	if s.Username == "" {
		s.Username = "User"
	}

	remaining := usage.ComputeRemaining(u)

	if remaining.Unlimited {
		s.Unlimited = true
		s.Remaining = max(u.QuestionsRemaining, 0)
		s.UpgradeLabel = "Manage Plan"
		return s
	}

	s.Remaining = remaining.Display
	s.ShowBanner = true
	s.UsageText = usage.UsageText(u)
	s.Percent = usage.ConsumedPercent(u)
	s.ProgressBand = usage.ProgressBand(s.Percent)
	s.UpgradeLabel = "Upgrade"

	return s
}

func unknownUsage() UsageSnapshot {
	return UsageSnapshot{
		Username:     "User",
		TierLabel:    usage.TierLabel(""),
		BadgeBand:    usage.BandNormal,
		UpgradeLabel: "Upgrade",
	}
}
