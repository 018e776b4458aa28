package usage

// subscription level
type Tier string

const (
	TierFree     Tier = "free"
	TierPro      Tier = "pro"
	TierBusiness Tier = "business"
)

// free-tier limit assumed when the server omits monthly_limit
const DefaultMonthlyLimit = 20

// the free tier starts warning at this many remaining questions
const RunningLowThreshold = 5

// UserUsage is the /usage payload.
type UserUsage struct {
	Username           string `json:"username"`
	Tier               Tier   `json:"tier"`
	QuestionsUsed      int    `json:"questions_used"`
	QuestionsRemaining int    `json:"questions_remaining"`
	MonthlyLimit       int    `json:"monthly_limit"`
}

// result of ComputeRemaining
type Remaining struct {
	Unlimited bool
	Raw       int // limit - used; may be negative
	Display   int // Raw floored at zero
}

// gate outcome
type Outcome string

const (
	Allow                     Outcome = "allow"
	DenyLimitReached          Outcome = "deny-limit-reached"
	DenyInsufficientRemaining Outcome = "deny-insufficient-remaining"
	WarnRunningLow            Outcome = "warn-running-low"
)

// Decision is recomputed for every submission attempt and never stored.
type Decision struct {
	Outcome   Outcome
	Requested int
	Remaining int // raw remaining; meaningless when Unlimited
	Limit     int
	Unlimited bool
}

// display severity for usage widgets
type Band string

const (
	BandNormal  Band = "normal"
	BandWarning Band = "warning"
	BandError   Band = "error"
	BandSuccess Band = "success"
)
