package domain

import "github.com/shopspring/decimal"

// ServiceCounts is one household member's utilization: service-id to
// non-negative count; absent entries are zero (spec.md §6).
type ServiceCounts map[string]int

// HouseholdShape is the (spouse-present, child-count) pair the Coverage-
// Level Resolver (C3) keys off of.
type HouseholdShape struct {
	HasSpouse bool
	NumChildren int
}

// Member is one household member's service utilization for a single MPCE
// call. Role is "primary", "spouse", or "child" and is informational only
// (ordering is positional: primary, spouse, then children, per spec.md §5).
type Member struct {
	Role     string
	Services ServiceCounts
}

// PlanFundInputs are the caller-supplied additions to a plan's employer
// fund for one MPCE call: prior-year rollover, a voluntary contribution,
// a premium adjustment, and additional employer match (spec.md §4.5/§6).
type PlanFundInputs struct {
	Rollover              decimal.Decimal
	VoluntaryContribution decimal.Decimal
	PremiumAdjustment     decimal.Decimal
	AdditionalMatch       decimal.Decimal
}

// CalculateRequest is the full input to MPCE's public Calculate operation
// (spec.md §4.6, §6).
type CalculateRequest struct {
	RegionID string
	StatusID string

	Primary  ServiceCounts
	Spouse   ServiceCounts // nil if no spouse
	Children []ServiceCounts

	HasSpouse bool

	// PerPlan is keyed by plan id; entries are optional, defaulting to
	// zero rollover/voluntary/adjustment/match.
	PerPlan map[string]PlanFundInputs
}
