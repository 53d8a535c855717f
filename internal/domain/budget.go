package domain

import "github.com/shopspring/decimal"

// GroupBudget is a single named deductible/OOP group's running state for
// one person or for the family: used + available always equals the
// group's initial cap (spec.md §3, tested by §8.2). Available is never
// negative; Spend clamps to it.
type GroupBudget struct {
	Initial   decimal.Decimal
	Used      decimal.Decimal
	Available decimal.Decimal
}

// NewGroupBudget starts a budget at cap, fully available.
func NewGroupBudget(cap decimal.Decimal) GroupBudget {
	return GroupBudget{Initial: cap, Used: decimal.Zero, Available: cap}
}

// Spend clamps amt to the remaining Available, moves that much from
// Available to Used, and returns the amount actually spent (rounded to
// cents, per spec.md §4.4).
func (g *GroupBudget) Spend(amt decimal.Decimal) decimal.Decimal {
	if amt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	spend := decimal.Min(amt, g.Available).Round(2)
	if spend.LessThan(decimal.Zero) {
		spend = decimal.Zero
	}
	g.Available = g.Available.Sub(spend)
	g.Used = g.Used.Add(spend)
	return spend
}

// PersonBudgets holds one household member's per-group-family budgets,
// keyed by group id within each family.
type PersonBudgets struct {
	Deductibles map[string]*GroupBudget
	OOPMaximums map[string]*GroupBudget
}

// FamilyBudgets holds the shared, family-wide per-group-family budgets.
type FamilyBudgets struct {
	Deductibles map[string]*GroupBudget
	OOPMaximums map[string]*GroupBudget
}

// CombinedLimitBudget is the person+family reimbursement ceiling pair for
// one combinedLimitId.
type CombinedLimitBudget struct {
	Person *GroupBudget // nil if the combined limit has no personReimburseLimit
	Family *GroupBudget // nil if the combined limit has no familyReimburseLimit
}

// UnlimitedGroupBudget is used for groups a plan does not declare: infinite
// availability, per spec.md §4.5 ("default +∞ if the plan does not
// declare a group").
func UnlimitedGroupBudget() *GroupBudget {
	const bigNumber = "999999999999"
	cap, _ := decimal.NewFromString(bigNumber)
	b := NewGroupBudget(cap)
	return &b
}
