package calculation

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/domain"
)

// unbounded stands in for "no cap" wherever spec.md §4.4 writes `∨ +∞`
// (e.g. a rule with no singleUseCostMax, or a budget group a plan never
// declared). decimal.Decimal has no infinity, so a sufficiently large
// finite sentinel is used instead; no real dollar amount in this domain
// approaches it.
var unbounded = decimal.RequireFromString("999999999999")

// ServiceEventInput is one coverage rule's application to N units of one
// service instance, plus the mutable budgets it may draw from. This is
// the Service Evaluator's (C4) whole input per spec.md §4.4 — the Plan
// Evaluator (C5) calls Evaluate once per rule in a service's coverage
// sequence, tracking the remaining unit count across calls itself.
type ServiceEventInput struct {
	Rule  domain.CoverageRule
	Count int
	Cost  decimal.Decimal

	PersonDeductible *domain.GroupBudget
	FamilyDeductible *domain.GroupBudget
	PersonOOP        *domain.GroupBudget
	FamilyOOP        *domain.GroupBudget

	// Combined is non-nil exactly when Rule.CombinedLimitID is set.
	Combined *domain.CombinedLimitBudget
}

// ServiceEventResult is the per-rule accumulation C4 returns. ENC here
// only reflects dollars this rule itself could not reimburse (post
// combined-limit costLeft, and units dropped once a combined limit hit
// zero); units a coveredCount/dollarLimit cap left out of this rule
// entirely are reported separately in RemainingCount, since the Plan
// Evaluator (C5) still owes them to the next rule in the coverage
// sequence — only the last rule's RemainingCount becomes true ENC.
type ServiceEventResult struct {
	Deductibles        decimal.Decimal
	Copays             decimal.Decimal
	Coinsurance        decimal.Decimal
	PlanReimbursed     decimal.Decimal
	ExpensesNotCovered decimal.Decimal
	CombinedLimitHit   bool
	UnitsCovered       int // how many of Count this rule actually processed
	RemainingCount     int // Count - UnitsCovered; owed to the next rule, or to ENC if this was the last rule
}

// CanonicalizeEvent applies the spec.md §4.4/§9 additionalServices(count,
// cost) swap without mutating the caller's inputs: when serviceID begins
// with "additionalServices" and cost == 1, (count, cost) are swapped so
// count becomes 1 and cost becomes the original count, preserving "raw
// dollars of additional medical spend". It is applied once per service
// event before any rule in the coverage sequence is evaluated.
func CanonicalizeEvent(serviceID string, count int, cost decimal.Decimal) (int, decimal.Decimal) {
	if strings.HasPrefix(serviceID, "additionalServices") && cost.Equal(decimal.NewFromInt(1)) {
		return 1, decimal.NewFromInt(int64(count))
	}
	return count, cost
}

// Evaluate applies one coverage rule to Count units of one service event
// (spec.md §4.4).
func Evaluate(in ServiceEventInput) ServiceEventResult {
	var out ServiceEventResult

	covered := coveredUnits(in.Rule, in.Count, in.Cost)
	out.UnitsCovered = covered
	out.RemainingCount = in.Count - covered

	stopped := false
	for unit := 0; unit < covered; unit++ {
		if stopped {
			out.ExpensesNotCovered = out.ExpensesNotCovered.Add(in.Cost)
			continue
		}
		costLeft := in.Cost
		singleUseLeft := unbounded
		if in.Rule.SingleUseCostMax != nil {
			singleUseLeft = *in.Rule.SingleUseCostMax
		}

		if in.Rule.Deductible == domain.DeductibleBeforeCopay {
			paid := deductiblePass(costLeft, singleUseLeft, in.PersonDeductible, in.FamilyDeductible, in.PersonOOP, in.FamilyOOP)
			out.Deductibles = out.Deductibles.Add(paid)
			costLeft = costLeft.Sub(paid)
			singleUseLeft = singleUseLeft.Sub(paid)
		}

		if in.Rule.Copay != nil {
			paid := copayPass(*in.Rule.Copay, costLeft, singleUseLeft, in.Rule.CopayNotTowardsOOPMax, in.PersonOOP, in.FamilyOOP)
			out.Copays = out.Copays.Add(paid)
			costLeft = costLeft.Sub(paid)
			singleUseLeft = singleUseLeft.Sub(paid)
		}

		if in.Rule.Deductible == domain.DeductibleAfterCopay {
			paid := deductiblePass(costLeft, singleUseLeft, in.PersonDeductible, in.FamilyDeductible, in.PersonOOP, in.FamilyOOP)
			out.Deductibles = out.Deductibles.Add(paid)
			costLeft = costLeft.Sub(paid)
			singleUseLeft = singleUseLeft.Sub(paid)
		}

		if in.Rule.Coinsurance != nil {
			paid := coinsurancePass(*in.Rule.Coinsurance, in.Rule.CoinsuranceMinDollar, in.Rule.CoinsuranceMaxDollar, costLeft, singleUseLeft, in.Rule.CoinsuranceNotTowardsOOPMax, in.PersonOOP, in.FamilyOOP)
			out.Coinsurance = out.Coinsurance.Add(paid)
			costLeft = costLeft.Sub(paid)
			singleUseLeft = singleUseLeft.Sub(paid)
		}

		if in.Rule.CombinedLimitID != "" && in.Combined != nil {
			reimbursed := combinedLimitPass(in.Combined, costLeft)
			out.PlanReimbursed = out.PlanReimbursed.Add(reimbursed)
			costLeft = costLeft.Sub(reimbursed)
			if combinedLimitExhausted(in.Combined) {
				stopped = true
				out.CombinedLimitHit = true
			}
		}

		if costLeft.GreaterThan(decimal.Zero) {
			if in.Rule.CombinedLimitID != "" {
				// spec.md §4.4 steps 6-8: once a combined limit is in
				// play, whatever it doesn't reimburse is a member
				// expense-not-covered.
				out.ExpensesNotCovered = out.ExpensesNotCovered.Add(costLeft.Round(2))
			} else {
				// No combined limit on this rule: the deductible/copay/
				// coinsurance passes already took the member's share, so
				// whatever's left is the plan's to pay, not ENC.
				out.PlanReimbursed = out.PlanReimbursed.Add(costLeft.Round(2))
			}
		}
	}

	out.Deductibles = out.Deductibles.Round(2)
	out.Copays = out.Copays.Round(2)
	out.Coinsurance = out.Coinsurance.Round(2)
	out.PlanReimbursed = out.PlanReimbursed.Round(2)
	out.ExpensesNotCovered = out.ExpensesNotCovered.Round(2)
	return out
}

// coveredUnits implements spec.md §4.4's covered-unit determination.
func coveredUnits(rule domain.CoverageRule, count int, cost decimal.Decimal) int {
	if rule.NotCovered != nil && *rule.NotCovered {
		return 0
	}
	if rule.CoveredCount != nil {
		if *rule.CoveredCount < count {
			return *rule.CoveredCount
		}
		return count
	}
	if rule.DollarLimit != nil && cost.GreaterThan(decimal.Zero) {
		maxUnits := decimal.NewFromInt(int64(*rule.DollarLimit)).Div(cost).IntPart()
		if int(maxUnits) < count {
			return int(maxUnits)
		}
		return count
	}
	return count
}

func deductiblePass(costLeft, singleUseLeft decimal.Decimal, personDed, familyDed, personOOP, familyOOP *domain.GroupBudget) decimal.Decimal {
	cap := decimal.Min(costLeft, singleUseLeft, personDed.Available, familyDed.Available)
	if cap.LessThan(decimal.Zero) {
		cap = decimal.Zero
	}
	paid := cap.Round(2)
	personDed.Spend(paid)
	familyDed.Spend(paid)
	// A deductible dollar counts toward the OOP group too (spec.md §4.4).
	personOOP.Spend(paid)
	familyOOP.Spend(paid)
	return paid
}

func copayPass(nominalCopay, costLeft, singleUseLeft decimal.Decimal, notTowardsOOP bool, personOOP, familyOOP *domain.GroupBudget) decimal.Decimal {
	potential := decimal.Min(costLeft, singleUseLeft, nominalCopay)
	if potential.LessThan(decimal.Zero) {
		potential = decimal.Zero
	}
	if !notTowardsOOP {
		potential = decimal.Min(potential, personOOP.Available, familyOOP.Available)
		if potential.LessThan(decimal.Zero) {
			potential = decimal.Zero
		}
		paid := potential.Round(2)
		personOOP.Spend(paid)
		familyOOP.Spend(paid)
		return paid
	}
	return potential.Round(2)
}

func coinsurancePass(rate decimal.Decimal, minDollar, maxDollar *decimal.Decimal, costLeft, singleUseLeft decimal.Decimal, notTowardsOOP bool, personOOP, familyOOP *domain.GroupBudget) decimal.Decimal {
	amt := costLeft.Mul(rate)
	if minDollar != nil && amt.LessThan(*minDollar) {
		amt = *minDollar
	}
	if maxDollar != nil && amt.GreaterThan(*maxDollar) {
		amt = *maxDollar
	}
	amt = decimal.Min(amt, costLeft, singleUseLeft)
	if amt.LessThan(decimal.Zero) {
		amt = decimal.Zero
	}
	if !notTowardsOOP {
		amt = decimal.Min(amt, personOOP.Available, familyOOP.Available)
		if amt.LessThan(decimal.Zero) {
			amt = decimal.Zero
		}
		paid := amt.Round(2)
		personOOP.Spend(paid)
		familyOOP.Spend(paid)
		return paid
	}
	return amt.Round(2)
}

func combinedLimitPass(budget *domain.CombinedLimitBudget, costLeft decimal.Decimal) decimal.Decimal {
	cap := costLeft
	if budget.Person != nil && budget.Person.Available.LessThan(cap) {
		cap = budget.Person.Available
	}
	if budget.Family != nil && budget.Family.Available.LessThan(cap) {
		cap = budget.Family.Available
	}
	if cap.LessThan(decimal.Zero) {
		cap = decimal.Zero
	}
	paid := cap.Round(2)
	if budget.Person != nil {
		budget.Person.Spend(paid)
	}
	if budget.Family != nil {
		budget.Family.Spend(paid)
	}
	return paid
}

func combinedLimitExhausted(budget *domain.CombinedLimitBudget) bool {
	if budget.Person != nil && budget.Person.Available.LessThanOrEqual(decimal.Zero) {
		return true
	}
	if budget.Family != nil && budget.Family.Available.LessThanOrEqual(decimal.Zero) {
		return true
	}
	return false
}
