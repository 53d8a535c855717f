package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wattjam/mpce/internal/domain"
)

func unlimitedBudgets() (person, family, personOOP, familyOOP *domain.GroupBudget) {
	return domain.UnlimitedGroupBudget(), domain.UnlimitedGroupBudget(), domain.UnlimitedGroupBudget(), domain.UnlimitedGroupBudget()
}

func TestCanonicalizeEventSwapsAdditionalServices(t *testing.T) {
	count, cost := CanonicalizeEvent("additionalServicesOutOfNetwork", 250, decimal.NewFromInt(1))
	assert.Equal(t, 1, count)
	assert.True(t, decimal.NewFromInt(250).Equal(cost))
}

func TestCanonicalizeEventLeavesOrdinaryServicesAlone(t *testing.T) {
	count, cost := CanonicalizeEvent("primaryCarePhysician", 3, decimal.NewFromInt(150))
	assert.Equal(t, 3, count)
	assert.True(t, decimal.NewFromInt(150).Equal(cost))
}

func TestCanonicalizeEventRequiresCostOfOneToSwap(t *testing.T) {
	count, cost := CanonicalizeEvent("additionalServicesOutOfNetwork", 250, decimal.NewFromInt(2))
	assert.Equal(t, 250, count)
	assert.True(t, decimal.NewFromInt(2).Equal(cost))
}

func TestEvaluateNotCoveredRuleReportsAllUnitsUncovered(t *testing.T) {
	pd, fd, poop, foop := unlimitedBudgets()
	notCovered := true
	rule := domain.CoverageRule{NotCovered: &notCovered}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 2, Cost: decimal.NewFromInt(100),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
	})

	assert.Equal(t, 0, res.UnitsCovered)
	assert.Equal(t, 2, res.RemainingCount)
	assert.True(t, res.ExpensesNotCovered.IsZero())
}

func TestEvaluateCopayOnlyRuleChargesFixedCopayPerUnit(t *testing.T) {
	pd, fd, poop, foop := unlimitedBudgets()
	copay := decimal.NewFromInt(25)
	rule := domain.CoverageRule{Copay: &copay, Deductible: domain.DeductibleNone}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 3, Cost: decimal.NewFromInt(150),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
	})

	assert.Equal(t, 3, res.UnitsCovered)
	assert.Equal(t, 0, res.RemainingCount)
	assert.True(t, decimal.NewFromInt(75).Equal(res.Copays))
	// no combined limit on this rule: the copay already took the member's
	// share, so the remaining cost is the plan's to pay, not ENC.
	assert.True(t, res.ExpensesNotCovered.IsZero())
	assert.True(t, decimal.NewFromInt(375).Equal(res.PlanReimbursed))
	assert.True(t, decimal.NewFromInt(75).Equal(poop.Used))
}

func TestEvaluateDeductibleBeforeCopayAppliesDeductibleFirst(t *testing.T) {
	pd := &domain.GroupBudget{Initial: decimal.NewFromInt(50), Available: decimal.NewFromInt(50)}
	fd := domain.UnlimitedGroupBudget()
	poop, foop := domain.UnlimitedGroupBudget(), domain.UnlimitedGroupBudget()
	copay := decimal.NewFromInt(20)
	rule := domain.CoverageRule{Copay: &copay, Deductible: domain.DeductibleBeforeCopay}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 1, Cost: decimal.NewFromInt(100),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
	})

	// deductible absorbs 50, leaves 50 cost; copay charges min(20, 50) = 20;
	// the remaining 30 is the plan's share, not ENC.
	assert.True(t, decimal.NewFromInt(50).Equal(res.Deductibles))
	assert.True(t, decimal.NewFromInt(20).Equal(res.Copays))
	assert.True(t, res.ExpensesNotCovered.IsZero())
	assert.True(t, decimal.NewFromInt(30).Equal(res.PlanReimbursed))
	assert.True(t, pd.Available.IsZero())
}

func TestEvaluateCoinsuranceAppliesRateToRemainingCost(t *testing.T) {
	pd, fd, poop, foop := unlimitedBudgets()
	rate := decimal.NewFromFloat(0.2)
	rule := domain.CoverageRule{Coinsurance: &rate, Deductible: domain.DeductibleNone}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 1, Cost: decimal.NewFromInt(200),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
	})

	assert.True(t, decimal.NewFromInt(40).Equal(res.Coinsurance))
	// no combined limit: the plan's 80% share is plan-paid, not ENC.
	assert.True(t, res.ExpensesNotCovered.IsZero())
	assert.True(t, decimal.NewFromInt(160).Equal(res.PlanReimbursed))
}

func TestEvaluateCoveredCountCapsUnitsAndCarriesRemainderForward(t *testing.T) {
	pd, fd, poop, foop := unlimitedBudgets()
	copay := decimal.NewFromInt(10)
	cap := 2
	rule := domain.CoverageRule{Copay: &copay, CoveredCount: &cap, Deductible: domain.DeductibleNone}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 5, Cost: decimal.NewFromInt(50),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
	})

	assert.Equal(t, 2, res.UnitsCovered)
	assert.Equal(t, 3, res.RemainingCount)
	assert.True(t, decimal.NewFromInt(20).Equal(res.Copays))
	// the 3 units this rule never touched are NOT folded into ENC here;
	// the plan evaluator decides whether they go to the next rule or to ENC.
	// of the 2 covered units, the copay took its share and the rest (no
	// combined limit on this rule) is plan-paid, not ENC.
	assert.True(t, res.ExpensesNotCovered.IsZero())
	assert.True(t, decimal.NewFromInt(80).Equal(res.PlanReimbursed))
}

func TestEvaluateCombinedLimitStopsOnceExhausted(t *testing.T) {
	pd, fd, poop, foop := unlimitedBudgets()
	rule := domain.CoverageRule{CombinedLimitID: "dental-annual", Deductible: domain.DeductibleNone}
	combined := &domain.CombinedLimitBudget{
		Person: &domain.GroupBudget{Initial: decimal.NewFromInt(100), Available: decimal.NewFromInt(100)},
	}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 3, Cost: decimal.NewFromInt(60),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
		Combined: combined,
	})

	assert.True(t, res.CombinedLimitHit)
	assert.True(t, decimal.NewFromInt(100).Equal(res.PlanReimbursed))
	assert.True(t, combined.Person.Available.IsZero())
	// unit 1 reimburses 60, unit 2 reimburses the remaining 40 and hits the
	// cap, unit 3 never runs its passes and becomes pure ENC.
	assert.True(t, decimal.NewFromInt(20).Add(decimal.NewFromInt(60)).Equal(res.ExpensesNotCovered))
}

func TestEvaluateSingleUseCostMaxCapsReimbursablePortion(t *testing.T) {
	pd, fd, poop, foop := unlimitedBudgets()
	rate := decimal.NewFromFloat(1.0)
	maxCost := decimal.NewFromInt(75)
	rule := domain.CoverageRule{Coinsurance: &rate, SingleUseCostMax: &maxCost, Deductible: domain.DeductibleNone}

	res := Evaluate(ServiceEventInput{
		Rule: rule, Count: 1, Cost: decimal.NewFromInt(200),
		PersonDeductible: pd, FamilyDeductible: fd, PersonOOP: poop, FamilyOOP: foop,
	})

	assert.True(t, decimal.NewFromInt(75).Equal(res.Coinsurance))
	// no combined limit: the amount the single-use cap kept the coinsurance
	// pass from reaching is plan-paid, not ENC.
	assert.True(t, res.ExpensesNotCovered.IsZero())
	assert.True(t, decimal.NewFromInt(125).Equal(res.PlanReimbursed))
}
