package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/domain"
	"github.com/wattjam/mpce/internal/sequencing"
)

// PlanEvalInput is one plan's worth of the household the MPCE Engine (C6)
// is evaluating.
type PlanEvalInput struct {
	PlanID          string
	RegionID        string
	StatusID        string
	CoverageLevelID string

	// Household is ordered [primary, spouse?, ...children] (spec.md §5).
	Household []domain.Member

	Fund domain.PlanFundInputs
}

// EvaluatePlan runs the Plan Evaluator (C5) for one plan against one
// household (spec.md §4.5).
func EvaluatePlan(mc *MarkedConfig, in PlanEvalInput) domain.PlanResult {
	cfg := mc.Config
	plan := cfg.Plans[in.PlanID]

	result := domain.PlanResult{PlanID: in.PlanID}

	familyDed := buildGroupBudgets(plan.FamilyDeductibles, in.RegionID, in.StatusID, in.CoverageLevelID)
	familyOOP := buildGroupBudgets(plan.FamilyOutOfPocketMaximums, in.RegionID, in.StatusID, in.CoverageLevelID)
	familyCombined := familyCombinedBudgets(cfg.CombinedLimits)

	for _, member := range in.Household {
		personDed := buildGroupBudgets(plan.PersonDeductibles, in.RegionID, in.StatusID, in.CoverageLevelID)
		personOOP := buildGroupBudgets(plan.PersonOutOfPocketMaximums, in.RegionID, in.StatusID, in.CoverageLevelID)
		personCombined := personCombinedBudgets(cfg.CombinedLimits)

		evaluateMember(cfg, mc, &result, in.PlanID, in.RegionID, member,
			personDed, personOOP, personCombined, familyDed, familyOOP, familyCombined)
	}

	applyFundOffset(cfg, &result, plan, in)
	applyPremium(cfg, &result, plan, in)

	result.Finalize()
	return result
}

func evaluateMember(
	cfg *domain.Configuration, mc *MarkedConfig, result *domain.PlanResult, planID, regionID string,
	member domain.Member,
	personDed, personOOP, personCombined, familyDed, familyOOP, familyCombined map[string]*domain.GroupBudget,
) {
	plan := cfg.Plans[planID]
	passes := [][]string{mc.WithDeductibleServices[planID], mc.NoDeductibleServices[planID]}

	for _, pass := range passes {
		for _, svcID := range pass {
			count := member.Services[svcID]
			if count <= 0 {
				continue
			}
			svc := cfg.Services[svcID]
			cost, ok := resolveCost(svc, &plan, regionID)
			if !ok {
				continue
			}

			result.TotalRawExpenses = result.TotalRawExpenses.Add(decimal.NewFromInt(int64(count)).Mul(cost))

			canonCount, canonCost := CanonicalizeEvent(svcID, count, cost)
			remaining := canonCount

			spec := svc.Coverage[planID]
			for i := range spec.Rules {
				if remaining <= 0 {
					break
				}
				rule := spec.Rules[i]
				isLast := i == len(spec.Rules)-1

				personDedGroup := getOrUnlimited(personDed, mc.PersonDeductibleGroup[planID][svc.CategoryID])
				personOOPGroup := getOrUnlimited(personOOP, mc.PersonOOPGroup[planID][svc.CategoryID])
				familyDedGroup := getOrUnlimited(familyDed, mc.FamilyDeductibleGroup[planID][svc.CategoryID])
				familyOOPGroup := getOrUnlimited(familyOOP, mc.FamilyOOPGroup[planID][svc.CategoryID])

				var combined *domain.CombinedLimitBudget
				if rule.CombinedLimitID != "" {
					combined = &domain.CombinedLimitBudget{
						Person: personCombined[rule.CombinedLimitID],
						Family: familyCombined[rule.CombinedLimitID],
					}
				}

				res := Evaluate(ServiceEventInput{
					Rule:             rule,
					Count:            remaining,
					Cost:             canonCost,
					PersonDeductible: personDedGroup,
					FamilyDeductible: familyDedGroup,
					PersonOOP:        personOOPGroup,
					FamilyOOP:        familyOOPGroup,
					Combined:         combined,
				})

				result.TotalDeductibles = result.TotalDeductibles.Add(res.Deductibles)
				result.TotalCopays = result.TotalCopays.Add(res.Copays)
				result.TotalCoinsurance = result.TotalCoinsurance.Add(res.Coinsurance)
				result.TotalExpensesNotCovered = result.TotalExpensesNotCovered.Add(res.ExpensesNotCovered)

				uncoveredRemainder := decimal.Zero
				if res.RemainingCount > 0 && isLast {
					uncoveredRemainder = decimal.NewFromInt(int64(res.RemainingCount)).Mul(canonCost)
					result.TotalExpensesNotCovered = result.TotalExpensesNotCovered.Add(uncoveredRemainder)
				}

				if rule.EligibleForFund {
					eligible := res.Deductibles.Add(res.Copays).Add(res.Coinsurance).Add(res.ExpensesNotCovered).Add(uncoveredRemainder)
					result.TotalFundEligibleCosts = result.TotalFundEligibleCosts.Add(eligible)
				}

				if res.CombinedLimitHit {
					break
				}
				remaining = res.RemainingCount
			}
		}
	}
}

func resolveCost(svc domain.Service, plan *domain.Plan, regionID string) (decimal.Decimal, bool) {
	byRegion, ok := svc.Costs[plan.EffectiveCostsObjectID()]
	if !ok {
		return decimal.Zero, false
	}
	cost, ok := byRegion[regionID]
	return cost, ok
}

func buildGroupBudgets(groups domain.LimitGroupSet, regionID, statusID, levelID string) map[string]*domain.GroupBudget {
	out := map[string]*domain.GroupBudget{}
	for groupID, entry := range groups {
		amt, ok := entry.Resolve(regionID, statusID, levelID)
		if !ok {
			continue
		}
		b := domain.NewGroupBudget(amt)
		out[groupID] = &b
	}
	return out
}

func getOrUnlimited(budgets map[string]*domain.GroupBudget, groupID string) *domain.GroupBudget {
	if b, ok := budgets[groupID]; ok {
		return b
	}
	return domain.UnlimitedGroupBudget()
}

func personCombinedBudgets(limits map[string]domain.CombinedLimit) map[string]*domain.GroupBudget {
	out := map[string]*domain.GroupBudget{}
	for id, cl := range limits {
		if cl.PersonReimburseLimit != nil {
			b := domain.NewGroupBudget(*cl.PersonReimburseLimit)
			out[id] = &b
		}
	}
	return out
}

func familyCombinedBudgets(limits map[string]domain.CombinedLimit) map[string]*domain.GroupBudget {
	out := map[string]*domain.GroupBudget{}
	for id, cl := range limits {
		if cl.FamilyReimburseLimit != nil {
			b := domain.NewGroupBudget(*cl.FamilyReimburseLimit)
			out[id] = &b
		}
	}
	return out
}

// applyFundOffset consumes the plan's fund-eligible costs against the
// plan fund, additional match, rollover, and voluntary contribution, in
// that priority order (spec.md §4.5, §8 property 3-5), via the
// sequencing package's priority strategy.
func applyFundOffset(cfg *domain.Configuration, result *domain.PlanResult, plan domain.Plan, in PlanEvalInput) {
	planFund, _ := plan.FundAmountMap.Resolve(in.RegionID, in.StatusID, in.CoverageLevelID)

	sources := []sequencing.FundSource{
		{Name: "planFund", Available: planFund},
		{Name: "additionalMatch", Available: in.Fund.AdditionalMatch},
		{Name: "rollover", Available: in.Fund.Rollover},
		{Name: "voluntary", Available: in.Fund.VoluntaryContribution},
	}
	alloc := sequencing.CreateStrategy("priority").Allocate(result.TotalFundEligibleCosts, sources)

	result.PlanFundPaid = alloc.BySource["planFund"]
	result.PlanFundAdditionalMatchPaid = alloc.BySource["additionalMatch"]
	result.RolloverFundPaid = alloc.BySource["rollover"]
	result.VoluntaryFundPaid = alloc.BySource["voluntary"]
	result.TotalFundAmountOffset = alloc.Total

	totalAvailable := planFund.Add(in.Fund.AdditionalMatch).Add(in.Fund.Rollover).Add(in.Fund.VoluntaryContribution)
	result.FundCarryoverBalance = totalAvailable.Sub(result.TotalFundAmountOffset)
	result.TotalAnnualPayrollContributions = in.Fund.VoluntaryContribution
}

// applyPremium resolves the plan's annual premium and folds in the
// caller-supplied adjustment (spec.md §4.5).
func applyPremium(cfg *domain.Configuration, result *domain.PlanResult, plan domain.Plan, in PlanEvalInput) {
	premiums := cfg.CoverageLevelCostsPerPlan[in.PlanID]
	annual, _ := premiums.Resolve(in.RegionID, in.CoverageLevelID, in.StatusID)
	result.AnnualPremium = annual
	result.AnnualPremiumAfterAdjustment = annual.Add(in.Fund.PremiumAdjustment)
}
