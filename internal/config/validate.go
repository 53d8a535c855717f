package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/domain"
)

// ValidationError aggregates every problem the Validator (C1) found into
// one fatal error, sorted and de-duplicated (spec.md §4.1, §7).
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration is invalid (%d issue(s)):\n  - %s", len(e.Issues), strings.Join(e.Issues, "\n  - "))
}

// collector accumulates validation issues without ever stopping early.
type collector struct {
	issues map[string]struct{}
}

func newCollector() *collector {
	return &collector{issues: map[string]struct{}{}}
}

func (c *collector) addf(format string, args ...interface{}) {
	c.issues[fmt.Sprintf(format, args...)] = struct{}{}
}

func (c *collector) err() error {
	if len(c.issues) == 0 {
		return nil
	}
	issues := make([]string, 0, len(c.issues))
	for issue := range c.issues {
		issues = append(issues, issue)
	}
	sort.Strings(issues)
	return &ValidationError{Issues: issues}
}

// Validate runs every check of spec.md §4.1 against cfg and returns a
// single aggregated error if any fail, or nil if cfg is well-formed.
func Validate(cfg *domain.Configuration) error {
	c := newCollector()

	c.checkOrderSet("regions", keysOf(cfg.Regions), cfg.RegionsOrder)
	c.checkOrderSet("plans", keysOf(cfg.Plans), cfg.PlansOrder)
	c.checkOrderSet("statuses", keysOf(cfg.Statuses), cfg.StatusesOrder)
	c.checkOrderSet("coverageLevels", keysOf(cfg.CoverageLevels), cfg.CoverageLevelsOrder)
	c.checkOrderSet("categories", keysOf(cfg.Categories), cfg.CategoriesOrder)
	c.checkOrderSet("services", keysOf(cfg.Services), cfg.ServicesOrder)
	if len(cfg.CombinedLimits) > 0 || len(cfg.CombinedLimitsOrder) > 0 {
		c.checkOrderSet("combinedLimits", keysOf(cfg.CombinedLimits), cfg.CombinedLimitsOrder)
	}
	if len(cfg.HealthStatuses) > 0 || len(cfg.HealthStatusesOrder) > 0 {
		c.checkOrderSet("healthStatuses", keysOf(cfg.HealthStatuses), cfg.HealthStatusesOrder)
	}
	if len(cfg.AccountTypes) > 0 || len(cfg.AccountTypesOrder) > 0 {
		c.checkOrderSet("accountTypes", keysOf(cfg.AccountTypes), cfg.AccountTypesOrder)
	}
	if len(cfg.FilingStatuses) > 0 || len(cfg.FilingStatusesOrder) > 0 {
		c.checkOrderSet("filingStatuses", keysOf(cfg.FilingStatuses), cfg.FilingStatusesOrder)
	}

	c.checkRegions(cfg)
	c.checkCoverageLevelOrdering(cfg)
	c.checkCategories(cfg)
	c.checkPlans(cfg)
	c.checkServices(cfg)
	c.checkCombinedLimits(cfg)
	c.checkCoverageLevelCostsPerPlan(cfg)
	c.checkAccountTypes(cfg)
	c.checkFilingStatuses(cfg)
	c.checkFICA(cfg)

	return c.err()
}

func keysOf[V any](m map[string]V) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

// checkOrderSet validates the §3 invariant: the order sequence is
// duplicate-free and its set of ids exactly matches the map's keys.
func (c *collector) checkOrderSet(name string, keys map[string]bool, order []string) {
	seen := map[string]bool{}
	for _, id := range order {
		if seen[id] {
			c.addf("%sOrder contains duplicate id %q", name, id)
			continue
		}
		seen[id] = true
		if !keys[id] {
			c.addf("%sOrder references unknown %s id %q", name, strings.TrimSuffix(name, "s"), id)
		}
	}
	for id := range keys {
		if !seen[id] {
			c.addf("%s %q is missing from %sOrder", name, id, name)
		}
	}
}

func (c *collector) checkRegions(cfg *domain.Configuration) {
	for regionID, region := range cfg.Regions {
		for _, planID := range region.Plans {
			if _, ok := cfg.Plans[planID]; !ok {
				c.addf("region %q references unknown plan %q", regionID, planID)
			}
		}
	}
}

// checkCoverageLevelOrdering validates the §3 ordering invariant:
// coverageLevelsOrder must be non-decreasing in (spouse, maxNumChildren)
// so the resolver (C3) can pick the narrowest adequate tier by forward
// scan.
func (c *collector) checkCoverageLevelOrdering(cfg *domain.Configuration) {
	prevSpouse := false
	prevChildren := -1.0
	for i, id := range cfg.CoverageLevelsOrder {
		level, ok := cfg.CoverageLevels[id]
		if !ok {
			continue // already reported by checkOrderSet
		}
		spouseRank := 0
		if level.Spouse {
			spouseRank = 1
		}
		prevRank := 0
		if prevSpouse {
			prevRank = 1
		}
		if i > 0 && (spouseRank < prevRank || (spouseRank == prevRank && level.MaxNumChildren < prevChildren)) {
			c.addf("coverageLevelsOrder is not non-decreasing in (spouse, maxNumChildren) at index %d (%q)", i, id)
		}
		prevSpouse = level.Spouse
		prevChildren = level.MaxNumChildren
	}
}

func (c *collector) checkCategories(cfg *domain.Configuration) {
	seenIn := map[string]string{}
	for catID, cat := range cfg.Categories {
		for _, svcID := range cat.OrderedContents {
			if owner, ok := seenIn[svcID]; ok {
				c.addf("service %q appears in both category %q and %q", svcID, owner, catID)
				continue
			}
			seenIn[svcID] = catID
			if _, ok := cfg.Services[svcID]; !ok {
				c.addf("category %q references unknown service %q", catID, svcID)
			}
		}
	}
	for svcID := range cfg.Services {
		if _, ok := seenIn[svcID]; !ok {
			c.addf("service %q does not appear in any category's orderedContents", svcID)
		}
	}
}

func (c *collector) checkPlans(cfg *domain.Configuration) {
	for planID, plan := range cfg.Plans {
		costsObjectID := plan.EffectiveCostsObjectID()
		if costsObjectID != "costs" && !strings.HasPrefix(costsObjectID, "costs_") {
			c.addf("plan %q costsObjectId %q must be \"costs\" or begin with \"costs_\"", planID, costsObjectID)
		}
		for svcID, svc := range cfg.Services {
			byRegion, ok := svc.Costs[costsObjectID]
			if !ok {
				c.addf("service %q is missing cost object %q required by plan %q", svcID, costsObjectID, planID)
				continue
			}
			// planeval.go's resolveCost silently treats a missing region
			// entry as "skip this service" rather than an error, so a gap
			// here would quietly undercount a member's raw expenses.
			for regionID, region := range cfg.Regions {
				offersPlan := false
				for _, offeredPlanID := range region.Plans {
					if offeredPlanID == planID {
						offersPlan = true
						break
					}
				}
				if !offersPlan {
					continue
				}
				if _, ok := byRegion[regionID]; !ok {
					c.addf("service %q cost object %q is missing region %q, which offers plan %q", svcID, costsObjectID, regionID, planID)
				}
			}
		}

		for catID := range plan.CategoriesFundAppliesTo {
			if _, ok := cfg.Categories[catID]; !ok {
				c.addf("plan %q categoriesFundAppliesTo references unknown category %q", planID, catID)
			}
		}

		c.checkLimitGroupSet(planID, "personDeductibles", plan.PersonDeductibles, cfg)
		c.checkLimitGroupSet(planID, "familyDeductibles", plan.FamilyDeductibles, cfg)
		c.checkLimitGroupSet(planID, "personOutOfPocketMaximums", plan.PersonOutOfPocketMaximums, cfg)
		c.checkLimitGroupSet(planID, "familyOutOfPocketMaximums", plan.FamilyOutOfPocketMaximums, cfg)

		c.checkFundAmountMap(planID, plan, cfg)
	}
}

func (c *collector) checkLimitGroupSet(planID, family string, groups domain.LimitGroupSet, cfg *domain.Configuration) {
	if len(groups) == 0 {
		return
	}
	general, hasGeneral := groups[domain.GeneralGroup]
	if !hasGeneral {
		c.addf("plan %q %s is missing the required %q group", planID, family, domain.GeneralGroup)
	} else if len(general.Categories) != 0 {
		c.addf("plan %q %s general group must not carry categories", planID, family)
	}

	claimed := map[string]string{}
	for groupID, entry := range groups {
		if groupID == domain.GeneralGroup {
			continue
		}
		if len(entry.Categories) == 0 {
			c.addf("plan %q %s group %q must carry a non-empty categories list", planID, family, groupID)
		}
		if entry.Amount != nil && entry.AmountMap != nil {
			c.addf("plan %q %s group %q sets both amount and amountMap", planID, family, groupID)
		}
		for _, catID := range entry.Categories {
			if _, ok := cfg.Categories[catID]; !ok {
				c.addf("plan %q %s group %q references unknown category %q", planID, family, groupID, catID)
				continue
			}
			if owner, ok := claimed[catID]; ok {
				c.addf("plan %q %s: category %q claimed by both group %q and %q", planID, family, catID, owner, groupID)
				continue
			}
			claimed[catID] = groupID
		}
		groupCtx := fmt.Sprintf("plan %q %s group %q", planID, family, groupID)
		c.checkAmountMapKeys(groupCtx, entry.AmountMap, cfg)
		// A declared limit group's amount must actually be available to
		// every member who can reach it; otherwise buildGroupBudgets falls
		// back to an unlimited budget and the deductible/OOP group is
		// silently skipped (spec.md §4.5: "+∞ only if the group is not
		// declared").
		if entry.AmountMap != nil {
			c.checkAmountMapReachability(groupCtx, entry.AmountMap, planID, cfg)
		}
	}
}

func (c *collector) checkFundAmountMap(planID string, plan domain.Plan, cfg *domain.Configuration) {
	if plan.FundAmountMap == nil {
		return
	}
	ctx := fmt.Sprintf("plan %q fundAmountMap", planID)
	c.checkAmountMapKeys(ctx, plan.FundAmountMap, cfg)

	// Open question #3 (spec.md §9): reject at validation time rather than
	// silently zeroing. A plan's fund must resolve at every coverage level
	// reachable from every region that offers the plan.
	c.checkAmountMapReachability(ctx, plan.FundAmountMap, planID, cfg)
}

func (c *collector) checkAmountMapKeys(context string, table *domain.AmountTable, cfg *domain.Configuration) {
	if table == nil {
		return
	}
	for level := range table.Levels() {
		if _, ok := cfg.CoverageLevels[level]; !ok {
			c.addf("%s: amountMap references unknown coverage level %q", context, level)
		}
	}
}

// checkAmountMapReachability requires table to resolve for every (region,
// status, coverage level) reachable through a plan that offers it.
// Mirrors the fundAmountMap reachability check so a person/family
// deductible or out-of-pocket-maximum group is held to the same standard:
// an amountMap that omits a reachable coverage level passes
// checkAmountMapKeys but would otherwise resolve to (zero, false) at
// evaluation time, which buildGroupBudgets (internal/calculation/
// planeval.go) treats as "group not declared" and silently grants an
// unlimited budget.
func (c *collector) checkAmountMapReachability(context string, table *domain.AmountTable, planID string, cfg *domain.Configuration) {
	for regionID, region := range cfg.Regions {
		offered := false
		for _, offeredPlanID := range region.Plans {
			if offeredPlanID == planID {
				offered = true
				break
			}
		}
		if !offered {
			continue
		}
		for _, statusID := range cfg.StatusesOrder {
			for _, levelID := range cfg.CoverageLevelsOrder {
				if _, ok := table.Resolve(regionID, statusID, levelID); !ok {
					c.addf("%s does not resolve for region %q, status %q, coverage level %q", context, regionID, statusID, levelID)
				}
			}
		}
	}
}

func (c *collector) checkServices(cfg *domain.Configuration) {
	for svcID, svc := range cfg.Services {
		for planID, spec := range svc.Coverage {
			if _, ok := cfg.Plans[planID]; !ok {
				c.addf("service %q coverage references unknown plan %q", svcID, planID)
				continue
			}
			multi := len(spec.Rules) > 1
			for i := range spec.Rules {
				c.checkCoverageRule(svcID, planID, i, &spec.Rules[i], multi, cfg)
			}
		}
	}
}

func (c *collector) checkCoverageRule(svcID, planID string, idx int, rule *domain.CoverageRule, multi bool, cfg *domain.Configuration) {
	ctx := fmt.Sprintf("service %q plan %q rule #%d", svcID, planID, idx)

	if rule.NotCovered != nil && !*rule.NotCovered {
		c.addf("%s: notCovered, if present, must be true", ctx)
	}

	if rule.CombinedLimitID != "" {
		if multi {
			c.addf("%s: a rule with combinedLimitId may not appear inside a multi-rule coverage sequence", ctx)
		}
		if _, ok := cfg.CombinedLimits[rule.CombinedLimitID]; !ok {
			c.addf("%s: combinedLimitId references unknown combined limit %q", ctx, rule.CombinedLimitID)
		}
	}

	if rule.Coinsurance != nil {
		if rule.Coinsurance.IsNegative() || rule.Coinsurance.GreaterThan(decimal.NewFromInt(1)) {
			c.addf("%s: coinsurance must be within [0,1]", ctx)
		}
	}
	for name, amt := range map[string]*decimal.Decimal{
		"copay":                rule.Copay,
		"coinsuranceMinDollar": rule.CoinsuranceMinDollar,
		"coinsuranceMaxDollar": rule.CoinsuranceMaxDollar,
		"singleUseCostMax":     rule.SingleUseCostMax,
	} {
		if amt != nil && amt.IsNegative() {
			c.addf("%s: %s must be >= 0", ctx, name)
		}
	}

	if rule.CoveredCount != nil && rule.DollarLimit != nil {
		c.addf("%s: coveredCount and dollarLimit are mutually exclusive", ctx)
	}
	if rule.CoveredCount != nil && *rule.CoveredCount < 0 {
		c.addf("%s: coveredCount must be a non-negative whole number", ctx)
	}
	if rule.DollarLimit != nil {
		if *rule.DollarLimit < 0 {
			c.addf("%s: dollarLimit must be a non-negative whole number", ctx)
		}
		if rule.Copay != nil {
			c.addf("%s: copay and dollarLimit are mutually exclusive", ctx)
		}
		if rule.Coinsurance == nil {
			c.addf("%s: dollarLimit applies only to a coinsurance rule (spec.md §3)", ctx)
		}
	}

	if _, err := domain.ParseDeductibleTiming(rule.DeductibleRaw); err != nil {
		c.addf("%s: %s", ctx, err)
	}
}

func (c *collector) checkCombinedLimits(cfg *domain.Configuration) {
	for id, cl := range cfg.CombinedLimits {
		if cl.PersonReimburseLimit == nil && cl.FamilyReimburseLimit == nil {
			c.addf("combinedLimit %q has neither personReimburseLimit nor familyReimburseLimit", id)
		}
		if cl.PersonReimburseLimit != nil && cl.PersonReimburseLimit.IsNegative() {
			c.addf("combinedLimit %q personReimburseLimit must be >= 0", id)
		}
		if cl.FamilyReimburseLimit != nil && cl.FamilyReimburseLimit.IsNegative() {
			c.addf("combinedLimit %q familyReimburseLimit must be >= 0", id)
		}
	}
}

func (c *collector) checkCoverageLevelCostsPerPlan(cfg *domain.Configuration) {
	for planID := range cfg.CoverageLevelCostsPerPlan {
		if _, ok := cfg.Plans[planID]; !ok {
			c.addf("coverageLevelCostsPerPlan references unknown plan %q", planID)
		}
	}
}

func (c *collector) checkAccountTypes(cfg *domain.Configuration) {
	for id, at := range cfg.AccountTypes {
		if at.ContributionMinimum.IsNegative() {
			c.addf("accountType %q contributionMinimum must be >= 0", id)
		}
		if at.ContributionMaximum.IsNegative() {
			c.addf("accountType %q contributionMaximum must be >= 0", id)
		}
		if at.ContributionMaximum.LessThan(at.ContributionMinimum) {
			c.addf("accountType %q contributionMaximum must be >= contributionMinimum", id)
		}
		if at.EmployerMatchRate.IsNegative() {
			c.addf("accountType %q employerMatchRate must be >= 0", id)
		}
		if at.EmployerMaxMatchAmount.IsNegative() {
			c.addf("accountType %q employerMaxMatchAmount must be >= 0", id)
		}
	}
}

func (c *collector) checkFilingStatuses(cfg *domain.Configuration) {
	for id, fs := range cfg.FilingStatuses {
		prevUpper := decimal.Zero
		for i, b := range fs.Brackets {
			if i > 0 && b.Upper.LessThanOrEqual(prevUpper) {
				c.addf("filingStatus %q brackets are not strictly increasing at index %d", id, i)
			}
			if b.Rate.IsNegative() {
				c.addf("filingStatus %q bracket #%d rate must be >= 0", id, i)
			}
			prevUpper = b.Upper
		}
	}
}

func (c *collector) checkFICA(cfg *domain.Configuration) {
	if cfg.FICA.SocialSecurityLimit.IsNegative() {
		c.addf("fica socialSecurityLimit must be >= 0")
	}
	if cfg.FICA.SocialSecurityRate.IsNegative() {
		c.addf("fica socialSecurityRate must be >= 0")
	}
	if cfg.FICA.MedicareRate.IsNegative() {
		c.addf("fica medicareRate must be >= 0")
	}
}
