package calculation

import (
	"sync"

	"github.com/wattjam/mpce/internal/domain"
)

// MarkedConfig holds the derived-data tables the Config Marker (C2)
// computes once per configuration: per-plan service ordering and
// category-to-group lookups. It is returned by Prepare rather than kept
// as a package-level singleton, per spec.md §9's "global singletons ->
// value parameters" note.
type MarkedConfig struct {
	Config *domain.Configuration

	// WithDeductibleServices/NoDeductibleServices are, per plan, the
	// service ids (in global ServicesOrder) whose coverage under that
	// plan includes at least one rule with a deductible other than
	// "none" (with), or none at all (no). The Plan Evaluator (C5) walks
	// With before No (spec.md §4.5).
	WithDeductibleServices map[string][]string
	NoDeductibleServices   map[string][]string

	// PersonDeductibleGroup etc. map planId -> categoryId -> groupId,
	// defaulting to "general" unless a named group claims the category.
	PersonDeductibleGroup map[string]map[string]string
	PersonOOPGroup        map[string]map[string]string
	FamilyDeductibleGroup map[string]map[string]string
	FamilyOOPGroup        map[string]map[string]string
}

var (
	markedMu    sync.Mutex
	markedCache = map[*domain.Configuration]*MarkedConfig{}
)

// Prepare runs the Config Marker (C2) at most once per configuration
// pointer (spec.md §4.2, §5): the first call mutates cfg in place
// (service.categoryId, rule.eligibleForFund, rule.deductible) and derives
// the MarkedConfig; every subsequent call with the same pointer is a
// no-op that returns the cached result. Concurrent first-time callers
// sharing the same configuration are serialized by markedMu so the
// in-place mutation never races.
func Prepare(cfg *domain.Configuration) *MarkedConfig {
	markedMu.Lock()
	defer markedMu.Unlock()

	if mc, ok := markedCache[cfg]; ok {
		return mc
	}

	markupCategories(cfg)
	markupRules(cfg)

	mc := &MarkedConfig{
		Config:                 cfg,
		WithDeductibleServices: map[string][]string{},
		NoDeductibleServices:   map[string][]string{},
		PersonDeductibleGroup:  map[string]map[string]string{},
		PersonOOPGroup:         map[string]map[string]string{},
		FamilyDeductibleGroup:  map[string]map[string]string{},
		FamilyOOPGroup:         map[string]map[string]string{},
	}

	for _, planID := range cfg.PlansOrder {
		with, without := serviceDeductibleOrder(cfg, planID)
		mc.WithDeductibleServices[planID] = with
		mc.NoDeductibleServices[planID] = without

		plan := cfg.Plans[planID]
		mc.PersonDeductibleGroup[planID] = groupLookup(cfg, plan.PersonDeductibles)
		mc.PersonOOPGroup[planID] = groupLookup(cfg, plan.PersonOutOfPocketMaximums)
		mc.FamilyDeductibleGroup[planID] = groupLookup(cfg, plan.FamilyDeductibles)
		mc.FamilyOOPGroup[planID] = groupLookup(cfg, plan.FamilyOutOfPocketMaximums)
	}

	markedCache[cfg] = mc
	return mc
}

// markupCategories sets service.categoryId from the category->services
// inversion (spec.md §4.2).
func markupCategories(cfg *domain.Configuration) {
	for _, catID := range cfg.CategoriesOrder {
		cat := cfg.Categories[catID]
		for _, svcID := range cat.OrderedContents {
			svc, ok := cfg.Services[svcID]
			if !ok {
				continue
			}
			svc.CategoryID = catID
			cfg.Services[svcID] = svc
		}
	}
}

// markupRules normalizes each rule's deductible timing and defaults
// eligibleForFund from the owning plan's categoriesFundAppliesTo unless
// the rule already set it explicitly (spec.md §4.2). Coverage sequence
// normalization (singleton -> sequence) needs no runtime step here: it is
// enforced by domain.CoverageSpec's decoder at construction time.
func markupRules(cfg *domain.Configuration) {
	for _, svc := range cfg.Services {
		for planID, spec := range svc.Coverage {
			plan, havePlan := cfg.Plans[planID]
			for i := range spec.Rules {
				rule := &spec.Rules[i]
				if timing, err := domain.ParseDeductibleTiming(rule.DeductibleRaw); err == nil {
					rule.Deductible = timing
				}
				if rule.EligibleForFundRaw != nil {
					rule.EligibleForFund = *rule.EligibleForFundRaw
				} else if havePlan {
					rule.EligibleForFund = plan.CategoriesFundAppliesTo[svc.CategoryID]
				}
			}
		}
	}
}

func serviceDeductibleOrder(cfg *domain.Configuration, planID string) (with, without []string) {
	for _, svcID := range cfg.ServicesOrder {
		svc, ok := cfg.Services[svcID]
		if !ok {
			continue
		}
		spec, covered := svc.Coverage[planID]
		if !covered {
			continue
		}
		hasDeductible := false
		for _, rule := range spec.Rules {
			if rule.Deductible != domain.DeductibleNone {
				hasDeductible = true
				break
			}
		}
		if hasDeductible {
			with = append(with, svcID)
		} else {
			without = append(without, svcID)
		}
	}
	return with, without
}

func groupLookup(cfg *domain.Configuration, groups domain.LimitGroupSet) map[string]string {
	out := map[string]string{}
	for _, catID := range cfg.CategoriesOrder {
		out[catID] = domain.GeneralGroup
	}
	for groupID, entry := range groups {
		if groupID == domain.GeneralGroup {
			continue
		}
		for _, catID := range entry.Categories {
			out[catID] = groupID
		}
	}
	return out
}
