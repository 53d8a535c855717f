// Package compare ranks a set of MPCE plan results against each other
// and against a named base plan (spec.md §2's C8).
package compare

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/domain"
)

// Options configures a comparison run.
type Options struct {
	// BasePlanID, if non-empty, is the plan every other plan's delta is
	// measured against in addition to the cheapest plan.
	BasePlanID string
}

// Rank is one plan's position in a ranked comparison.
type Rank struct {
	PlanID            string
	Position          int // 1-based; 1 is cheapest
	TotalAnnualCost   decimal.Decimal
	DeltaFromCheapest decimal.Decimal
	DeltaFromBase     *decimal.Decimal // nil if Options.BasePlanID was empty or not found
}

// ComparisonSet is a ranked view of one EngineResult.
type ComparisonSet struct {
	BasePlanID string
	Ranks      []Rank
}

// Compare ranks every plan in result by TotalAnnualCost ascending.
func Compare(result domain.EngineResult, opts Options) (*ComparisonSet, error) {
	if len(result.Results) == 0 {
		return nil, fmt.Errorf("compare: no plan results to rank")
	}

	sorted := make([]domain.PlanResult, len(result.Results))
	copy(sorted, result.Results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalAnnualCost.LessThan(sorted[j].TotalAnnualCost)
	})

	cheapest := sorted[0].TotalAnnualCost

	var baseCost decimal.Decimal
	haveBase := false
	if opts.BasePlanID != "" {
		for _, r := range sorted {
			if r.PlanID == opts.BasePlanID {
				baseCost = r.TotalAnnualCost
				haveBase = true
				break
			}
		}
	}

	ranks := make([]Rank, len(sorted))
	for i, r := range sorted {
		rank := Rank{
			PlanID:            r.PlanID,
			Position:          i + 1,
			TotalAnnualCost:   r.TotalAnnualCost,
			DeltaFromCheapest: r.TotalAnnualCost.Sub(cheapest),
		}
		if haveBase {
			delta := r.TotalAnnualCost.Sub(baseCost)
			rank.DeltaFromBase = &delta
		}
		ranks[i] = rank
	}

	return &ComparisonSet{BasePlanID: opts.BasePlanID, Ranks: ranks}, nil
}
