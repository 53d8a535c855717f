package calculation

import (
	"fmt"
	"time"

	"github.com/wattjam/mpce/internal/domain"
)

// CallError is the fatal-to-the-call taxonomy of spec.md §7: raised by
// C6/C7 on an unknown identifier or a missing required argument, as
// opposed to config.ValidationError's configuration-error taxonomy. C3's
// failure for a household no tier accommodates is the separate
// ErrNoCoverageLevel type.
type CallError struct {
	Reason string
}

func (e *CallError) Error() string {
	return e.Reason
}

func errUnknownRegion(regionID string) error {
	return &CallError{Reason: fmt.Sprintf("unknown region %q", regionID)}
}

func errUnknownStatus(statusID string) error {
	return &CallError{Reason: fmt.Sprintf("unknown status %q", statusID)}
}

func errMissingPrimary() error {
	return &CallError{Reason: "primary household member is required"}
}

// Calculate is MPCE's public operation (spec.md §4.6): it ensures the
// configuration has been marked, resolves the coverage level, builds the
// ordered household, and evaluates every plan offered in the requested
// region.
func Calculate(cfg *domain.Configuration, req domain.CalculateRequest) (domain.EngineResult, error) {
	start := time.Now()

	mc := Prepare(cfg)

	region, ok := cfg.Regions[req.RegionID]
	if !ok {
		return domain.EngineResult{}, errUnknownRegion(req.RegionID)
	}
	if _, ok := cfg.Statuses[req.StatusID]; !ok {
		return domain.EngineResult{}, errUnknownStatus(req.StatusID)
	}
	if req.Primary == nil {
		return domain.EngineResult{}, errMissingPrimary()
	}

	household := []domain.Member{{Role: "primary", Services: req.Primary}}
	if req.HasSpouse {
		household = append(household, domain.Member{Role: "spouse", Services: req.Spouse})
	}
	for _, child := range req.Children {
		household = append(household, domain.Member{Role: "child", Services: child})
	}

	levelID, err := ResolveCoverageLevel(cfg, domain.HouseholdShape{
		HasSpouse:   req.HasSpouse,
		NumChildren: len(req.Children),
	})
	if err != nil {
		return domain.EngineResult{}, err
	}

	results := make([]domain.PlanResult, 0, len(region.Plans))
	for _, planID := range region.Plans {
		fundIn := req.PerPlan[planID]
		result := EvaluatePlan(mc, PlanEvalInput{
			PlanID:          planID,
			RegionID:        req.RegionID,
			StatusID:        req.StatusID,
			CoverageLevelID: levelID,
			Household:       household,
			Fund:            fundIn,
		})
		results = append(results, result)
	}

	return domain.EngineResult{
		Results:     results,
		ElapsedMsec: float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}
