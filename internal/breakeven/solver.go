// Package breakeven searches for the household utilization level at
// which two candidate plans cost the same, adapted from the retirement
// calculator's parameter-optimization solver to this domain's single
// free variable: a utilization scale factor applied to a service-count
// template.
package breakeven

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/wattjam/mpce/internal/calculation"
	"github.com/wattjam/mpce/internal/domain"
)

// BreakEvenError reports a solver failure: bad input, a bracket that
// never crosses zero, or a calculation failure underneath.
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *BreakEvenError) Unwrap() error { return e.Cause }

// Request is one utilization break-even search between two plans.
type Request struct {
	Config   *domain.Configuration
	PlanA    string
	PlanB    string
	RegionID string
	StatusID string

	// Base is the household template whose service counts are scaled by
	// the search variable; HasSpouse/Children membership is held fixed.
	Base domain.CalculateRequest

	MinScale      decimal.Decimal
	MaxScale      decimal.Decimal
	MaxIterations int
	Tolerance     decimal.Decimal
}

// Result is the utilization scale at which PlanA and PlanB's annual
// costs converge or, when Converged is false, the last midpoint evaluated
// before the iteration limit was reached.
type Result struct {
	Scale      decimal.Decimal
	CostA      decimal.Decimal
	CostB      decimal.Decimal
	Iterations int
	Converged  bool
}

const defaultMaxIterations = 60

// FindUtilizationBreakEven bisects on the utilization scale factor,
// relying on costA-costB crossing zero somewhere in [MinScale, MaxScale]
// (spec.md §9 does not require this component; it is carried over from
// the teacher's binary-search solver as a natural companion to the
// plan-comparison engine).
func FindUtilizationBreakEven(ctx context.Context, req Request) (*Result, error) {
	if req.MaxIterations == 0 {
		req.MaxIterations = defaultMaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = decimal.NewFromFloat(0.01)
	}
	if req.MinScale.IsZero() && req.MaxScale.IsZero() {
		req.MinScale = decimal.NewFromInt(0)
		req.MaxScale = decimal.NewFromInt(10)
	}

	diffAt := func(scale decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
		costA, costB, err := evaluateAt(req.Config, req.PlanA, req.PlanB, req.RegionID, req.StatusID, req.Base, scale)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, err
		}
		return costA.Sub(costB), costA, costB, nil
	}

	lo, hi := req.MinScale, req.MaxScale
	diffLo, costALo, costBLo, err := diffAt(lo)
	if err != nil {
		return nil, &BreakEvenError{Operation: "find_utilization_break_even", Message: "failed to evaluate lower bound", Cause: err}
	}
	diffHi, costAHi, costBHi, err := diffAt(hi)
	if err != nil {
		return nil, &BreakEvenError{Operation: "find_utilization_break_even", Message: "failed to evaluate upper bound", Cause: err}
	}

	if diffLo.Abs().LessThan(req.Tolerance) {
		return &Result{Scale: lo, CostA: costALo, CostB: costBLo, Iterations: 0, Converged: true}, nil
	}
	if diffHi.Abs().LessThan(req.Tolerance) {
		return &Result{Scale: hi, CostA: costAHi, CostB: costBHi, Iterations: 0, Converged: true}, nil
	}
	if sameSign(diffLo, diffHi) {
		return nil, &BreakEvenError{
			Operation: "find_utilization_break_even",
			Message:   "plans do not cross within the given utilization range",
		}
	}

	var mid, costA, costB decimal.Decimal
	iterations := 0
	for iterations < req.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		iterations++

		mid = lo.Add(hi).Div(decimal.NewFromInt(2))
		var diffMid decimal.Decimal
		diffMid, costA, costB, err = diffAt(mid)
		if err != nil {
			return nil, &BreakEvenError{Operation: "find_utilization_break_even", Message: "failed to evaluate scenario", Cause: err}
		}

		if diffMid.Abs().LessThan(req.Tolerance) {
			return &Result{Scale: mid, CostA: costA, CostB: costB, Iterations: iterations, Converged: true}, nil
		}

		if sameSign(diffMid, diffLo) {
			lo, diffLo = mid, diffMid
		} else {
			hi, diffHi = mid, diffMid
		}
	}

	return &Result{Scale: mid, CostA: costA, CostB: costB, Iterations: iterations, Converged: false}, nil
}

func sameSign(a, b decimal.Decimal) bool {
	return a.Sign() == b.Sign()
}

func evaluateAt(cfg *domain.Configuration, planA, planB, regionID, statusID string, base domain.CalculateRequest, scale decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	req := scaleRequest(base, regionID, statusID, scale)
	engineResult, err := calculation.Calculate(cfg, req)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	var costA, costB decimal.Decimal
	var foundA, foundB bool
	for _, r := range engineResult.Results {
		if r.PlanID == planA {
			costA = r.TotalAnnualCost
			foundA = true
		}
		if r.PlanID == planB {
			costB = r.TotalAnnualCost
			foundB = true
		}
	}
	if !foundA {
		return decimal.Zero, decimal.Zero, fmt.Errorf("plan %q not offered in region %q", planA, regionID)
	}
	if !foundB {
		return decimal.Zero, decimal.Zero, fmt.Errorf("plan %q not offered in region %q", planB, regionID)
	}
	return costA, costB, nil
}

func scaleRequest(base domain.CalculateRequest, regionID, statusID string, scale decimal.Decimal) domain.CalculateRequest {
	scaled := base
	scaled.RegionID = regionID
	scaled.StatusID = statusID
	scaled.Primary = scaleCounts(base.Primary, scale)
	if base.HasSpouse {
		scaled.Spouse = scaleCounts(base.Spouse, scale)
	}
	if len(base.Children) > 0 {
		children := make([]domain.ServiceCounts, len(base.Children))
		for i, c := range base.Children {
			children[i] = scaleCounts(c, scale)
		}
		scaled.Children = children
	}
	return scaled
}

func scaleCounts(counts domain.ServiceCounts, scale decimal.Decimal) domain.ServiceCounts {
	if counts == nil {
		return nil
	}
	out := make(domain.ServiceCounts, len(counts))
	f, _ := scale.Float64()
	for svcID, n := range counts {
		out[svcID] = int(math.Round(float64(n) * f))
	}
	return out
}
