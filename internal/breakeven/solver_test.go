package breakeven

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wattjam/mpce/internal/domain"
)

// twoRateConfig offers "cheap" (full per-visit copay, no premium) against
// "pricey" (a $20 copay plus a fixed premium adjustment) so the two plans'
// annual costs move at different rates as utilization scales, per unit
// cost $100 for both.
func twoRateConfig() *domain.Configuration {
	cheapCopay := decimal.NewFromInt(100)
	priceyCopay := decimal.NewFromInt(20)

	return &domain.Configuration{
		Regions:             map[string]domain.Region{"northeast": {Plans: []string{"cheap", "pricey"}}},
		RegionsOrder:        []string{"northeast"},
		Plans:               map[string]domain.Plan{"cheap": {}, "pricey": {}},
		PlansOrder:          []string{"cheap", "pricey"},
		Statuses:            map[string]domain.Status{"fullTime": {}},
		StatusesOrder:       []string{"fullTime"},
		CoverageLevels:      map[string]domain.CoverageLevel{"employeeOnly": {}},
		CoverageLevelsOrder: []string{"employeeOnly"},
		Categories:          map[string]domain.Category{"medical": {OrderedContents: []string{"officeVisit"}}},
		CategoriesOrder:     []string{"medical"},
		Services: map[string]domain.Service{"officeVisit": {
			Costs: map[string]map[string]decimal.Decimal{"costs": {"northeast": decimal.NewFromInt(100)}},
			Coverage: map[string]domain.CoverageSpec{
				"cheap":  {Rules: []domain.CoverageRule{{Copay: &cheapCopay, DeductibleRaw: "none"}}},
				"pricey": {Rules: []domain.CoverageRule{{Copay: &priceyCopay, DeductibleRaw: "none"}}},
			},
		}},
		ServicesOrder: []string{"officeVisit"},
	}
}

func twoRateRequest(priceyPremium int64) Request {
	return Request{
		PlanA:    "cheap",
		PlanB:    "pricey",
		RegionID: "northeast",
		StatusID: "fullTime",
		Base: domain.CalculateRequest{
			Primary: domain.ServiceCounts{"officeVisit": 1},
			PerPlan: map[string]domain.PlanFundInputs{
				"pricey": {PremiumAdjustment: decimal.NewFromInt(priceyPremium)},
			},
		},
		MinScale: decimal.NewFromInt(0),
		MaxScale: decimal.NewFromInt(30),
	}
}

func TestFindUtilizationBreakEvenNarrowsTowardTheSignChange(t *testing.T) {
	cfg := twoRateConfig()
	req := twoRateRequest(1000)
	req.Config = cfg
	req.MaxIterations = 30

	result, err := FindUtilizationBreakEven(context.Background(), req)
	assert.NoError(t, err)

	// cheap(c) = 100c, pricey(c) = 20c + 1000; they cross at c = 12.5, which
	// no integer utilization count lands on exactly, so bisection can never
	// drive the gap below the default 0.01 tolerance and runs out the clock.
	assert.False(t, result.Converged)
	assert.Equal(t, req.MaxIterations, result.Iterations)
	assert.True(t, result.Scale.GreaterThanOrEqual(decimal.NewFromInt(12)))
	assert.True(t, result.Scale.LessThanOrEqual(decimal.NewFromInt(13)))
	assert.True(t, result.CostA.Sub(result.CostB).Abs().LessThanOrEqual(decimal.NewFromInt(40)))
}

func TestFindUtilizationBreakEvenErrorsWhenPlansNeverCross(t *testing.T) {
	cfg := twoRateConfig()
	req := twoRateRequest(500)
	req.Config = cfg
	// Give cheap and pricey identical per-visit copays so pricey's fixed
	// $500 premium keeps it strictly above cheap across the whole range.
	cheapCopay := decimal.NewFromInt(20)
	svc := cfg.Services["officeVisit"]
	spec := svc.Coverage["cheap"]
	spec.Rules[0].Copay = &cheapCopay
	svc.Coverage["cheap"] = spec
	cfg.Services["officeVisit"] = svc

	_, err := FindUtilizationBreakEven(context.Background(), req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "do not cross")
}

func TestFindUtilizationBreakEvenRespectsContextCancellation(t *testing.T) {
	cfg := twoRateConfig()
	req := twoRateRequest(1000)
	req.Config = cfg
	req.MaxIterations = 30

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindUtilizationBreakEven(ctx, req)
	// The initial lower/upper bound evaluations run before the cancellation
	// check, so a cancelled context only surfaces at the first bisection
	// step — which this crossing scenario always reaches.
	assert.Error(t, err)
}
