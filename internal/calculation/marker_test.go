package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wattjam/mpce/internal/domain"
)

func markerConfig() *domain.Configuration {
	copay := decimal.NewFromInt(20)
	coinsurance := decimal.NewFromInt(1)
	examCopay := decimal.NewFromInt(10)

	return &domain.Configuration{
		Plans: map[string]domain.Plan{"ppo": {
			CategoriesFundAppliesTo: map[string]bool{"medical": true},
			PersonDeductibles:       domain.LimitGroupSet{"dental": {Categories: []string{"dental"}}},
		}},
		PlansOrder: []string{"ppo"},
		Categories: map[string]domain.Category{
			"medical": {OrderedContents: []string{"officeVisit"}},
			"dental":  {OrderedContents: []string{"cleaning"}},
			"vision":  {OrderedContents: []string{"visionExam"}},
		},
		CategoriesOrder: []string{"medical", "dental", "vision"},
		Services: map[string]domain.Service{
			"officeVisit": {Coverage: map[string]domain.CoverageSpec{"ppo": {Rules: []domain.CoverageRule{{Copay: &copay}}}}},
			"cleaning":    {Coverage: map[string]domain.CoverageSpec{"ppo": {Rules: []domain.CoverageRule{{Coinsurance: &coinsurance, DeductibleRaw: "beforeCopay"}}}}},
			"visionExam":  {Coverage: map[string]domain.CoverageSpec{"ppo": {Rules: []domain.CoverageRule{{Copay: &examCopay, DeductibleRaw: "none"}}}}},
		},
		ServicesOrder: []string{"officeVisit", "cleaning", "visionExam"},
	}
}

func TestPrepareDerivesServiceCategoryFromCategoryContents(t *testing.T) {
	cfg := markerConfig()
	Prepare(cfg)

	assert.Equal(t, "medical", cfg.Services["officeVisit"].CategoryID)
	assert.Equal(t, "dental", cfg.Services["cleaning"].CategoryID)
}

func TestPrepareDefaultsRuleDeductibleToAfterCopayWhenUnset(t *testing.T) {
	cfg := markerConfig()
	Prepare(cfg)

	rule := cfg.Services["officeVisit"].Coverage["ppo"].Rules[0]
	assert.Equal(t, domain.DeductibleAfterCopay, rule.Deductible)
}

func TestPrepareHonorsAnExplicitDeductibleTiming(t *testing.T) {
	cfg := markerConfig()
	Prepare(cfg)

	rule := cfg.Services["cleaning"].Coverage["ppo"].Rules[0]
	assert.Equal(t, domain.DeductibleBeforeCopay, rule.Deductible)
}

func TestPrepareDefaultsEligibleForFundFromPlanCategoryMap(t *testing.T) {
	cfg := markerConfig()
	Prepare(cfg)

	assert.True(t, cfg.Services["officeVisit"].Coverage["ppo"].Rules[0].EligibleForFund)
	assert.False(t, cfg.Services["cleaning"].Coverage["ppo"].Rules[0].EligibleForFund)
}

func TestPrepareSortsServicesWithADeductibleBeforeThoseWithout(t *testing.T) {
	cfg := markerConfig()
	mc := Prepare(cfg)

	// officeVisit's rule leaves deductible unset, which normalizes to
	// DeductibleAfterCopay (a deductible pass still runs), same as
	// cleaning's explicit beforeCopay; only visionExam opts out entirely.
	assert.Contains(t, mc.WithDeductibleServices["ppo"], "officeVisit")
	assert.Contains(t, mc.WithDeductibleServices["ppo"], "cleaning")
	assert.Contains(t, mc.NoDeductibleServices["ppo"], "visionExam")
}

func TestPrepareGroupLookupDefaultsToGeneralUnlessANamedGroupClaimsTheCategory(t *testing.T) {
	cfg := markerConfig()
	mc := Prepare(cfg)

	assert.Equal(t, "dental", mc.PersonDeductibleGroup["ppo"]["dental"])
	assert.Equal(t, domain.GeneralGroup, mc.PersonDeductibleGroup["ppo"]["medical"])
}

func TestPrepareIsIdempotentPerConfigurationPointer(t *testing.T) {
	cfg := markerConfig()
	first := Prepare(cfg)
	second := Prepare(cfg)

	assert.Same(t, first, second)
}
