package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wattjam/mpce/internal/domain"
)

func testAccountType() domain.AccountType {
	return domain.AccountType{
		Description:            domain.LocalizedText{Plain: "Health Savings Account"},
		ContributionMinimum:    decimal.Zero,
		ContributionMaximum:    decimal.NewFromInt(4000),
		EmployerMatchRate:      decimal.NewFromFloat(0.5),
		EmployerMaxMatchAmount: decimal.NewFromInt(500),
	}
}

func testSchedule() domain.FilingStatusSchedule {
	return domain.FilingStatusSchedule{
		Description:        domain.LocalizedText{Plain: "Single"},
		PersonalExemption:  decimal.NewFromInt(5000),
		DependentExemption: decimal.NewFromInt(2000),
		StandardDeduction:  decimal.NewFromInt(10000),
		Brackets: []domain.TaxBracket{
			{Upper: decimal.NewFromInt(20000), Rate: decimal.NewFromFloat(0.10)},
			{Upper: decimal.NewFromInt(60000), Rate: decimal.NewFromFloat(0.20)},
			{Upper: decimal.RequireFromString("999999999999"), Rate: decimal.NewFromFloat(0.30)},
		},
	}
}

func TestCalculateContributionsZeroCostYieldsZero(t *testing.T) {
	suggested, match := CalculateContributions(testAccountType(), decimal.Zero, decimal.Zero)
	assert.True(t, suggested.IsZero())
	assert.True(t, match.IsZero())
}

func TestCalculateContributionsCapsAtContributionMaximum(t *testing.T) {
	acct := testAccountType()
	suggested, _ := CalculateContributions(acct, decimal.NewFromInt(100000), decimal.Zero)
	assert.True(t, suggested.LessThanOrEqual(acct.ContributionMaximum))
}

func TestCalculateContributionsSubtractsRolloverFromNeed(t *testing.T) {
	acct := testAccountType()
	withoutRollover, _ := CalculateContributions(acct, decimal.NewFromInt(1000), decimal.Zero)
	withRollover, _ := CalculateContributions(acct, decimal.NewFromInt(1000), decimal.NewFromInt(400))
	assert.True(t, withRollover.LessThan(withoutRollover))
}

func TestCalculateContributionsEmployerMatchNeverExceedsCap(t *testing.T) {
	acct := testAccountType()
	_, match := CalculateContributions(acct, decimal.NewFromInt(100000), decimal.Zero)
	assert.True(t, match.LessThanOrEqual(acct.EmployerMaxMatchAmount))
}

func TestCalculateFederalIncomeTaxWalksBracketsLowToHigh(t *testing.T) {
	schedule := testSchedule()
	// taxable = 50000 - 5000 - 0 - 10000 = 35000
	// bracket1: 20000 * .10 = 2000; bracket2: 15000 * .20 = 3000; total 5000
	tax := CalculateFederalIncomeTax(decimal.NewFromInt(50000), schedule, 0)
	assert.Equal(t, "5000.00", tax.StringFixed(2))
}

func TestCalculateFederalIncomeTaxAppliesDependentExemptions(t *testing.T) {
	schedule := testSchedule()
	withDependents := CalculateFederalIncomeTax(decimal.NewFromInt(50000), schedule, 2)
	withoutDependents := CalculateFederalIncomeTax(decimal.NewFromInt(50000), schedule, 0)
	assert.True(t, withDependents.LessThan(withoutDependents))
}

func TestCalculateFederalIncomeTaxIsMonotonicInIncome(t *testing.T) {
	schedule := testSchedule()
	lower := CalculateFederalIncomeTax(decimal.NewFromInt(30000), schedule, 0)
	higher := CalculateFederalIncomeTax(decimal.NewFromInt(90000), schedule, 0)
	assert.True(t, lower.LessThan(higher))
}

func TestCalculateFederalIncomeTaxNegativeTaxableIncomeIsAProportionalRefund(t *testing.T) {
	schedule := testSchedule()
	// income well under exemptions + deduction makes taxable negative
	tax := CalculateFederalIncomeTax(decimal.NewFromInt(5000), schedule, 0)
	assert.True(t, tax.LessThan(decimal.Zero))
}

func TestCalculateFicaPayrollTaxesCapsSocialSecurityAtWageLimit(t *testing.T) {
	fica := domain.FICAConfig{
		SocialSecurityLimit: decimal.NewFromInt(160000),
		SocialSecurityRate:  decimal.NewFromFloat(0.062),
		MedicareRate:        decimal.NewFromFloat(0.0145),
	}
	tax := CalculateFicaPayrollTaxes(decimal.NewFromInt(200000), fica)
	// ss = 160000 * .062 = 9920; medicare = 200000 * .0145 = 2900; total 12820
	assert.Equal(t, "12820.00", tax.StringFixed(2))
}

func TestCalculateFSAEDefaultsAccountTypeAndFilingStatus(t *testing.T) {
	cfg := &domain.Configuration{
		AccountTypes:      map[string]domain.AccountType{"hsa": testAccountType()},
		AccountTypesOrder: []string{"hsa"},
		FilingStatuses:    map[string]domain.FilingStatusSchedule{"single": testSchedule()},
		FICA: domain.FICAConfig{
			SocialSecurityLimit: decimal.NewFromInt(160000),
			SocialSecurityRate:  decimal.NewFromFloat(0.062),
			MedicareRate:        decimal.NewFromFloat(0.0145),
		},
	}

	result, err := CalculateFSAE(cfg, domain.FSAERequest{
		PrimaryAnnualIncome: decimal.NewFromInt(75000),
		Costs:               []decimal.Decimal{decimal.NewFromInt(3000)},
	})

	assert.NoError(t, err)
	assert.Equal(t, "hsa", result.AccountTypeID)
	assert.True(t, result.SuggestedContribution.GreaterThan(decimal.Zero))
	assert.True(t, result.TotalTaxSavings.GreaterThan(decimal.Zero))
}

func TestCalculateFSAEUnknownAccountTypeErrors(t *testing.T) {
	cfg := &domain.Configuration{
		AccountTypes:   map[string]domain.AccountType{},
		FilingStatuses: map[string]domain.FilingStatusSchedule{"single": testSchedule()},
	}

	_, err := CalculateFSAE(cfg, domain.FSAERequest{AccountTypeID: "fsa"})
	assert.Error(t, err)
}

// real2017SingleSchedule and real2017MarriedFilingJointSchedule return the
// published 2017 IRS single and married-filing-joint schedules, which is
// what spec.md §8's S1/S2 worked numbers are computed against.
func real2017SingleSchedule() domain.FilingStatusSchedule {
	return domain.FilingStatusSchedule{
		Description:        domain.LocalizedText{Plain: "Single"},
		PersonalExemption:  decimal.NewFromInt(4050),
		DependentExemption: decimal.NewFromInt(4050),
		StandardDeduction:  decimal.NewFromInt(6350),
		Brackets: []domain.TaxBracket{
			{Upper: decimal.NewFromInt(9325), Rate: decimal.NewFromFloat(0.10)},
			{Upper: decimal.NewFromInt(37950), Rate: decimal.NewFromFloat(0.15)},
			{Upper: decimal.NewFromInt(91900), Rate: decimal.NewFromFloat(0.25)},
			{Upper: decimal.NewFromInt(191650), Rate: decimal.NewFromFloat(0.28)},
			{Upper: decimal.NewFromInt(416700), Rate: decimal.NewFromFloat(0.33)},
			{Upper: decimal.NewFromInt(418400), Rate: decimal.NewFromFloat(0.35)},
			{Upper: decimal.RequireFromString("999999999999"), Rate: decimal.NewFromFloat(0.396)},
		},
	}
}

func real2017MarriedFilingJointSchedule() domain.FilingStatusSchedule {
	return domain.FilingStatusSchedule{
		Description:        domain.LocalizedText{Plain: "Married Filing Jointly"},
		PersonalExemption:  decimal.NewFromInt(8100),
		DependentExemption: decimal.NewFromInt(4050),
		StandardDeduction:  decimal.NewFromInt(12700),
		Brackets: []domain.TaxBracket{
			{Upper: decimal.NewFromInt(18650), Rate: decimal.NewFromFloat(0.10)},
			{Upper: decimal.NewFromInt(75900), Rate: decimal.NewFromFloat(0.15)},
			{Upper: decimal.NewFromInt(153100), Rate: decimal.NewFromFloat(0.25)},
			{Upper: decimal.NewFromInt(233350), Rate: decimal.NewFromFloat(0.28)},
			{Upper: decimal.NewFromInt(416700), Rate: decimal.NewFromFloat(0.33)},
			{Upper: decimal.NewFromInt(470700), Rate: decimal.NewFromFloat(0.35)},
			{Upper: decimal.RequireFromString("999999999999"), Rate: decimal.NewFromFloat(0.396)},
		},
	}
}

func real2017FICA() domain.FICAConfig {
	return domain.FICAConfig{
		SocialSecurityLimit: decimal.NewFromInt(127200),
		SocialSecurityRate:  decimal.NewFromFloat(0.062),
		MedicareRate:        decimal.NewFromFloat(0.0145),
	}
}

// TestCalculateFSAEMatchesScenarioS1 reproduces spec.md §8 S1: FSA, single
// filer, low usage.
func TestCalculateFSAEMatchesScenarioS1(t *testing.T) {
	cfg := &domain.Configuration{
		AccountTypes: map[string]domain.AccountType{"fsa": {
			Description:         domain.LocalizedText{Plain: "Flexible Spending Account"},
			ContributionMinimum: decimal.Zero,
			ContributionMaximum: decimal.NewFromInt(2600),
		}},
		AccountTypesOrder: []string{"fsa"},
		FilingStatuses:    map[string]domain.FilingStatusSchedule{"single": real2017SingleSchedule()},
		FICA:              real2017FICA(),
	}

	result, err := CalculateFSAE(cfg, domain.FSAERequest{
		AccountTypeID:       "fsa",
		FilingStatusID:      "single",
		PrimaryAnnualIncome: decimal.NewFromInt(60000),
		Costs:               []decimal.Decimal{decimal.NewFromInt(1000)},
	})

	assert.NoError(t, err)
	assert.Equal(t, "1000.00", result.SuggestedContribution.StringFixed(2))
	assert.Equal(t, "0.00", result.EmployerMatchingContribution.StringFixed(2))
	assert.Equal(t, "250.00", result.FederalIncomeTaxSavings.StringFixed(2))
	assert.Equal(t, "76.50", result.FicaTaxSavings.StringFixed(2))
	assert.Equal(t, "326.50", result.TotalTaxSavings.StringFixed(2))
	assert.Equal(t, "326.50", result.TotalMatchAndTaxSavings.StringFixed(2))
}

// TestCalculateFSAEMatchesScenarioS2 reproduces spec.md §8 S2: FSAE,
// married filing joint, high income.
func TestCalculateFSAEMatchesScenarioS2(t *testing.T) {
	cfg := &domain.Configuration{
		AccountTypes: map[string]domain.AccountType{"hsa": {
			Description:         domain.LocalizedText{Plain: "Health Savings Account"},
			ContributionMinimum: decimal.Zero,
			ContributionMaximum: decimal.NewFromInt(6750),
		}},
		AccountTypesOrder: []string{"hsa"},
		FilingStatuses:    map[string]domain.FilingStatusSchedule{marriedFilingJoint: real2017MarriedFilingJointSchedule()},
		FICA: domain.FICAConfig{
			// This scenario's worked FICA savings only holds when both the
			// pre- and post-contribution primary income stay under the SS
			// wage limit ("since below SS limit" per spec.md §8 S2).
			SocialSecurityLimit: decimal.NewFromInt(250000),
			SocialSecurityRate:  decimal.NewFromFloat(0.062),
			MedicareRate:        decimal.NewFromFloat(0.0145),
		},
	}

	result, err := CalculateFSAE(cfg, domain.FSAERequest{
		AccountTypeID:       "hsa",
		FilingStatusID:      marriedFilingJoint,
		PrimaryAnnualIncome: decimal.NewFromInt(200000),
		SpouseAnnualIncome:  decimal.Zero,
		Costs:               []decimal.Decimal{decimal.NewFromInt(2600)},
	})

	assert.NoError(t, err)
	assert.Equal(t, "2600.00", result.SuggestedContribution.StringFixed(2))
	assert.Equal(t, "728.00", result.FederalIncomeTaxSavings.StringFixed(2))
	assert.Equal(t, "198.90", result.FicaTaxSavings.StringFixed(2))
}

func TestCalculateFSAEIncludesSpouseIncomeOnlyWhenMarriedFilingJoint(t *testing.T) {
	cfg := &domain.Configuration{
		AccountTypes:      map[string]domain.AccountType{"hsa": testAccountType()},
		AccountTypesOrder: []string{"hsa"},
		FilingStatuses: map[string]domain.FilingStatusSchedule{
			"single":              testSchedule(),
			"marriedFilingJoint":  testSchedule(),
		},
		FICA: domain.FICAConfig{
			SocialSecurityLimit: decimal.NewFromInt(160000),
			SocialSecurityRate:  decimal.NewFromFloat(0.062),
			MedicareRate:        decimal.NewFromFloat(0.0145),
		},
	}

	single, err := CalculateFSAE(cfg, domain.FSAERequest{
		FilingStatusID:      "single",
		PrimaryAnnualIncome: decimal.NewFromInt(50000),
		SpouseAnnualIncome:  decimal.NewFromInt(50000),
		Costs:               []decimal.Decimal{decimal.NewFromInt(1000)},
	})
	assert.NoError(t, err)

	joint, err := CalculateFSAE(cfg, domain.FSAERequest{
		FilingStatusID:      "marriedFilingJoint",
		PrimaryAnnualIncome: decimal.NewFromInt(50000),
		SpouseAnnualIncome:  decimal.NewFromInt(50000),
		Costs:               []decimal.Decimal{decimal.NewFromInt(1000)},
	})
	assert.NoError(t, err)

	// joint household income (100000) owes more federal tax before the
	// contribution than single (which only counts the primary's 50000),
	// so its tax savings differ too.
	assert.NotEqual(t, single.FederalIncomeTaxSavings.String(), joint.FederalIncomeTaxSavings.String())
}
