package domain

import "github.com/shopspring/decimal"

// AccountType is one FSA/HSA-style account the FSAE (C7) can size a
// contribution for.
type AccountType struct {
	Description              LocalizedText   `yaml:"description" json:"description"`
	ContributionMinimum      decimal.Decimal `yaml:"contributionMinimum" json:"contributionMinimum"`
	ContributionMaximum      decimal.Decimal `yaml:"contributionMaximum" json:"contributionMaximum"`
	EmployerMatchRate        decimal.Decimal `yaml:"employerMatchRate" json:"employerMatchRate"`
	EmployerMaxMatchAmount   decimal.Decimal `yaml:"employerMaxMatchAmount" json:"employerMaxMatchAmount"`
}

// TaxBracket is one marginal bracket of a filing-status schedule.
type TaxBracket struct {
	Upper decimal.Decimal `yaml:"upper" json:"upper"` // finite; income above the last Upper is taxed at the last rate
	Rate  decimal.Decimal `yaml:"rate" json:"rate"`
}

// FilingStatusSchedule is one filing status's exemptions, standard
// deduction, and bracket schedule (spec.md §4.7).
type FilingStatusSchedule struct {
	Description           LocalizedText    `yaml:"description" json:"description"`
	PersonalExemption     decimal.Decimal  `yaml:"personalExemption" json:"personalExemption"`
	DependentExemption    decimal.Decimal  `yaml:"dependentExemption" json:"dependentExemption"`
	StandardDeduction     decimal.Decimal  `yaml:"standardDeduction" json:"standardDeduction"`
	Brackets              []TaxBracket     `yaml:"brackets" json:"brackets"`
}

// FICAConfig is the payroll tax schedule (spec.md §4.7).
type FICAConfig struct {
	SocialSecurityLimit decimal.Decimal `yaml:"socialSecurityLimit" json:"socialSecurityLimit"`
	SocialSecurityRate  decimal.Decimal `yaml:"socialSecurityRate" json:"socialSecurityRate"`
	MedicareRate        decimal.Decimal `yaml:"medicareRate" json:"medicareRate"`
}

// FSAERequest is the input to FSAE's Calculate operation (spec.md §4.7,
// §6). AccountTypeID and FilingStatusID may be empty strings, in which
// case the engine defaults to the first configured account type and to
// "single" respectively.
type FSAERequest struct {
	AccountTypeID      string
	FilingStatusID     string
	NumberOfDependents int
	PrimaryAnnualIncome decimal.Decimal
	SpouseAnnualIncome  decimal.Decimal
	RolloverAmount      decimal.Decimal
	Costs               []decimal.Decimal
}

// FSAEResult is FSAE's full response (spec.md §6).
type FSAEResult struct {
	AccountTypeID              string          `json:"accountTypeId"`
	AccountTypeDescription     string          `json:"accountTypeDescription"`
	TotalCosts                 decimal.Decimal `json:"totalCosts"`
	SuggestedContribution      decimal.Decimal `json:"suggestedContribution"`
	EmployerMatchingContribution decimal.Decimal `json:"employerMatchingContribution"`
	FederalIncomeTaxSavings    decimal.Decimal `json:"federalIncomeTaxSavings"`
	FicaTaxSavings             decimal.Decimal `json:"ficaTaxSavings"`
	TotalTaxSavings            decimal.Decimal `json:"totalTaxSavings"`
	TotalMatchAndTaxSavings    decimal.Decimal `json:"totalMatchAndTaxSavings"`
	ElapsedMsec                float64         `json:"elapsedMsec"`
}
