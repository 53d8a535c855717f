package domain

import "github.com/shopspring/decimal"

// Region groups the plans offered in one geographic rating area.
type Region struct {
	Description LocalizedText `yaml:"description" json:"description"`
	Plans       []string      `yaml:"plans" json:"plans"`
}

// Status represents an employee's employment status (e.g. "fullTime").
type Status struct {
	Description LocalizedText `yaml:"description" json:"description"`
}

// CoverageLevel is a household-composition tier (e.g. "employeeOnly",
// "employeeAndSpouse", "employeeAndFamily") used to key premiums, fund
// amounts, and limit amountMaps.
type CoverageLevel struct {
	Description    LocalizedText `yaml:"description" json:"description"`
	Spouse         bool          `yaml:"spouse" json:"spouse"`
	MaxNumChildren float64       `yaml:"maxNumChildren" json:"maxNumChildren"` // may be +Inf
}

// Plan is one candidate medical plan's coverage configuration.
type Plan struct {
	Description LocalizedText `yaml:"description" json:"description"`

	PersonDeductibles         LimitGroupSet `yaml:"personDeductibles,omitempty" json:"personDeductibles,omitempty"`
	FamilyDeductibles         LimitGroupSet `yaml:"familyDeductibles,omitempty" json:"familyDeductibles,omitempty"`
	PersonOutOfPocketMaximums LimitGroupSet `yaml:"personOutOfPocketMaximums,omitempty" json:"personOutOfPocketMaximums,omitempty"`
	FamilyOutOfPocketMaximums LimitGroupSet `yaml:"familyOutOfPocketMaximums,omitempty" json:"familyOutOfPocketMaximums,omitempty"`

	FundAmountMap          *AmountTable    `yaml:"fundAmountMap,omitempty" json:"fundAmountMap,omitempty"`
	CategoriesFundAppliesTo map[string]bool `yaml:"categoriesFundAppliesTo,omitempty" json:"categoriesFundAppliesTo,omitempty"`
	FundAllowsContributions bool            `yaml:"fundAllowsContributions,omitempty" json:"fundAllowsContributions,omitempty"`

	CostsObjectID string `yaml:"costsObjectId,omitempty" json:"costsObjectId,omitempty"`
}

// EffectiveCostsObjectID returns the plan's costsObjectId, defaulting to
// "costs" per spec.md §3.
func (p *Plan) EffectiveCostsObjectID() string {
	if p.CostsObjectID == "" {
		return "costs"
	}
	return p.CostsObjectID
}

// CombinedLimit caps total plan reimbursement across a tied set of
// services, independent of deductibles and OOP maxima.
type CombinedLimit struct {
	Description          LocalizedText    `yaml:"description" json:"description"`
	PersonReimburseLimit *decimal.Decimal `yaml:"personReimburseLimit,omitempty" json:"personReimburseLimit,omitempty"`
	FamilyReimburseLimit *decimal.Decimal `yaml:"familyReimburseLimit,omitempty" json:"familyReimburseLimit,omitempty"`
}
