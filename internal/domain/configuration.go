package domain

// Configuration is the complete, validated input to both engines: the
// region/plan/coverage catalog MPCE evaluates against, plus the account
// types and tax schedule FSAE evaluates against.
type Configuration struct {
	Regions      map[string]Region `yaml:"regions" json:"regions"`
	RegionsOrder []string          `yaml:"regionsOrder" json:"regionsOrder"`

	Plans      map[string]Plan `yaml:"plans" json:"plans"`
	PlansOrder []string        `yaml:"plansOrder" json:"plansOrder"`

	Statuses      map[string]Status `yaml:"statuses" json:"statuses"`
	StatusesOrder []string          `yaml:"statusesOrder" json:"statusesOrder"`

	CoverageLevels      map[string]CoverageLevel `yaml:"coverageLevels" json:"coverageLevels"`
	CoverageLevelsOrder []string                 `yaml:"coverageLevelsOrder" json:"coverageLevelsOrder"`

	Categories      map[string]Category `yaml:"categories" json:"categories"`
	CategoriesOrder []string            `yaml:"categoriesOrder" json:"categoriesOrder"`

	Services      map[string]Service `yaml:"services" json:"services"`
	ServicesOrder []string           `yaml:"servicesOrder" json:"servicesOrder"`

	CombinedLimits      map[string]CombinedLimit `yaml:"combinedLimits,omitempty" json:"combinedLimits,omitempty"`
	CombinedLimitsOrder []string                 `yaml:"combinedLimitsOrder,omitempty" json:"combinedLimitsOrder,omitempty"`

	HealthStatuses      map[string]HealthStatus `yaml:"healthStatuses,omitempty" json:"healthStatuses,omitempty"`
	HealthStatusesOrder []string                `yaml:"healthStatusesOrder,omitempty" json:"healthStatusesOrder,omitempty"`

	CoverageLevelCostsPerPlan map[string]PlanPremiums `yaml:"coverageLevelCostsPerPlan" json:"coverageLevelCostsPerPlan"`

	AccountTypes      map[string]AccountType `yaml:"accountTypes,omitempty" json:"accountTypes,omitempty"`
	AccountTypesOrder []string               `yaml:"accountTypesOrder,omitempty" json:"accountTypesOrder,omitempty"`

	FilingStatuses      map[string]FilingStatusSchedule `yaml:"filingStatuses,omitempty" json:"filingStatuses,omitempty"`
	FilingStatusesOrder []string                        `yaml:"filingStatusesOrder,omitempty" json:"filingStatusesOrder,omitempty"`

	FICA FICAConfig `yaml:"fica,omitempty" json:"fica,omitempty"`
}
