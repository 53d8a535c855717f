package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RuleKind discriminates a CoverageRule the way spec.md §9 asks for: a
// tagged variant rather than an ad-hoc set of optional fields interpreted
// at evaluation time.
type RuleKind int

const (
	ChargeBearingRule RuleKind = iota
	NotCoveredRule
)

// CoverageRule is the leaf of the data model (spec.md §3): either
// "not covered", or some combination of copay/coinsurance/deductible/
// caps. A rule with CombinedLimitID set may not appear inside a multi-rule
// coverage sequence (validated by C1).
type CoverageRule struct {
	// NotCovered is a pointer, not a bool, because spec.md §4.1 requires
	// distinguishing "absent" from "explicitly false" — a declared
	// notCovered: false is a configuration error, not a no-op.
	NotCovered *bool `yaml:"notCovered,omitempty" json:"notCovered,omitempty"`

	Copay                   *decimal.Decimal `yaml:"copay,omitempty" json:"copay,omitempty"`
	Coinsurance             *decimal.Decimal `yaml:"coinsurance,omitempty" json:"coinsurance,omitempty"`
	CoinsuranceMinDollar    *decimal.Decimal `yaml:"coinsuranceMinDollar,omitempty" json:"coinsuranceMinDollar,omitempty"`
	CoinsuranceMaxDollar    *decimal.Decimal `yaml:"coinsuranceMaxDollar,omitempty" json:"coinsuranceMaxDollar,omitempty"`
	CoinsuranceNotTowardsOOPMax bool         `yaml:"coinsuranceNotTowardsOOPMax,omitempty" json:"coinsuranceNotTowardsOOPMax,omitempty"`
	CopayNotTowardsOOPMax   bool             `yaml:"copayNotTowardsOOPMax,omitempty" json:"copayNotTowardsOOPMax,omitempty"`

	DeductibleRaw string           `yaml:"deductible,omitempty" json:"deductible,omitempty"`
	Deductible    DeductibleTiming `yaml:"-" json:"-"`

	CoveredCount   *int             `yaml:"coveredCount,omitempty" json:"coveredCount,omitempty"`
	DollarLimit    *int             `yaml:"dollarLimit,omitempty" json:"dollarLimit,omitempty"`
	SingleUseCostMax *decimal.Decimal `yaml:"singleUseCostMax,omitempty" json:"singleUseCostMax,omitempty"`

	CombinedLimitID string `yaml:"combinedLimitId,omitempty" json:"combinedLimitId,omitempty"`

	// EligibleForFund is derived by the Config Marker (C2) from
	// plan.categoriesFundAppliesTo unless the source explicitly set it.
	EligibleForFundRaw *bool `yaml:"eligibleForFund,omitempty" json:"eligibleForFund,omitempty"`
	EligibleForFund    bool  `yaml:"-" json:"-"`
}

func (r *CoverageRule) Kind() RuleKind {
	if r.NotCovered != nil && *r.NotCovered {
		return NotCoveredRule
	}
	return ChargeBearingRule
}

// CoverageSpec is one coverage[planId] value as a rule sequence: the
// source may write a single rule or a sequence of rules for one plan, and
// UnmarshalYAML wraps a single rule into a one-element Rules slice.
type CoverageSpec struct {
	Rules []CoverageRule
}

func (c *CoverageSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var seq []CoverageRule
		if err := node.Decode(&seq); err != nil {
			return fmt.Errorf("coverage rule sequence: %w", err)
		}
		c.Rules = seq
		return nil
	}
	var single CoverageRule
	if err := node.Decode(&single); err != nil {
		return fmt.Errorf("coverage rule: %w", err)
	}
	c.Rules = []CoverageRule{single}
	return nil
}

// Service is one billable medical service (a CPT-like line item).
type Service struct {
	Description LocalizedText `yaml:"description" json:"description"`

	// CategoryID is derived by the Config Marker (C2) from the category
	// that lists this service in its orderedContents.
	CategoryID string `yaml:"-" json:"categoryId"`

	// Costs holds every costs/costs_* object keyed by its object id, each
	// itself a regionId -> positive dollar amount map.
	Costs map[string]map[string]decimal.Decimal `yaml:"-" json:"-"`

	CostsForDisplay map[string]decimal.Decimal `yaml:"costsForDisplay,omitempty" json:"costsForDisplay,omitempty"`

	// Coverage maps planId to that plan's (possibly multi-rule) coverage
	// of this service. Service.UnmarshalYAML decodes it along with the
	// other fixed fields; the "costs"/"costs_*" sibling keys go to Costs.
	Coverage map[string]CoverageSpec `yaml:"coverage" json:"coverage"`
}

// UnmarshalYAML decodes the fixed fields normally and additionally
// harvests every sibling key named "costs" or "costs_*" into s.Costs,
// since a service carries one such cost object per costsObjectId any
// plan requires (spec.md §3, §4.1).
func (s *Service) UnmarshalYAML(node *yaml.Node) error {
	type rawService struct {
		Description     LocalizedText               `yaml:"description"`
		CostsForDisplay map[string]decimal.Decimal   `yaml:"costsForDisplay,omitempty"`
		Coverage        map[string]CoverageSpec      `yaml:"coverage"`
	}
	var r rawService
	if err := node.Decode(&r); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	s.Description = r.Description
	s.CostsForDisplay = r.CostsForDisplay
	s.Coverage = r.Coverage
	s.Costs = map[string]map[string]decimal.Decimal{}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("service: expected mapping, got %v", node.Kind)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if key == "costs" || strings.HasPrefix(key, "costs_") {
			var byRegion map[string]decimal.Decimal
			if err := node.Content[i+1].Decode(&byRegion); err != nil {
				return fmt.Errorf("service %s: %w", key, err)
			}
			s.Costs[key] = byRegion
		}
	}
	return nil
}

// IsAdditionalServicesEvent reports whether this service participates in
// the spec.md §4.4 additionalServices(count,cost) swap canonicalization.
func (s *Service) IsAdditionalServicesEvent(serviceID string) bool {
	return strings.HasPrefix(serviceID, "additionalServices")
}

// Category groups services that share deductible/OOP default-group
// assignment and display ordering.
type Category struct {
	Description     LocalizedText `yaml:"description" json:"description"`
	OrderedContents []string     `yaml:"orderedContents" json:"orderedContents"`
}

// HealthStatus is a presentation helper: a named preset of service
// utilization counts (e.g. "healthy adult", "managed diabetes").
type HealthStatus struct {
	Description LocalizedText     `yaml:"description" json:"description"`
	Contents    map[string]int    `yaml:"contents" json:"contents"`
}
