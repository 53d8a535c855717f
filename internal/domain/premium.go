package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PlanPremiums is one plan's entry in coverageLevelCostsPerPlan: either
// coverageLevelId -> statusId -> premium, or regionId -> coverageLevelId ->
// statusId -> premium when the plan's premium varies by region. A null
// leaf means "not applicable" (spec.md §3) and Resolve reports it as
// (zero, false) exactly like a missing entry; callers never need to
// distinguish the two.
type PlanPremiums struct {
	byRegion map[string]map[string]map[string]*decimal.Decimal // region -> level -> status -> premium
	flat     map[string]map[string]*decimal.Decimal            // level -> status -> premium
}

func (p *PlanPremiums) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("coverageLevelCostsPerPlan entry: expected mapping, got %v", node.Kind)
	}
	// Decide depth by inspecting one leaf: level->status->premium (flat) has
	// one more mapping level below the top key (status->premium); region->
	// level->status->premium (byRegion) has two (level->status->premium).
	if len(node.Content) >= 2 {
		depth := mappingDepth(node.Content[1])
		if depth >= 2 {
			var nested map[string]map[string]map[string]*decimal.Decimal
			if err := node.Decode(&nested); err != nil {
				return fmt.Errorf("coverageLevelCostsPerPlan (by region): %w", err)
			}
			p.byRegion = nested
			return nil
		}
	}
	var flat map[string]map[string]*decimal.Decimal
	if err := node.Decode(&flat); err != nil {
		return fmt.Errorf("coverageLevelCostsPerPlan (flat): %w", err)
	}
	p.flat = flat
	return nil
}

// mappingDepth returns how many nested mapping levels a YAML node has
// before reaching a scalar/null leaf.
func mappingDepth(node *yaml.Node) int {
	depth := 0
	for node != nil && node.Kind == yaml.MappingNode && len(node.Content) >= 2 {
		depth++
		node = node.Content[1]
	}
	return depth
}

// Resolve consults (region?, coverage-level, status) per spec.md §4.5.
func (p *PlanPremiums) Resolve(regionID, levelID, statusID string) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	if p.byRegion != nil {
		if byLevel, ok := p.byRegion[regionID]; ok {
			if byStatus, ok := byLevel[levelID]; ok {
				if amt, ok := byStatus[statusID]; ok && amt != nil {
					return *amt, true
				}
			}
		}
		return decimal.Zero, false
	}
	if byStatus, ok := p.flat[levelID]; ok {
		if amt, ok := byStatus[statusID]; ok && amt != nil {
			return *amt, true
		}
	}
	return decimal.Zero, false
}
