package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func decodePremiums(t *testing.T, src string) PlanPremiums {
	t.Helper()
	var node yaml.Node
	assert.NoError(t, yaml.Unmarshal([]byte(src), &node))
	var premiums PlanPremiums
	assert.NoError(t, node.Content[0].Decode(&premiums))
	return premiums
}

func TestPlanPremiumsResolvesFlatLevelStatusShape(t *testing.T) {
	premiums := decodePremiums(t, `
employeeOnly:
  fullTime: 100
`)

	amt, ok := premiums.Resolve("northeast", "employeeOnly", "fullTime")
	assert.True(t, ok)
	assert.Equal(t, "100", amt.String())

	_, ok = premiums.Resolve("northeast", "employeeAndFamily", "fullTime")
	assert.False(t, ok)
}

// TestPlanPremiumsResolvesRegionLevelStatusShape locks in the
// region->level->status->premium ("byRegion") shape: a plan whose premium
// varies by region carries one more mapping level than the flat shape, and
// UnmarshalYAML must tell the two apart correctly.
func TestPlanPremiumsResolvesRegionLevelStatusShape(t *testing.T) {
	premiums := decodePremiums(t, `
northeast:
  employeeOnly:
    fullTime: 100
  employeeAndFamily:
    fullTime: 250
southwest:
  employeeOnly:
    fullTime: 80
`)

	amt, ok := premiums.Resolve("northeast", "employeeOnly", "fullTime")
	assert.True(t, ok)
	assert.Equal(t, "100", amt.String())

	amt, ok = premiums.Resolve("northeast", "employeeAndFamily", "fullTime")
	assert.True(t, ok)
	assert.Equal(t, "250", amt.String())

	amt, ok = premiums.Resolve("southwest", "employeeOnly", "fullTime")
	assert.True(t, ok)
	assert.Equal(t, "80", amt.String())

	// southwest never declared employeeAndFamily, and a region not in the
	// table at all must not fall back to the flat reading.
	_, ok = premiums.Resolve("southwest", "employeeAndFamily", "fullTime")
	assert.False(t, ok)
	_, ok = premiums.Resolve("midwest", "employeeOnly", "fullTime")
	assert.False(t, ok)
}
