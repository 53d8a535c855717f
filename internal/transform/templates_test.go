package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wattjam/mpce/internal/domain"
)

func TestNewTemplateRegistryPrePopulatesBuiltIns(t *testing.T) {
	r := NewTemplateRegistry()
	names := r.Names()
	assert.Contains(t, names, "low_utilization")
	assert.Contains(t, names, "typical_family")
	assert.Contains(t, names, "chronic_condition")
	assert.Contains(t, names, "maternity")
	assert.Contains(t, names, "high_drug_utilization")
}

func TestRegistryGetReturnsFreshCopyPerCall(t *testing.T) {
	r := NewTemplateRegistry()
	counts, ok := r.Get("typical_family")
	assert.True(t, ok)
	assert.NotEmpty(t, counts)

	counts["primaryCarePhysician"] = 999

	again, _ := r.Get("typical_family")
	assert.NotEqual(t, 999, again["primaryCarePhysician"])
}

func TestRegistryGetUnknownNameReturnsFalse(t *testing.T) {
	r := NewTemplateRegistry()
	_, ok := r.Get("does-not-exist")
	assert.False(t, ok)
}

func TestRegistryRegisterOverridesByName(t *testing.T) {
	r := NewTemplateRegistry()
	r.Register("low_utilization", func() domain.ServiceCounts {
		return domain.ServiceCounts{"customService": 7}
	})

	counts, ok := r.Get("low_utilization")
	assert.True(t, ok)
	assert.Equal(t, 7, counts["customService"])
}
