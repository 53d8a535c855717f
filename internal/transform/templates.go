// Package transform holds named utilization presets: canned household
// service-count maps a caller can start from instead of hand-building
// one (spec.md §2's C9).
package transform

import "github.com/wattjam/mpce/internal/domain"

// UtilizationTemplate produces a service-count map for one household
// member under a named usage pattern.
type UtilizationTemplate func() domain.ServiceCounts

// TemplateRegistry looks up named utilization templates.
type TemplateRegistry struct {
	templates map[string]UtilizationTemplate
}

// NewTemplateRegistry builds a registry pre-populated with the built-in
// presets.
func NewTemplateRegistry() *TemplateRegistry {
	r := &TemplateRegistry{templates: map[string]UtilizationTemplate{}}
	for name, tmpl := range CreateBuiltInTemplates() {
		r.Register(name, tmpl)
	}
	return r
}

// Register adds or replaces a named template.
func (r *TemplateRegistry) Register(name string, tmpl UtilizationTemplate) {
	r.templates[name] = tmpl
}

// Get returns the named template's service counts, or false if the name
// is not registered.
func (r *TemplateRegistry) Get(name string) (domain.ServiceCounts, bool) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, false
	}
	return tmpl(), true
}

// Names lists every registered template name.
func (r *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// CreateBuiltInTemplates returns the built-in named presets. Service ids
// are illustrative; callers wire a registry against their own
// configuration's actual service ids via Register.
func CreateBuiltInTemplates() map[string]UtilizationTemplate {
	return map[string]UtilizationTemplate{
		"low_utilization": func() domain.ServiceCounts {
			return domain.ServiceCounts{
				"routinePhysical18Plus": 1,
			}
		},
		"typical_family": func() domain.ServiceCounts {
			return domain.ServiceCounts{
				"routinePhysical18Plus": 1,
				"primaryCarePhysician":  3,
				"genericDrug":           6,
			}
		},
		"chronic_condition": func() domain.ServiceCounts {
			return domain.ServiceCounts{
				"routinePhysical18Plus": 1,
				"primaryCarePhysician":  6,
				"specialistVisit":       4,
				"genericDrug":           12,
				"brandDrug":             12,
			}
		},
		"maternity": func() domain.ServiceCounts {
			return domain.ServiceCounts{
				"primaryCarePhysician": 10,
				"specialistVisit":      6,
				"inpatientHospital":    1,
			}
		},
		"high_drug_utilization": func() domain.ServiceCounts {
			return domain.ServiceCounts{
				"routinePhysical18Plus": 1,
				"brandDrug":             24,
				"specialtyDrug":         12,
			}
		},
	}
}
