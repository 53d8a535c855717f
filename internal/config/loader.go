// Package config loads and validates the configuration value both engines
// consume: Load (and its file-reading wrapper LoadFromFile) parse YAML or
// JSON into domain.Configuration, then run the Validator (C1) described by
// spec.md §4.1 before returning.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wattjam/mpce/internal/domain"
	"gopkg.in/yaml.v3"
)

// Loader reads a configuration file and validates it.
type Loader struct{}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFromFile reads filename, decodes it with Decode (YAML syntax, which
// also accepts JSON, whatever the extension) and returns a validated
// configuration.
func (l *Loader) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	cfg, err := Decode(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Decode unmarshals data as YAML regardless of ext. JSON is syntactically
// a subset of YAML's flow style, so a .json file decodes through the same
// path and exercises the same UnmarshalYAML methods (domain.Service,
// domain.AmountTable, domain.PlanPremiums, domain.CoverageSpec, the map
// form of domain.LocalizedText) that a .yaml file does — those types have
// no separate encoding/json support, so routing JSON through encoding/json
// directly would silently drop every custom-shaped field. ext is kept as
// a parameter so callers and error messages still name the source format.
func Decode(data []byte, ext string) (*domain.Configuration, error) {
	var cfg domain.Configuration
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if strings.EqualFold(ext, ".json") {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}
