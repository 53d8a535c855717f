// Package domain holds the plain, serializable data model described by the
// configuration schema: regions, plans, coverage rules, and the household
// and tax inputs the calculation engines consume. Nothing in this package
// performs a calculation; it is the shape callers populate (by hand or by
// unmarshaling YAML/JSON) and the calculation package reads.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LocalizedText is either a single display string or a language-code keyed
// map of translations. The zero value's String() returns "".
type LocalizedText struct {
	Plain         string
	ByLanguage    map[string]string
	isLocalizedMap bool
}

func (l *LocalizedText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Plain = node.Value
		l.isLocalizedMap = false
		return nil
	}
	if node.Kind == yaml.MappingNode {
		m := map[string]string{}
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("description: %w", err)
		}
		l.ByLanguage = m
		l.isLocalizedMap = true
		return nil
	}
	return fmt.Errorf("description: expected scalar or mapping, got %v", node.Kind)
}

// String returns the plain description, or the "en" entry (falling back to
// any entry) when the description is language-keyed.
func (l LocalizedText) String() string {
	if !l.isLocalizedMap {
		return l.Plain
	}
	if s, ok := l.ByLanguage["en"]; ok {
		return s
	}
	for _, s := range l.ByLanguage {
		return s
	}
	return ""
}

// DeductibleTiming is the normalized four-to-three collapse of the source
// "deductible" literal: "none", "beforeCopay", or "afterCopay" — the source
// literals "afterCopay", "beforeCoinsurance", and the empty/absent value all
// collapse to DeductibleAfterCopay (spec.md §3).
type DeductibleTiming int

const (
	DeductibleAfterCopay DeductibleTiming = iota
	DeductibleNone
	DeductibleBeforeCopay
)

func ParseDeductibleTiming(s string) (DeductibleTiming, error) {
	switch s {
	case "", "afterCopay", "beforeCoinsurance":
		return DeductibleAfterCopay, nil
	case "none":
		return DeductibleNone, nil
	case "beforeCopay":
		return DeductibleBeforeCopay, nil
	default:
		return DeductibleAfterCopay, fmt.Errorf("unknown deductible timing %q", s)
	}
}

func (d DeductibleTiming) String() string {
	switch d {
	case DeductibleNone:
		return "none"
	case DeductibleBeforeCopay:
		return "beforeCopay"
	default:
		return "afterCopay"
	}
}

// AmountTable is the polymorphic amountMap lookup of spec.md §3: either a
// direct coverage-level→amount map, a region-id→coverage-level→amount map,
// or a status-id→coverage-level→amount map. The shape actually present is
// determined lazily at Resolve time rather than at unmarshal time (region
// ids and status ids are only known globally, not locally to this node),
// which is why UnmarshalYAML only captures raw structure and Resolve does
// the classification.
type AmountTable struct {
	flat   map[string]decimal.Decimal            // coverageLevelId -> amount
	nested map[string]map[string]decimal.Decimal // (regionId|statusId) -> coverageLevelId -> amount
}

func (a *AmountTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("amountMap: expected mapping, got %v", node.Kind)
	}
	// Peek at the first value to decide flat vs. nested shape.
	if len(node.Content) >= 2 && node.Content[1].Kind == yaml.MappingNode {
		nested := map[string]map[string]decimal.Decimal{}
		if err := node.Decode(&nested); err != nil {
			return fmt.Errorf("amountMap (nested): %w", err)
		}
		a.nested = nested
		return nil
	}
	flat := map[string]decimal.Decimal{}
	if err := node.Decode(&flat); err != nil {
		return fmt.Errorf("amountMap (flat): %w", err)
	}
	a.flat = flat
	return nil
}

// Resolve implements the region→status→direct preference order of spec.md
// §3. It returns (zero, false) when the table is nil or does not cover
// levelID under any applicable key. The validator (C1) rejects
// configurations in which a declared fundAmountMap or a named (non-general)
// limit group's amountMap misses a reachable (region, status, coverage
// level), so the zero fallback mainly serves a plan with no fundAmountMap
// at all.
func (a *AmountTable) Resolve(regionID, statusID, levelID string) (decimal.Decimal, bool) {
	if a == nil {
		return decimal.Zero, false
	}
	if a.nested != nil {
		if sub, ok := a.nested[regionID]; ok {
			if amt, ok := sub[levelID]; ok {
				return amt, true
			}
		}
		if sub, ok := a.nested[statusID]; ok {
			if amt, ok := sub[levelID]; ok {
				return amt, true
			}
		}
		return decimal.Zero, false
	}
	if a.flat != nil {
		if amt, ok := a.flat[levelID]; ok {
			return amt, true
		}
	}
	return decimal.Zero, false
}

// Levels returns every coverage-level id the table could resolve, used by
// the validator to check a fundAmountMap/limit table covers every level
// reachable from a plan's regions.
func (a *AmountTable) Levels() map[string]bool {
	out := map[string]bool{}
	if a == nil {
		return out
	}
	if a.flat != nil {
		for level := range a.flat {
			out[level] = true
		}
	}
	for _, sub := range a.nested {
		for level := range sub {
			out[level] = true
		}
	}
	return out
}

// IsZero reports whether the table was left entirely unset.
func (a *AmountTable) IsZero() bool {
	return a == nil || (a.flat == nil && a.nested == nil)
}

// LimitEntry is one entry of a personDeductibles/familyDeductibles/
// personOutOfPocketMaximums/familyOutOfPocketMaximums group map: either a
// scalar amount or a polymorphic amountMap lookup, plus (for non-general
// groups) the category-ids the group applies to.
type LimitEntry struct {
	Amount     *decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
	AmountMap  *AmountTable     `yaml:"amountMap,omitempty" json:"amountMap,omitempty"`
	Categories []string         `yaml:"categories,omitempty" json:"categories,omitempty"`
}

// Resolve returns the dollar cap for this entry at the given lookup
// context. A scalar Amount always wins over AmountMap if both are set
// (the validator rejects configurations that set both).
func (le *LimitEntry) Resolve(regionID, statusID, levelID string) (decimal.Decimal, bool) {
	if le == nil {
		return decimal.Zero, false
	}
	if le.Amount != nil {
		return *le.Amount, true
	}
	if le.AmountMap != nil {
		return le.AmountMap.Resolve(regionID, statusID, levelID)
	}
	return decimal.Zero, false
}

// LimitGroupSet is a family of named budget groups (e.g. a plan's
// personDeductibles) keyed by group id. The distinguished "general" group
// is the catch-all for categories not claimed by any named group.
type LimitGroupSet map[string]LimitEntry

const GeneralGroup = "general"
