package calculation

import (
	"fmt"

	"github.com/wattjam/mpce/internal/domain"
)

// ErrNoCoverageLevel is returned by ResolveCoverageLevel when no
// configured tier accommodates the household (spec.md §4.3, §7).
type ErrNoCoverageLevel struct {
	HasSpouse   bool
	NumChildren int
}

func (e *ErrNoCoverageLevel) Error() string {
	return fmt.Sprintf("no coverage level accommodates a household with spouse=%v and %d child(ren)", e.HasSpouse, e.NumChildren)
}

// ResolveCoverageLevel scans coverageLevelsOrder and returns the id of the
// first tier whose spouse flag accommodates the household and whose
// maxNumChildren is at least the child count (spec.md §4.3). Because
// coverageLevelsOrder is validated non-decreasing in (spouse,
// maxNumChildren), this is the narrowest sufficient tier.
func ResolveCoverageLevel(cfg *domain.Configuration, household domain.HouseholdShape) (string, error) {
	for _, id := range cfg.CoverageLevelsOrder {
		level := cfg.CoverageLevels[id]
		if household.HasSpouse && !level.Spouse {
			continue
		}
		if float64(household.NumChildren) > level.MaxNumChildren {
			continue
		}
		return id, nil
	}
	return "", &ErrNoCoverageLevel{HasSpouse: household.HasSpouse, NumChildren: household.NumChildren}
}
