// Package sequencing orders the consumption of a pool of named funding
// sources against a single need, draining each source fully before the
// next is touched.
package sequencing

import "github.com/shopspring/decimal"

// FundSource is one named pool of money available to satisfy a need.
type FundSource struct {
	Name      string
	Available decimal.Decimal
}

// Allocation is how much of a need was drawn from each source.
type Allocation struct {
	BySource map[string]decimal.Decimal
	Total    decimal.Decimal
}

// Strategy decides, given a need and an ordered list of sources, how much
// to draw from each.
type Strategy interface {
	Allocate(need decimal.Decimal, sources []FundSource) Allocation
}

// priorityStrategy drains sources strictly in the order given: a source
// is touched only once every source ahead of it is exhausted.
type priorityStrategy struct{}

func (priorityStrategy) Allocate(need decimal.Decimal, sources []FundSource) Allocation {
	alloc := Allocation{BySource: map[string]decimal.Decimal{}}
	remaining := need
	for _, s := range sources {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, s.Available)
		if take.LessThan(decimal.Zero) {
			take = decimal.Zero
		}
		take = take.Round(2)
		alloc.BySource[s.Name] = take
		alloc.Total = alloc.Total.Add(take)
		remaining = remaining.Sub(take)
	}
	return alloc
}

// CreateStrategy returns the named allocation strategy. "priority" (the
// default) is the only one the engine currently needs: plan fund, then
// additional match, then rollover, then voluntary contribution.
func CreateStrategy(name string) Strategy {
	switch name {
	case "priority", "":
		return priorityStrategy{}
	default:
		return priorityStrategy{}
	}
}
