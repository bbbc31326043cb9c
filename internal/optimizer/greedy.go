package optimizer

import (
	"context"
	"sort"
)

type greedyStrategy struct{}

// NewGreedy returns the first-fit-decreasing strategy. It packs by weight
// alone and ignores the cost model; the facade scores its output afterwards.
func NewGreedy() Strategy {
	return &greedyStrategy{}
}

func (g *greedyStrategy) Solve(_ context.Context, items []Item, params Params) (Partition, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return PackGreedy(items, params.MaxWeight), nil
}

// PackGreedy runs first-fit-decreasing bin packing: items sorted by descending
// weight, each placed into the first bin with enough remaining capacity, or a
// new bin when none fits. The sort is stable, so items of equal weight keep
// their input order and the result is reproducible.
//
// An item heavier than maxWeight still ends up alone in its own bin, producing
// a partition that violates the weight bound. Optimize rejects such items
// before packing; callers of PackGreedy directly must check for themselves.
func PackGreedy(items []Item, maxWeight float64) Partition {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	var bins Partition
	loads := make([]float64, 0, len(sorted))
	for _, item := range sorted {
		placed := false
		for i := range bins {
			if loads[i]+item.Weight <= maxWeight {
				bins[i] = append(bins[i], item)
				loads[i] += item.Weight
				placed = true
				break
			}
		}
		if !placed {
			bins = append(bins, Package{item})
			loads = append(loads, item.Weight)
		}
	}
	return bins
}
