package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/bits"
)

// DefaultExactItemLimit bounds the input size of the exact search. Beyond
// this many items the number of set-partitions makes exhaustive enumeration
// impractical even with pruning.
const DefaultExactItemLimit = 20

// ctxCheckInterval is the number of recursion steps between context checks.
const ctxCheckInterval = 4096

type exactStrategy struct {
	itemLimit int
}

// NewExact returns the branch-and-bound strategy. itemLimit caps the number
// of items accepted per run; values below one fall back to
// DefaultExactItemLimit.
func NewExact(itemLimit int) Strategy {
	if itemLimit < 1 {
		itemLimit = DefaultExactItemLimit
	}
	return &exactStrategy{itemLimit: itemLimit}
}

func (e *exactStrategy) Solve(ctx context.Context, items []Item, params Params) (Partition, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if len(items) > e.itemLimit {
		return nil, fmt.Errorf("%w: %d items, limit is %d", ErrTooManyItems, len(items), e.itemLimit)
	}

	s := &search{
		ctx:      ctx,
		items:    items,
		params:   params,
		bestCost: math.Inf(1),
	}

	full := uint(1)<<len(items) - 1
	if err := s.extend(full, make([]uint, 0, len(items)), 0); err != nil {
		return nil, err
	}
	if s.best == nil {
		return nil, ErrInfeasible
	}
	return s.partition(), nil
}

// search holds the state of one exact run. The best-so-far bound lives here
// and nowhere else, so concurrent runs cannot observe each other.
type search struct {
	ctx    context.Context
	items  []Item
	params Params

	bestCost float64
	best     []uint
	steps    int
}

// extend grows a partial partition. Blocks are bitmasks over s.items;
// remaining marks the items not yet assigned and cost is the summed cost of
// the fixed blocks. Each set-partition is produced exactly once: the lowest
// unassigned item seeds the next block, and every subset of the rest may join
// it. Branches are abandoned when a block breaks the weight bound or when the
// partial cost can no longer beat the best complete partition found so far.
func (s *search) extend(remaining uint, blocks []uint, cost float64) error {
	s.steps++
	if s.steps%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}

	if remaining == 0 {
		if cost < s.bestCost {
			s.bestCost = cost
			s.best = append([]uint(nil), blocks...)
		}
		return nil
	}

	seed := remaining & (-remaining)
	rest := remaining &^ seed

	for sub := rest; ; sub = (sub - 1) & rest {
		block := seed | sub
		weight := s.blockWeight(block)
		if weight <= s.params.MaxWeight {
			next := cost + evaluateWeight(weight, s.params).Cost
			if next < s.bestCost {
				if err := s.extend(remaining&^block, append(blocks, block), next); err != nil {
					return err
				}
			}
		}
		if sub == 0 {
			break
		}
	}
	return nil
}

func (s *search) blockWeight(mask uint) float64 {
	var total float64
	for m := mask; m != 0; m &= m - 1 {
		total += s.items[bits.TrailingZeros(m)].Weight
	}
	return total
}

func (s *search) partition() Partition {
	partition := make(Partition, 0, len(s.best))
	for _, mask := range s.best {
		pkg := make(Package, 0, bits.OnesCount(mask))
		for m := mask; m != 0; m &= m - 1 {
			pkg = append(pkg, s.items[bits.TrailingZeros(m)])
		}
		partition = append(partition, pkg)
	}
	return partition
}
