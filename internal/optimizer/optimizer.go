package optimizer

import (
	"context"
	"fmt"
)

type engine struct {
	exact Strategy
	fast  Strategy
}

// Option configures the engine returned by New.
type Option func(*engine)

// WithExactItemLimit caps the number of items the exact strategy accepts.
func WithExactItemLimit(limit int) Option {
	return func(e *engine) {
		e.exact = NewExact(limit)
	}
}

// New creates an Engine with the exact and first-fit-decreasing strategies.
func New(opts ...Option) Engine {
	e := &engine{
		exact: NewExact(DefaultExactItemLimit),
		fast:  NewGreedy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Optimize validates the input, dispatches to the strategy selected by mode,
// and scores the partition it returns with the cost model. Items heavier than
// the maximum package weight are rejected up front in both modes, since no
// valid partition can contain them.
func (e *engine) Optimize(ctx context.Context, items []Item, params Params, mode Mode) (Result, error) {
	if err := validateParams(params); err != nil {
		return Result{}, err
	}
	if len(items) == 0 {
		return Result{}, ErrNoItems
	}
	if err := validateItems(items, params.MaxWeight); err != nil {
		return Result{}, err
	}

	var strategy Strategy
	switch mode {
	case ModeExact:
		strategy = e.exact
	case ModeFast:
		strategy = e.fast
	default:
		return Result{}, errUnknownMode(string(mode))
	}

	partition, err := strategy.Solve(ctx, items, params)
	if err != nil {
		return Result{}, err
	}
	return score(partition, params), nil
}

func score(partition Partition, params Params) Result {
	result := Result{Packages: make([]PackageCost, 0, len(partition))}
	for _, pkg := range partition {
		info := Evaluate(pkg, params)
		result.TotalCost += info.Cost
		result.Packages = append(result.Packages, PackageCost{Package: pkg, CostInfo: info})
	}
	return result
}

func validateParams(p Params) error {
	if !(p.MaxWeight > 0) {
		return fmt.Errorf("%w: max weight must be positive, got %v", ErrInvalidParams, p.MaxWeight)
	}
	if p.UnitCost < 0 {
		return fmt.Errorf("%w: unit cost must be non-negative, got %v", ErrInvalidParams, p.UnitCost)
	}
	if p.DeliveryFee < 0 {
		return fmt.Errorf("%w: delivery fee must be non-negative, got %v", ErrInvalidParams, p.DeliveryFee)
	}
	if p.MinDeliveryWeight < 0 {
		return fmt.Errorf("%w: minimum delivery weight must be non-negative, got %v", ErrInvalidParams, p.MinDeliveryWeight)
	}
	return nil
}

func validateItems(items []Item, maxWeight float64) error {
	for i, item := range items {
		if item.Name == "" {
			return fmt.Errorf("%w: item %d has an empty name", ErrInvalidItems, i)
		}
		if !(item.Weight >= 0) {
			return fmt.Errorf("%w: item %q has weight %v", ErrInvalidItems, item.Name, item.Weight)
		}
		if item.Weight > maxWeight {
			return fmt.Errorf("%w: item %q weighs %v, limit is %v", ErrItemTooHeavy, item.Name, item.Weight, maxWeight)
		}
	}
	return nil
}
