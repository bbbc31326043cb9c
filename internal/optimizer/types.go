package optimizer

import "context"

// Item is a single weighted unit to be grouped into a package.
// Items are immutable during a run.
type Item struct {
	Name   string
	Weight float64
}

// Package groups items that ship and bill together.
type Package []Item

// Weight returns the combined weight of all items in the package.
func (p Package) Weight() float64 {
	var total float64
	for _, item := range p {
		total += item.Weight
	}
	return total
}

// Partition is a complete division of the input items into non-empty,
// non-overlapping packages.
type Partition []Package

// Params holds the billing parameters for a single optimization run.
type Params struct {
	MaxWeight         float64
	UnitCost          float64
	DeliveryFee       float64
	MinDeliveryWeight float64
}

// CostInfo is the evaluated billing of a single package. BillableWeight is
// the total weight rounded up to the next whole unit.
type CostInfo struct {
	Cost           float64
	BillableWeight int
	TotalWeight    float64
}

// PackageCost pairs a package with its evaluated cost.
type PackageCost struct {
	Package Package
	CostInfo
}

// Result is the engine's sole output: the chosen partition with per-package
// billing and the summed total cost.
type Result struct {
	TotalCost float64
	Packages  []PackageCost
}

// Mode selects the optimization strategy.
type Mode string

const (
	// ModeExact enumerates all weight-valid partitions with branch-and-bound
	// pruning and returns the cheapest one.
	ModeExact Mode = "exact"
	// ModeFast runs a single first-fit-decreasing pass.
	ModeFast Mode = "fast"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExact:
		return ModeExact, nil
	case ModeFast:
		return ModeFast, nil
	}
	return "", errUnknownMode(s)
}

// Strategy produces one candidate partition for the given items.
// Implementations must not retain state between calls.
type Strategy interface {
	Solve(ctx context.Context, items []Item, params Params) (Partition, error)
}

// Engine describes the behaviour required from the optimization facade.
type Engine interface {
	Optimize(ctx context.Context, items []Item, params Params, mode Mode) (Result, error)
}
