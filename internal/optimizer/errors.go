package optimizer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoItems is returned when there is nothing to optimize. An empty input
	// yields no result, not a zero-cost empty one.
	ErrNoItems = errors.New("no items to optimize")
	// ErrInfeasible is returned when no partition satisfies the weight limit.
	ErrInfeasible = errors.New("no valid partition exists within the weight limit")
	// ErrItemTooHeavy is returned when a single item already exceeds the
	// maximum package weight, which makes any partition invalid.
	ErrItemTooHeavy = errors.New("item is heavier than the maximum package weight")
	// ErrInvalidItems is returned for malformed items (empty name, negative weight).
	ErrInvalidItems = errors.New("items must have a name and a non-negative weight")
	// ErrInvalidParams is returned for malformed billing parameters.
	ErrInvalidParams = errors.New("billing parameters are invalid")
	// ErrTooManyItems is returned when the input exceeds the exact search's
	// item limit. Exhaustive enumeration grows exponentially with item count.
	ErrTooManyItems = errors.New("too many items for exact optimization")
	// ErrUnknownMode is returned for an unrecognized optimization mode.
	ErrUnknownMode = errors.New("unknown optimization mode")
)

func errUnknownMode(mode string) error {
	return fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownMode, mode, ModeExact, ModeFast)
}
