package collection

import "github.com/jzx17/collext/pkg/types"

// SafeIndex returns the element at p and true when p is one of c's valid positions,
// otherwise the zero value and false. It never indexes out of bounds.
func SafeIndex[P comparable, T any](c types.Collection[P, T], p P) (T, bool) {
	var zero T

	if checker, ok := c.(types.PositionChecker[P]); ok {
		if !checker.ValidIndex(p) {
			return zero, false
		}
		return c.At(p), true
	}

	for q, end := c.StartIndex(), c.EndIndex(); q != end; q = c.IndexAfter(q) {
		if q == p {
			return c.At(p), true
		}
	}
	return zero, false
}

// SafeIndexOr returns the element at p, or fallback when p is not a valid position
func SafeIndexOr[P comparable, T any](c types.Collection[P, T], p P, fallback T) T {
	if v, ok := SafeIndex(c, p); ok {
		return v
	}
	return fallback
}
