package collection

import (
	"math/rand/v2"

	"github.com/jzx17/collext/pkg/types"
)

// RandomItem returns a uniformly chosen element of c using the global pseudo-random source.
// It returns false when c is empty.
func RandomItem[T any](c types.Indexed[T]) (T, bool) {
	return pick(rand.IntN, c)
}

// RandomItemFrom is RandomItem with an explicit source, for reproducible selection.
// A nil rng falls back to the global source.
func RandomItemFrom[T any](rng *rand.Rand, c types.Indexed[T]) (T, bool) {
	if rng == nil {
		return RandomItem(c)
	}
	return pick(rng.IntN, c)
}

// MustRandomItem is RandomItem that panics with types.ErrEmptyCollection when c is empty
func MustRandomItem[T any](c types.Indexed[T]) T {
	v, ok := RandomItem(c)
	if !ok {
		panic(types.ErrEmptyCollection)
	}
	return v
}

func pick[T any](intN func(int) int, c types.Indexed[T]) (T, bool) {
	n := c.Len()
	if n <= 0 {
		var zero T
		return zero, false
	}
	return c.At(intN(n)), true
}
