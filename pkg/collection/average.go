package collection

import (
	"math"
	"math/big"

	"golang.org/x/exp/constraints"

	"github.com/jzx17/collext/pkg/types"
)

// Average returns the arithmetic mean of the elements of c. An empty collection averages to 0.
// The sum is exact: it is kept in an int64 and moves to a big.Int if that would overflow.
func Average[T constraints.Integer](c types.Indexed[T]) float64 {
	n := c.Len()
	if n == 0 {
		return 0
	}

	var sum wideSum
	signed := isSigned[T]()
	for i := 0; i < n; i++ {
		v := c.At(i)
		if signed {
			sum.addInt(int64(v))
		} else {
			sum.addUint(uint64(v))
		}
	}
	return sum.mean(n)
}

func isSigned[T constraints.Integer]() bool {
	var zero T
	return zero-1 < zero
}

// wideSum accumulates integers without wrapping around
type wideSum struct {
	small int64
	large *big.Int // non-nil once small overflowed
}

func (s *wideSum) addInt(v int64) {
	if s.large != nil {
		s.large.Add(s.large, big.NewInt(v))
		return
	}

	next := s.small + v
	if (v > 0 && next < s.small) || (v < 0 && next > s.small) {
		s.large = big.NewInt(s.small)
		s.large.Add(s.large, big.NewInt(v))
		return
	}
	s.small = next
}

func (s *wideSum) addUint(v uint64) {
	if v <= math.MaxInt64 {
		s.addInt(int64(v))
		return
	}
	if s.large == nil {
		s.large = big.NewInt(s.small)
	}
	s.large.Add(s.large, new(big.Int).SetUint64(v))
}

func (s *wideSum) mean(n int) float64 {
	if s.large == nil {
		return float64(s.small) / float64(n)
	}
	q := new(big.Float).SetInt(s.large)
	q.Quo(q, new(big.Float).SetInt64(int64(n)))
	f, _ := q.Float64()
	return f
}
