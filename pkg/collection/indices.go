package collection

import "github.com/jzx17/collext/pkg/types"

// Indices returns every valid position of c from StartIndex up to, but excluding, EndIndex.
// Positions are materialized once so they can be handed out to concurrent visitors;
// arbitrary collections do not support arithmetic on positions.
func Indices[P comparable, T any](c types.Collection[P, T]) []P {
	var positions []P
	if sized, ok := c.(interface{ Len() int }); ok {
		positions = make([]P, 0, sized.Len())
	}

	for p, end := c.StartIndex(), c.EndIndex(); p != end; p = c.IndexAfter(p) {
		positions = append(positions, p)
	}
	return positions
}
