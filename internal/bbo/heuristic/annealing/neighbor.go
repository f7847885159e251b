package annealing

import (
	"math/rand"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// HopToNextValue perturbs every axis of current independently: each axis
// draws uniformly from {decrement, stay, increment} on its own index,
// clamped at the axis edges. The whole draw is repeated until the result
// differs from current in at least one axis (spec.md §4.4.2).
func HopToNextValue(g grid.Grid, current grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	for attempts := 0; attempts < 100; attempts++ {
		next := make(grid.ParameterVector, len(current))
		changed := false
		for i, axis := range g.Axes {
			if i >= len(current) {
				break
			}
			curIdx := indexOfValue(axis, current[i])
			step := rng.Intn(3) - 1 // -1, 0, +1
			newIdx := curIdx + step
			if newIdx < 0 {
				newIdx = 0
			}
			if newIdx >= axis.Len() {
				newIdx = axis.Len() - 1
			}
			next[i] = valueAt(axis, newIdx)
			if newIdx != curIdx {
				changed = true
			}
		}
		if changed {
			return next
		}
	}
	next := make(grid.ParameterVector, len(current))
	copy(next, current)
	return next
}

func indexOfValue(axis grid.Axis, v grid.Value) int {
	if axis.Kind == grid.Numeric {
		for i, n := range axis.Numbers {
			if n == v.Number {
				return i
			}
		}
	} else {
		for i, l := range axis.Labels {
			if l == v.Label {
				return i
			}
		}
	}
	return 0
}

func valueAt(axis grid.Axis, idx int) grid.Value {
	if axis.Kind == grid.Numeric {
		return grid.Value{Number: axis.Numbers[idx]}
	}
	return grid.Value{Label: axis.Labels[idx]}
}
