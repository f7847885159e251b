package genetic

import (
	"math/rand"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// ToNeighbor replaces every axis of child with a random draw from its
// 3-value neighborhood {prev, same, next}, clamped at the axis edges —
// spec.md §4.4.3's mutation. The whole-child Bernoulli gate on MutationRate
// is applied by the caller; ToNeighbor itself always perturbs. Returns
// whether the result differs from child, for the heuristic's mutation
// counter.
func ToNeighbor(g grid.Grid, child grid.ParameterVector, rng *rand.Rand) (grid.ParameterVector, bool) {
	mutated := make(grid.ParameterVector, len(child))
	changed := false
	for i, axis := range g.Axes {
		if i >= len(child) {
			break
		}
		if axis.Len() <= 1 {
			mutated[i] = child[i]
			continue
		}
		curIdx := indexOf(axis, child[i])
		step := rng.Intn(3) - 1
		newIdx := curIdx + step
		if newIdx < 0 {
			newIdx = 0
		}
		if newIdx >= axis.Len() {
			newIdx = axis.Len() - 1
		}
		if axis.Kind == grid.Numeric {
			mutated[i] = grid.Value{Number: axis.Numbers[newIdx]}
		} else {
			mutated[i] = grid.Value{Label: axis.Labels[newIdx]}
		}
		if newIdx != curIdx {
			changed = true
		}
	}
	return mutated, changed
}

func indexOf(axis grid.Axis, v grid.Value) int {
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
