package genetic

import (
	"math/rand"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// SinglePointCrossover splits both parents at one randomly chosen axis
// boundary and stitches the first parent's prefix to the second parent's
// suffix.
func SinglePointCrossover(p1, p2 grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	if len(p1) < 2 {
		return append(grid.ParameterVector(nil), p1...)
	}
	cut := 1 + rng.Intn(len(p1)-1)
	child := make(grid.ParameterVector, len(p1))
	copy(child[:cut], p1[:cut])
	copy(child[cut:], p2[cut:])
	return child
}

// DoublePointCrossover splits both parents at two randomly chosen axis
// boundaries and takes the middle segment from the second parent, the
// outer segments from the first.
func DoublePointCrossover(p1, p2 grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	n := len(p1)
	if n < 3 {
		return SinglePointCrossover(p1, p2, rng)
	}
	a := 1 + rng.Intn(n-2)
	b := a + 1 + rng.Intn(n-a-1)
	child := make(grid.ParameterVector, n)
	copy(child, p1)
	copy(child[a:b], p2[a:b])
	return child
}
