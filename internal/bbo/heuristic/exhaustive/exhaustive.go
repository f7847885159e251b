// Package exhaustive implements a full grid walk: the simplest heuristic,
// which visits every point of the grid exactly once in a fixed
// lexicographic order and stops once all points have been visited.
package exhaustive

import (
	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// ExhaustiveSearch walks the grid's cartesian product in lexicographic
// axis order, tracking its own cursor so repeated calls to Propose advance
// through the space without needing to re-derive position from history.
type ExhaustiveSearch struct {
	g       grid.Grid
	indexes []int
	done    bool
}

// New builds an ExhaustiveSearch over g, starting at the grid's first
// point.
func New(g grid.Grid) *ExhaustiveSearch {
	return &ExhaustiveSearch{g: g, indexes: make([]int, len(g.Axes))}
}

func (e *ExhaustiveSearch) Propose(g grid.Grid, _ *history.History, _ grid.ParameterVector) (grid.ParameterVector, error) {
	if e.done {
		return g.RandomPoint(e.indexes), nil
	}
	p := g.RandomPoint(e.indexes)
	e.advance()
	return p, nil
}

// advance increments the cursor like an odometer, carrying over axis
// boundaries, and marks the walk done once the most significant axis
// overflows.
func (e *ExhaustiveSearch) advance() {
	for i := len(e.indexes) - 1; i >= 0; i-- {
		e.indexes[i]++
		if e.indexes[i] < e.g.Axes[i].Len() {
			return
		}
		e.indexes[i] = 0
	}
	e.done = true
}

func (e *ExhaustiveSearch) ShouldStop() bool { return e.done }

func (e *ExhaustiveSearch) Summary() string {
	if e.done {
		return "exhaustive search: grid fully explored"
	}
	return "exhaustive search: grid walk in progress"
}

func (e *ExhaustiveSearch) Reset() {
	e.indexes = make([]int, len(e.g.Axes))
	e.done = false
}
