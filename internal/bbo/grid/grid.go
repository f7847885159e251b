// Package grid contains pure domain types describing the search space a
// black-box optimizer explores: axes, parameter vectors and the grid
// snapping rule that keeps heuristics confined to legal points.
//
// Nothing in this package performs I/O or depends on any other bbo
// package: it is the foundation the rest of the core is built on.
package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Kind distinguishes a numeric axis, whose values have a natural distance,
// from a categorical one, whose values only have identity and declared
// order.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

// Axis is one dimension of the search grid. Numeric axes hold float64
// candidate values; categorical axes hold string labels. Exactly one of
// Numbers/Labels is populated, matching Kind.
type Axis struct {
	Name    string
	Kind    Kind
	Numbers []float64
	Labels  []string
}

// NewNumericAxis builds a Numeric axis from a sorted or unsorted list of
// candidate values. Values are not required to be sorted by the caller;
// callers relying on ordered iteration should sort upstream.
func NewNumericAxis(name string, values []float64) Axis {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Axis{Name: name, Kind: Numeric, Numbers: cp}
}

// NewCategoricalAxis builds a Categorical axis. The order of labels is the
// axis's declared order, used to break snapping ties (see Snap).
func NewCategoricalAxis(name string, labels []string) Axis {
	cp := make([]string, len(labels))
	copy(cp, labels)
	return Axis{Name: name, Kind: Categorical, Labels: cp}
}

// Len returns the number of candidate values on the axis.
func (a Axis) Len() int {
	if a.Kind == Numeric {
		return len(a.Numbers)
	}
	return len(a.Labels)
}

// Value is a single coordinate of a ParameterVector. Numeric axes store
// their value in Number; categorical axes store it in Label.
type Value struct {
	Number float64
	Label  string
}

func (v Value) String() string {
	if v.Label != "" {
		return v.Label
	}
	return fmt.Sprintf("%g", v.Number)
}

// ParameterVector is one point in the grid: one Value per Axis, in Grid
// axis order.
type ParameterVector []Value

// Equal reports whether two parameter vectors hold identical values.
func (p ParameterVector) Equal(other ParameterVector) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i].Number != other[i].Number || p[i].Label != other[i].Label {
			return false
		}
	}
	return true
}

// Key returns a string uniquely identifying the parametrization, used to
// group identical parameter vectors (resampling counts, aggregation).
func (p ParameterVector) Key() string {
	s := ""
	for i, v := range p {
		if i > 0 {
			s += "|"
		}
		s += v.String()
	}
	return s
}

// Grid is an ordered collection of axes defining the legal search space.
type Grid struct {
	Axes []Axis
}

// NewGrid constructs a Grid from a list of axes, in declared order.
func NewGrid(axes ...Axis) Grid {
	return Grid{Axes: axes}
}

// Size returns the number of points in the grid (product of axis
// cardinalities), used by history's explored-space-percentage metric.
func (g Grid) Size() int {
	total := 1
	for _, a := range g.Axes {
		total *= a.Len()
	}
	return total
}

// Snap projects an arbitrary parameter vector onto the nearest legal grid
// point, axis by axis. Numeric axes snap by L1 distance, ties breaking
// toward the lower value. Categorical axes snap by matching label; a label
// that is not on the axis has no position in the declared order and snaps
// to the axis's first label.
func (g Grid) Snap(p ParameterVector) ParameterVector {
	out := make(ParameterVector, len(p))
	for i, axis := range g.Axes {
		if i >= len(p) {
			break
		}
		out[i] = snapAxis(axis, p[i])
	}
	return out
}

func snapAxis(axis Axis, v Value) Value {
	switch axis.Kind {
	case Numeric:
		return Value{Number: nearest(axis.Numbers, v.Number)}
	default:
		for _, l := range axis.Labels {
			if l == v.Label {
				return Value{Label: l}
			}
		}
		// No exact label match: indexOf reports 0, so the first label of
		// the axis is returned.
		idx := nearestIndex(len(axis.Labels), indexOf(axis.Labels, v.Label))
		return Value{Label: axis.Labels[idx]}
	}
}

// nearest returns the candidate in values closest to target by L1
// distance, ties breaking toward the lower value.
func nearest(values []float64, target float64) float64 {
	if len(values) == 0 {
		return target
	}
	best := values[0]
	bestDist := floats.Distance([]float64{values[0]}, []float64{target}, 1)
	for _, v := range values[1:] {
		d := floats.Distance([]float64{v}, []float64{target}, 1)
		if d < bestDist || (d == bestDist && v < best) {
			best = v
			bestDist = d
		}
	}
	return best
}

func nearestIndex(n int, target int) int {
	if target < 0 {
		return 0
	}
	if target >= n {
		return n - 1
	}
	return target
}

func indexOf(labels []string, target string) int {
	for i, l := range labels {
		if l == target {
			return i
		}
	}
	return 0
}

// RandomPoint builds a ParameterVector by picking index idxs[i] on axis i;
// used by samplers that compute per-axis indices independently.
func (g Grid) RandomPoint(idxs []int) ParameterVector {
	p := make(ParameterVector, len(g.Axes))
	for i, axis := range g.Axes {
		if axis.Kind == Numeric {
			p[i] = Value{Number: axis.Numbers[idxs[i]]}
		} else {
			p[i] = Value{Label: axis.Labels[idxs[i]]}
		}
	}
	return p
}
