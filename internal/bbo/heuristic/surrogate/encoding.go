package surrogate

import (
	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// categoricalAxes returns the indices of g's categorical axes, the
// detector spec.md §4.4.1 requires ahead of fitting: numeric axes encode
// to their raw value; categorical axes need a different treatment since
// they carry no natural numeric distance.
func categoricalAxes(g grid.Grid) []int {
	var out []int
	for i, axis := range g.Axes {
		if axis.Kind == grid.Categorical {
			out = append(out, i)
		}
	}
	return out
}

// OneHotEncoder turns a grid's parameter vectors into the fixed-width
// float64 feature rows a Regressor fits against: numeric axes contribute
// one column (their raw value), categorical axes contribute one indicator
// column per label, matching the original's use of a one-hot encoder ahead
// of the regressor fit (spec.md §4.4.1).
type OneHotEncoder struct{}

// Dims returns the encoded row width for g.
func (OneHotEncoder) Dims(g grid.Grid) int {
	n := 0
	for _, axis := range g.Axes {
		if axis.Kind == grid.Categorical {
			n += len(axis.Labels)
		} else {
			n++
		}
	}
	return n
}

// Encode maps one parameter vector onto its fixed-width feature row.
func (e OneHotEncoder) Encode(g grid.Grid, p grid.ParameterVector) []float64 {
	out := make([]float64, 0, e.Dims(g))
	for i, axis := range g.Axes {
		if i >= len(p) {
			break
		}
		if axis.Kind == grid.Categorical {
			for _, label := range axis.Labels {
				if p[i].Label == label {
					out = append(out, 1)
				} else {
					out = append(out, 0)
				}
			}
			continue
		}
		out = append(out, p[i].Number)
	}
	return out
}

// Decode reverses Encode approximately: numeric columns are read back
// directly, categorical blocks are collapsed to the highest-scoring label
// (argmax over the block), ready for Grid.Snap to project onto a legal
// point. Used to turn an acquisition strategy's continuous working point
// (e.g. L-BFGS-B's unconstrained optimum, CMA-ES's sampled mean) back into
// a parameter vector.
func (e OneHotEncoder) Decode(g grid.Grid, x []float64) grid.ParameterVector {
	out := make(grid.ParameterVector, len(g.Axes))
	col := 0
	for i, axis := range g.Axes {
		if axis.Kind == grid.Categorical {
			bestIdx, bestVal := 0, x[col]
			for j := 1; j < len(axis.Labels); j++ {
				if x[col+j] > bestVal {
					bestIdx, bestVal = j, x[col+j]
				}
			}
			out[i] = grid.Value{Label: axis.Labels[bestIdx]}
			col += len(axis.Labels)
			continue
		}
		out[i] = grid.Value{Number: x[col]}
		col++
	}
	return out
}
