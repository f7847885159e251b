package noise

import (
	"gonum.org/v1/gonum/stat"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// AggregatedHistory is the result of collapsing repeated evaluations of the
// same parametrization into a single estimate per distinct point, in
// first-seen order. Initialization and Resampled are carried over from the
// underlying history UNCHANGED (one entry per raw evaluation, not per
// group), matching the original's fitness_transformation.py: only
// Parameters, Fitness and Truncated are actually collapsed.
type AggregatedHistory struct {
	Parameters     []grid.ParameterVector
	Fitness        []float64
	Truncated      []bool
	Initialization []bool
	Resampled      []bool
}

// Aggregator collapses a History into an AggregatedHistory by applying an
// estimator to the fitness values sharing each distinct parametrization.
type Aggregator interface {
	Aggregate(h *history.History) AggregatedHistory
}

// Identity performs no aggregation: it is a pass-through used when
// resampling is disabled.
type Identity struct{}

func (Identity) Aggregate(h *history.History) AggregatedHistory {
	return AggregatedHistory{
		Parameters:     append([]grid.ParameterVector(nil), h.Parameters...),
		Fitness:        append([]float64(nil), h.Fitness...),
		Truncated:      append([]bool(nil), h.Truncated...),
		Initialization: append([]bool(nil), h.Initialization...),
		Resampled:      append([]bool(nil), h.Resampled...),
	}
}

// Estimator reduces a slice of observed fitness values (all sharing one
// parametrization) to a single number.
type Estimator func([]float64) float64

// MeanEstimator is the usual SimpleAggregation estimator.
func MeanEstimator(vals []float64) float64 { return stat.Mean(vals, nil) }

// MedianEstimator aggregates by taking the median, useful against skewed
// noise distributions.
func MedianEstimator(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	return median(sortedCopy(sorted))
}

func sortedCopy(vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// SimpleAggregation collapses ALL occurrences of each distinct
// parametrization (order of first appearance preserved) by applying
// Estimator to their fitness values. Truncated is collapsed the same way
// the original does: by applying the same estimator to the boolean
// truncated flags cast to 0/1, so a group is reported truncated when the
// estimator's result is at least 0.5 — for a mean or a median, when at
// least half of its occurrences were truncated — behavior matching the
// "HACK" comment in the original,
// which simply reuses the numeric estimator on the boolean array.
type SimpleAggregation struct {
	Estimator Estimator
}

func (s SimpleAggregation) Aggregate(h *history.History) AggregatedHistory {
	if h.Len() < 2 {
		return Identity{}.Aggregate(h)
	}
	order := []string{}
	groupIdx := map[string][]int{}
	for i, p := range h.Parameters {
		k := p.Key()
		if _, ok := groupIdx[k]; !ok {
			order = append(order, k)
		}
		groupIdx[k] = append(groupIdx[k], i)
	}
	out := AggregatedHistory{
		Initialization: append([]bool(nil), h.Initialization...),
		Resampled:      append([]bool(nil), h.Resampled...),
	}
	for _, k := range order {
		idxs := groupIdx[k]
		out.Parameters = append(out.Parameters, h.Parameters[idxs[0]])
		fitVals := make([]float64, len(idxs))
		truncVals := make([]float64, len(idxs))
		for j, idx := range idxs {
			fitVals[j] = h.Fitness[idx]
			if h.Truncated[idx] {
				truncVals[j] = 1
			}
		}
		out.Fitness = append(out.Fitness, s.Estimator(fitVals))
		out.Truncated = append(out.Truncated, s.Estimator(truncVals) >= 0.5)
	}
	return out
}

// AggregatorByName resolves an aggregation policy by configuration name.
func AggregatorByName(name string) Aggregator {
	switch name {
	case "simple_aggregation":
		return SimpleAggregation{Estimator: MeanEstimator}
	default:
		return Identity{}
	}
}
