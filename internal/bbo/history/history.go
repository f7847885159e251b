// Package history holds the append-only evaluation record an optimizer run
// builds up, and the metrics derived from it (noise, exploration cost,
// convergence rate). It mirrors the five parallel arrays the original
// optimizer keeps: parameters, fitness, truncated, resampled and
// initialization.
package history

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// History is the append-only record of every evaluation performed during a
// run. All five slices always have equal length; Append is the only way to
// grow them, preserving spec invariant I-1 (parallel arrays stay in sync).
type History struct {
	Parameters     []grid.ParameterVector
	Fitness        []float64
	Truncated      []bool
	Resampled      []bool
	Initialization []bool
}

// New returns an empty History ready for appends.
func New() *History {
	return &History{}
}

// Append records one evaluation. It is the only mutator on History.
func (h *History) Append(p grid.ParameterVector, fitness float64, truncated, resampled, initialization bool) {
	h.Parameters = append(h.Parameters, p)
	h.Fitness = append(h.Fitness, fitness)
	h.Truncated = append(h.Truncated, truncated)
	h.Resampled = append(h.Resampled, resampled)
	h.Initialization = append(h.Initialization, initialization)
}

// Len returns the number of recorded evaluations.
func (h *History) Len() int { return len(h.Fitness) }

// Reset clears the history back to empty, used by Optimizer.Reset.
func (h *History) Reset() {
	h.Parameters = nil
	h.Fitness = nil
	h.Truncated = nil
	h.Resampled = nil
	h.Initialization = nil
}

// LastParameters returns the most recently evaluated parametrization, or
// nil if history is empty.
func (h *History) LastParameters() grid.ParameterVector {
	if h.Len() == 0 {
		return nil
	}
	return h.Parameters[h.Len()-1]
}

// Contains reports whether p has already been evaluated at least once.
func (h *History) Contains(p grid.ParameterVector) bool {
	for _, existing := range h.Parameters {
		if existing.Equal(p) {
			return true
		}
	}
	return false
}

// UniqueParameters returns every distinct parametrization evaluated so
// far, in first-seen order (spec.md §4.2's unique_parameters operation).
func (h *History) UniqueParameters() []grid.ParameterVector {
	var out []grid.ParameterVector
	seen := map[string]struct{}{}
	for _, p := range h.Parameters {
		k := p.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// FitnessOf returns every recorded fitness value for p, in evaluation
// order (spec.md §4.2's fitness_of operation).
func (h *History) FitnessOf(p grid.ParameterVector) []float64 {
	var out []float64
	for i, existing := range h.Parameters {
		if existing.Equal(p) {
			out = append(out, h.Fitness[i])
		}
	}
	return out
}

// AveragedFitness returns the arithmetic mean of all recorded fitness
// values, the basic signal most stop criteria and heuristics key off of.
func (h *History) AveragedFitness() float64 {
	if h.Len() == 0 {
		return 0
	}
	return stat.Mean(h.Fitness, nil)
}

// MinFitness returns the minimum recorded fitness (the optimizer always
// minimizes), and the parametrization that achieved it.
func (h *History) MinFitness() (float64, grid.ParameterVector) {
	if h.Len() == 0 {
		return math.Inf(1), nil
	}
	best := h.Fitness[0]
	bestIdx := 0
	for i, f := range h.Fitness[1:] {
		if f < best {
			best = f
			bestIdx = i + 1
		}
	}
	return best, h.Parameters[bestIdx]
}

// MaxFitness returns the maximum recorded fitness value.
func (h *History) MaxFitness() float64 {
	if h.Len() == 0 {
		return math.Inf(-1)
	}
	worst := h.Fitness[0]
	for _, f := range h.Fitness[1:] {
		if f > worst {
			worst = f
		}
	}
	return worst
}

// TotalIteration returns the number of evaluations performed so far,
// including the initial sample.
func (h *History) TotalIteration() int { return h.Len() }

// SizeExploredSpace returns the fraction of the grid's points that have
// been visited at least once, in [0, 1].
func (h *History) SizeExploredSpace(g grid.Grid) float64 {
	size := g.Size()
	if size == 0 {
		return 0
	}
	seen := map[string]struct{}{}
	for _, p := range h.Parameters {
		seen[p.Key()] = struct{}{}
	}
	return float64(len(seen)) / float64(size)
}

// ResampledCount groups CONSECUTIVE occurrences of the same parametrization
// and returns, for each group, the number of times it was resampled beyond
// the first evaluation (group length minus one). This mirrors the
// original's consecutive-aggregation view of resampling, as opposed to
// MeasuredNoise's all-occurrence view.
func (h *History) ResampledCount() []int {
	if h.Len() == 0 {
		return nil
	}
	var counts []int
	groupStart := 0
	for i := 1; i <= h.Len(); i++ {
		if i == h.Len() || !h.Parameters[i].Equal(h.Parameters[groupStart]) {
			counts = append(counts, i-groupStart-1)
			groupStart = i
		}
	}
	return counts
}

// MeasuredNoise groups ALL occurrences of each distinct parametrization
// (not just consecutive runs) and returns the standard deviation of the
// fitness values within each group, one entry per distinct parametrization
// in first-seen order. Per the original, a history with fewer than two
// points returns []float64{0}: there is no meaningful noise to measure yet.
func (h *History) MeasuredNoise() []float64 {
	if h.Len() <= 1 {
		return []float64{0}
	}
	order := []string{}
	groups := map[string][]float64{}
	for i, p := range h.Parameters {
		k := p.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], h.Fitness[i])
	}
	out := make([]float64, 0, len(order))
	for _, k := range order {
		vals := groups[k]
		if len(vals) < 2 {
			out = append(out, 0)
			continue
		}
		out = append(out, stat.StdDev(vals, nil))
	}
	return out
}

// NbrIterationBestFitness returns the 0-based iteration index at which the
// overall minimum fitness was first observed.
func (h *History) NbrIterationBestFitness() int {
	if h.Len() == 0 {
		return -1
	}
	bestIdx := 0
	best := h.Fitness[0]
	for i, f := range h.Fitness[1:] {
		if f < best {
			best = f
			bestIdx = i + 1
		}
	}
	return bestIdx
}

// FitnessGainPerIteration returns the successive difference of the running
// best-so-far fitness, one entry shorter than the history: a negative value
// means the running best improved at that step.
func (h *History) FitnessGainPerIteration() []float64 {
	if h.Len() < 2 {
		return nil
	}
	running := make([]float64, h.Len())
	running[0] = h.Fitness[0]
	for i := 1; i < h.Len(); i++ {
		running[i] = math.Min(running[i-1], h.Fitness[i])
	}
	gains := make([]float64, h.Len()-1)
	for i := 1; i < len(running); i++ {
		gains[i-1] = running[i] - running[i-1]
	}
	return gains
}

// GlobalExplorationCost counts evaluations whose fitness exceeds the running
// minimum seen so far, and sums that excess: a proxy for how much budget the
// heuristic spent on moves that did not improve on the best point found yet.
func (h *History) GlobalExplorationCost() (count int, excess float64) {
	if h.Len() == 0 {
		return 0, 0
	}
	excesses := make([]float64, h.Len())
	running := h.Fitness[0]
	for i, f := range h.Fitness {
		if f < running {
			running = f
		}
		if f > running {
			count++
			excesses[i] = f - running
		}
	}
	return count, floats.Sum(excesses)
}

// LocalExplorationCost counts successive regressions — evaluations whose
// fitness is worse than the immediately preceding one — and sums the
// regression penalty (the increase over the previous fitness).
func (h *History) LocalExplorationCost() (count int, penalty float64) {
	if h.Len() < 2 {
		return 0, 0
	}
	penalties := make([]float64, h.Len()-1)
	for i := 1; i < h.Len(); i++ {
		if h.Fitness[i] > h.Fitness[i-1] {
			count++
			penalties[i-1] = h.Fitness[i] - h.Fitness[i-1]
		}
	}
	return count, floats.Sum(penalties)
}

// StaticMovePercentage returns the fraction of consecutive evaluations that
// repeated the previous parametrization unchanged, used by Summarize.
func (h *History) StaticMovePercentage() float64 {
	if h.Len() < 2 {
		return 0
	}
	static := 0
	for i := 1; i < h.Len(); i++ {
		if h.Parameters[i].Equal(h.Parameters[i-1]) {
			static++
		}
	}
	return float64(static) / float64(h.Len()-1)
}

// SortedFitness returns a copy of Fitness in ascending order, used by the
// allow-resampling gate to compute the running median.
func (h *History) SortedFitness() []float64 {
	out := make([]float64, h.Len())
	copy(out, h.Fitness)
	sort.Float64s(out)
	return out
}
