// Package stopcriteria implements the composable stop rules the optimizer
// driver evaluates after every iteration, independent of whatever the
// active heuristic's own ShouldStop reports.
package stopcriteria

import (
	"math"

	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// Criterion reports whether the run should stop, given the history so far.
type Criterion interface {
	ShouldStop(h *history.History) bool
}

// Compose ORs a set of criteria together: the run stops as soon as any one
// of them says to.
type Compose []Criterion

func (c Compose) ShouldStop(h *history.History) bool {
	for _, crit := range c {
		if crit.ShouldStop(h) {
			return true
		}
	}
	return false
}

// Improvement stops the run once the relative improvement of the trailing
// window's average fitness over the rest of the (unbounded, growing) prior
// history falls below Threshold, matching the original's
// estimator(fitness[:-stop_window]) vs estimator(fitness[-stop_window:])
// comparison. A == 0 (no meaningful prior average yet) is treated as
// "continue" (see SPEC_FULL.md §6); DESIGN.md open question #2 explains
// why the stop direction departs from the original's literal code.
type Improvement struct {
	WindowSize int
	Threshold  float64
}

func (c Improvement) ShouldStop(h *history.History) bool {
	if c.WindowSize <= 0 || h.Len() <= c.WindowSize {
		return false
	}
	n := h.Len()
	recent := h.Fitness[n-c.WindowSize:]
	previous := h.Fitness[:n-c.WindowSize]
	a := mean(previous)
	b := mean(recent)
	if a == 0 {
		return false
	}
	ratio := (a - b) / a
	return ratio < c.Threshold
}

// CountMovement stops the run once the number of distinct parametrizations
// seen in the trailing WindowSize iterations drops to NbrParametrizations or
// below — the heuristic is no longer exploring new points.
type CountMovement struct {
	WindowSize          int
	NbrParametrizations int
}

func (c CountMovement) ShouldStop(h *history.History) bool {
	if c.WindowSize <= 0 || h.Len() <= c.WindowSize {
		return false
	}
	window := h.Parameters[h.Len()-c.WindowSize:]
	distinct := map[string]struct{}{}
	for _, p := range window {
		distinct[p.Key()] = struct{}{}
	}
	return len(distinct) <= c.NbrParametrizations
}

// DistanceMovement stops the run once the mean pairwise Euclidean distance
// among the distinct parametrizations seen in the trailing WindowSize
// iterations drops to Threshold or below, signalling the heuristic has
// converged to a neighborhood.
type DistanceMovement struct {
	WindowSize int
	Threshold  float64
}

func (c DistanceMovement) ShouldStop(h *history.History) bool {
	if c.WindowSize <= 0 || h.Len() <= c.WindowSize {
		return false
	}
	window := h.Parameters[h.Len()-c.WindowSize:]
	var points [][]float64
	keys := map[string]struct{}{}
	for _, p := range window {
		k := p.Key()
		if _, ok := keys[k]; ok {
			continue
		}
		keys[k] = struct{}{}
		vec := make([]float64, len(p))
		for i, v := range p {
			vec[i] = v.Number
		}
		points = append(points, vec)
	}
	if len(points) < 2 {
		return false
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			sum += euclidean(points[i], points[j])
			pairs++
		}
	}
	return sum/float64(pairs) <= c.Threshold
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
