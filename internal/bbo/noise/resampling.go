// Package noise implements the optimizer's noise-reduction layer:
// resampling policies, which decide whether a parametrization should be
// re-evaluated before the heuristic moves on, and fitness aggregation,
// which collapses repeated evaluations of the same parametrization into a
// single estimate the heuristic consumes.
package noise

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// ResamplingPolicy decides, given the run's history so far, whether the
// most recently proposed parametrization should be re-evaluated instead of
// handed to the heuristic as a new point.
type ResamplingPolicy interface {
	// ShouldResample inspects the occurrences of params already recorded
	// in h and returns true if another evaluation of params should be
	// performed before moving on.
	ShouldResample(h *history.History, params grid.ParameterVector) bool
}

// Schedule modulates a base "percentage" threshold as a function of the
// current iteration k, per spec.md §4.5.1: constant leaves it unchanged,
// logarithmic shrinks it as p/log(1+k), exponential decays it as p*0.98^k.
// ScheduleByName returns the modulating function given the base percentage.
type Schedule func(percentage float64, iteration int) float64

// ConstantSchedule leaves the percentage unmodulated.
func ConstantSchedule(percentage float64, _ int) float64 { return percentage }

// LogarithmicSchedule shrinks the percentage as p/log(1+k).
func LogarithmicSchedule(percentage float64, iteration int) float64 {
	denom := math.Log(1 + float64(iteration))
	if denom == 0 {
		return percentage
	}
	return percentage / denom
}

// ExponentialSchedule decays the percentage as p*0.98^k, the original's
// "exponential" schedule.
func ExponentialSchedule(percentage float64, iteration int) float64 {
	return percentage * math.Pow(0.98, float64(iteration))
}

// ScheduleByName resolves one of the three named schedules.
func ScheduleByName(name string) (Schedule, error) {
	switch name {
	case "logarithmic":
		return LogarithmicSchedule, nil
	case "exponential":
		return ExponentialSchedule, nil
	case "constant", "":
		return ConstantSchedule, nil
	default:
		return nil, fmt.Errorf("bbo/noise: unknown resampling schedule %q", name)
	}
}

// Simple resamples a fixed number of times: it returns true as long as the
// parametrization has been evaluated fewer than N times in total.
type Simple struct {
	N int
}

func (s Simple) ShouldResample(h *history.History, params grid.ParameterVector) bool {
	return len(h.FitnessOf(params)) < s.N
}

// DynamicParametric resamples until the half-width of the 95% confidence
// interval around the mean (1.96*sigma/sqrt(n)) drops to or below
// Percentage*|mean| — the original's DynamicResampling in "parametric"
// mode. Always true until the parametrization has at least 2 evaluations,
// since no dispersion estimate exists before then.
type DynamicParametric struct {
	Percentage float64
	Schedule   Schedule
	Gate       *AllowResamplingGate
}

func (d DynamicParametric) ShouldResample(h *history.History, params grid.ParameterVector) bool {
	if d.Gate != nil && !d.Gate.Allow(h) {
		return false
	}
	vals := h.FitnessOf(params)
	if len(vals) < 2 {
		return true
	}
	n := float64(len(vals))
	mean := stat.Mean(vals, nil)
	halfWidth := 1.96 * stat.StdDev(vals, nil) / math.Sqrt(n)
	pct := d.schedule()(d.Percentage, h.Len())
	return halfWidth > pct*math.Abs(mean)
}

func (d DynamicParametric) schedule() Schedule {
	if d.Schedule == nil {
		return ConstantSchedule
	}
	return d.Schedule
}

// DynamicNonParametric resamples until the half-width of the
// distribution-free confidence interval around the median
// (1.253*sigma/sqrt(n)) drops to or below Percentage*|median| — the
// original's "non_parametric" mode.
type DynamicNonParametric struct {
	Percentage float64
	Schedule   Schedule
	Gate       *AllowResamplingGate
}

func (d DynamicNonParametric) ShouldResample(h *history.History, params grid.ParameterVector) bool {
	if d.Gate != nil && !d.Gate.Allow(h) {
		return false
	}
	vals := h.FitnessOf(params)
	if len(vals) < 2 {
		return true
	}
	n := float64(len(vals))
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	med := median(sorted)
	halfWidth := 1.253 * stat.StdDev(vals, nil) / math.Sqrt(n)
	pct := d.schedule()(d.Percentage, h.Len())
	return halfWidth > pct*math.Abs(med)
}

func (d DynamicNonParametric) schedule() Schedule {
	if d.Schedule == nil {
		return ConstantSchedule
	}
	return d.Schedule
}

// AllowResamplingGate disables resampling entirely until the last
// parameter's median fitness is within a schedule-modulated fraction of the
// run's running median — the original's allow_resampling gate.
type AllowResamplingGate struct {
	Fraction float64
	Schedule Schedule
}

func (g *AllowResamplingGate) Allow(h *history.History) bool {
	if h.Len() == 0 {
		return true
	}
	sorted := h.SortedFitness()
	runningMedian := median(sorted)
	lastOccurrence := h.FitnessOf(h.LastParameters())
	lastSorted := make([]float64, len(lastOccurrence))
	copy(lastSorted, lastOccurrence)
	sort.Float64s(lastSorted)
	lastMedian := median(lastSorted)
	if runningMedian == 0 {
		return true
	}
	sched := g.Schedule
	if sched == nil {
		sched = ConstantSchedule
	}
	limit := sched(g.Fraction, h.Len())
	return lastMedian <= limit*runningMedian
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}


// PolicyByName resolves a resampling policy by configuration name. percentage
// is the base percentage threshold consumed by the dynamic variants
// (spec.md §4.5.1); it is ignored by "simple".
func PolicyByName(name string, n int, percentage float64, sched Schedule, gate *AllowResamplingGate) (ResamplingPolicy, error) {
	if percentage <= 0 && (name == "dynamic_parametric" || name == "dynamic_non_parametric") {
		return nil, fmt.Errorf("bbo/noise: dynamic resampling requires percentage > 0, got %v", percentage)
	}
	switch name {
	case "simple":
		return Simple{N: n}, nil
	case "dynamic_parametric":
		return DynamicParametric{Percentage: percentage, Schedule: sched, Gate: gate}, nil
	case "dynamic_non_parametric":
		return DynamicNonParametric{Percentage: percentage, Schedule: sched, Gate: gate}, nil
	default:
		return nil, fmt.Errorf("bbo/noise: unknown resampling policy %q", name)
	}
}
