// Package optimizer implements the black-box optimization driver: the
// orchestration loop that draws an initial sample, then repeatedly asks
// the configured heuristic for the next parametrization, evaluates it
// (synchronously or asynchronously with cost-monitor cancellation),
// applies noise reduction, and checks stop criteria — until the iteration
// budget is exhausted or a stop criterion fires.
package optimizer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shaman-labs/bbo/internal/bbo/blackbox"
	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
	"github.com/shaman-labs/bbo/internal/bbo/noise"
)

// Result is the outcome of a completed Optimize call.
type Result struct {
	RunID           string
	BestParameters  grid.ParameterVector
	BestFitness     float64
	TotalIteration  int
	StoppedByBudget bool
}

// Optimizer drives a single optimization run. It holds no persistence and
// performs no I/O of its own — see spec.md §1 Non-goals — beyond the
// injected callbacks and log.Printf progress lines.
type Optimizer struct {
	cfg       Config
	bb        blackbox.BlackBox
	history   *history.History
	runID     string
	ran       bool
	startedAt time.Time
}

// New constructs an Optimizer for the given black box and configuration,
// validating the configuration up front (spec.md §7 ConfigurationError).
func New(bb blackbox.BlackBox, cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{
		cfg:     cfg,
		bb:      bb,
		history: history.New(),
		runID:   uuid.NewString(),
	}, nil
}

// Optimize runs the full optimization loop to completion: the initial
// sample, then iterative heuristic-proposed evaluations, stopping once
// MaxIteration is reached or a configured stop criterion (driver-level or
// heuristic-level) fires.
func (o *Optimizer) Optimize(ctx context.Context) (Result, error) {
	log.Printf("[optimizer] run %s starting, grid size=%d", o.runID, o.cfg.Grid.Size())
	o.startedAt = time.Now()

	if err := o.runInitialSample(ctx); err != nil {
		return Result{}, err
	}

	for o.history.Len() < o.cfg.InitialSampleSize+o.cfg.MaxIteration {
		if o.cfg.TimeOut > 0 && o.ElapsedTime() >= o.cfg.TimeOut {
			log.Printf("[optimizer] run %s stopped by time out at iteration %d", o.runID, o.history.Len())
			break
		}
		if o.cfg.StopCriteria != nil && o.cfg.StopCriteria.ShouldStop(o.history) {
			log.Printf("[optimizer] run %s stopped by stop criterion at iteration %d", o.runID, o.history.Len())
			break
		}
		if o.cfg.Heuristic.ShouldStop() {
			log.Printf("[optimizer] run %s stopped by heuristic at iteration %d", o.runID, o.history.Len())
			break
		}
		if err := o.step(ctx); err != nil {
			return Result{}, err
		}
	}

	o.ran = true
	best, params := o.history.MinFitness()
	log.Printf("[optimizer] run %s finished after %d iterations, best=%v", o.runID, o.history.Len(), best)
	return Result{
		RunID:           o.runID,
		BestParameters:  params,
		BestFitness:     best,
		TotalIteration:  o.history.Len(),
		StoppedByBudget: o.history.Len() >= o.cfg.InitialSampleSize+o.cfg.MaxIteration,
	}, nil
}

func (o *Optimizer) runInitialSample(ctx context.Context) error {
	smp, err := o.cfg.initialSampler()
	if err != nil {
		return err
	}
	points, err := smp.Sample(o.cfg.Grid, o.cfg.InitialSampleSize, o.cfg.rng())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGrid, err)
	}
	for _, p := range points {
		fitness, truncated, err := o.evaluate(ctx, p)
		if err != nil {
			return err
		}
		o.history.Append(p, fitness, truncated, false, true)
		o.notify()
	}
	return nil
}

// step performs one post-initialization iteration, matching spec.md §4.6's
// select_next: first ask the resampling policy (on raw history) whether to
// repeat the last parametrization; only if it declines does the aggregator
// run and the heuristic get a turn.
func (o *Optimizer) step(ctx context.Context) error {
	current := o.history.LastParameters()

	if o.cfg.Resampling != nil && current != nil && o.cfg.Resampling.ShouldResample(o.history, current) {
		fitness, truncated, err := o.evaluate(ctx, current)
		if err != nil {
			return err
		}
		o.history.Append(current, fitness, truncated, true, false)
		o.notify()
		return nil
	}

	candidate, err := o.proposeNext(current)
	if err != nil {
		return err
	}

	fitness, truncated, err := o.evaluate(ctx, candidate)
	if err != nil {
		return err
	}
	o.history.Append(candidate, fitness, truncated, false, false)
	o.notify()
	return nil
}

// proposeNext asks the heuristic for a candidate, snaps it to the grid, and
// — if Reevaluate is false — retries up to MaxRetry times to avoid handing
// back a parametrization already present in history (spec.md §4.6 step 3).
// The last attempt is returned even if it still duplicates a prior point,
// rather than failing the run outright.
func (o *Optimizer) proposeNext(current grid.ParameterVector) (grid.ParameterVector, error) {
	var candidate grid.ParameterVector
	attempts := 1
	if !o.cfg.Reevaluate && o.cfg.MaxRetry > 0 {
		attempts = o.cfg.MaxRetry
	}
	for attempt := 0; attempt < attempts; attempt++ {
		raw, err := o.cfg.Heuristic.Propose(o.cfg.Grid, o.aggregatedOrRaw(), current)
		if err != nil {
			return nil, fmt.Errorf("bbo/optimizer: heuristic proposal failed: %w", err)
		}
		candidate = o.cfg.Grid.Snap(raw)
		if o.cfg.Reevaluate || !o.history.Contains(candidate) {
			return candidate, nil
		}
	}
	return candidate, nil
}

// aggregatedOrRaw returns the noise-reduced view of history the heuristic
// should consume, or the raw history if no aggregation is configured.
func (o *Optimizer) aggregatedOrRaw() *history.History {
	if o.cfg.Aggregation == nil {
		return o.history
	}
	agg := o.cfg.Aggregation.Aggregate(o.history)
	return aggregatedToHistory(agg)
}

func aggregatedToHistory(agg noise.AggregatedHistory) *history.History {
	h := history.New()
	h.Parameters = agg.Parameters
	h.Fitness = agg.Fitness
	h.Truncated = agg.Truncated
	// Initialization/Resampled are carried over unchanged per-evaluation
	// rather than per-group (see noise.AggregatedHistory doc); pad or
	// trim defensively so History's parallel-array invariant still holds
	// for any consumer that inspects these fields on the aggregated view.
	h.Initialization = padBool(agg.Initialization, len(agg.Parameters))
	h.Resampled = padBool(agg.Resampled, len(agg.Parameters))
	return h
}

func padBool(src []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, src)
	return out
}

// notify invokes the configured callbacks, in order, with the raw history
// (spec.md §4.7).
func (o *Optimizer) notify() {
	for _, cb := range o.cfg.Callbacks {
		cb(o.history)
	}
}

// Reset clears the run's history and rebuilds its run ID, ready for a
// fresh Optimize call with the same configuration. The heuristic itself is
// reset too, via its own Reset method.
func (o *Optimizer) Reset() {
	o.history.Reset()
	o.cfg.Heuristic.Reset()
	o.runID = uuid.NewString()
	o.ran = false
	o.startedAt = time.Time{}
}

// History exposes the run's accumulated history for inspection.
func (o *Optimizer) History() *history.History { return o.history }

// ElapsedTime returns the wall-clock duration since Optimize started, or
// zero if the run has not started yet (spec.md §6).
func (o *Optimizer) ElapsedTime() time.Duration {
	if o.startedAt.IsZero() {
		return 0
	}
	return time.Since(o.startedAt)
}

// Summarize returns the full-text run report (spec.md §6 plus the
// supplemented original report fields, see SPEC_FULL.md §4).
func (o *Optimizer) Summarize() (string, error) {
	if !o.ran {
		return "", ErrSummaryBeforeRun
	}
	best, params := o.history.MinFitness()
	globalCount, globalExcess := o.history.GlobalExplorationCost()
	localCount, localPenalty := o.history.LocalExplorationCost()
	meanGain := 0.0
	if gains := o.history.FitnessGainPerIteration(); len(gains) > 0 {
		for _, g := range gains {
			meanGain += g
		}
		meanGain /= float64(len(gains))
	}
	return fmt.Sprintf(
		"run %s: %d iterations in %s, best fitness %.6g at %v (iteration %d), explored %.1f%% of grid, %.1f%% static moves, "+
			"global exploration cost %d moves (excess %.4g), local exploration cost %d regressions (penalty %.4g), "+
			"mean fitness gain %.4g, measured noise %v, heuristic: %s",
		o.runID,
		o.history.Len(),
		o.ElapsedTime(),
		best,
		params,
		o.history.NbrIterationBestFitness(),
		o.history.SizeExploredSpace(o.cfg.Grid)*100,
		o.history.StaticMovePercentage()*100,
		globalCount,
		globalExcess,
		localCount,
		localPenalty,
		meanGain,
		o.history.MeasuredNoise(),
		o.cfg.Heuristic.Summary(),
	), nil
}

// evaluate performs one black-box evaluation, dispatching to the
// synchronous or asynchronous path per Config.Async (spec.md §5).
func (o *Optimizer) evaluate(ctx context.Context, p grid.ParameterVector) (fitness float64, truncated bool, err error) {
	params := toMap(o.cfg.Grid, p)
	if !o.cfg.Async {
		f, err := o.bb.Evaluate(ctx, params)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrEvaluation, err)
		}
		return f, false, nil
	}
	return o.evaluateAsync(ctx, params)
}

// evaluateAsync runs the evaluation on a worker goroutine while polling the
// black box's CostMonitor capability (if present) at PollInterval. If the
// running cost exceeds CostCeiling, the worker's context is cancelled, the
// Interrupter capability (if present) is notified, and the evaluation is
// recorded as truncated with fitness pinned to the ceiling — matching
// spec.md §5's cancellation semantics. This mirrors
// internal/app/executor/executor.go's goroutine + context.WithTimeout +
// mutex-guarded-result pattern, swapping a wall-clock timeout for a
// polled cost signal.
func (o *Optimizer) evaluateAsync(ctx context.Context, params map[string]any) (fitness float64, truncated bool, err error) {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		fitness float64
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		f, evalErr := o.bb.Evaluate(workCtx, params)
		done <- outcome{fitness: f, err: evalErr}
	}()

	monitor, hasMonitor := blackbox.DetectCostMonitor(o.bb)
	start := time.Now()
	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case res := <-done:
			if res.err != nil {
				return 0, false, fmt.Errorf("%w: %v", ErrEvaluation, res.err)
			}
			return res.fitness, false, nil
		case <-ticker.C:
			cost := time.Since(start).Seconds()
			if hasMonitor {
				cost = monitor.CurrentCost()
			}
			if cost > o.cfg.CostCeiling {
				log.Printf("[optimizer] run %s truncating evaluation: cost ceiling %.4g exceeded", o.runID, o.cfg.CostCeiling)
				cancel()
				if interrupter, ok := blackbox.DetectInterrupter(o.bb); ok {
					interrupter.OnInterrupt()
				}
				<-done // drain the worker goroutine
				return o.cfg.CostCeiling, true, nil
			}
		case <-ctx.Done():
			cancel()
			<-done
			return 0, false, fmt.Errorf("%w: %v", ErrEvaluation, ctx.Err())
		}
	}
}

func toMap(g grid.Grid, p grid.ParameterVector) map[string]any {
	out := make(map[string]any, len(g.Axes))
	for i, axis := range g.Axes {
		if i >= len(p) {
			break
		}
		if axis.Kind == grid.Numeric {
			out[axis.Name] = p[i].Number
		} else {
			out[axis.Name] = p[i].Label
		}
	}
	return out
}
