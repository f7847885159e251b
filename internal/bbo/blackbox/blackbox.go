// Package blackbox defines the contract an objective function must
// satisfy to be optimized, plus the optional capabilities the driver
// detects at runtime: a cost monitor for asynchronous evaluation and an
// interrupt hook called when a running evaluation is cancelled. This is
// the Go translation of the original's duck-typed hasattr(...) checks into
// explicit optional interfaces, detected with a type assertion.
package blackbox

import "context"

// BlackBox is any objective function the optimizer can evaluate. Evaluate
// must be safe to call from a goroutine other than the one that
// constructed the BlackBox, since the optimizer's async evaluation step
// runs it on a worker goroutine.
type BlackBox interface {
	// Evaluate computes the fitness (to be minimized) of a parametrization.
	// ctx carries the async evaluation's cancellation signal; a BlackBox
	// that supports cancellation should watch ctx.Done() and return
	// promptly when it fires.
	Evaluate(ctx context.Context, params map[string]any) (fitness float64, err error)
}

// CostMonitor is an optional capability: a BlackBox that can report a
// running cost (e.g. elapsed wall time, resource usage) the driver polls
// during asynchronous evaluation to decide whether to truncate.
type CostMonitor interface {
	// CurrentCost returns the running evaluation's current cost. The
	// driver polls this roughly every 100ms (see Config.PollInterval)
	// and compares it against the configured ceiling.
	CurrentCost() float64
}

// Interrupter is an optional capability: a BlackBox notified when the
// driver truncates a running evaluation because its cost exceeded the
// ceiling. Implementations use this to release resources the in-flight
// evaluation was holding.
type Interrupter interface {
	OnInterrupt()
}

// DetectCostMonitor returns bb's CostMonitor capability if it implements
// one, and ok=false otherwise.
func DetectCostMonitor(bb BlackBox) (CostMonitor, bool) {
	cm, ok := bb.(CostMonitor)
	return cm, ok
}

// DetectInterrupter returns bb's Interrupter capability if it implements
// one, and ok=false otherwise.
func DetectInterrupter(bb BlackBox) (Interrupter, bool) {
	in, ok := bb.(Interrupter)
	return in, ok
}

// Func adapts a plain function into a BlackBox, for objective functions
// with no async capabilities — the common case in tests and simple CLI
// experiments.
type Func func(ctx context.Context, params map[string]any) (float64, error)

func (f Func) Evaluate(ctx context.Context, params map[string]any) (float64, error) {
	return f(ctx, params)
}

// Sphere is a synthetic black box computing sum(x_i^2) over named
// numeric parameters, used in tests and examples the way the original
// project's test suite uses a parabola objective.
type Sphere struct {
	Keys []string
}

func (s Sphere) Evaluate(_ context.Context, params map[string]any) (float64, error) {
	total := 0.0
	for _, k := range s.Keys {
		v, _ := params[k].(float64)
		total += v * v
	}
	return total, nil
}
