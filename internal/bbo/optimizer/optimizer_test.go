package optimizer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shaman-labs/bbo/internal/bbo/blackbox"
	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic/exhaustive"
)

func sphereGrid() grid.Grid {
	return grid.NewGrid(
		grid.NewNumericAxis("x", []float64{-2, -1, 0, 1, 2}),
		grid.NewNumericAxis("y", []float64{-2, -1, 0, 1, 2}),
	)
}

func TestOptimizeFindsGlobalMinimumOnSphere(t *testing.T) {
	g := sphereGrid()
	bb := blackbox.Sphere{Keys: []string{"x", "y"}}
	h := exhaustive.New(g)
	cfg := Config{
		Grid:              g,
		InitialSampleName: "uniform_random",
		InitialSampleSize: 2,
		Heuristic:         h,
		MaxIteration:      30,
		Seed:              10,
	}
	opt, err := New(bb, cfg)
	if err != nil {
		t.Fatal(err)
	}
	result, err := opt.Optimize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.BestFitness != 0 {
		t.Errorf("BestFitness = %v, want 0 (origin is on the grid)", result.BestFitness)
	}
}

func TestConfigValidateRejectsEmptyGrid(t *testing.T) {
	cfg := Config{InitialSampleSize: 1, MaxIteration: 1, Heuristic: exhaustive.New(grid.NewGrid())}
	if err := cfg.Validate(); err == nil {
		t.Error("expected ConfigurationError for empty grid")
	}
}

func TestSummarizeBeforeRunErrors(t *testing.T) {
	g := sphereGrid()
	bb := blackbox.Sphere{Keys: []string{"x", "y"}}
	cfg := Config{
		Grid:              g,
		InitialSampleName: "uniform_random",
		InitialSampleSize: 1,
		Heuristic:         exhaustive.New(g),
		MaxIteration:      1,
	}
	opt, err := New(bb, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Optimize was never called, so Summarize must refuse. Summarize only
	// checks whether an Optimize call has completed; the history is empty
	// here either way.
	opt.history.Reset()
	if _, err := opt.Summarize(); err == nil {
		t.Error("expected ErrSummaryBeforeRun")
	}
}

type costMonitorBlackBox struct {
	cost      int64
	interrupted chan struct{}
}

func (c *costMonitorBlackBox) Evaluate(ctx context.Context, _ map[string]any) (float64, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(10 * time.Millisecond):
			atomic.AddInt64(&c.cost, 1)
		}
	}
}

func (c *costMonitorBlackBox) CurrentCost() float64 {
	return float64(atomic.LoadInt64(&c.cost))
}

// OnInterrupt is called once per truncated evaluation; the cost counter is
// never reset, so every evaluation of the run is truncated and the channel
// must only be closed on the first call.
func (c *costMonitorBlackBox) OnInterrupt() {
	select {
	case <-c.interrupted:
	default:
		close(c.interrupted)
	}
}

func TestAsyncEvaluationTruncatesOnCostCeiling(t *testing.T) {
	g := grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2, 3}))
	bb := &costMonitorBlackBox{interrupted: make(chan struct{})}
	cfg := Config{
		Grid:              g,
		InitialSampleName: "uniform_random",
		InitialSampleSize: 1,
		Heuristic:         exhaustive.New(g),
		MaxIteration:      1,
		Async:             true,
		PollInterval:      5 * time.Millisecond,
		CostCeiling:       2,
	}
	opt, err := New(bb, cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = opt.Optimize(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-bb.interrupted:
	case <-time.After(time.Second):
		t.Error("expected OnInterrupt to be called once the cost ceiling was exceeded")
	}
	if !opt.history.Truncated[0] {
		t.Error("expected the truncated evaluation to be recorded as truncated")
	}
}
