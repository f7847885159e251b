package optimizer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic"
	"github.com/shaman-labs/bbo/internal/bbo/history"
	"github.com/shaman-labs/bbo/internal/bbo/noise"
	"github.com/shaman-labs/bbo/internal/bbo/sampler"
	"github.com/shaman-labs/bbo/internal/bbo/stopcriteria"
)

// Config is the full configuration table for a run, matching spec.md
// §4.6's per-iteration algorithm configuration.
type Config struct {
	Grid grid.Grid

	InitialSampleName string // "uniform_random", "latin_hypercube", "hybrid"
	InitialSampleSize int

	Heuristic      heuristic.Heuristic
	ResamplingName string // informational; the driver resamples iff Resampling is non-nil
	Resampling     noise.ResamplingPolicy
	Aggregation    noise.Aggregator
	StopCriteria   stopcriteria.Compose
	MaxIteration   int

	// Reevaluate, if false, makes the driver retry the heuristic's proposal
	// up to MaxRetry times to avoid handing back a parametrization already
	// present in history (spec.md §4.6 select_next step 3); false is the
	// zero value. true allows duplicates through unchanged.
	Reevaluate bool
	MaxRetry   int

	// Async evaluates candidates on a worker goroutine and polls the
	// black box's CostMonitor capability (if present) every
	// PollInterval, truncating the evaluation once CostCeiling is
	// exceeded. Sync evaluates inline with no cost monitoring.
	Async        bool
	PollInterval time.Duration
	CostCeiling  float64

	// TimeOut bounds the wall-clock duration of a run (spec.md §4.6): the
	// composed stop rule also stops once elapsed time reaches TimeOut.
	// Zero disables the time-based stop entirely.
	TimeOut time.Duration

	Seed int64

	// Callbacks is an ordered list of functions invoked with the raw
	// history after every initial-sample point and every optimization
	// step (spec.md §4.7), in registration order.
	Callbacks []func(*history.History)
}

// Validate checks the configuration for internal consistency, matching
// spec.md §7's ConfigurationError.
func (c Config) Validate() error {
	if len(c.Grid.Axes) == 0 {
		return fmt.Errorf("%w: grid has no axes", ErrConfiguration)
	}
	if c.Heuristic == nil {
		return fmt.Errorf("%w: no heuristic configured", ErrConfiguration)
	}
	if c.InitialSampleSize <= 0 {
		return fmt.Errorf("%w: initial sample size must be positive, got %d", ErrConfiguration, c.InitialSampleSize)
	}
	if c.MaxIteration <= 0 {
		return fmt.Errorf("%w: max iteration must be positive, got %d", ErrConfiguration, c.MaxIteration)
	}
	if c.Async && c.PollInterval <= 0 {
		return fmt.Errorf("%w: async evaluation requires a positive poll interval", ErrConfiguration)
	}
	return nil
}

// rng returns a seeded random source for this run's sampling and
// heuristic randomness, matching spec.md's "randomness must be
// injected/seedable" design note.
func (c Config) rng() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

func (c Config) initialSampler() (sampler.Sampler, error) {
	return sampler.ByName(c.InitialSampleName)
}
