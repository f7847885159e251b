package optimizer

import "errors"

// Sentinel error kinds matching spec.md §7's error-kind table. Concrete
// errors wrap one of these with fmt.Errorf("...: %w", ErrX) so callers can
// use errors.Is to classify a failure the way the teacher's infra packages
// do for their own typed errors.
var (
	// ErrConfiguration reports an invalid or inconsistent Config value,
	// detected at Optimizer construction time.
	ErrConfiguration = errors.New("bbo/optimizer: configuration error")

	// ErrCapability is the error kind for a missing capability (e.g.
	// MPI/EI without a StdRegressor). No code path returns it: MPI and EI
	// run with a plain Regressor, treating its standard deviation as 0.
	ErrCapability = errors.New("bbo/optimizer: capability error")

	// ErrGrid reports that the initial sampler could not draw from the grid
	// (e.g. latin hypercube sampling with k larger than the smallest axis).
	// An empty grid is reported as ErrConfiguration by Config.Validate.
	ErrGrid = errors.New("bbo/optimizer: grid error")

	// ErrEvaluation reports that the black box itself returned an error
	// during evaluation, distinct from truncation (which is not an
	// error: it is the expected outcome of the cost monitor firing).
	ErrEvaluation = errors.New("bbo/optimizer: evaluation failure")

	// ErrSummaryBeforeRun reports that Summarize was called before an
	// Optimize call had completed.
	ErrSummaryBeforeRun = errors.New("bbo/optimizer: summary requested before run")
)

// BudgetExhausted is not an error: it is the Optimize loop's normal
// termination signal once the iteration budget or a stop criterion is
// reached, reported as a returned Result rather than an error value — see
// spec.md §7.
