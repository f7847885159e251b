// Package config loads the TOML experiment configuration file a bbo run
// is launched from, the out-of-scope collaborator spec.md §1 places
// outside the optimization core (the core itself only ever sees the
// already-built optimizer.Config value).
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level experiment file, following the nested-struct,
// Default*() convention of internal/daemon's Config in the teacher repo.
type Config struct {
	Experiment ExperimentConfig `toml:"experiment"`
	Grid       GridConfig       `toml:"grid"`
	Heuristic  HeuristicConfig  `toml:"heuristic"`
	Resampling ResamplingConfig `toml:"resampling"`
	Async      AsyncConfig      `toml:"async"`
	API        APIConfig        `toml:"api"`
}

type ExperimentConfig struct {
	Name              string `toml:"name"`
	InitialSampleName string `toml:"initial_sample"`
	InitialSampleSize int    `toml:"initial_sample_size"`
	MaxIteration      int    `toml:"max_iteration"`
	Seed              int64  `toml:"seed"`

	// Reevaluate, if false, makes the driver retry the heuristic's
	// proposal up to MaxRetry times rather than hand back a
	// parametrization already present in history (spec.md §4.6).
	Reevaluate bool `toml:"reevaluate"`
	MaxRetry   int  `toml:"max_retry"`

	// TimeOut bounds the run's wall-clock duration (spec.md §4.6); zero
	// disables the time-based stop.
	TimeOut time.Duration `toml:"time_out"`
}

// AxisConfig describes one grid axis as read from TOML: either Numbers or
// Labels is populated depending on Kind.
type AxisConfig struct {
	Name    string    `toml:"name"`
	Kind    string    `toml:"kind"` // "numeric" or "categorical"
	Numbers []float64 `toml:"numbers"`
	Labels  []string  `toml:"labels"`
}

type GridConfig struct {
	Axes []AxisConfig `toml:"axes"`
}

type HeuristicConfig struct {
	Name            string  `toml:"name"` // "surrogate_model", "simulated_annealing", "genetic_algorithm", "exhaustive_search"
	AcquisitionName string  `toml:"acquisition"`
	CandidatePool   int     `toml:"candidate_pool"`
	CooldownName    string  `toml:"cooldown"`
	Alpha           float64 `toml:"alpha"`
	InitialTemp     float64 `toml:"initial_temperature"`
	RestartEnabled  bool    `toml:"restart_enabled"`
	RestartPatience int     `toml:"restart_patience"`
	PopulationSize  int     `toml:"population_size"`
	Selection       string  `toml:"selection"` // "probabilistic" or "tournament"
	Crossover       string  `toml:"crossover"`  // "single_point" or "double_point"
	TournamentSize  int     `toml:"tournament_size"`
	Elitism         bool    `toml:"elitism"`
	MutationRate    float64 `toml:"mutation_rate"`
	MaxRetry        int     `toml:"max_retry"`
}

// ResamplingConfig configures the noise-reduction layer (spec.md §4.5).
// Name == "" disables resampling entirely.
type ResamplingConfig struct {
	Name              string  `toml:"name"` // "simple", "dynamic_parametric", "dynamic_non_parametric"
	SimpleN           int     `toml:"simple_n"`
	Percentage        float64 `toml:"percentage"`
	Schedule          string  `toml:"schedule"` // "constant", "logarithmic", "exponential"
	AllowGateFraction float64 `toml:"allow_gate_fraction"`
	AggregationName   string  `toml:"aggregation"` // "" or "simple_aggregation"
}

type AsyncConfig struct {
	Enabled      bool          `toml:"enabled"`
	PollInterval time.Duration `toml:"poll_interval"`
	CostCeiling  float64       `toml:"cost_ceiling"`
}

type APIConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// DefaultConfig returns the configuration's built-in defaults, matching
// internal/daemon's DefaultConfig shape in the teacher repo.
func DefaultConfig() Config {
	return Config{
		Experiment: ExperimentConfig{
			Name:              "default",
			InitialSampleName: "uniform_random",
			InitialSampleSize: 5,
			MaxIteration:      50,
			Seed:              1,
		},
		Heuristic: HeuristicConfig{
			Name: "exhaustive_search",
		},
		Async: AsyncConfig{
			Enabled:      false,
			PollInterval: 100 * time.Millisecond,
			CostCeiling:  60,
		},
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8090,
			MetricsEnabled: true,
		},
	}
}

// Load decodes a TOML experiment file from path, layering it over
// DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("infra/config: decode %s: %w", path, err)
	}
	return cfg, nil
}
