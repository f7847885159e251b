// Package cli provides the bbo command-line interface: the out-of-scope
// collaborator spec.md §1 keeps outside the optimization core, wiring a
// TOML experiment file into an optimizer.Config and running it.
package cli

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaman-labs/bbo/internal/api"
	"github.com/shaman-labs/bbo/internal/bbo/blackbox"
	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic/annealing"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic/exhaustive"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic/genetic"
	"github.com/shaman-labs/bbo/internal/bbo/heuristic/surrogate"
	"github.com/shaman-labs/bbo/internal/bbo/noise"
	"github.com/shaman-labs/bbo/internal/bbo/optimizer"
	"github.com/shaman-labs/bbo/internal/infra/config"
	"github.com/shaman-labs/bbo/internal/infra/store"
)

var (
	configPath string
	storePath  string
)

// NewRootCommand builds the bbo root cobra command with its subcommands,
// following the teacher's Use/Short/Long/RunE command construction style.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bbo",
		Short: "Run grid-based black-box optimization experiments",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML experiment configuration file")
	root.PersistentFlags().StringVar(&storePath, "store", "", "path to a sqlite file recording finished runs (optional)")

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	return root
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single optimization experiment to completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			g := gridFromConfig(cfg)
			optCfg, err := optimizerConfig(cfg, g)
			if err != nil {
				return err
			}
			opt, err := optimizer.New(blackbox.Sphere{Keys: axisNames(g)}, optCfg)
			if err != nil {
				return err
			}
			result, err := opt.Optimize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: best fitness %.6g after %d iterations\n", result.RunID, result.BestFitness, result.TotalIteration)

			if storePath != "" {
				db, err := store.Open(storePath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.RecordRun(result.RunID, cfg.Experiment.Name, cfg.Heuristic.Name, opt.History(), result.BestFitness, result.BestParameters); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run-status and metrics HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			var db *store.DB
			if storePath != "" {
				var err error
				db, err = store.Open(storePath)
				if err != nil {
					return err
				}
				defer db.Close()
			}
			srv := api.NewServer(db)
			srv.EnableMetrics()
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			return serveHTTP(addr, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8090", "listen address")
	return cmd
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configPath)
}

func gridFromConfig(cfg config.Config) grid.Grid {
	var axes []grid.Axis
	for _, a := range cfg.Grid.Axes {
		if a.Kind == "categorical" {
			axes = append(axes, grid.NewCategoricalAxis(a.Name, a.Labels))
		} else {
			axes = append(axes, grid.NewNumericAxis(a.Name, a.Numbers))
		}
	}
	if len(axes) == 0 {
		axes = append(axes, grid.NewNumericAxis("x", []float64{-2, -1, 0, 1, 2}))
	}
	return grid.NewGrid(axes...)
}

func axisNames(g grid.Grid) []string {
	names := make([]string, len(g.Axes))
	for i, a := range g.Axes {
		names[i] = a.Name
	}
	return names
}

func optimizerConfig(cfg config.Config, g grid.Grid) (optimizer.Config, error) {
	h, err := buildHeuristic(cfg, g)
	if err != nil {
		return optimizer.Config{}, err
	}
	resampling, aggregation, err := buildResampling(cfg)
	if err != nil {
		return optimizer.Config{}, err
	}
	return optimizer.Config{
		Grid:              g,
		InitialSampleName: cfg.Experiment.InitialSampleName,
		InitialSampleSize: cfg.Experiment.InitialSampleSize,
		Heuristic:         h,
		ResamplingName:    cfg.Resampling.Name,
		Resampling:        resampling,
		Aggregation:       aggregation,
		MaxIteration:      cfg.Experiment.MaxIteration,
		Reevaluate:        cfg.Experiment.Reevaluate,
		MaxRetry:          cfg.Experiment.MaxRetry,
		TimeOut:           cfg.Experiment.TimeOut,
		Async:             cfg.Async.Enabled,
		PollInterval:      cfg.Async.PollInterval,
		CostCeiling:       cfg.Async.CostCeiling,
		Seed:              cfg.Experiment.Seed,
	}, nil
}

// buildHeuristic dispatches cfg.Heuristic.Name onto the heuristic family's
// constructors, mirroring the original's dynamic dispatch over heuristic
// classes (spec.md §4.4). Exhaustive search, the genetic algorithm and the
// surrogate model never fail to construct, so they are registered into a
// heuristic.Registry; simulated annealing's New validates its cooldown's
// alpha constraint and can fail, so it is built directly — heuristic.Factory
// has no error return to thread that failure through the registry.
func buildHeuristic(cfg config.Config, g grid.Grid) (heuristic.Heuristic, error) {
	seed := cfg.Experiment.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	registry := heuristic.NewRegistry()
	registry.Register("exhaustive_search", func() heuristic.Heuristic {
		return exhaustive.New(g)
	})
	registry.Register("genetic_algorithm", func() heuristic.Heuristic {
		return genetic.New(genetic.Config{
			PopulationSize: cfg.Heuristic.PopulationSize,
			Selection:      genetic.SelectionName(cfg.Heuristic.Selection),
			Crossover:      genetic.CrossoverName(cfg.Heuristic.Crossover),
			TournamentSize: cfg.Heuristic.TournamentSize,
			Elitism:        cfg.Heuristic.Elitism,
			MutationRate:   cfg.Heuristic.MutationRate,
			MaxRetry:       cfg.Heuristic.MaxRetry,
			Rng:            rng,
		})
	})
	registry.Register("surrogate_model", func() heuristic.Heuristic {
		return surrogate.New(surrogate.Config{
			Regressor:       &surrogate.LinearRegressor{},
			AcquisitionName: cfg.Heuristic.AcquisitionName,
			CandidatePool:   cfg.Heuristic.CandidatePool,
			Rng:             rng,
		})
	})

	switch cfg.Heuristic.Name {
	case "simulated_annealing":
		return annealing.New(annealing.Config{
			InitialTemperature: cfg.Heuristic.InitialTemp,
			Alpha:              cfg.Heuristic.Alpha,
			CooldownName:       cfg.Heuristic.CooldownName,
			RestartEnabled:     cfg.Heuristic.RestartEnabled,
			RestartPatience:    cfg.Heuristic.RestartPatience,
			Rng:                rng,
		})
	case "":
		return registry.Build("exhaustive_search")
	default:
		return registry.Build(cfg.Heuristic.Name)
	}
}

// buildResampling wires cfg.Resampling into a noise.ResamplingPolicy and
// noise.Aggregator pair (spec.md §4.5). An empty Name disables resampling
// entirely: the driver then never re-evaluates and history passes through
// Identity aggregation unchanged.
func buildResampling(cfg config.Config) (noise.ResamplingPolicy, noise.Aggregator, error) {
	if cfg.Resampling.Name == "" {
		return nil, noise.Identity{}, nil
	}
	sched, err := noise.ScheduleByName(cfg.Resampling.Schedule)
	if err != nil {
		return nil, nil, err
	}
	var gate *noise.AllowResamplingGate
	if cfg.Resampling.AllowGateFraction > 0 {
		gate = &noise.AllowResamplingGate{Fraction: cfg.Resampling.AllowGateFraction, Schedule: sched}
	}
	policy, err := noise.PolicyByName(cfg.Resampling.Name, cfg.Resampling.SimpleN, cfg.Resampling.Percentage, sched, gate)
	if err != nil {
		return nil, nil, err
	}
	return policy, noise.AggregatorByName(cfg.Resampling.AggregationName), nil
}

// Execute runs the bbo CLI, exiting the process with a nonzero status on
// error, matching the teacher's cmd/tutu entry point idiom.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveHTTP(addr string, srv *api.Server) error {
	return http.ListenAndServe(addr, srv.Handler())
}
