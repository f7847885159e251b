// Package genetic implements the genetic algorithm heuristic: a
// population is drawn from history, two parents are selected, crossed
// over, and the child is possibly mutated to a neighboring value.
package genetic

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// SelectionName and CrossoverName enumerate spec.md §4.4.3's vocabulary.
type SelectionName string
type CrossoverName string

const (
	SelectionProbabilistic SelectionName = "probabilistic"
	SelectionTournament    SelectionName = "tournament"

	CrossoverSinglePoint CrossoverName = "single_point"
	CrossoverDoublePoint CrossoverName = "double_point"
)

// Config configures a GeneticAlgorithm heuristic.
type Config struct {
	PopulationSize int
	Selection      SelectionName
	Crossover      CrossoverName
	TournamentSize int
	Elitism        bool
	MutationRate   float64
	MaxRetry       int // retries to find a child distinct from both parents
	Rng            *rand.Rand
}

type familyRecord struct {
	parent1, parent2, child grid.ParameterVector
}

// GeneticAlgorithm is the Heuristic implementation for spec.md §4.4.3.
//
// Propose accepts currentParameters for interface uniformity with the
// other heuristic families but, matching the original, never reads it:
// the genetic algorithm's next move depends only on the population drawn
// from history, not on the single most recently evaluated point. See
// DESIGN.md open question #4.
type GeneticAlgorithm struct {
	cfg          Config
	familyLine   []familyRecord
	nbrMutations int
}

// New constructs a GeneticAlgorithm heuristic with the given population
// and mutation settings.
func New(cfg Config) *GeneticAlgorithm {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}
	if cfg.TournamentSize <= 0 {
		cfg.TournamentSize = 2
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 1
	}
	return &GeneticAlgorithm{cfg: cfg}
}

func (ga *GeneticAlgorithm) Propose(g grid.Grid, h *history.History, _ grid.ParameterVector) (grid.ParameterVector, error) {
	population, fitness := fittestPopulation(h, ga.cfg.PopulationSize)
	if len(population) < 2 {
		idxs := make([]int, len(g.Axes))
		for i, axis := range g.Axes {
			idxs[i] = ga.cfg.Rng.Intn(axis.Len())
		}
		return g.RandomPoint(idxs), nil
	}

	var p1, p2, child grid.ParameterVector
	for attempt := 0; attempt < ga.cfg.MaxRetry; attempt++ {
		switch ga.cfg.Selection {
		case SelectionTournament:
			p1, p2 = TournamentPick(population, fitness, ga.cfg.TournamentSize, ga.cfg.Elitism, ga.cfg.Rng)
		default:
			p1, p2 = ProbabilisticPick(population, fitness, ga.cfg.Elitism, ga.cfg.Rng)
		}

		switch ga.cfg.Crossover {
		case CrossoverDoublePoint:
			child = DoublePointCrossover(p1, p2, ga.cfg.Rng)
		default:
			child = SinglePointCrossover(p1, p2, ga.cfg.Rng)
		}

		if ga.cfg.Rng.Float64() < ga.cfg.MutationRate {
			if mutated, applied := ToNeighbor(g, child, ga.cfg.Rng); applied {
				ga.nbrMutations++
				child = mutated
			}
		}

		if !child.Equal(p1) && !child.Equal(p2) {
			break
		}
	}

	ga.familyLine = append(ga.familyLine, familyRecord{parent1: p1, parent2: p2, child: child})
	return g.Snap(child), nil
}

// fittestPopulation returns the best n evaluated parametrizations by
// fitness, ascending, or the whole history sorted if it is shorter than n
// — spec.md §4.4.3's "selection operates on the top matingpool_size by
// fitness", matching the original's _select_by_fitness sorting the entire
// history rather than a temporal window.
func fittestPopulation(h *history.History, n int) ([]grid.ParameterVector, []float64) {
	idxs := make([]int, h.Len())
	for i := range idxs {
		idxs[i] = i
	}
	sort.Slice(idxs, func(i, j int) bool { return h.Fitness[idxs[i]] < h.Fitness[idxs[j]] })
	if n <= 0 || n > len(idxs) {
		n = len(idxs)
	}
	population := make([]grid.ParameterVector, n)
	fitness := make([]float64, n)
	for i, idx := range idxs[:n] {
		population[i] = h.Parameters[idx]
		fitness[i] = h.Fitness[idx]
	}
	return population, fitness
}

func (ga *GeneticAlgorithm) ShouldStop() bool { return false }

func (ga *GeneticAlgorithm) Summary() string {
	return fmt.Sprintf("genetic algorithm: %d generations, %d mutations applied", len(ga.familyLine), ga.nbrMutations)
}

// Reset is deliberately a no-op, matching the original exactly: family
// line and mutation counters are not cleared on reset (see DESIGN.md).
func (ga *GeneticAlgorithm) Reset() {}
