package genetic

import (
	"math/rand"
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

func TestTournamentPickWithElitismReturnsBestAsFirstParent(t *testing.T) {
	population := []grid.ParameterVector{
		{{Number: 1}}, {{Number: 2}}, {{Number: 3}}, {{Number: 4}},
	}
	fitness := []float64{10, 2, 30, 40}
	rng := rand.New(rand.NewSource(7))
	p1, _ := TournamentPick(population, fitness, 2, true, rng)
	if p1[0].Number != 2 {
		t.Errorf("elitist tournament pick first parent = %v, want the global best (2)", p1)
	}
}

func TestSinglePointCrossoverTakesPrefixFromFirstParent(t *testing.T) {
	p1 := grid.ParameterVector{{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4}}
	p2 := grid.ParameterVector{{Number: 10}, {Number: 20}, {Number: 30}, {Number: 40}}
	rng := rand.New(rand.NewSource(1))
	child := SinglePointCrossover(p1, p2, rng)
	if child[0].Number != p1[0].Number {
		t.Errorf("expected child's first gene to come from p1")
	}
	if child[len(child)-1].Number != p2[len(p2)-1].Number {
		t.Errorf("expected child's last gene to come from p2")
	}
}

func TestGeneticAlgorithmResetIsNoOp(t *testing.T) {
	ga := New(Config{PopulationSize: 4, Selection: SelectionProbabilistic, Crossover: CrossoverSinglePoint, MutationRate: 1, Rng: rand.New(rand.NewSource(1))})
	g := grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2, 3}))
	h := buildTestHistory()
	ga.Propose(g, h, nil)
	before := ga.Summary()
	ga.Reset()
	after := ga.Summary()
	if before != after {
		t.Errorf("Reset() changed summary from %q to %q, want no-op", before, after)
	}
}
