package sampler

import (
	"math/rand"
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

func testGrid() grid.Grid {
	return grid.NewGrid(
		grid.NewNumericAxis("x", []float64{1, 2, 3, 4, 5}),
		grid.NewNumericAxis("y", []float64{10, 20, 30, 40, 50}),
	)
}

func TestUniformRandomCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	out, err := UniformRandom{}.Sample(testGrid(), 4, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("Sample returned %d points, want 4", len(out))
	}
}

func TestLatinHypercubeRejectsOversizedK(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := LatinHypercube{}.Sample(testGrid(), 6, rng)
	if err == nil {
		t.Fatal("expected error when k exceeds smallest axis cardinality")
	}
}

func TestHybridDegradesPastLimit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	out, err := Hybrid{}.Sample(testGrid(), 8, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 8 {
		t.Fatalf("Sample returned %d points, want 8", len(out))
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("nonexistent"); err == nil {
		t.Fatal("expected error for unknown sampler name")
	}
}
