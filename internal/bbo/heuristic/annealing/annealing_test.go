package annealing

import (
	"math/rand"
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func TestCooldownAlphaValidation(t *testing.T) {
	if _, err := New(Config{InitialTemperature: 10, Alpha: 1.5, CooldownName: "exponential", Rng: rand.New(rand.NewSource(1))}); err == nil {
		t.Error("expected error: exponential cooldown requires alpha < 1")
	}
	if _, err := New(Config{InitialTemperature: 10, Alpha: 0.5, CooldownName: "logarithmic", Rng: rand.New(rand.NewSource(1))}); err == nil {
		t.Error("expected error: logarithmic cooldown requires alpha > 1")
	}
}

func TestProposeAcceptsImprovingMove(t *testing.T) {
	sa, err := New(Config{InitialTemperature: 10, Alpha: 0.9, CooldownName: "exponential", Rng: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatal(err)
	}
	g := grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2, 3}))
	h := history.New()
	h.Append(grid.ParameterVector{{Number: 3}}, 10, false, false, true) // cur: worse
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, true)  // nxt: better, always accepted
	next, err := sa.Propose(g, h, grid.ParameterVector{{Number: 1}})
	if err != nil {
		t.Fatal(err)
	}
	// An improving nxt is always accepted: the proposal hops from nxt=1,
	// landing on 2 (the only in-bounds neighbor), never back at cur=3.
	if next[0].Number == 3 {
		t.Error("expected the proposal to hop from the accepted (improving) point, not fall back to cur")
	}
}

func TestHopToNextValueChangesAtLeastOneAxis(t *testing.T) {
	g := grid.NewGrid(
		grid.NewNumericAxis("x", []float64{1, 2, 3}),
		grid.NewNumericAxis("y", []float64{10, 20, 30}),
	)
	current := grid.ParameterVector{{Number: 2}, {Number: 20}}
	rng := rand.New(rand.NewSource(42))
	next := HopToNextValue(g, current, rng)
	diffs := 0
	for i := range current {
		if current[i].Number != next[i].Number {
			diffs++
		}
	}
	if diffs == 0 {
		t.Error("HopToNextValue must change at least one axis")
	}
}

func TestStopsWhenTemperatureFloors(t *testing.T) {
	sa, err := New(Config{InitialTemperature: 1, Alpha: 0.01, CooldownName: "exponential", Rng: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatal(err)
	}
	g := grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2, 3}))
	h := history.New()
	for i := 0; i < 10; i++ {
		sa.Propose(g, h, grid.ParameterVector{{Number: 2}})
	}
	if !sa.ShouldStop() {
		t.Error("expected ShouldStop() true once temperature decays below floor")
	}
}
