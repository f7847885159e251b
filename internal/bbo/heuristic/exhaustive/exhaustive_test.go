package exhaustive

import (
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func TestExhaustiveVisitsEveryPoint(t *testing.T) {
	g := grid.NewGrid(
		grid.NewNumericAxis("x", []float64{1, 2}),
		grid.NewNumericAxis("y", []float64{10, 20}),
	)
	e := New(g)
	h := history.New()
	seen := map[string]bool{}
	for i := 0; i < g.Size(); i++ {
		p, err := e.Propose(g, h, nil)
		if err != nil {
			t.Fatal(err)
		}
		seen[p.Key()] = true
	}
	if len(seen) != g.Size() {
		t.Errorf("visited %d distinct points, want %d", len(seen), g.Size())
	}
	if !e.ShouldStop() {
		t.Error("expected ShouldStop() true after exhausting the grid")
	}
}

func TestExhaustiveResetRewindsCursor(t *testing.T) {
	g := grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2}))
	e := New(g)
	h := history.New()
	e.Propose(g, h, nil)
	e.Propose(g, h, nil)
	if !e.ShouldStop() {
		t.Fatal("expected ShouldStop() true")
	}
	e.Reset()
	if e.ShouldStop() {
		t.Error("expected ShouldStop() false after Reset")
	}
}
