package grid

import "testing"

func TestSnapNumericTieBreaksLow(t *testing.T) {
	g := NewGrid(NewNumericAxis("x", []float64{1, 2, 3, 4}))
	got := g.Snap(ParameterVector{{Number: 2.5}})
	if got[0].Number != 2 {
		t.Errorf("Snap(2.5) = %v, want 2 (tie breaks low)", got[0].Number)
	}
}

func TestSnapNumericNearest(t *testing.T) {
	g := NewGrid(NewNumericAxis("x", []float64{0, 10, 20}))
	got := g.Snap(ParameterVector{{Number: 14}})
	if got[0].Number != 10 {
		t.Errorf("Snap(14) = %v, want 10", got[0].Number)
	}
}

func TestSnapCategoricalExactMatch(t *testing.T) {
	g := NewGrid(NewCategoricalAxis("opt", []string{"a", "b", "c"}))
	got := g.Snap(ParameterVector{{Label: "b"}})
	if got[0].Label != "b" {
		t.Errorf("Snap(b) = %v, want b", got[0].Label)
	}
}

func TestGridSize(t *testing.T) {
	g := NewGrid(
		NewNumericAxis("x", []float64{1, 2, 3}),
		NewCategoricalAxis("y", []string{"a", "b"}),
	)
	if g.Size() != 6 {
		t.Errorf("Size() = %d, want 6", g.Size())
	}
}

func TestParameterVectorKeyGroupsEqualVectors(t *testing.T) {
	a := ParameterVector{{Number: 1}, {Label: "x"}}
	b := ParameterVector{{Number: 1}, {Label: "x"}}
	c := ParameterVector{{Number: 2}, {Label: "x"}}
	if a.Key() != b.Key() {
		t.Errorf("expected equal keys for equal vectors")
	}
	if a.Key() == c.Key() {
		t.Errorf("expected different keys for different vectors")
	}
}
