package surrogate

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func TestLinearRegressorFitsExactLinearData(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{2, 4, 6}
	reg := &LinearRegressor{Lambda: 1e-6}
	if err := reg.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	preds := reg.Predict(mat.NewDense(1, 1, []float64{4}))
	if diff := preds[0] - 8; diff > 0.5 || diff < -0.5 {
		t.Errorf("Predict(4) = %v, want close to 8", preds[0])
	}
}

func TestEIFallsBackToRandomWhenAllZero(t *testing.T) {
	candidates := []grid.ParameterVector{{{Number: 1}}, {{Number: 2}}, {{Number: 3}}}
	// y = 2x is fit exactly (no ridge term), so the residual standard
	// deviation is 0 and EI is 0 for every candidate.
	reg := &LinearRegressor{Lambda: 0}
	reg.Fit(mat.NewDense(2, 1, []float64{1, 2}), []float64{2, 4})
	ei := EI{Best: 5}
	rng := rand.New(rand.NewSource(1))
	got := ei.Next(grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2, 3})), reg, candidates, rng)
	found := false
	for _, c := range candidates {
		if c.Equal(got) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EI fallback to return one of the candidates, got %v", got)
	}
}

func TestSurrogateModelProposesWithEmptyHistory(t *testing.T) {
	s := New(Config{
		Regressor:       &LinearRegressor{Lambda: 1e-3},
		AcquisitionName: "EI",
		CandidatePool:   10,
		Rng:             rand.New(rand.NewSource(1)),
	})
	g := grid.NewGrid(grid.NewNumericAxis("x", []float64{1, 2, 3}))
	h := history.New()
	p, err := s.Propose(g, h, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 1 {
		t.Errorf("expected a 1-dimensional proposal, got %v", p)
	}
}
