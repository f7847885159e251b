package surrogate

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// Acquisition picks the next candidate to evaluate from a fitted
// regressor and the grid's candidate points.
type Acquisition interface {
	Next(g grid.Grid, reg Regressor, candidates []grid.ParameterVector, rng *rand.Rand) grid.ParameterVector
}

func candidatesToMatrix(g grid.Grid, candidates []grid.ParameterVector) *mat.Dense {
	if len(candidates) == 0 {
		return mat.NewDense(0, 0, nil)
	}
	enc := OneHotEncoder{}
	cols := enc.Dims(g)
	data := make([]float64, 0, len(candidates)*cols)
	for _, c := range candidates {
		data = append(data, enc.Encode(g, c)...)
	}
	return mat.NewDense(len(candidates), cols, data)
}

// LBFGSB minimizes the regressor's predicted mean directly using gonum's
// L-BFGS method, then snaps the unconstrained optimum back onto the grid —
// the Go analogue of scipy's L-BFGS-B bounded minimizer the original uses.
type LBFGSB struct{}

func (LBFGSB) Next(g grid.Grid, reg Regressor, candidates []grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	if len(candidates) == 0 {
		return nil
	}
	enc := OneHotEncoder{}
	dims := enc.Dims(g)
	start := enc.Encode(g, candidates[rng.Intn(len(candidates))])

	f := func(x []float64) float64 {
		row := mat.NewDense(1, dims, x)
		preds := reg.Predict(row)
		return preds[0]
	}
	problem := optimize.Problem{
		Func: f,
		// L-BFGS needs a gradient; the regressor only predicts values, so
		// it is estimated by finite differences.
		Grad: func(grad, x []float64) { fd.Gradient(grad, f, x, nil) },
	}
	result, err := optimize.Minimize(problem, start, &optimize.Settings{MajorIterations: 50}, &optimize.LBFGS{})
	if err != nil || result == nil {
		return g.Snap(enc.Decode(g, start))
	}
	return g.Snap(enc.Decode(g, result.X))
}

// MPI (most probable improvement) ranks candidates by the probability that
// their predicted fitness improves on the current best, using the
// regressor's predictive mean and standard deviation through the standard
// normal CDF. Candidates are evaluated against a StdRegressor when
// available; without one, MPI degrades to picking the candidate with the
// lowest predicted mean (std treated as 0).
type MPI struct {
	Best float64
}

func (m MPI) Next(g grid.Grid, reg Regressor, candidates []grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	X := candidatesToMatrix(g, candidates)
	means := reg.Predict(X)
	sr, ok := DetectStd(reg)
	if !ok {
		lowest := 0
		for i := range means {
			if means[i] < means[lowest] {
				lowest = i
			}
		}
		return candidates[lowest]
	}
	stds := sr.PredictStd(X)

	bestIdx := -1
	bestProb := math.Inf(-1)
	for i := range candidates {
		prob := mpiProbability(means[i], stds[i], m.Best)
		if prob > bestProb {
			bestProb = prob
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return candidates[rng.Intn(len(candidates))]
	}
	return candidates[bestIdx]
}

func mpiProbability(mean, std, best float64) float64 {
	if std == 0 {
		if mean < best {
			return 1
		}
		return 0
	}
	z := (best - mean) / std
	if math.IsNaN(z) {
		return 0
	}
	return distuv.Normal{Mu: 0, Sigma: 1}.CDF(z)
}

// EI (expected improvement) ranks candidates by their expected reduction
// below the current best, using the closed-form Gaussian expected
// improvement. If every candidate's expected improvement is exactly zero
// (e.g. the regressor reports zero uncertainty everywhere), EI falls back
// to a uniform random candidate, matching the original's explicit
// all-zero-EI fallback rule.
type EI struct {
	Best float64
}

func (e EI) Next(g grid.Grid, reg Regressor, candidates []grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	X := candidatesToMatrix(g, candidates)
	means := reg.Predict(X)
	stds := zeros(len(candidates))
	if sr, ok := DetectStd(reg); ok {
		stds = sr.PredictStd(X)
	}

	bestIdx := -1
	bestEI := 0.0
	anyPositive := false
	for i := range candidates {
		ei := expectedImprovement(means[i], stds[i], e.Best)
		if ei > bestEI {
			bestEI = ei
			bestIdx = i
			anyPositive = true
		}
	}
	if !anyPositive {
		return candidates[rng.Intn(len(candidates))]
	}
	return candidates[bestIdx]
}

func expectedImprovement(mean, std, best float64) float64 {
	if std == 0 {
		return 0
	}
	z := (best - mean) / std
	if math.IsNaN(z) {
		return 0
	}
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return (best-mean)*n.CDF(z) + std*n.Prob(z)
}

func zeros(n int) []float64 { return make([]float64, n) }

// AcquisitionByName resolves an acquisition strategy by spec.md §4.4.1's
// configuration vocabulary. CMA-ES has no Acquisition implementation here:
// it is a population-based strategy operating directly on the grid rather
// than ranking fixed candidates, implemented separately in cmaes.go.
func AcquisitionByName(name string, best float64) (Acquisition, bool) {
	switch name {
	case "L-BFGS-B":
		return LBFGSB{}, true
	case "MPI":
		return MPI{Best: best}, true
	case "EI":
		return EI{Best: best}, true
	default:
		return nil, false
	}
}
