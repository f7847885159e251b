package surrogate

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// CMAES is a single-generation, CMA-ES-style sampling step used as an
// acquisition strategy over the regressor's predicted surface: it samples
// a population from an isotropic Gaussian (StepSize on every axis) centred
// on a randomly chosen candidate, evaluates it through the regressor, and
// returns the sample with the lowest prediction. It does not adapt a
// covariance matrix, mean or step size, and runs no further generations;
// it picks one next candidate per optimizer iteration, grounded on the
// original's use of the python `cma` package as a black-box "give me one
// better point" oracle.
type CMAES struct {
	PopulationSize int
	StepSize       float64
}

func (c CMAES) Next(g grid.Grid, reg Regressor, candidates []grid.ParameterVector, rng *rand.Rand) grid.ParameterVector {
	if len(candidates) == 0 {
		return nil
	}
	enc := OneHotEncoder{}
	dims := enc.Dims(g)
	mean := enc.Encode(g, candidates[rng.Intn(len(candidates))])

	pop := c.PopulationSize
	if pop <= 0 {
		pop = 8
	}
	step := c.StepSize
	if step <= 0 {
		step = 1
	}

	samples := make([][]float64, pop)
	data := make([]float64, 0, pop*dims)
	for i := 0; i < pop; i++ {
		s := make([]float64, dims)
		for j := 0; j < dims; j++ {
			s[j] = mean[j] + step*rng.NormFloat64()
		}
		samples[i] = s
		data = append(data, s...)
	}
	X := mat.NewDense(pop, dims, data)
	fitness := reg.Predict(X)

	bestIdx := 0
	for i, f := range fitness[1:] {
		if f < fitness[bestIdx] {
			bestIdx = i + 1
		}
	}
	best := samples[bestIdx]
	if best == nil || anyNaN(best) {
		return g.Snap(enc.Decode(g, mean))
	}
	return g.Snap(enc.Decode(g, best))
}

func anyNaN(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
