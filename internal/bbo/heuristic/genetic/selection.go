package genetic

import (
	"math/rand"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// ProbabilisticPick selects two parents from the mating pool by weight
// 1/(f - min(f) + 1), normalized to a probability vector (spec.md §4.4.3):
// draw parent 1, remove it from the pool, recompute weights over the
// remainder, draw parent 2. With elitism, parent 1 is the best-fitness
// individual deterministically instead of drawn.
func ProbabilisticPick(population []grid.ParameterVector, fitness []float64, elitism bool, rng *rand.Rand) (grid.ParameterVector, grid.ParameterVector) {
	pool := append([]grid.ParameterVector(nil), population...)
	poolFitness := append([]float64(nil), fitness...)

	var i1 int
	if elitism {
		i1 = argMin(poolFitness)
	} else {
		i1 = weightedIndex(invertedWeights(poolFitness), rng)
	}
	p1 := pool[i1]
	pool = append(pool[:i1], pool[i1+1:]...)
	poolFitness = append(poolFitness[:i1], poolFitness[i1+1:]...)

	i2 := weightedIndex(invertedWeights(poolFitness), rng)
	p2 := pool[i2]
	return p1, p2
}

func invertedWeights(fitness []float64) []float64 {
	minF := fitness[0]
	for _, f := range fitness[1:] {
		if f < minF {
			minF = f
		}
	}
	weights := make([]float64, len(fitness))
	total := 0.0
	for i, f := range fitness {
		weights[i] = 1 / (f - minF + 1)
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

func weightedIndex(weights []float64, rng *rand.Rand) int {
	r := rng.Float64()
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return i
		}
	}
	return len(weights) - 1
}

// TournamentPick selects two parents from the mating pool: draw pool_size
// individuals without replacement and keep the fittest as parent 1, remove
// it from the pool, then repeat for parent 2 (spec.md §4.4.3). When Elitism
// is true, parent 1 is the global best individual deterministically instead
// of drawn.
func TournamentPick(population []grid.ParameterVector, fitness []float64, tournamentSize int, elitism bool, rng *rand.Rand) (grid.ParameterVector, grid.ParameterVector) {
	pool := append([]grid.ParameterVector(nil), population...)
	poolFitness := append([]float64(nil), fitness...)

	var i1 int
	if elitism {
		i1 = argMin(poolFitness)
	} else {
		i1 = tournamentIndex(poolFitness, tournamentSize, rng)
	}
	p1 := pool[i1]
	pool = append(pool[:i1], pool[i1+1:]...)
	poolFitness = append(poolFitness[:i1], poolFitness[i1+1:]...)

	i2 := tournamentIndex(poolFitness, tournamentSize, rng)
	p2 := pool[i2]
	return p1, p2
}

func tournamentIndex(fitness []float64, size int, rng *rand.Rand) int {
	if size > len(fitness) {
		size = len(fitness)
	}
	idxs := rng.Perm(len(fitness))[:size]
	best := idxs[0]
	for _, idx := range idxs[1:] {
		if fitness[idx] < fitness[best] {
			best = idx
		}
	}
	return best
}

func argMin(fitness []float64) int {
	best := 0
	for i, f := range fitness[1:] {
		if f < fitness[best] {
			best = i + 1
		}
	}
	return best
}
