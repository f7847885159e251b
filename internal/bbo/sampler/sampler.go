// Package sampler builds the initial sample of parametrizations an
// optimizer run evaluates before handing control to a heuristic: uniform
// random draws, latin hypercube sampling, and a hybrid of the two that
// degrades gracefully once the grid's smallest axis is exhausted.
package sampler

import (
	"fmt"
	"math/rand"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

// Sampler draws an initial set of k parametrizations from a grid.
type Sampler interface {
	Sample(g grid.Grid, k int, rng *rand.Rand) ([]grid.ParameterVector, error)
}

// UniformRandom draws k points independently, uniformly at random, with
// replacement, across the grid — the simplest initial sampler.
type UniformRandom struct{}

func (UniformRandom) Sample(g grid.Grid, k int, rng *rand.Rand) ([]grid.ParameterVector, error) {
	out := make([]grid.ParameterVector, k)
	for i := 0; i < k; i++ {
		idxs := make([]int, len(g.Axes))
		for a, axis := range g.Axes {
			idxs[a] = rng.Intn(axis.Len())
		}
		out[i] = g.RandomPoint(idxs)
	}
	return out, nil
}

// LatinHypercube draws k points such that, on every axis, the k points take
// k distinct values (a random k-subset of the axis's indices, in random
// order). It requires k to not exceed the smallest axis's cardinality,
// matching the original's assertion.
type LatinHypercube struct{}

func (LatinHypercube) Sample(g grid.Grid, k int, rng *rand.Rand) ([]grid.ParameterVector, error) {
	for _, axis := range g.Axes {
		if axis.Len() < k {
			return nil, fmt.Errorf("bbo/sampler: latin hypercube sampling requires every axis to have at least k=%d values, axis %q has %d", k, axis.Name, axis.Len())
		}
	}
	perAxis := make([][]int, len(g.Axes))
	for a, axis := range g.Axes {
		perm := rng.Perm(axis.Len())[:k]
		perAxis[a] = perm
	}
	out := make([]grid.ParameterVector, k)
	for i := 0; i < k; i++ {
		idxs := make([]int, len(g.Axes))
		for a := range g.Axes {
			idxs[a] = perAxis[a][i]
		}
		out[i] = g.RandomPoint(idxs)
	}
	return out, nil
}

// Hybrid uses latin hypercube sampling while k does not exceed the
// smallest axis's cardinality, and falls back to uniform random sampling
// for any remaining points beyond that limit — the original's
// degrade-gracefully-past-limit behavior.
type Hybrid struct{}

func (Hybrid) Sample(g grid.Grid, k int, rng *rand.Rand) ([]grid.ParameterVector, error) {
	minAxis := -1
	for _, axis := range g.Axes {
		if minAxis == -1 || axis.Len() < minAxis {
			minAxis = axis.Len()
		}
	}
	if minAxis == -1 || k <= minAxis {
		return LatinHypercube{}.Sample(g, k, rng)
	}
	lhs, err := LatinHypercube{}.Sample(g, minAxis, rng)
	if err != nil {
		return nil, err
	}
	extra, err := UniformRandom{}.Sample(g, k-minAxis, rng)
	if err != nil {
		return nil, err
	}
	return append(lhs, extra...), nil
}

// ByName resolves a sampler by its configuration name, matching
// spec.md's §4.3 vocabulary ("uniform_random", "latin_hypercube", "hybrid").
func ByName(name string) (Sampler, error) {
	switch name {
	case "uniform_random":
		return UniformRandom{}, nil
	case "latin_hypercube":
		return LatinHypercube{}, nil
	case "hybrid":
		return Hybrid{}, nil
	default:
		return nil, fmt.Errorf("bbo/sampler: unknown initial sampler %q", name)
	}
}
