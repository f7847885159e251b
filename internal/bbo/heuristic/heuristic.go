// Package heuristic defines the capability contract every optimization
// strategy implements — propose the next parametrization, report whether
// the strategy itself wants to stop, summarize its internal state, and
// reset it for reuse — plus a name-keyed registry mirroring the original's
// dynamic dispatch over heuristic classes.
package heuristic

import (
	"fmt"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// Heuristic is the capability every optimization strategy must implement.
// This is the Go translation of the original's abstract Heuristic base
// class: choose_next_parameter, summary and reset become Propose, Summary
// and Reset; the Python "stop" attribute becomes the ShouldStop method.
type Heuristic interface {
	// Propose returns the next parametrization to evaluate, given the
	// grid and the (aggregated) history so far. currentParameters is the
	// most recently evaluated point; heuristics that do not use it
	// (genetic algorithm) are still required to accept it for interface
	// uniformity, see DESIGN.md.
	Propose(g grid.Grid, h *history.History, currentParameters grid.ParameterVector) (grid.ParameterVector, error)

	// ShouldStop reports whether the heuristic itself has reached an
	// internal stopping condition (e.g. the cooldown temperature reached
	// its floor), independent of the driver's own stop criteria.
	ShouldStop() bool

	// Summary returns a short human-readable recap of the heuristic's
	// internal state, used by Optimizer.Summarize.
	Summary() string

	// Reset restores the heuristic to the state it had right after
	// construction.
	Reset()
}

// Factory builds a fresh Heuristic instance. The registry stores one
// Factory per name and Build calls it, so every Build of a name yields a
// heuristic with the same configuration. Optimizer.Reset does not use the
// registry; it calls the heuristic's own Reset.
type Factory func() Heuristic

// Registry maps configuration names to heuristic factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a named factory to the registry.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Build constructs a new Heuristic instance for the given name.
func (r *Registry) Build(name string) (Heuristic, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("bbo/heuristic: unknown heuristic %q", name)
	}
	return f(), nil
}
