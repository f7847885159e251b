// Package annealing implements the simulated annealing heuristic: a
// cooldown schedule governs the acceptance probability of worse moves, a
// neighbor function proposes candidate moves, and an optional restart
// mechanism reheats the search after prolonged stagnation.
package annealing

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// Config configures a SimulatedAnnealing heuristic.
type Config struct {
	InitialTemperature float64
	Alpha              float64
	CooldownName       string // "exponential", "logarithmic" or "multiplicative"
	RestartEnabled     bool
	RestartPatience    int // consecutive rejections before a restart
	Rng                *rand.Rand
}

// SimulatedAnnealing is the Heuristic implementation for spec.md §4.4.2.
type SimulatedAnnealing struct {
	cfg          Config
	cooldown     Cooldown
	iteration    int
	rejections   int
	restartCount int
	stop         bool
}

// New constructs a SimulatedAnnealing heuristic, validating the cooldown
// schedule's alpha constraint up front (spec.md §4.4.2).
func New(cfg Config) (*SimulatedAnnealing, error) {
	cd, err := CooldownByName(cfg.CooldownName, cfg.Alpha)
	if err != nil {
		return nil, err
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}
	return &SimulatedAnnealing{cfg: cfg, cooldown: cd}, nil
}

func (s *SimulatedAnnealing) temperature() float64 {
	return s.cooldown(s.cfg.InitialTemperature, s.cfg.Alpha, s.iteration)
}

// Propose implements spec.md §4.4.2's per-call algorithm: update the
// cooldown, compare the last two evaluated points (cur = parameters[N-2],
// nxt = parameters[N-1]) with the Metropolis criterion, and either hop to a
// neighbor of nxt (nxt accepted as the new current) or return cur unchanged
// (move rejected). With fewer than two prior evaluations there is no pair
// to compare yet, so it simply hops from whatever point is available.
func (s *SimulatedAnnealing) Propose(g grid.Grid, h *history.History, current grid.ParameterVector) (grid.ParameterVector, error) {
	s.iteration++
	t := s.temperature()
	if t <= 0.01 {
		s.stop = true
	}

	n := h.Len()
	if n < 2 {
		base := current
		if base == nil {
			base = g.RandomPoint(make([]int, len(g.Axes)))
		}
		return HopToNextValue(g, base, s.cfg.Rng), nil
	}

	cur, curFitness := h.Parameters[n-2], h.Fitness[n-2]
	nxt, nxtFitness := h.Parameters[n-1], h.Fitness[n-1]

	var proposal grid.ParameterVector
	accepted := nxtFitness <= curFitness
	if !accepted {
		p := math.Exp((curFitness - nxtFitness) / t)
		accepted = s.cfg.Rng.Float64() < p
	}
	if accepted {
		proposal = HopToNextValue(g, nxt, s.cfg.Rng)
		s.rejections = 0
	} else {
		proposal = cur
		s.rejections++
	}

	if s.cfg.RestartEnabled && s.cfg.RestartPatience > 0 && s.rejections >= s.cfg.RestartPatience {
		s.iteration = 0
		s.rejections = 0
		s.restartCount++
		_, best := h.MinFitness()
		proposal = best
	}

	return proposal, nil
}

func (s *SimulatedAnnealing) ShouldStop() bool { return s.stop }

func (s *SimulatedAnnealing) Summary() string {
	if s.cfg.RestartEnabled {
		return fmt.Sprintf("simulated annealing: %d iterations, temperature %.4g, %d restarts", s.iteration, s.temperature(), s.restartCount)
	}
	return fmt.Sprintf("simulated annealing: %d iterations, temperature %.4g", s.iteration, s.temperature())
}

// Reset restores the heuristic's iteration counter and rejection streak.
// Unlike the original (see DESIGN.md open question #5), it does not clear
// the RestartEnabled flag — only the run-time counters derived from it.
func (s *SimulatedAnnealing) Reset() {
	s.iteration = 0
	s.rejections = 0
	s.restartCount = 0
	s.stop = false
}
