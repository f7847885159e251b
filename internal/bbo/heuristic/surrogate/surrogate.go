// surrogate.go wires Regressor + Acquisition into the Heuristic capability
// contract, matching the original's SurrogateModel class: refit the
// regressor to the (aggregated) history every iteration, then ask the
// acquisition strategy for the next point among a pool of candidates drawn
// from the grid.
package surrogate

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// Config configures a SurrogateModel heuristic.
type Config struct {
	Regressor       Regressor
	AcquisitionName string // "L-BFGS-B", "CMA-ES", "MPI" or "EI"
	CandidatePool   int    // number of random candidates to draw from the grid per iteration
	Rng             *rand.Rand
}

// SurrogateModel is the Heuristic implementation for spec.md §4.4.1.
type SurrogateModel struct {
	cfg      Config
	scaler   StandardScaler
	fitCount int
}

// New constructs a SurrogateModel heuristic.
func New(cfg Config) *SurrogateModel {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(1))
	}
	if cfg.CandidatePool <= 0 {
		cfg.CandidatePool = 50
	}
	return &SurrogateModel{cfg: cfg}
}

func (s *SurrogateModel) Propose(g grid.Grid, h *history.History, _ grid.ParameterVector) (grid.ParameterVector, error) {
	if h.Len() == 0 {
		return s.randomPoint(g), nil
	}

	X, y := encodeHistory(g, h)
	if err := s.fitRegressor(X, y, h.Truncated); err != nil {
		return nil, fmt.Errorf("bbo/surrogate: fit regressor: %w", err)
	}
	s.fitCount++

	candidates := s.drawCandidates(g)
	best, _ := h.MinFitness()

	var next grid.ParameterVector
	switch s.cfg.AcquisitionName {
	case "CMA-ES":
		next = CMAES{}.Next(g, s.cfg.Regressor, candidates, s.cfg.Rng)
	default:
		acq, ok := AcquisitionByName(s.cfg.AcquisitionName, bestOf(best, y))
		if !ok {
			return nil, fmt.Errorf("bbo/surrogate: unknown acquisition strategy %q", s.cfg.AcquisitionName)
		}
		next = acq.Next(g, s.cfg.Regressor, candidates, s.cfg.Rng)
	}
	if next == nil {
		return s.randomPoint(g), nil
	}
	return g.Snap(next), nil
}

func bestOf(historyBest float64, y []float64) float64 {
	b := historyBest
	for _, v := range y {
		if v < b {
			b = v
		}
	}
	return b
}

// fitRegressor fits the configured regressor to the standardized history,
// using the censored-fit capability when the regressor supports it and
// the history actually contains truncated observations — the Go
// translation of the original's try/except TypeError capability probe.
func (s *SurrogateModel) fitRegressor(X *mat.Dense, y []float64, truncated []bool) error {
	s.scaler.Fit(X)
	Xs := s.scaler.Transform(X)

	hasTruncated := false
	for _, t := range truncated {
		if t {
			hasTruncated = true
			break
		}
	}

	if hasTruncated {
		if cr, ok := DetectCensored(s.cfg.Regressor); ok {
			return cr.FitCensored(Xs, y, truncated)
		}
	}
	return s.cfg.Regressor.Fit(Xs, y)
}

func (s *SurrogateModel) drawCandidates(g grid.Grid) []grid.ParameterVector {
	out := make([]grid.ParameterVector, 0, s.cfg.CandidatePool)
	for i := 0; i < s.cfg.CandidatePool; i++ {
		out = append(out, s.randomPoint(g))
	}
	return out
}

func (s *SurrogateModel) randomPoint(g grid.Grid) grid.ParameterVector {
	idxs := make([]int, len(g.Axes))
	for i, axis := range g.Axes {
		idxs[i] = s.cfg.Rng.Intn(axis.Len())
	}
	return g.RandomPoint(idxs)
}

func encodeHistory(g grid.Grid, h *history.History) (*mat.Dense, []float64) {
	rows := h.Len()
	if rows == 0 {
		return mat.NewDense(0, 0, nil), nil
	}
	enc := OneHotEncoder{}
	cols := enc.Dims(g)
	data := make([]float64, 0, rows*cols)
	for _, p := range h.Parameters {
		data = append(data, enc.Encode(g, p)...)
	}
	return mat.NewDense(rows, cols, data), append([]float64(nil), h.Fitness...)
}

func (s *SurrogateModel) ShouldStop() bool { return false }

func (s *SurrogateModel) Summary() string {
	return fmt.Sprintf("surrogate model: %d refits, acquisition=%s", s.fitCount, s.cfg.AcquisitionName)
}

func (s *SurrogateModel) Reset() {
	s.fitCount = 0
	s.scaler = StandardScaler{}
}
