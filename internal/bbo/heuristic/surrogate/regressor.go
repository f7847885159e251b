// Package surrogate implements the surrogate-model heuristic: a regressor
// fit to the history so far stands in for the expensive black box, and an
// acquisition strategy decides where to evaluate next using the
// regressor's predictions (and, for some strategies, their uncertainty).
package surrogate

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Regressor is the narrow capability every surrogate model must implement:
// fit to observed (X, y) pairs, then predict y for new X. This is the Go
// translation of the original's minimal duck-typed regressor contract.
type Regressor interface {
	Fit(X *mat.Dense, y []float64) error
	Predict(X *mat.Dense) []float64
}

// StdRegressor is an optional capability: a Regressor that can also
// report its predictive standard deviation, required by the MPI and EI
// acquisition strategies. Detected at runtime via type assertion, mirroring
// the original's hasattr(model, "predict_std") check.
type StdRegressor interface {
	Regressor
	PredictStd(X *mat.Dense) []float64
}

// CensoredRegressor is an optional capability: a Regressor that can fit
// against data containing right-censored (truncated) observations.
// Detected via the same try/fit-then-catch-TypeError pattern as the
// original, translated into a type assertion plus a capability check.
type CensoredRegressor interface {
	Regressor
	FitCensored(X *mat.Dense, y []float64, censored []bool) error
}

// DetectStd returns r's StdRegressor capability if present.
func DetectStd(r Regressor) (StdRegressor, bool) {
	s, ok := r.(StdRegressor)
	return s, ok
}

// DetectCensored returns r's CensoredRegressor capability if present.
func DetectCensored(r Regressor) (CensoredRegressor, bool) {
	c, ok := r.(CensoredRegressor)
	return c, ok
}

// StandardScaler standardizes features to zero mean and unit variance,
// matching the original's use of sklearn's StandardScaler ahead of
// fitting the regressor.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes the per-column mean and standard deviation of X.
func (s *StandardScaler) Fit(X *mat.Dense) {
	rows, cols := X.Dims()
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, X)
		s.Mean[j] = stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Std[j] = std
	}
}

// Transform returns a standardized copy of X using previously fit
// Mean/Std; X itself is left unchanged.
func (s *StandardScaler) Transform(X *mat.Dense) *mat.Dense {
	rows, cols := X.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Std[j])
		}
	}
	return out
}

// LinearRegressor is a ridge-regularized linear regressor fit by the
// normal equations, the simplest gonum-backed Regressor implementation —
// used as the default surrogate model and as a StdRegressor via residual
// variance, the Go analogue of the original's scikit-learn estimator
// wrapping.
type LinearRegressor struct {
	Lambda  float64
	weights *mat.VecDense
	sigma2  float64
}

func (l *LinearRegressor) Fit(X *mat.Dense, y []float64) error {
	rows, cols := X.Dims()
	xt := mat.NewDense(cols, rows, nil)
	xt.CloneFrom(X.T())

	xtx := mat.NewDense(cols, cols, nil)
	xtx.Mul(xt, X)
	for i := 0; i < cols; i++ {
		xtx.Set(i, i, xtx.At(i, i)+l.Lambda)
	}

	yVec := mat.NewVecDense(rows, y)
	xty := mat.NewVecDense(cols, nil)
	xty.MulVec(xt, yVec)

	w := mat.NewVecDense(cols, nil)
	if err := w.SolveVec(xtx, xty); err != nil {
		return err
	}
	l.weights = w

	preds := l.Predict(X)
	sse := 0.0
	for i, p := range preds {
		d := y[i] - p
		sse += d * d
	}
	if rows > cols {
		l.sigma2 = sse / float64(rows-cols)
	} else {
		l.sigma2 = sse / float64(rows)
	}
	return nil
}

func (l *LinearRegressor) Predict(X *mat.Dense) []float64 {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	if l.weights == nil {
		return out
	}
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, X)
		out[i] = mat.Dot(mat.NewVecDense(len(row), row), l.weights)
	}
	return out
}

// PredictStd reports the fitted residual standard deviation as a constant
// uncertainty estimate for every query point — a deliberately simple
// homoscedastic model, adequate for the acquisition strategies that only
// need a std estimate to compute a z-score.
func (l *LinearRegressor) PredictStd(X *mat.Dense) []float64 {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	std := 0.0
	if l.sigma2 > 0 {
		std = math.Sqrt(l.sigma2)
	}
	for i := range out {
		out[i] = std
	}
	return out
}
