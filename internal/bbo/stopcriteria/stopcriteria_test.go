package stopcriteria

import (
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func TestImprovementContinuesOnLargeGain(t *testing.T) {
	h := history.New()
	for _, f := range []float64{100, 100, 50, 50} {
		h.Append(grid.ParameterVector{{Number: f}}, f, false, false, true)
	}
	// ratio = (100-50)/100 = 0.5, well above the 0.1 threshold: still improving fast, don't stop.
	c := Improvement{WindowSize: 2, Threshold: 0.1}
	if c.ShouldStop(h) {
		t.Error("large improvement ratio should not trigger stop")
	}
}

func TestImprovementStopsOnSmallGain(t *testing.T) {
	h := history.New()
	for _, f := range []float64{100, 100, 99, 99} {
		h.Append(grid.ParameterVector{{Number: f}}, f, false, false, true)
	}
	// ratio = (100-99)/100 = 0.01, below the 0.1 threshold: converged, stop.
	c := Improvement{WindowSize: 2, Threshold: 0.1}
	if !c.ShouldStop(h) {
		t.Error("small improvement ratio should trigger stop")
	}
}

func TestImprovementContinuesWithZeroBaseline(t *testing.T) {
	h := history.New()
	for _, f := range []float64{0, 0, 0, 0} {
		h.Append(grid.ParameterVector{{Number: f}}, f, false, false, true)
	}
	c := Improvement{WindowSize: 2, Threshold: 0.1}
	if c.ShouldStop(h) {
		t.Error("zero baseline average should not trigger stop")
	}
}

func TestCountMovementStopsWhenWindowStopsMoving(t *testing.T) {
	h := history.New()
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, true)
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, false)
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, false)
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, false)
	// window of 3 over 4 entries (a history no longer than the window
	// always continues): only 1 distinct parametrization in the window.
	c := CountMovement{WindowSize: 3, NbrParametrizations: 1}
	if !c.ShouldStop(h) {
		t.Error("expected stop: only 1 distinct parametrization in the trailing window")
	}
}

func TestCountMovementContinuesUnderWindow(t *testing.T) {
	h := history.New()
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, true)
	c := CountMovement{WindowSize: 3, NbrParametrizations: 1}
	if c.ShouldStop(h) {
		t.Error("history shorter than the window should always continue")
	}
}

func TestComposeStopsOnAny(t *testing.T) {
	h := history.New()
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, true)
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, false)
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, false)
	h.Append(grid.ParameterVector{{Number: 1}}, 5, false, false, false)
	compose := Compose{CountMovement{WindowSize: 3, NbrParametrizations: 1}, DistanceMovement{WindowSize: 3, Threshold: 100}}
	if !compose.ShouldStop(h) {
		t.Error("expected Compose to stop when any criterion fires")
	}
}
