package history

import (
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
)

func pv(x float64) grid.ParameterVector {
	return grid.ParameterVector{{Number: x}}
}

func TestAppendKeepsArraysInSync(t *testing.T) {
	h := New()
	h.Append(pv(1), 10, false, false, true)
	h.Append(pv(2), 5, false, false, true)
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	if len(h.Parameters) != len(h.Fitness) || len(h.Fitness) != len(h.Truncated) ||
		len(h.Truncated) != len(h.Resampled) || len(h.Resampled) != len(h.Initialization) {
		t.Fatalf("parallel arrays diverged")
	}
}

func TestMinFitness(t *testing.T) {
	h := New()
	h.Append(pv(1), 10, false, false, true)
	h.Append(pv(2), 5, false, false, true)
	h.Append(pv(3), 8, false, false, false)
	min, p := h.MinFitness()
	if min != 5 {
		t.Errorf("MinFitness() = %v, want 5", min)
	}
	if !p.Equal(pv(2)) {
		t.Errorf("best parametrization = %v, want %v", p, pv(2))
	}
}

func TestMeasuredNoiseShortHistory(t *testing.T) {
	h := New()
	got := h.MeasuredNoise()
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("MeasuredNoise() on empty history = %v, want [0]", got)
	}
	h.Append(pv(1), 10, false, false, true)
	got = h.MeasuredNoise()
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("MeasuredNoise() on 1-entry history = %v, want [0]", got)
	}
}

func TestResampledCountGroupsConsecutive(t *testing.T) {
	h := New()
	h.Append(pv(1), 10, false, false, true)
	h.Append(pv(1), 11, false, true, false)
	h.Append(pv(2), 5, false, false, false)
	h.Append(pv(1), 9, false, false, false)
	counts := h.ResampledCount()
	// three consecutive groups: [1,1] (resampled once), [2], [1]
	want := []int{1, 0, 0}
	if len(counts) != len(want) {
		t.Fatalf("ResampledCount() = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("ResampledCount()[%d] = %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestNbrIterationBestFitness(t *testing.T) {
	h := New()
	h.Append(pv(1), 10, false, false, true)
	h.Append(pv(2), 2, false, false, true)
	h.Append(pv(3), 8, false, false, false)
	if got := h.NbrIterationBestFitness(); got != 1 {
		t.Errorf("NbrIterationBestFitness() = %d, want 1", got)
	}
}
