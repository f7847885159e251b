package noise

import (
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func buildHistory() *history.History {
	h := history.New()
	p1 := grid.ParameterVector{{Number: 1}}
	p2 := grid.ParameterVector{{Number: 2}}
	h.Append(p1, 10, false, false, true)
	h.Append(p1, 11, false, true, false)
	h.Append(p1, 9, false, true, false)
	h.Append(p2, 4, false, false, false)
	h.Append(p2, 6, false, false, false)
	h.Append(p1, 10, false, false, false)
	return h
}

func TestSimpleResamplingExactCounts(t *testing.T) {
	h := buildHistory()
	p1 := grid.ParameterVector{{Number: 1}}

	// p1 has occurred 4 times by the end of the history.
	if got := (Simple{N: 3}).ShouldResample(h, p1); got != false {
		t.Errorf("Simple{N:3}.ShouldResample = %v, want false (already evaluated 4 times)", got)
	}
	if got := (Simple{N: 2}).ShouldResample(h, p1); got != false {
		t.Errorf("Simple{N:2}.ShouldResample = %v, want false", got)
	}
	if got := (Simple{N: 5}).ShouldResample(h, p1); got != true {
		t.Errorf("Simple{N:5}.ShouldResample = %v, want true", got)
	}
}

func TestSimpleAggregationCollapsesAllOccurrences(t *testing.T) {
	h := buildHistory()
	agg := SimpleAggregation{Estimator: MeanEstimator}.Aggregate(h)
	if len(agg.Parameters) != 2 {
		t.Fatalf("expected 2 distinct parametrizations, got %d", len(agg.Parameters))
	}
	// p1 fitness values: 10, 11, 9, 10 -> mean 10
	if agg.Fitness[0] != 10 {
		t.Errorf("aggregated fitness for p1 = %v, want 10", agg.Fitness[0])
	}
	// p2 fitness values: 4, 6 -> mean 5
	if agg.Fitness[1] != 5 {
		t.Errorf("aggregated fitness for p2 = %v, want 5", agg.Fitness[1])
	}
}

func TestIdentityAggregationIsPassthrough(t *testing.T) {
	h := buildHistory()
	agg := Identity{}.Aggregate(h)
	if len(agg.Fitness) != h.Len() {
		t.Fatalf("Identity aggregation changed length: got %d, want %d", len(agg.Fitness), h.Len())
	}
}
