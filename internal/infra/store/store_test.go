package store

import (
	"path/filepath"
	"testing"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func TestRecordAndListRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	h := history.New()
	p := grid.ParameterVector{{Number: 1}, {Number: 2}}
	h.Append(p, 5, false, false, true)

	if err := db.RecordRun("run-1", "exp", "exhaustive_search", h, 5, p); err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns returned %d rows, want 1", len(runs))
	}
	if runs[0].ID != "run-1" {
		t.Errorf("ID = %q, want run-1", runs[0].ID)
	}
	if runs[0].BestFitness != 5 {
		t.Errorf("BestFitness = %v, want 5", runs[0].BestFitness)
	}
}
