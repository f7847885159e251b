package heuristic

import "testing"

func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Build("nonexistent"); err == nil {
		t.Error("expected error for unregistered heuristic name")
	}
}

func TestRegistryBuildsRegisteredFactory(t *testing.T) {
	r := NewRegistry()
	built := false
	r.Register("noop", func() Heuristic {
		built = true
		return nil
	})
	if _, err := r.Build("noop"); err != nil {
		t.Fatal(err)
	}
	if !built {
		t.Error("expected factory to be invoked")
	}
}
