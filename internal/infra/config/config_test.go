package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8090)
	}
	if cfg.Experiment.InitialSampleSize != 5 {
		t.Errorf("Experiment.InitialSampleSize = %d, want 5", cfg.Experiment.InitialSampleSize)
	}
	if cfg.Async.Enabled {
		t.Error("Async.Enabled should be false by default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path.toml"); err == nil {
		t.Error("expected error loading a nonexistent config file")
	}
}
