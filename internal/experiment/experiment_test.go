package experiment

import (
	"context"
	"reflect"
	"testing"

	"github.com/san-kum/esim/internal/config"
	"github.com/san-kum/esim/internal/metrics"
)

func TestExperiment_Run(t *testing.T) {
	cfg := config.GetPreset("scatter")
	cfg.Ticks = 300

	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}

	if err := exp.Setup(NewRegistry().DefaultMetrics()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if n := len(exp.GetSimulator().Bodies()); n != 30 {
		t.Errorf("bodies = %d, want 30", n)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.StepsTaken != 300 {
		t.Errorf("StepsTaken = %d, want 300", result.StepsTaken)
	}
	if result.Metrics["energy_drift"] > 1e-9 {
		t.Errorf("energy_drift = %g", result.Metrics["energy_drift"])
	}
}

func TestExperiment_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxAdvance = -1
	if _, err := New(cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if !reflect.DeepEqual(r.ListMetrics(), metrics.Names()) {
		t.Errorf("registry %v does not match defaults %v", r.ListMetrics(), metrics.Names())
	}

	ms, err := r.Metrics([]string{"collisions", "energy"})
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if len(ms) != 2 || ms[0].Name() != "collisions" {
		t.Errorf("Metrics = %v", ms)
	}

	if _, err := r.GetMetric("entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestEnsemble(t *testing.T) {
	cfg := config.GetPreset("scatter")
	cfg.Ticks = 100
	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}

	results, err := NewEnsemble(cfg, 3, NewRegistry()).Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Seed != cfg.Seed || results[2].Seed != cfg.Seed+2 {
		t.Errorf("seeds = %d..%d", results[0].Seed, results[2].Seed)
	}
}
