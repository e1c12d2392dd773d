package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const schemaPath = "../../schemas/grid.cue"

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeTemp(t, `
grid_id: grid-x
metrics:
  - name: frequency
    unit: Hz
    seed: 60
    min: 59.5
    max: 60.5
    step: 0.05
    period: 2s
    rule:
      reference: 60
      bands:
        - status: optimal
          le: 0.3
        - status: critical
`)
	cfg, err := Load(path, schemaPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.GridID != "grid-x" || len(cfg.Metrics) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	m := cfg.Metrics[0]
	if m.Label != "frequency" {
		t.Errorf("expected label to default to name, got %q", m.Label)
	}
	if m.PeriodDuration() != 2*time.Second {
		t.Errorf("period = %v", m.PeriodDuration())
	}
	if cfg.AlertCapacity != DefaultAlertCapacity {
		t.Errorf("alert capacity = %d", cfg.AlertCapacity)
	}
	if cfg.AI.APIKeyEnv != DefaultAIKeyEnv || cfg.AI.TimeoutDuration() != DefaultAITimeout {
		t.Errorf("unexpected ai defaults: %+v", cfg.AI)
	}
}

func TestLoadConfig_SchemaRejectsUnknownStatus(t *testing.T) {
	path := writeTemp(t, `
metrics:
  - name: load
    seed: 50
    min: 0
    max: 100
    step: 1
    rule:
      bands:
        - status: fine
`)
	if _, err := Load(path, schemaPath); err == nil {
		t.Fatalf("expected schema validation error")
	}
}

func TestLoadConfig_SchemaRejectsBadPeriod(t *testing.T) {
	path := writeTemp(t, `
metrics:
  - name: load
    seed: 50
    min: 0
    max: 100
    step: 1
    period: soon
    rule:
      bands:
        - status: optimal
`)
	if _, err := Load(path, schemaPath); err == nil {
		t.Fatalf("expected schema validation error")
	}
}

func TestLoadConfig_RepoDefaultMatchesSchema(t *testing.T) {
	cfg, err := Load("../../config/grid.yaml", schemaPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.Metrics) != 6 {
		t.Fatalf("expected 6 metrics, got %d", len(cfg.Metrics))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	m, ok := cfg.Metric("frequency")
	if !ok {
		t.Fatalf("frequency metric missing")
	}
	if m.Min != 59.5 || m.Max != 60.5 {
		t.Errorf("unexpected frequency range [%v, %v]", m.Min, m.Max)
	}
	if m.Rule.Reference == nil || *m.Rule.Reference != 60 {
		t.Errorf("frequency rule should be centred on 60")
	}
	if m.DeadZoneValue() != 0.005 {
		t.Errorf("dead zone = %v", m.DeadZoneValue())
	}
	load, _ := cfg.Metric("load")
	if load.DeadZoneValue() != load.Step*0.1 {
		t.Errorf("load dead zone should default to a tenth of the step")
	}
}

func TestValidateErrors(t *testing.T) {
	base := func() GridConfig {
		return GridConfig{Metrics: []Metric{{
			Name: "load", Seed: 50, Min: 0, Max: 100, Step: 1,
			Rule: Rule{Bands: []Band{{Status: "optimal"}}},
		}}}
	}
	tests := []struct {
		name   string
		mutate func(*GridConfig)
		want   string
	}{
		{"no metrics", func(c *GridConfig) { c.Metrics = nil }, "at least one metric"},
		{"duplicate", func(c *GridConfig) { c.Metrics = append(c.Metrics, c.Metrics[0]) }, "duplicate"},
		{"inverted range", func(c *GridConfig) { c.Metrics[0].Min = 200 }, "above max"},
		{"seed outside", func(c *GridConfig) { c.Metrics[0].Seed = 120 }, "outside"},
		{"bad period", func(c *GridConfig) { c.Metrics[0].Period = "-1s" }, "invalid period"},
		{"no bands", func(c *GridConfig) { c.Metrics[0].Rule.Bands = nil }, "no classification bands"},
		{"bad status", func(c *GridConfig) { c.Metrics[0].Rule.Bands[0].Status = "meh" }, "unknown status"},
		{"bad timeout", func(c *GridConfig) { c.AI.Timeout = "later" }, "ai timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}
}
