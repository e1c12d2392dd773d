package dashboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridwatch-sim/internal/config"
)

func TestRenderMissingEnv(t *testing.T) {
	t.Setenv(DatasourceEnv, "")
	if err := Render(t.TempDir(), config.Default()); err == nil {
		t.Fatalf("expected error for missing env vars")
	}
}

func TestRenderSuccess(t *testing.T) {
	t.Setenv(DatasourceEnv, "prom-uid")

	dir := t.TempDir()
	cfg := config.Default()
	if err := Render(dir, cfg); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "grafana-dashboard.json"))
	if err != nil {
		t.Fatalf("read dashboard: %v", err)
	}
	if !strings.Contains(string(b), "prom-uid") {
		t.Fatalf("datasource uid not rendered")
	}

	var dash struct {
		Title  string `json:"title"`
		Panels []struct {
			Title   string `json:"title"`
			Targets []struct {
				Expr string `json:"expr"`
			} `json:"targets"`
		} `json:"panels"`
	}
	if err := json.Unmarshal(b, &dash); err != nil {
		t.Fatalf("rendered dashboard is not valid JSON: %v\n%s", err, b)
	}
	if len(dash.Panels) != len(cfg.Metrics)+1 {
		t.Fatalf("expected %d panels, got %d", len(cfg.Metrics)+1, len(dash.Panels))
	}
	if got := dash.Panels[0].Targets[0].Expr; got != `grid_metric_value{metric="frequency"}` {
		t.Fatalf("unexpected query %q", got)
	}
}
