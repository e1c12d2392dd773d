package dashboard

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gridwatch-sim/internal/config"
)

//go:embed templates/*.tmpl
var templates embed.FS

var templateFiles = []string{
	"grafana-dashboard.json.tmpl",
}

// DatasourceEnv names the variable holding the Prometheus datasource UID.
const DatasourceEnv = "PROMETHEUS_DATASOURCE_UID"

// panelsPerRow is the number of stat panels laid out side by side.
const panelsPerRow = 3

type panel struct {
	ID     int
	Metric config.Metric
	X, Y   int
}

type dashboardData struct {
	GridID string
	Panels []panel
}

func buildData(cfg *config.GridConfig) dashboardData {
	data := dashboardData{GridID: cfg.GridID}
	width := 24 / panelsPerRow
	for i, m := range cfg.Metrics {
		data.Panels = append(data.Panels, panel{
			ID:     i + 1,
			Metric: m,
			X:      (i % panelsPerRow) * width,
			Y:      (i / panelsPerRow) * 8,
		})
	}
	return data
}

// Render executes the dashboard templates for the configured metrics and
// writes the dashboards to outDir.
func Render(outDir string, cfg *config.GridConfig) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data := buildData(cfg)
	for _, tplName := range templateFiles {
		t, err := template.New(tplName).Funcs(funcMap).ParseFS(templates, "templates/"+tplName)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(tplName, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := t.Execute(f, data); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
