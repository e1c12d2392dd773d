package sim

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/grid"
)

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	r := grid.Reading{GridID: "g1", Metric: "load", Value: 50, Timestamp: time.Unix(0, 0)}
	if err := w.Write(r); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
	buf.Reset()
	if err := w.WriteAlert(alert.Entry{ID: "a1", Reading: r}); err != nil {
		t.Fatalf("alert write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"alert":`) {
		t.Fatalf("expected alert envelope, got %q", buf.String())
	}
}

func TestColorStdoutWriter(t *testing.T) {
	cfg := config.Default()
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{cfg: cfg, out: buf}
	r := grid.Reading{GridID: "grid-01", Metric: "load", Unit: "%", Value: 90, Delta: 3, Status: grid.StatusCritical, Trend: grid.TrendUp, Timestamp: time.Unix(0, 0)}
	if err := w.Write(r); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Grid ") || !strings.Contains(output, "Alert capacity:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, colorRed+"status=critical") {
		t.Fatalf("expected critical status in red: %q", output)
	}

	buf.Reset()
	if err := w.Write(r); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Alert capacity:") {
		t.Fatalf("overview printed more than once")
	}
}
