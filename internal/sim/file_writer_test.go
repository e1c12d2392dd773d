package sim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	ts := time.Unix(0, 0).UTC()
	r := grid.Reading{GridID: "g1", Metric: "load", Unit: "%", Value: 91, Delta: 2, Status: grid.StatusCritical, Trend: grid.TrendUp, Timestamp: ts}
	e := alert.Entry{ID: "a1", Reading: r, Message: alert.Message(r)}

	readings := filepath.Join(dir, "readings.jsonl")
	alerts := filepath.Join(dir, "readings.jsonl.alerts")
	fw, err := NewFileWriter(readings, alerts)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	if err := fw.WriteBatch([]grid.Reading{r}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fw.WriteAlert(e); err != nil {
		t.Fatalf("write alert: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(readings)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var got grid.Reading
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode reading: %v", err)
	}
	if got.Metric != "load" || got.Status != grid.StatusCritical || !got.Timestamp.Equal(ts) {
		t.Fatalf("unexpected reading: %#v", got)
	}

	data, err = os.ReadFile(alerts)
	if err != nil {
		t.Fatalf("read alerts: %v", err)
	}
	var gotAlert alert.Entry
	if err := json.Unmarshal(data, &gotAlert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if gotAlert.ID != "a1" || gotAlert.Message != e.Message {
		t.Fatalf("unexpected alert: %#v", gotAlert)
	}
}

func TestFileWriterWithoutAlertLog(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(filepath.Join(dir, "r.jsonl"), "")
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	defer fw.Close()
	if err := fw.WriteAlert(alert.Entry{ID: "x"}); err != nil {
		t.Fatalf("expected alerts to be skipped, got %v", err)
	}
}
