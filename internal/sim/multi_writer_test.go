package sim

import (
	"errors"
	"testing"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

type recordingWriter struct {
	rows    []grid.Reading
	batches int
	alerts  []alert.Entry
	admin   *bool
}

func (r *recordingWriter) Write(row grid.Reading) error {
	r.rows = append(r.rows, row)
	return nil
}

func (r *recordingWriter) WriteAlert(e alert.Entry) error {
	r.alerts = append(r.alerts, e)
	return nil
}

func (r *recordingWriter) SetAdminStatus(listening bool) { r.admin = &listening }

type recordingBatchWriter struct{ recordingWriter }

func (r *recordingBatchWriter) WriteBatch(rows []grid.Reading) error {
	r.batches++
	r.rows = append(r.rows, rows...)
	return nil
}

func TestMultiWriterFanOut(t *testing.T) {
	a := &recordingWriter{}
	b := &recordingBatchWriter{}
	mw := NewMultiWriter([]ReadingWriter{a, b}, []AlertWriter{a})

	rows := []grid.Reading{{Metric: "load"}, {Metric: "voltage"}}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(a.rows) != 2 || len(b.rows) != 2 {
		t.Fatalf("expected rows on both writers, got %d and %d", len(a.rows), len(b.rows))
	}
	if b.batches != 1 {
		t.Fatalf("expected batch writer to receive one batch, got %d", b.batches)
	}
	if err := mw.WriteAlert(alert.Entry{ID: "1"}); err != nil {
		t.Fatalf("WriteAlert: %v", err)
	}
	if len(a.alerts) != 1 || len(b.alerts) != 0 {
		t.Fatalf("alerts should only reach alert writers")
	}
}

func TestMultiWriterSetAdminStatus(t *testing.T) {
	a := &recordingWriter{}
	mw := NewMultiWriter([]ReadingWriter{a}, nil)
	mw.SetAdminStatus(true)
	if a.admin == nil || !*a.admin {
		t.Fatalf("admin status not forwarded")
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write(grid.Reading) error { return f.err }
func (f failingWriter) WriteBatch([]grid.Reading) error { return f.err }
func (f failingWriter) WriteAlert(alert.Entry) error { return f.err }

func TestMultiWriterContinuesPastFailingWriter(t *testing.T) {
	boom := errors.New("redis down")
	bad := failingWriter{err: boom}
	good := &recordingWriter{}
	mw := NewMultiWriter([]ReadingWriter{bad, good}, []AlertWriter{bad, good})

	if err := mw.Write(grid.Reading{Metric: "load"}); !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if err := mw.WriteBatch([]grid.Reading{{Metric: "voltage"}, {Metric: "frequency"}}); !errors.Is(err, boom) {
		t.Fatalf("expected joined batch error, got %v", err)
	}
	if err := mw.WriteAlert(alert.Entry{ID: "1"}); !errors.Is(err, boom) {
		t.Fatalf("expected joined alert error, got %v", err)
	}
	if len(good.rows) != 3 {
		t.Fatalf("later writer should still receive every reading, got %d", len(good.rows))
	}
	if len(good.alerts) != 1 {
		t.Fatalf("later writer should still receive the alert, got %d", len(good.alerts))
	}
}
