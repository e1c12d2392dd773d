package sim

import (
	"errors"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

// MultiWriter fan-outs readings and alerts to multiple writers.
type MultiWriter struct {
	writers      []ReadingWriter
	alertWriters []AlertWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(rws []ReadingWriter, aws []AlertWriter) *MultiWriter {
	return &MultiWriter{writers: rws, alertWriters: aws}
}

// Write sends a reading to all writers. A failing writer does not stop the
// others; their errors are joined.
func (mw *MultiWriter) Write(r grid.Reading) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple readings to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []grid.Reading) error {
	var errs []error
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WriteAlert sends an alert entry to all alert writers.
func (mw *MultiWriter) WriteAlert(e alert.Entry) error {
	var errs []error
	for _, w := range mw.alertWriters {
		if err := w.WriteAlert(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetAdminStatus forwards the admin UI status to writers that display it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.writers {
		if sw, ok := w.(AdminStatusWriter); ok {
			sw.SetAdminStatus(listening)
		}
	}
}
