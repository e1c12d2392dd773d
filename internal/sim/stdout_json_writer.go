package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
)

// JSONStdoutWriter prints readings and alerts as JSON lines to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// Write outputs a reading in JSON format.
func (w *JSONStdoutWriter) Write(r grid.Reading) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteBatch outputs multiple readings in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []grid.Reading) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert outputs an alert entry wrapped in an "alert" envelope.
func (w *JSONStdoutWriter) WriteAlert(e alert.Entry) error {
	data, err := json.Marshal(struct {
		Alert alert.Entry `json:"alert"`
	}{e})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
