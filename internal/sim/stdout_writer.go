// Writer selection for STDOUT output
package sim

import (
	"os"

	"golang.org/x/term"

	"gridwatch-sim/internal/config"
)

// StdoutWriter is implemented by both the JSON and the colorized writer.
type StdoutWriter interface {
	ReadingWriter
	AlertWriter
}

// NewStdoutWriter returns a colorized writer when STDOUT is a terminal and a
// JSON lines writer otherwise, so piped output stays machine readable.
func NewStdoutWriter(cfg *config.GridConfig) StdoutWriter {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return NewColorStdoutWriter(cfg)
	}
	return NewJSONStdoutWriter()
}
