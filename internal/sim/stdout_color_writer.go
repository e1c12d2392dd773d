// ColorStdoutWriter prints human-friendly, colorized readings to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/grid"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints readings using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.GridConfig
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.GridConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func statusColor(st grid.Status) string {
	switch st {
	case grid.StatusOptimal:
		return colorGreen
	case grid.StatusWarning:
		return colorYellow
	case grid.StatusCritical:
		return colorRed
	default:
		return colorMagenta
	}
}

func trendArrow(t grid.Trend) string {
	switch t {
	case grid.TrendUp:
		return "↑"
	case grid.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintf(w.out, "Grid %s%s%s\n", colorBlue, w.cfg.GridID, colorReset)
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Metric\tUnit\tRange\tStep\tPeriod\n")
	for _, m := range w.cfg.Metrics {
		fmt.Fprintf(tw, "%s\t%s\t[%g, %g]\t%g\t%s\n", m.Label, m.Unit, m.Min, m.Max, m.Step, m.PeriodDuration())
	}
	tw.Flush()
	fmt.Fprintf(w.out, "Alert capacity: %d\n\n", w.cfg.AlertCapacity)
}

// Write outputs a single reading in colorized format.
func (w *ColorStdoutWriter) Write(r grid.Reading) error {
	w.once.Do(w.printOverview)

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, r.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%sgrid=%s%s ", colorBlue, r.GridID, colorReset)
	fmt.Fprintf(w.out, "%smetric=%s%s ", colorWhite, r.Metric, colorReset)
	fmt.Fprintf(w.out, "%svalue=%.3f%s%s ", colorCyan, r.Value, r.Unit, colorReset)
	fmt.Fprintf(w.out, "%sdelta=%+.3f %s%s ", colorGray, r.Delta, trendArrow(r.Trend), colorReset)
	fmt.Fprintf(w.out, "%sstatus=%s%s", statusColor(r.Status), r.Status, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple readings.
func (w *ColorStdoutWriter) WriteBatch(rows []grid.Reading) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteAlert prints an alert entry to STDOUT.
func (w *ColorStdoutWriter) WriteAlert(e alert.Entry) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sALERT%s %s\n",
		colorGray, e.Reading.Timestamp.Format(time.RFC3339), colorReset,
		statusColor(e.Reading.Status), colorReset, e.Message)
	return nil
}
