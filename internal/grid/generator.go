package grid

import (
	"math"
	"math/rand"
	"time"
)

// Generator turns series state into readings for one grid.
type Generator struct {
	GridID     string
	Classifier *Classifier
}

// NewGenerator creates a reading generator for a given grid.
func NewGenerator(gridID string, c *Classifier) *Generator {
	return &Generator{GridID: gridID, Classifier: c}
}

// Reading builds the immutable snapshot for the series' current value.
func (g *Generator) Reading(s MetricSeries, ts time.Time) Reading {
	status := StatusUnknown
	if g.Classifier != nil {
		status = g.Classifier.Classify(s.Name, s.Value)
	}
	return Reading{
		GridID:    g.GridID,
		Metric:    s.Name,
		Unit:      s.Unit,
		Value:     s.Value,
		Delta:     s.Delta,
		Status:    status,
		Trend:     TrendOf(s.Delta, s.DeadZone),
		Timestamp: ts.UTC(),
	}
}

// Tick advances the series by one uniform perturbation in [-Step, +Step].
func Tick(s MetricSeries, rng *rand.Rand) MetricSeries {
	return TickScaled(s, rng, 1, 0)
}

// TickScaled advances the series with the perturbation multiplied by scale
// and a constant bias added. The result is always clamped to [Min, Max].
func TickScaled(s MetricSeries, rng *rand.Rand, scale, bias float64) MetricSeries {
	prev := s.Value
	step := math.Abs(s.Step) * math.Abs(scale)
	perturb := (rng.Float64()*2 - 1) * step
	next := Clamp(prev+perturb+bias, s.Min, s.Max)
	s.Value = next
	s.Delta = next - prev
	return s
}

// Clamp bounds v to [lo, hi]. A NaN input collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
