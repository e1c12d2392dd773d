// Grid metric structs shared by the simulator, writers and dashboard
package grid

import "time"

// Status is the discrete classification of a metric value.
type Status string

// Status levels. Unknown is returned when no rule band matches.
const (
	StatusOptimal  Status = "optimal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
)

// Trend is the direction of the last change of a metric.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// MetricSeries holds the evolving state of one simulated grid quantity.
type MetricSeries struct {
	Name     string
	Label    string
	Unit     string
	Value    float64
	Min      float64
	Max      float64
	Step     float64 // perturbation half-width per tick
	DeadZone float64 // |delta| below this reads as a stable trend
	Delta    float64 // signed change applied by the last tick
}

// Reading is one timestamped observation emitted per tick.
type Reading struct {
	GridID    string    `json:"grid_id"`
	Metric    string    `json:"metric"`
	Unit      string    `json:"unit"`
	Value     float64   `json:"value"`
	Delta     float64   `json:"delta"`
	Status    Status    `json:"status"`
	Trend     Trend     `json:"trend"`
	Timestamp time.Time `json:"ts"`
}

// Optimal reports whether the reading needs no attention.
func (r Reading) Optimal() bool {
	return r.Status == StatusOptimal
}
