package grid

import "math"

// TrendOf maps a signed delta to a trend direction. Deltas inside the open
// interval (-deadZone, deadZone) and exact zeros read as stable.
func TrendOf(delta, deadZone float64) Trend {
	eps := math.Abs(deadZone)
	switch {
	case delta == 0 || math.IsNaN(delta):
		return TrendStable
	case delta >= eps:
		return TrendUp
	case delta <= -eps:
		return TrendDown
	default:
		return TrendStable
	}
}

// TrendFromDeltas returns the trend of the most recent delta.
func TrendFromDeltas(deltas []float64, deadZone float64) Trend {
	if len(deltas) == 0 {
		return TrendStable
	}
	return TrendOf(deltas[len(deltas)-1], deadZone)
}
