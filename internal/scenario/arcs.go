package scenario

// BuiltIn returns predefined operating scenarios.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"steady": {
			Name:        "Steady",
			Description: "Normal operation with no external stress on the grid.",
			Phases: []Phase{
				{Name: "normal", Description: "Metrics wander around their nominal values.", Volatility: 1},
			},
		},
		"heatwave": {
			Name:        "Heatwave",
			Description: "Air-conditioning demand climbs through a hot afternoon and eases after sunset.",
			Phases: []Phase{
				{
					Name:        "morning",
					Description: "Demand starts rising with the temperature.",
					Volatility:  1,
					Bias:        map[string]float64{"load": 0.4, "transformer_temp": 0.2},
					Triggers:    []Trigger{{Event: EventTicks, Value: 60, Next: "peak"}},
				},
				{
					Name:        "peak",
					Description: "Peak demand stresses transformers and pulls frequency down.",
					Volatility:  1.5,
					Bias:        map[string]float64{"load": 0.8, "transformer_temp": 0.5, "frequency": -0.004},
					Triggers:    []Trigger{{Event: EventAlerts, Value: 10, Next: "relief"}},
				},
				{
					Name:        "relief",
					Description: "Evening cooling lets demand fall back.",
					Volatility:  1,
					Bias:        map[string]float64{"load": -0.6, "transformer_temp": -0.4},
					Triggers:    []Trigger{{Event: EventTicks, Value: 120, Next: "morning"}},
				},
			},
		},
		"storm-front": {
			Name:        "Storm Front",
			Description: "A weather front swings wind output and trips lines along its path.",
			Phases: []Phase{
				{
					Name:        "approach",
					Description: "Wind picks up and renewable output climbs.",
					Volatility:  1.2,
					Bias:        map[string]float64{"renewable_share": 0.5},
					Triggers:    []Trigger{{Event: EventTicks, Value: 40, Next: "landfall"}},
				},
				{
					Name:        "landfall",
					Description: "Gusts and line trips make every metric erratic.",
					Volatility:  3,
					Bias:        map[string]float64{"voltage": -0.3, "power_factor": -0.002},
					Triggers:    []Trigger{{Event: EventAlerts, Value: 15, Next: "recovery"}},
				},
				{
					Name:        "recovery",
					Description: "Crews restore lines and the grid settles.",
					Volatility:  0.8,
					Bias:        map[string]float64{"voltage": 0.2, "power_factor": 0.001},
				},
			},
		},
	}
}
