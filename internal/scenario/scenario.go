package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Event types understood by triggers.
const (
	EventTicks  = "ticks"  // series ticks since the phase began
	EventAlerts = "alerts" // alerts recorded since the phase began
)

// Scenario defines a grid operating scenario with ordered phases.
type Scenario struct {
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Phases      []Phase `yaml:"phases"`
}

// Phase describes a stage of the scenario. Volatility scales every metric's
// perturbation; Bias adds a constant drift per tick to the named metrics.
type Phase struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Volatility  float64            `yaml:"volatility,omitempty"`
	Bias        map[string]float64 `yaml:"bias,omitempty"`
	Triggers    []Trigger          `yaml:"triggers,omitempty"`
}

// Trigger moves the scenario to another phase based on an event.
type Trigger struct {
	Event string `yaml:"event"`
	Value int    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Event represents a runtime occurrence that may advance the scenario.
type Event struct {
	Type  string
	Value int
}

// Load reads a YAML scenario definition from disk.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the scenario has phases and that every trigger targets
// a known phase.
func (s *Scenario) Validate() error {
	if len(s.Phases) == 0 {
		return fmt.Errorf("scenario %q has no phases", s.Name)
	}
	for _, p := range s.Phases {
		for _, tr := range p.Triggers {
			if _, ok := s.Phase(tr.Next); !ok {
				return fmt.Errorf("scenario %q: phase %q triggers unknown phase %q", s.Name, p.Name, tr.Next)
			}
		}
	}
	return nil
}

// Resolve returns a built-in scenario by key, or loads one from a file path.
func Resolve(nameOrPath string) (*Scenario, error) {
	if s, ok := BuiltIn()[nameOrPath]; ok {
		return &s, nil
	}
	return Load(nameOrPath)
}

// Phase returns the phase with the given name.
func (s *Scenario) Phase(name string) (Phase, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// First returns the name of the opening phase.
func (s *Scenario) First() string {
	if len(s.Phases) == 0 {
		return ""
	}
	return s.Phases[0].Name
}

// Scale returns the phase volatility, treating zero as 1.
func (p Phase) Scale() float64 {
	if p.Volatility <= 0 {
		return 1
	}
	return p.Volatility
}

// NextPhase returns the name of the next phase given the current phase and event.
// If no trigger matches, ok will be false.
func (s *Scenario) NextPhase(current string, ev Event) (next string, ok bool) {
	for _, p := range s.Phases {
		if p.Name != current {
			continue
		}
		for _, tr := range p.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}
