package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScenarioTransition(t *testing.T) {
	s := Scenario{
		Phases: []Phase{{
			Name:     "calm",
			Triggers: []Trigger{{Event: EventTicks, Value: 10, Next: "surge"}},
		}, {
			Name: "surge",
		}},
	}

	if _, ok := s.NextPhase("calm", Event{Type: EventTicks, Value: 9}); ok {
		t.Fatalf("transition fired early")
	}
	next, ok := s.NextPhase("calm", Event{Type: EventTicks, Value: 10})
	if !ok || next != "surge" {
		t.Fatalf("expected transition to surge, got %s", next)
	}
	if _, ok := s.NextPhase("calm", Event{Type: EventAlerts, Value: 100}); ok {
		t.Fatalf("unexpected transition on alerts event")
	}
}

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Description != "basic test scenario" {
		t.Fatalf("unexpected description %s", sc.Description)
	}
	if len(sc.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(sc.Phases))
	}
	if sc.Phases[1].Bias["load"] != 0.5 {
		t.Fatalf("unexpected load bias %v", sc.Phases[1].Bias["load"])
	}
	if sc.First() != "calm" {
		t.Fatalf("unexpected first phase %s", sc.First())
	}
}

func TestLoadScenarioMissing(t *testing.T) {
	if _, err := Load("testdata/nope.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestPhaseScale(t *testing.T) {
	if (Phase{}).Scale() != 1 {
		t.Fatalf("zero volatility should scale by 1")
	}
	if (Phase{Volatility: 2.5}).Scale() != 2.5 {
		t.Fatalf("unexpected scale")
	}
}

func TestBuiltInScenariosAreConsistent(t *testing.T) {
	for key, sc := range BuiltIn() {
		if len(sc.Phases) == 0 {
			t.Fatalf("%s has no phases", key)
		}
		if err := sc.Validate(); err != nil {
			t.Errorf("%s: %v", key, err)
		}
	}
	sc, err := Resolve("heatwave")
	if err != nil || sc.First() != "morning" {
		t.Fatalf("Resolve(heatwave) = %v, %v", sc, err)
	}
}

func TestLoadRejectsUnknownTriggerTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	data := `name: typo
phases:
  - name: calm
    triggers:
      - event: ticks
        value: 5
        next: surgee
  - name: surge
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), `unknown phase "surgee"`) {
		t.Fatalf("expected unknown phase error, got %v", err)
	}
}
