// Simulator orchestrating grid metric series and their readings
package sim

import (
	"math/rand"
	"sync"
	"time"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/grid"
	"gridwatch-sim/internal/scenario"
)

// chaosScale multiplies every perturbation while chaos mode is on.
const chaosScale = 3.0

// ReadingWriter is an interface to support different output writers.
type ReadingWriter interface {
	Write(grid.Reading) error
}

// AlertWriter handles alert log entries.
type AlertWriter interface {
	WriteAlert(alert.Entry) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]grid.Reading) error
}

// AdminStatusWriter allows writers to receive admin UI status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}

// Simulator advances every configured metric series on its own ticker and
// fans the resulting readings out to writers and subscribers.
type Simulator struct {
	gridID      string
	cfg         *config.GridConfig
	gen         *grid.Generator
	writer      ReadingWriter
	alertWriter AlertWriter
	alerts      *alert.Log
	clock       Clock
	seed        int64
	order       []string
	series      map[string]*seriesState
	subs        []subscription
	nextSub     int
	scenario    *scenario.Scenario
	phase       string
	phaseTicks  int
	phaseAlerts int
	chaosMode   bool
	mu          sync.Mutex
	emitMu      sync.Mutex
}

// seriesState is owned by exactly one series loop; other goroutines only
// read it under the simulator lock.
type seriesState struct {
	series  grid.MetricSeries
	period  time.Duration
	rng     *rand.Rand
	current grid.Reading
	stop    chan struct{}
	stopped bool
}

type subscription struct {
	id int
	fn func(grid.Reading)
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithSeed fixes the pseudo-random seed used by every series.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithClock replaces the wall clock, typically with a VirtualClock.
func WithClock(c Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithAlertWriter sets the sink for alert log entries.
func WithAlertWriter(w AlertWriter) Option {
	return func(s *Simulator) { s.alertWriter = w }
}

// WithScenario applies a phased operating scenario.
func WithScenario(sc *scenario.Scenario) Option {
	return func(s *Simulator) { s.scenario = sc }
}

// NewSimulator initializes one series per configured metric.
func NewSimulator(cfg *config.GridConfig, writer ReadingWriter, opts ...Option) *Simulator {
	s := &Simulator{
		gridID: cfg.GridID,
		cfg:    cfg,
		writer: writer,
		alerts: alert.NewLog(cfg.AlertCapacity),
		clock:  RealClock{},
		seed:   cfg.Seed,
		series: make(map[string]*seriesState, len(cfg.Metrics)),
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	if aw, ok := writer.(AlertWriter); ok {
		s.alertWriter = aw
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scenario != nil {
		s.phase = s.scenario.First()
	}

	rules := make(map[string]grid.Rule, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		rules[m.Name] = ruleFromConfig(m.Rule)
	}
	s.gen = grid.NewGenerator(s.gridID, grid.NewClassifier(rules))

	now := s.clock.Now()
	for i, m := range cfg.Metrics {
		series := grid.MetricSeries{
			Name:     m.Name,
			Label:    m.Label,
			Unit:     m.Unit,
			Value:    grid.Clamp(m.Seed, m.Min, m.Max),
			Min:      m.Min,
			Max:      m.Max,
			Step:     m.Step,
			DeadZone: m.DeadZoneValue(),
		}
		s.series[m.Name] = &seriesState{
			series:  series,
			period:  m.PeriodDuration(),
			rng:     rand.New(rand.NewSource(s.seed + int64(i))),
			current: s.gen.Reading(series, now),
			stop:    make(chan struct{}),
		}
		s.order = append(s.order, m.Name)
	}
	return s
}

func ruleFromConfig(r config.Rule) grid.Rule {
	bands := make([]grid.Band, len(r.Bands))
	for i, b := range r.Bands {
		bands[i] = grid.Band{Status: grid.Status(b.Status), LT: b.LT, LE: b.LE, GT: b.GT, GE: b.GE}
	}
	return grid.Rule{Reference: r.Reference, Bands: bands}
}

// Stop cancels the series loop for one metric. Once Stop returns no further
// tick mutates that series. It reports false for unknown or already stopped metrics.
func (s *Simulator) Stop(metric string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.series[metric]
	if !ok || st.stopped {
		return false
	}
	st.stopped = true
	close(st.stop)
	return true
}

// OnTick registers a callback invoked with every new reading. The returned
// function removes the subscription.
func (s *Simulator) OnTick(fn func(grid.Reading)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Current returns the latest reading for a metric.
func (s *Simulator) Current(metric string) (grid.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.series[metric]
	if !ok {
		return grid.Reading{}, false
	}
	return st.current, true
}

// Series returns the current state of a metric series.
func (s *Simulator) Series(metric string) (grid.MetricSeries, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.series[metric]
	if !ok {
		return grid.MetricSeries{}, false
	}
	return st.series, true
}

// Snapshot returns the latest reading of every metric in config order.
func (s *Simulator) Snapshot() []grid.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]grid.Reading, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.series[name].current)
	}
	return out
}

// Alerts returns the rolling alert log, newest first.
func (s *Simulator) Alerts() []alert.Entry {
	return s.alerts.Snapshot()
}

// Metrics returns the metric names in config order.
func (s *Simulator) Metrics() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Labels maps metric names to display labels.
func (s *Simulator) Labels() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.series))
	for name, st := range s.series {
		out[name] = st.series.Label
	}
	return out
}

// GridID returns the simulated grid identity.
func (s *Simulator) GridID() string { return s.gridID }

// GetConfig returns the simulation configuration.
func (s *Simulator) GetConfig() *config.GridConfig { return s.cfg }

// Phase returns the active scenario phase, or "" without a scenario.
func (s *Simulator) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ToggleChaos flips chaos mode on or off and returns the new state.
func (s *Simulator) ToggleChaos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chaosMode = !s.chaosMode
	return s.chaosMode
}

// Chaos returns whether chaos mode is active.
func (s *Simulator) Chaos() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chaosMode
}

// StatusCounts tallies the current status of every metric.
func (s *Simulator) StatusCounts() map[grid.Status]int {
	counts := make(map[grid.Status]int)
	for _, r := range s.Snapshot() {
		counts[r.Status]++
	}
	return counts
}
