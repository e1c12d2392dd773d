package sim

import (
	"context"
	"sync"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/grid"
	"gridwatch-sim/internal/logging"
	"gridwatch-sim/internal/scenario"
)

// Run starts one loop per metric series and blocks until the context is done
// and every loop has exited.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "grid_id", s.gridID, "metrics", len(s.order), "phase", s.Phase())

	s.writeInitial(ctx)

	var wg sync.WaitGroup
	for _, name := range s.order {
		s.mu.Lock()
		st := s.series[name]
		s.mu.Unlock()
		wg.Add(1)
		go func(name string, st *seriesState) {
			defer wg.Done()
			s.runSeries(ctx, name, st)
		}(name, st)
	}
	wg.Wait()
	log.Info("stopping simulator")
}

func (s *Simulator) runSeries(ctx context.Context, name string, st *seriesState) {
	log := logging.FromContext(ctx)
	ticker := s.clock.NewTicker(st.period)
	defer ticker.Stop()
	log.Debug("series started", "metric", name, "period", st.period)

	for {
		select {
		case <-ticker.C():
			s.tick(ctx, name)
		case <-st.stop:
			log.Debug("series stopped", "metric", name)
			return
		case <-ctx.Done():
			return
		}
	}
}

// writeInitial emits the seed readings so sinks start with a full picture.
func (s *Simulator) writeInitial(ctx context.Context) {
	if s.writer == nil {
		return
	}
	log := logging.FromContext(ctx)
	batch := s.Snapshot()

	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	// Batch support if writer implements WriteBatch
	if bw, ok := s.writer.(batchWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("batch write failed", "err", err)
		}
		return
	}
	for _, r := range batch {
		if err := s.writer.Write(r); err != nil {
			log.Error("write failed", "metric", r.Metric, "err", err)
		}
	}
}

// tick advances one series and emits its reading. It reports false when the
// metric is unknown or has been stopped.
func (s *Simulator) tick(ctx context.Context, name string) (grid.Reading, bool) {
	s.mu.Lock()
	st, ok := s.series[name]
	if !ok || st.stopped {
		s.mu.Unlock()
		return grid.Reading{}, false
	}
	scale, bias := s.perturbation(name)
	st.series = grid.TickScaled(st.series, st.rng, scale, bias)
	r := s.gen.Reading(st.series, s.clock.Now())
	st.current = r
	entry, alerted := s.alerts.Record(r)
	s.advanceScenario(ctx, alerted)
	subs := make([]func(grid.Reading), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	s.mu.Unlock()

	s.emit(ctx, r, entry, alerted, subs)
	return r, true
}

// perturbation returns the scale and bias for the next tick. Callers hold s.mu.
func (s *Simulator) perturbation(name string) (scale, bias float64) {
	scale = 1
	if s.chaosMode {
		scale *= chaosScale
	}
	if s.scenario != nil {
		if p, ok := s.scenario.Phase(s.phase); ok {
			scale *= p.Scale()
			bias = p.Bias[name]
		}
	}
	return scale, bias
}

// advanceScenario counts the tick against the active phase and follows any
// trigger that fires. Callers hold s.mu.
func (s *Simulator) advanceScenario(ctx context.Context, alerted bool) {
	if s.scenario == nil {
		return
	}
	s.phaseTicks++
	if alerted {
		s.phaseAlerts++
	}
	next, ok := s.scenario.NextPhase(s.phase, scenario.Event{Type: scenario.EventTicks, Value: s.phaseTicks})
	if !ok {
		next, ok = s.scenario.NextPhase(s.phase, scenario.Event{Type: scenario.EventAlerts, Value: s.phaseAlerts})
	}
	if !ok {
		return
	}
	logging.FromContext(ctx).Info("scenario phase changed", "from", s.phase, "to", next)
	s.phase = next
	s.phaseTicks = 0
	s.phaseAlerts = 0
}

func (s *Simulator) emit(ctx context.Context, r grid.Reading, e alert.Entry, alerted bool, subs []func(grid.Reading)) {
	log := logging.FromContext(ctx)
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	if s.writer != nil {
		if err := s.writer.Write(r); err != nil {
			log.Error("write failed", "metric", r.Metric, "err", err)
		}
	}
	if alerted && s.alertWriter != nil {
		if err := s.alertWriter.WriteAlert(e); err != nil {
			log.Error("alert write failed", "metric", r.Metric, "err", err)
		}
	}
	for _, fn := range subs {
		fn(r)
	}
}
