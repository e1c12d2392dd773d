package main

import (
	"context"

	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/logging"
	"gridwatch-sim/internal/metrics"
	"gridwatch-sim/internal/sim"
)

// writerOptions selects the sinks readings and alerts fan out to.
type writerOptions struct {
	PrintOnly bool
	LogFile   string
	TUI       bool
	RedisAddr string
	Metrics   *metrics.Metrics
}

// sinkWriter is a writer handling both readings and alerts.
type sinkWriter interface {
	sim.ReadingWriter
	sim.AlertWriter
}

// newWriters sets up the output writers based on flags and config.
// It returns the fan-out writer, the TUI writer when enabled, and a cleanup
// function to close any resources.
func newWriters(ctx context.Context, cfg *config.GridConfig, opts writerOptions) (*sim.MultiWriter, *sim.TUIWriter, func(), error) {
	log := logging.FromContext(ctx)
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error("close writer", "err", err)
			}
		}
	}

	base, tui := baseWriter(cfg, opts.TUI)
	if tui != nil {
		closers = append(closers, tui.Close)
	}
	sinks := []sinkWriter{base}
	if opts.Metrics != nil {
		sinks = append(sinks, opts.Metrics)
	}

	if opts.RedisAddr != "" {
		if opts.PrintOnly {
			log.Info("print-only mode: skipping Redis publisher", "addr", opts.RedisAddr)
		} else {
			rp, err := sim.NewRedisPublisher(ctx, opts.RedisAddr, cfg.Redis.Channel)
			if err != nil {
				cleanup()
				return nil, nil, nil, err
			}
			log.Info("publishing readings to Redis", "addr", opts.RedisAddr, "channel", cfg.Redis.Channel)
			sinks = append(sinks, rp)
			closers = append(closers, rp.Close)
		}
	}

	if opts.LogFile != "" {
		fw, err := sim.NewFileWriter(opts.LogFile, opts.LogFile+".alerts")
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		sinks = append(sinks, fw)
		closers = append(closers, fw.Close)
	}

	rws := make([]sim.ReadingWriter, 0, len(sinks))
	aws := make([]sim.AlertWriter, 0, len(sinks))
	for _, s := range sinks {
		rws = append(rws, s)
		aws = append(aws, s)
	}
	return sim.NewMultiWriter(rws, aws), tui, cleanup, nil
}

// baseWriter chooses the interactive TUI or the STDOUT writer.
func baseWriter(cfg *config.GridConfig, useTUI bool) (sinkWriter, *sim.TUIWriter) {
	if useTUI {
		tw := sim.NewTUIWriter(cfg)
		return tw, tw
	}
	return sim.NewStdoutWriter(cfg), nil
}
