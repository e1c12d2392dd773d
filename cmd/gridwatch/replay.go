package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/logging"
	"gridwatch-sim/internal/sim"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded JSONL reading log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		input := settings.GetString("input")
		if input == "" {
			return errors.New("--input is required")
		}
		cfg := config.Default()
		writer, _, cleanup, err := newWriters(ctx, cfg, writerOptions{
			PrintOnly: settings.GetBool("print-only"),
			RedisAddr: settings.GetString("redis-addr"),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		speed := settings.GetFloat64("speed")
		log.Info("replaying reading log", "input", input, "speed", speed)
		if err := sim.ReplayLogFile(ctx, input, writer, speed); err != nil && !errors.Is(err, ctx.Err()) {
			return err
		}
		return nil
	},
}

func init() {
	f := replayCmd.Flags()
	f.String("input", "", "Path to a JSONL reading log")
	f.Float64("speed", 1.0, "Playback speed multiplier (0 replays without delay)")
	f.Bool("print-only", false, "Only print readings, skip the Redis publisher")
	f.String("redis-addr", "", "Redis address for republishing readings")
}
