package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gridwatch-sim/internal/admin"
	"gridwatch-sim/internal/aiproxy"
	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/logging"
	"gridwatch-sim/internal/metrics"
	"gridwatch-sim/internal/scenario"
	"gridwatch-sim/internal/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time grid simulator",
	Long:  "simulate advances every configured grid metric on its own period, classifies the readings and serves the operator dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)

		cfg, err := config.Load(settings.GetString("config"), settings.GetString("schema"))
		if err != nil {
			return err
		}
		if id := settings.GetString("grid-id"); id != "" {
			cfg.GridID = id
		}
		if seed := settings.GetInt64("seed"); seed != 0 {
			cfg.Seed = seed
		}
		redisAddr := settings.GetString("redis-addr")
		if redisAddr == "" {
			redisAddr = cfg.Redis.Addr
		}

		m := metrics.New()
		writer, tui, cleanup, err := newWriters(ctx, cfg, writerOptions{
			PrintOnly: settings.GetBool("print-only"),
			LogFile:   settings.GetString("log-file"),
			TUI:       settings.GetBool("tui"),
			RedisAddr: redisAddr,
			Metrics:   m,
		})
		if err != nil {
			return err
		}
		defer cleanup()

		opts := []sim.Option{}
		name := settings.GetString("scenario")
		if name == "" {
			name = cfg.Scenario
		}
		if name != "" {
			sc, err := scenario.Resolve(name)
			if err != nil {
				return err
			}
			log.Info("scenario loaded", "name", sc.Name, "phases", len(sc.Phases))
			opts = append(opts, sim.WithScenario(sc))
		}

		simulator := sim.NewSimulator(cfg, writer, opts...)
		if tui != nil {
			tui.SetChaosToggler(simulator.ToggleChaos)
		}

		if addr := settings.GetString("addr"); addr != "" {
			proxy := aiproxy.NewHandler(aiproxy.NewChatClient(cfg.AI), m)
			srv := admin.NewServer(simulator, proxy, m)
			writer.SetAdminStatus(true)
			log.Info("admin UI listening", "addr", addr)
			go func() {
				if err := srv.Start(ctx, addr); err != nil {
					log.Error("admin server failed", "err", err)
					writer.SetAdminStatus(false)
					stop()
				}
			}()
		}

		simulator.Run(ctx)
		log.Info("grid simulation stopped")
		return nil
	},
}

func init() {
	f := simulateCmd.Flags()
	f.String("config", "config/grid.yaml", "Path to grid configuration YAML")
	f.String("schema", "schemas/grid.cue", "Path to CUE schema file (empty to skip)")
	f.Bool("print-only", false, "Only print readings, skip the Redis publisher")
	f.String("log-file", "", "Path to export readings as JSONL (alerts go to <path>.alerts)")
	f.Bool("tui", false, "Render readings in an interactive terminal UI")
	f.String("addr", ":8080", "Admin UI listen address (empty to disable)")
	f.String("scenario", "", "Built-in scenario name or path to a scenario YAML")
	f.Int64("seed", 0, "Random seed (0 uses the config seed)")
	f.String("grid-id", "", "Override the configured grid identity")
	f.String("redis-addr", "", "Redis address for publishing readings")
}
