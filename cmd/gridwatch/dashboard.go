package main

import (
	"github.com/spf13/cobra"

	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/dashboard"
	"gridwatch-sim/internal/logging"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the Grafana dashboard for the configured metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(settings.GetString("config"), settings.GetString("schema"))
		if err != nil {
			return err
		}
		out := settings.GetString("out")
		if err := dashboard.Render(out, cfg); err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("dashboard rendered", "dir", out, "panels", len(cfg.Metrics)+1)
		return nil
	},
}

func init() {
	f := dashboardCmd.Flags()
	f.String("out", "build", "Output directory for rendered dashboards")
	f.String("config", "config/grid.yaml", "Path to grid configuration YAML")
	f.String("schema", "schemas/grid.cue", "Path to CUE schema file (empty to skip)")
}
