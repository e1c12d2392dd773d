package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gridwatch-sim/internal/logging"
)

// envPrefix scopes environment overrides, e.g. GRIDWATCH_LOG_LEVEL or GRIDWATCH_REDIS_ADDR.
const envPrefix = "GRIDWATCH"

var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

var rootCmd = &cobra.Command{
	Use:           "gridwatch",
	Short:         "Power grid metrics simulation toolkit",
	Long:          "Gridwatch simulates live power grid metrics, classifies their health and serves an operator dashboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Flags()); err != nil {
			return err
		}
		log := logging.NewWithLevel(os.Stderr, settings.GetString("log-level"))
		slog.SetDefault(log)
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
}

// bindFlags lets GRIDWATCH_* variables supply any flag not set on the command line.
func bindFlags(flags *pflag.FlagSet) error {
	return settings.BindPFlags(flags)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
