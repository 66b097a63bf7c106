// Package cli implements the shopdash command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"shopdash/internal/config"
)

var (
	// Global flags
	cfgFile  string
	dataDir  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "shopdash",
		Short: "Interactive reporting dashboard over an e-commerce order log",
		Long: `shopdash serves a single-page reporting dashboard over a tabular
e-commerce order log. It loads a CSV dataset (synthesizing one if absent),
lets the user restrict it by date range and category, and renders summary
metrics as KPI cards and charts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./shopdash.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory holding the dataset file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// CLI flags take precedence over config file and environment values.
	if dataDir != "" {
		cfg.Dataset.Dir = dataDir
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}

	return cfg.Validate()
}
