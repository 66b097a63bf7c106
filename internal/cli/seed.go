package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"shopdash/internal/dataset"
	"shopdash/internal/observability"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the synthetic dataset file and exit",
	Long: `seed makes sure the dataset file exists on disk, synthesizing and
writing it when absent. An existing file is left untouched.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	provider := dataset.NewProvider(cfg.Dataset, logger)

	path, created, err := provider.Seed(cmd.Context())
	if err != nil {
		logger.Error("failed to seed dataset", "error", err)
		return err
	}

	if created {
		logger.Info("dataset file created", "path", path, "rows", cfg.Dataset.Rows)
	} else {
		logger.Info("dataset file already exists", "path", path)
	}
	return nil
}
