package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/contact-scraper/internal/runner"
)

// newRunCmd creates and configures the 'run' subcommand.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the URL list from the saved checkpoint",
		Long: `Reads the URL list, resumes from the checkpoint index, and for each URL
submits a scrape job, polls until it completes, and appends the extracted
contact to the output file.`,
		RunE: runRunCommand,
	}
}

func runRunCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.GetConfig()
	logger := appInstance.GetLogger()

	urls, err := runner.LoadURLs(cfg.Files.URLs)
	if err != nil {
		logger.Error("Failed to load URL list", zap.String("path", cfg.Files.URLs), zap.Error(err))
		logger.Info("Scraping complete.", zap.Int("processed", 0), zap.Int("skipped", 0))
		// PersistentPostRun does not run when RunE fails.
		appInstance.Close()
		return err
	}

	summary, err := appInstance.GetSession().Run(cmd.Context(), urls)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Run aborted", zap.String("run_id", summary.RunID), zap.Error(err))
		appInstance.Close()
		return fmt.Errorf("run scraper: %w", err)
	}

	logger.Info("Run command finished.",
		zap.String("run_id", summary.RunID),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
	)
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
