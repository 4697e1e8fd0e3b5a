package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/robobook/backend/internal/app"
	"github.com/robobook/backend/internal/config"
)

var ingestSitemapURL string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the textbook into the knowledge store",
	Long: `Ingest fetches the textbook sitemap, extracts readable text from every
page, splits it into chunks, embeds them and stores the vectors for
retrieval. Re-running replaces the chunks of every page it touches.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runIngest()
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSitemapURL, "sitemap", "", "sitemap URL (overrides configuration)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ingestSitemapURL != "" {
		cfg.SitemapURL = ingestSitemapURL
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()
	slog.SetDefault(logger)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	logger.Info("starting ingestion", "sitemap", cfg.SitemapURL)

	report, err := a.Pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("running ingestion: %w", err)
	}

	fmt.Printf("Pages ingested: %d\n", report.Pages)
	fmt.Printf("Pages failed:   %d\n", report.PagesFailed)
	fmt.Printf("Pages empty:    %d\n", report.PagesEmpty)
	fmt.Printf("Chunks stored:  %d\n", report.Chunks)
	return nil
}
