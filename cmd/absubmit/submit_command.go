package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"absubmit/internal/acousticbrainz"
	"absubmit/internal/extractor"
	"absubmit/internal/library"
	"absubmit/internal/logging"
	"absubmit/internal/pipeline"
	"absubmit/internal/services"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var workers int

	cmd := &cobra.Command{
		Use:   "submit [query...]",
		Short: "Analyze matching catalog items and submit their low-level data",
		Long: `Analyze matching catalog items and submit their low-level data.

Query terms are either field:value (exact, case-insensitive match on
path, format, mb_trackid, mood_acoustic, artist, title or album) or bare
words matched against artist, title, album and path. All terms must match.
With no query every item is considered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("force") {
				force = cfg.Submit.Force
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Submit.Workers
			}
			if workers < 1 {
				return services.Wrap(services.ErrValidation, "submit", "flags", "--workers must be at least 1", nil)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handle, err := extractor.Resolve(runCtx, cfg.Extractor.Path)
			if err != nil {
				return err
			}
			logger.Info("extractor resolved",
				logging.String("extractor_path", handle.Path),
				logging.String("fingerprint", handle.Fingerprint),
			)

			lock, err := library.AcquireRunLock(cfg.Paths.LibraryDB)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release run lock", logging.Error(err))
				}
			}()

			client, err := acousticbrainz.New(cfg.AcousticBrainz.BaseURL,
				acousticbrainz.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
				acousticbrainz.WithUserAgent(cfg.AcousticBrainz.UserAgent),
			)
			if err != nil {
				return err
			}
			runner := extractor.NewRunner(handle,
				extractor.WithTempDir(cfg.Extractor.TempDir),
				extractor.WithTimeout(cfg.ExtractorTimeout()),
			)

			var summary pipeline.Summary
			runErr := ctx.withStore(func(store *library.Store) error {
				items, err := store.Select(runCtx, args...)
				if err != nil {
					return err
				}
				catalog := make([]pipeline.CatalogItem, 0, len(items))
				for _, item := range items {
					catalog = append(catalog, item)
				}
				p := pipeline.New(runner, client, logger, pipeline.WithWorkers(workers))
				summary, err = p.ProcessAll(runCtx, catalog, force)
				return err
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(summary, shouldColorize(out)))
			if errors.Is(runErr, context.Canceled) {
				fmt.Fprintln(out, "Interrupted; remaining items were not processed")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-analyze items that already have AcousticBrainz data")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of items to analyze concurrently")
	return cmd
}
