package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anirudh-chai/subtitles-transliterator/internal/library"
	"github.com/anirudh-chai/subtitles-transliterator/internal/srt"
	"github.com/anirudh-chai/subtitles-transliterator/internal/workflow"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Repair processed subtitle files in place",
		Long: `Cleanup walks the processed directory beneath the current working
directory, removes duplicated and stray cue numbers, renumbers every
document from 1, and restores timestamps from the sibling originals where
the counts line up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			base, err := os.Getwd()
			if err != nil {
				return err
			}
			processedDir := filepath.Join(base, library.ProcessedDirName)
			if info, err := os.Stat(processedDir); err != nil || !info.IsDir() {
				return fmt.Errorf("processed folder not found at %s; run 'translit run' first", processedDir)
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			lock, err := workflow.AcquireLock(base)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			store := openLedger(base, logger)
			if store != nil {
				defer store.Close()
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repairer := workflow.NewRepairer(workflow.RepairerOptions{
				BaseDir:      base,
				OutputSuffix: cfg.Library.OutputSuffix,
				Extension:    cfg.Library.Extension,
				Format:       srt.FormatOptions{BlankLineBetweenCues: cfg.Format.BlankLineBetweenCues},
			}, store, logger)

			summary, err := repairer.Run(runCtx)
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			if summary.Interrupted {
				return context.Canceled
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total())
			}
			return nil
		},
	}
}
