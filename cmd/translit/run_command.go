package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anirudh-chai/subtitles-transliterator/internal/config"
	"github.com/anirudh-chai/subtitles-transliterator/internal/services/gemini"
	"github.com/anirudh-chai/subtitles-transliterator/internal/srt"
	"github.com/anirudh-chai/subtitles-transliterator/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Transliterate subtitle collections under a base folder",
		Long: `Run scans the base folder for collection directories, sends each subtitle
file to the transliteration endpoint, and writes the results under
processed/<collection>/. Without a path argument the base folder comes from
the configuration, or an interactive prompt on a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var requested string
			if len(args) == 1 {
				requested = args[0]
			}
			base, err := resolveBaseDir(cmd, requested, cfg.Library.BaseDir)
			if err != nil {
				return err
			}

			if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
				return errors.New("gemini.api_key is not set; export GEMINI_API_KEY or create a config with 'translit config new'")
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

			client := gemini.NewClient(gemini.Config{
				APIKey:         cfg.Gemini.APIKey,
				BaseURL:        cfg.Gemini.BaseURL,
				Model:          cfg.Gemini.Model,
				TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
				MaxAttempts:    cfg.Gemini.MaxAttempts,
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			translator := workflow.NewTranslator(workflow.TranslatorOptions{
				BaseDir:      base,
				OutputSuffix: cfg.Library.OutputSuffix,
				Extension:    cfg.Library.Extension,
				Format:       srt.FormatOptions{BlankLineBetweenCues: cfg.Format.BlankLineBetweenCues},
				FileDelay:    time.Duration(cfg.Pacing.FileDelaySeconds) * time.Second,
				CooldownMin:  time.Duration(cfg.Pacing.CooldownMinSeconds) * time.Second,
				CooldownMax:  time.Duration(cfg.Pacing.CooldownMaxSeconds) * time.Second,
				Force:        force,
			}, client, store, logger)

			summary, err := translator.Run(runCtx)
			if err != nil {
				if errors.Is(err, workflow.ErrNoSubtitles) {
					return fmt.Errorf("no %s files found under %s", cfg.Library.Extension, base)
				}
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

	cmd.Flags().BoolVar(&force, "force", false, "Reprocess files whose output already exists")
	return cmd
}

// resolveBaseDir picks the library base folder: the positional argument,
// else the configured base_dir, else an interactive prompt defaulting to
// the working directory.
func resolveBaseDir(cmd *cobra.Command, requested, configured string) (string, error) {
	if strings.TrimSpace(requested) != "" {
		expanded, err := config.ExpandPath(requested)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return "", fmt.Errorf("base folder: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("base folder is not a directory: %s", expanded)
		}
		return expanded, nil
	}

	if configured != "" {
		info, err := os.Stat(configured)
		if err != nil {
			return "", fmt.Errorf("library.base_dir: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("library.base_dir is not a directory: %s", configured)
		}
		return configured, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return promptBaseDir(cmd, cwd)
}
