package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anirudh-chai/subtitles-transliterator/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigNewCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigNewCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set gemini api_key (or export GEMINI_API_KEY) before running translit.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file does not exist; defaults are in effect")
			}
			fmt.Fprintf(out, "gemini.api_key: %s\n", maskSecret(cfg.Gemini.APIKey))
			fmt.Fprintf(out, "gemini.base_url: %s\n", cfg.Gemini.BaseURL)
			fmt.Fprintf(out, "gemini.model: %s\n", cfg.Gemini.Model)
			fmt.Fprintf(out, "gemini.timeout_seconds: %d\n", cfg.Gemini.TimeoutSeconds)
			fmt.Fprintf(out, "gemini.max_attempts: %d\n", cfg.Gemini.MaxAttempts)
			fmt.Fprintf(out, "library.base_dir: %s\n", orUnset(cfg.Library.BaseDir))
			fmt.Fprintf(out, "library.output_suffix: %s\n", cfg.Library.OutputSuffix)
			fmt.Fprintf(out, "library.extension: %s\n", cfg.Library.Extension)
			fmt.Fprintf(out, "format.blank_line_between_cues: %t\n", cfg.Format.BlankLineBetweenCues)
			fmt.Fprintf(out, "pacing.file_delay_seconds: %d\n", cfg.Pacing.FileDelaySeconds)
			fmt.Fprintf(out, "pacing.cooldown_seconds: %d-%d\n", cfg.Pacing.CooldownMinSeconds, cfg.Pacing.CooldownMaxSeconds)
			fmt.Fprintf(out, "logging.format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "logging.level: %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func maskSecret(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(unset)"
	}
	return "(set)"
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}
