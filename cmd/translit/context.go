package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anirudh-chai/subtitles-transliterator/internal/config"
	"github.com/anirudh-chai/subtitles-transliterator/internal/ledger"
	"github.com/anirudh-chai/subtitles-transliterator/internal/library"
	"github.com/anirudh-chai/subtitles-transliterator/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// openLedger opens the run ledger kept beside the processed output. Ledger
// problems never block a run; the caller gets nil and history is skipped.
func openLedger(base string, logger *slog.Logger) *ledger.Store {
	store, err := ledger.Open(filepath.Join(base, library.ProcessedDirName, "ledger.db"))
	if err != nil {
		logger.Warn("run ledger unavailable", "error", err)
		return nil
	}
	return store
}
