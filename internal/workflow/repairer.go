package workflow

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/anirudh-chai/subtitles-transliterator/internal/fileutil"
	"github.com/anirudh-chai/subtitles-transliterator/internal/ledger"
	"github.com/anirudh-chai/subtitles-transliterator/internal/library"
	"github.com/anirudh-chai/subtitles-transliterator/internal/logging"
	"github.com/anirudh-chai/subtitles-transliterator/internal/srt"
)

// RepairerOptions configures a cleanup pass over processed output.
type RepairerOptions struct {
	BaseDir      string
	OutputSuffix string
	Extension    string
	Format       srt.FormatOptions
}

// Repairer walks processed documents, removes numbering artifacts, and
// restores timing from the trusted originals where they can be paired.
type Repairer struct {
	opts   RepairerOptions
	store  *ledger.Store
	logger *slog.Logger
}

// NewRepairer constructs a Repairer. The ledger store may be nil.
func NewRepairer(opts RepairerOptions, store *ledger.Store, logger *slog.Logger) *Repairer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Repairer{
		opts:   opts,
		store:  store,
		logger: logger.With("component", "repairer"),
	}
}

// Run repairs every processed subtitle file in place. Failures are soft and
// counted; a canceled context stops after the in-flight file.
func (r *Repairer) Run(ctx context.Context) (Summary, error) {
	files, err := library.FindProcessed(r.opts.BaseDir, r.opts.Extension)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		return Summary{}, ErrNoSubtitles
	}

	runID := r.beginRun(ctx)
	var summary Summary

	// FindProcessed sorts by path, so files of one collection are adjacent.
	var current CollectionSummary
	for _, path := range files {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}
		collection := filepath.Base(filepath.Dir(path))
		if current.Name != collection {
			if current.Name != "" {
				summary.add(current)
			}
			current = CollectionSummary{Name: collection}
		}
		switch r.repairFile(ctx, runID, collection, path) {
		case ledger.StatusCompleted:
			current.Completed++
		case ledger.StatusFailed:
			current.Failed++
		}
	}
	if current.Name != "" {
		summary.add(current)
	}

	r.finishRun(ctx, runID, summary)
	return summary, nil
}

func (r *Repairer) repairFile(ctx context.Context, runID, collection, path string) string {
	start := time.Now()

	content, _, err := fileutil.ReadTextFile(path)
	if err != nil {
		r.logger.Warn("read failed", "file", path, "error", err)
		r.record(ctx, runID, collection, path, ledger.StatusFailed, err.Error(), time.Since(start))
		return ledger.StatusFailed
	}

	fixed := srt.Renumber(srt.Clean(content), r.opts.Format)

	source := library.SourcePath(path, r.opts.OutputSuffix, r.opts.Extension)
	original, _, err := fileutil.ReadTextFile(source)
	switch {
	case err == nil:
		restored, outcome := srt.RestoreTimestamps(fixed, original)
		switch outcome.Status {
		case srt.StatusRestored:
			fixed = restored
			r.logger.Debug("restored timestamps", "file", filepath.Base(path), "replaced", outcome.Replaced)
		case srt.StatusCountMismatch:
			r.logger.Warn("timestamp count mismatch, keeping processed timing",
				"file", filepath.Base(path),
				"source_count", outcome.SourceCount,
				"processed_count", outcome.ProcessedCount,
			)
		case srt.StatusNoSourceTimestamps:
			r.logger.Warn("original carries no timestamps", "file", filepath.Base(path), "source", source)
		}
	case errors.Is(err, fs.ErrNotExist):
		r.logger.Info("no original found, keeping processed timing", "file", filepath.Base(path), "source", source)
	default:
		r.logger.Warn("original unreadable, keeping processed timing", "file", filepath.Base(path), "error", err)
	}

	if err := fileutil.WriteTextFile(path, fixed); err != nil {
		r.logger.Warn("write failed", "file", path, "error", err)
		r.record(ctx, runID, collection, path, ledger.StatusFailed, err.Error(), time.Since(start))
		return ledger.StatusFailed
	}

	r.logger.Info("repaired file", "collection", collection, "file", filepath.Base(path))
	r.record(ctx, runID, collection, path, ledger.StatusCompleted, "", time.Since(start))
	return ledger.StatusCompleted
}

func (r *Repairer) beginRun(ctx context.Context) string {
	if r.store == nil {
		return ""
	}
	runID, err := r.store.BeginRun(ctx, ledger.ModeCleanup, r.opts.BaseDir)
	if err != nil {
		r.logger.Warn("ledger unavailable, continuing without history", "error", err)
		return ""
	}
	return runID
}

func (r *Repairer) finishRun(ctx context.Context, runID string, summary Summary) {
	if r.store == nil || runID == "" {
		return
	}
	if err := r.store.FinishRun(ctx, runID, summary.Completed, summary.Failed, summary.Skipped); err != nil {
		r.logger.Warn("ledger finish failed", "error", err)
	}
}

func (r *Repairer) record(ctx context.Context, runID, collection, path, status, errMsg string, duration time.Duration) {
	if r.store == nil || runID == "" {
		return
	}
	if err := r.store.RecordFile(ctx, runID, collection, path, status, errMsg, duration); err != nil {
		r.logger.Warn("ledger write failed", "error", err)
	}
}
