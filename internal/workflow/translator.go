package workflow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anirudh-chai/subtitles-transliterator/internal/fileutil"
	"github.com/anirudh-chai/subtitles-transliterator/internal/ledger"
	"github.com/anirudh-chai/subtitles-transliterator/internal/library"
	"github.com/anirudh-chai/subtitles-transliterator/internal/logging"
	"github.com/anirudh-chai/subtitles-transliterator/internal/srt"
)

// ErrNoSubtitles indicates a base folder with nothing to process.
var ErrNoSubtitles = errors.New("no subtitle files found")

// Transliterator converts one document's romanized text to Telugu script.
type Transliterator interface {
	Transliterate(ctx context.Context, content string) (string, error)
}

// TranslatorOptions configures a batch transliteration run.
type TranslatorOptions struct {
	BaseDir      string
	OutputSuffix string
	Extension    string
	Format       srt.FormatOptions

	// FileDelay spaces requests within a collection; the cooldown range
	// spaces collections. Both exist purely to stay under the endpoint's
	// rate limits.
	FileDelay   time.Duration
	CooldownMin time.Duration
	CooldownMax time.Duration

	// Force reprocesses files whose output already exists.
	Force bool
}

// Translator drives the per-collection transliteration loop.
type Translator struct {
	opts   TranslatorOptions
	client Transliterator
	store  *ledger.Store
	logger *slog.Logger
	jitter func(min, max time.Duration) time.Duration
}

// TranslatorOption customizes a Translator.
type TranslatorOption func(*Translator)

// WithTranslatorJitter overrides how cooldown waits are drawn (useful for tests).
func WithTranslatorJitter(jitter func(min, max time.Duration) time.Duration) TranslatorOption {
	return func(t *Translator) {
		t.jitter = jitter
	}
}

// NewTranslator constructs a Translator. The ledger store may be nil; runs
// then proceed without history.
func NewTranslator(opts TranslatorOptions, client Transliterator, store *ledger.Store, logger *slog.Logger, optFns ...TranslatorOption) *Translator {
	if logger == nil {
		logger = logging.NewNop()
	}
	translator := &Translator{
		opts:   opts,
		client: client,
		store:  store,
		logger: logger.With("component", "translator"),
		jitter: randomBetween,
	}
	for _, fn := range optFns {
		fn(translator)
	}
	return translator
}

// Run processes every collection under the base folder sequentially and
// returns counts per collection. Per-file failures are soft: they are
// logged, counted, and the run continues. A canceled context ends the run
// after the in-flight file.
func (t *Translator) Run(ctx context.Context) (Summary, error) {
	collections, err := library.ScanCollections(t.opts.BaseDir, t.opts.Extension)
	if err != nil {
		return Summary{}, err
	}
	if len(collections) == 0 {
		return Summary{}, ErrNoSubtitles
	}

	runID := t.beginRun(ctx)
	var summary Summary

	for ci, collection := range collections {
		t.logger.Info("processing collection",
			"collection", collection.Name,
			"files", len(collection.Files),
		)
		cs := CollectionSummary{Name: collection.Name}

		for fi, path := range collection.Files {
			if ctx.Err() != nil {
				summary.Interrupted = true
				break
			}
			status := t.processFile(ctx, runID, collection.Name, path)
			switch status {
			case ledger.StatusCompleted:
				cs.Completed++
			case ledger.StatusFailed:
				cs.Failed++
			case ledger.StatusSkipped:
				cs.Skipped++
			case statusInterrupted:
				summary.Interrupted = true
			}
			if summary.Interrupted {
				break
			}
			if fi < len(collection.Files)-1 && t.opts.FileDelay > 0 {
				if err := sleepContext(ctx, t.opts.FileDelay); err != nil {
					summary.Interrupted = true
					break
				}
			}
		}

		summary.add(cs)
		if summary.Interrupted {
			break
		}
		if ci < len(collections)-1 && t.opts.CooldownMax > 0 {
			cooldown := t.jitter(t.opts.CooldownMin, t.opts.CooldownMax)
			t.logger.Debug("cooling down before next collection", "wait", cooldown)
			if err := sleepContext(ctx, cooldown); err != nil {
				summary.Interrupted = true
				break
			}
		}
	}

	t.finishRun(ctx, runID, summary)
	if summary.Interrupted {
		t.logger.Warn("run interrupted",
			"completed", summary.Completed,
			"failed", summary.Failed,
			"skipped", summary.Skipped,
		)
	}
	return summary, nil
}

// statusInterrupted is internal to the loop; it never reaches the ledger.
const statusInterrupted = "interrupted"

func (t *Translator) processFile(ctx context.Context, runID, collection, path string) string {
	start := time.Now()
	output := library.OutputPath(t.opts.BaseDir, collection, path, t.opts.OutputSuffix, t.opts.Extension)

	if !t.opts.Force {
		if _, err := os.Stat(output); err == nil {
			t.logger.Info("skipping, output exists", "collection", collection, "file", filepath.Base(path))
			t.record(ctx, runID, collection, path, ledger.StatusSkipped, "output exists", 0)
			return ledger.StatusSkipped
		}
		if t.wasCompleted(ctx, path) {
			t.logger.Info("skipping, completed in a previous run", "collection", collection, "file", filepath.Base(path))
			t.record(ctx, runID, collection, path, ledger.StatusSkipped, "completed previously", 0)
			return ledger.StatusSkipped
		}
	}

	content, encodingName, err := fileutil.ReadTextFile(path)
	if err != nil {
		t.logger.Warn("read failed", "collection", collection, "file", filepath.Base(path), "error", err)
		t.record(ctx, runID, collection, path, ledger.StatusFailed, err.Error(), time.Since(start))
		return ledger.StatusFailed
	}
	if encodingName != "utf-8" {
		t.logger.Debug("decoded with fallback encoding", "file", filepath.Base(path), "encoding", encodingName)
	}

	result, err := t.client.Transliterate(ctx, content)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return statusInterrupted
		}
		t.logger.Warn("transliteration failed", "collection", collection, "file", filepath.Base(path), "error", err)
		t.record(ctx, runID, collection, path, ledger.StatusFailed, err.Error(), time.Since(start))
		return ledger.StatusFailed
	}

	header := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sanitized := srt.SanitizeResponse(result, header)

	if err := fileutil.WriteTextFile(output, sanitized); err != nil {
		t.logger.Warn("write failed", "collection", collection, "file", filepath.Base(path), "error", err)
		t.record(ctx, runID, collection, path, ledger.StatusFailed, err.Error(), time.Since(start))
		return ledger.StatusFailed
	}

	duration := time.Since(start)
	t.logger.Info("transliterated file",
		"collection", collection,
		"file", filepath.Base(path),
		"output", output,
		"duration", duration.Round(time.Millisecond),
	)
	t.record(ctx, runID, collection, path, ledger.StatusCompleted, "", duration)
	return ledger.StatusCompleted
}

func (t *Translator) beginRun(ctx context.Context) string {
	if t.store == nil {
		return ""
	}
	runID, err := t.store.BeginRun(ctx, ledger.ModeTransliterate, t.opts.BaseDir)
	if err != nil {
		t.logger.Warn("ledger unavailable, continuing without history", "error", err)
		return ""
	}
	return runID
}

func (t *Translator) finishRun(ctx context.Context, runID string, summary Summary) {
	if t.store == nil || runID == "" {
		return
	}
	if err := t.store.FinishRun(ctx, runID, summary.Completed, summary.Failed, summary.Skipped); err != nil {
		t.logger.Warn("ledger finish failed", "error", err)
	}
}

func (t *Translator) record(ctx context.Context, runID, collection, path, status, errMsg string, duration time.Duration) {
	if t.store == nil || runID == "" {
		return
	}
	if err := t.store.RecordFile(ctx, runID, collection, path, status, errMsg, duration); err != nil {
		t.logger.Warn("ledger write failed", "error", err)
	}
}

func (t *Translator) wasCompleted(ctx context.Context, path string) bool {
	if t.store == nil {
		return false
	}
	done, err := t.store.WasCompleted(ctx, path)
	if err != nil {
		t.logger.Warn("ledger lookup failed", "error", err)
		return false
	}
	return done
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
