package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRecordsRunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	runID, err := store.BeginRun(ctx, ModeTransliterate, "/lib")
	if err != nil {
		t.Fatalf("BeginRun returned error: %v", err)
	}
	if runID == "" {
		t.Fatal("expected run ID")
	}

	if err := store.RecordFile(ctx, runID, "Show A", "/lib/Show A/ep1.srt", StatusCompleted, "", 3*time.Second); err != nil {
		t.Fatalf("RecordFile returned error: %v", err)
	}
	if err := store.RecordFile(ctx, runID, "Show A", "/lib/Show A/ep2.srt", StatusFailed, "http 500", time.Second); err != nil {
		t.Fatalf("RecordFile returned error: %v", err)
	}
	if err := store.FinishRun(ctx, runID, 1, 1, 0); err != nil {
		t.Fatalf("FinishRun returned error: %v", err)
	}

	done, err := store.WasCompleted(ctx, "/lib/Show A/ep1.srt")
	if err != nil {
		t.Fatalf("WasCompleted returned error: %v", err)
	}
	if !done {
		t.Fatal("expected ep1 to be completed")
	}
	done, err = store.WasCompleted(ctx, "/lib/Show A/ep2.srt")
	if err != nil {
		t.Fatalf("WasCompleted returned error: %v", err)
	}
	if done {
		t.Fatal("expected ep2 to not be completed")
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Completed != 1 || runs[0].Failed != 1 {
		t.Fatalf("unexpected counts: %+v", runs[0])
	}
	if runs[0].FinishedAt == "" {
		t.Fatal("expected finished_at to be set")
	}
}

func TestStoreReopens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	runID, err := store.BeginRun(ctx, ModeCleanup, "/lib")
	if err != nil {
		t.Fatalf("BeginRun returned error: %v", err)
	}
	if err := store.RecordFile(ctx, runID, "Show A", "/lib/processed/Show A/ep1_telugu.srt", StatusCompleted, "", 0); err != nil {
		t.Fatalf("RecordFile returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	done, err := reopened.WasCompleted(ctx, "/lib/processed/Show A/ep1_telugu.srt")
	if err != nil {
		t.Fatalf("WasCompleted returned error: %v", err)
	}
	if !done {
		t.Fatal("expected completion to survive reopen")
	}
}
