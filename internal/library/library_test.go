package library

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanCollections(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "Show B", "ep2.srt"))
	writeFile(t, filepath.Join(base, "Show B", "ep1.srt"))
	writeFile(t, filepath.Join(base, "Show A", "pilot.srt"))
	writeFile(t, filepath.Join(base, "Show A", "notes.txt"))
	writeFile(t, filepath.Join(base, ProcessedDirName, "Show A", "pilot_telugu.srt"))
	writeFile(t, filepath.Join(base, ".hidden", "x.srt"))
	if err := os.MkdirAll(filepath.Join(base, "Empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	collections, err := ScanCollections(base, ".srt")
	if err != nil {
		t.Fatalf("ScanCollections returned error: %v", err)
	}
	if len(collections) != 2 {
		t.Fatalf("expected 2 collections, got %d: %+v", len(collections), collections)
	}
	if collections[0].Name != "Show A" || collections[1].Name != "Show B" {
		t.Fatalf("expected sorted collection names, got %+v", collections)
	}
	if len(collections[0].Files) != 1 {
		t.Fatalf("expected non-subtitle files excluded, got %v", collections[0].Files)
	}
	if len(collections[1].Files) != 2 || filepath.Base(collections[1].Files[0]) != "ep1.srt" {
		t.Fatalf("expected sorted subtitle files, got %v", collections[1].Files)
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/lib", "Show A", "/lib/Show A/ep1.srt", "_telugu", ".srt")
	want := filepath.Join("/lib", "processed", "Show A", "ep1_telugu.srt")
	if got != want {
		t.Fatalf("OutputPath = %q, want %q", got, want)
	}
}

func TestFindProcessed(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, ProcessedDirName, "Show A", "ep1_telugu.srt"))
	writeFile(t, filepath.Join(base, ProcessedDirName, "Show B", "nested", "ep9_telugu.srt"))
	writeFile(t, filepath.Join(base, ProcessedDirName, "Show B", "readme.txt"))

	files, err := FindProcessed(base, ".srt")
	if err != nil {
		t.Fatalf("FindProcessed returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
}

func TestFindProcessedMissingDir(t *testing.T) {
	if _, err := FindProcessed(t.TempDir(), ".srt"); err == nil {
		t.Fatal("expected error for missing processed folder")
	}
}

func TestSourcePath(t *testing.T) {
	processed := filepath.Join("/lib", "processed", "Show A", "ep1_telugu.srt")
	got := SourcePath(processed, "_telugu", ".srt")
	want := filepath.Join("/lib", "Show A", "ep1.srt")
	if got != want {
		t.Fatalf("SourcePath = %q, want %q", got, want)
	}
}
