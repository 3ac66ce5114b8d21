package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadTextFileUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.srt")
	if err := os.WriteFile(path, []byte("1\ntext ఒకటి\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	content, enc, err := ReadTextFile(path)
	if err != nil {
		t.Fatalf("ReadTextFile returned error: %v", err)
	}
	if enc != "utf-8" {
		t.Fatalf("expected utf-8, got %q", enc)
	}
	if content != "1\ntext ఒకటి\n" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestReadTextFileUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.srt")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	content, enc, err := ReadTextFile(path)
	if err != nil {
		t.Fatalf("ReadTextFile returned error: %v", err)
	}
	if enc != "utf-8-sig" {
		t.Fatalf("expected utf-8-sig, got %q", enc)
	}
	if content != "hello" {
		t.Fatalf("expected BOM stripped, got %q", content)
	}
}

func TestReadTextFileLatin1Fallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.srt")
	// "café" in Latin-1; 0xE9 is not valid UTF-8.
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644); err != nil {
		t.Fatal(err)
	}

	content, enc, err := ReadTextFile(path)
	if err != nil {
		t.Fatalf("ReadTextFile returned error: %v", err)
	}
	if enc != "latin-1" {
		t.Fatalf("expected latin-1 fallback, got %q", enc)
	}
	if content != "café" {
		t.Fatalf("expected decoded text, got %q", content)
	}
}

func TestReadTextFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ReadTextFile(path); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestWriteTextFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "series", "out.srt")
	if err := WriteTextFile(path, "1\nhello\n"); err != nil {
		t.Fatalf("WriteTextFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "1\nhello\n" {
		t.Fatalf("unexpected content %q", got)
	}
}
