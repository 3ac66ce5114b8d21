package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigNewWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := executeCommand(t, "config", "new", "--path", target)
	if err != nil {
		t.Fatalf("config new returned error: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected output to mention %s, got %q", target, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config at %s: %v", target, err)
	}
}

func TestConfigNewRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatalf("write existing config: %v", err)
	}

	if _, err := executeCommand(t, "config", "new", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := executeCommand(t, "config", "new", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config new --overwrite returned error: %v", err)
	}
}

func TestConfigShowPrintsResolvedValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[gemini]
model = "gemini-2.5-pro"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if !strings.Contains(out, "gemini.model: gemini-2.5-pro") {
		t.Fatalf("expected resolved model in output: %q", out)
	}
	if !strings.Contains(out, "gemini.api_key: (unset)") {
		t.Fatalf("expected masked api key in output: %q", out)
	}
}

func TestRunCommandRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	base := t.TempDir()
	missingConfig := filepath.Join(t.TempDir(), "config.toml")
	_, err := executeCommand(t, "--config", missingConfig, "run", base)
	if err == nil {
		t.Fatal("expected error without an API key")
	}
	if !strings.Contains(err.Error(), "gemini.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCleanupRequiresProcessedDir(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatal(err)
		}
	})

	missingConfig := filepath.Join(t.TempDir(), "config.toml")
	_, err = executeCommand(t, "--config", missingConfig, "cleanup")
	if err == nil {
		t.Fatal("expected error without a processed directory")
	}
	if !strings.Contains(err.Error(), "processed folder not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}
