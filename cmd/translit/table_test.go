package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/anirudh-chai/subtitles-transliterator/internal/workflow"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Collection", "Completed"},
		[][]string{{"Show A", "3"}, {"Show B"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "Show A") || !strings.Contains(out, "Show B") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
}

func TestPrintSummary(t *testing.T) {
	summary := workflow.Summary{
		Collections: []workflow.CollectionSummary{
			{Name: "Show A", Completed: 2, Failed: 1},
		},
		Completed: 2,
		Failed:    1,
	}

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printSummary(cmd, summary)

	out := buf.String()
	if !strings.Contains(out, "Show A") {
		t.Fatalf("expected collection row in %q", out)
	}
	if !strings.Contains(out, "2 completed, 1 failed, 0 skipped") {
		t.Fatalf("expected totals line in %q", out)
	}
}

func TestPrintSummaryInterrupted(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printSummary(cmd, workflow.Summary{Interrupted: true})

	if !strings.Contains(buf.String(), "interrupted") {
		t.Fatalf("expected interruption notice in %q", buf.String())
	}
}
