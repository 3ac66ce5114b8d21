package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/anirudh-chai/subtitles-transliterator/internal/workflow"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func summaryRows(summary workflow.Summary) [][]string {
	rows := make([][]string, 0, len(summary.Collections))
	for _, cs := range summary.Collections {
		rows = append(rows, []string{
			cs.Name,
			strconv.Itoa(cs.Completed),
			strconv.Itoa(cs.Failed),
			strconv.Itoa(cs.Skipped),
		})
	}
	return rows
}

func printSummary(cmd *cobra.Command, summary workflow.Summary) {
	out := cmd.OutOrStdout()
	if len(summary.Collections) > 0 {
		headers := []string{"Collection", "Completed", "Failed", "Skipped"}
		aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight}
		fmt.Fprintln(out, renderTable(headers, summaryRows(summary), aligns))
	}
	fmt.Fprintf(out, "%d completed, %d failed, %d skipped\n", summary.Completed, summary.Failed, summary.Skipped)
	if summary.Interrupted {
		fmt.Fprintln(out, "Run interrupted before completion.")
	}
}
