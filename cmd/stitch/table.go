package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stitch/internal/plan"
	"stitch/internal/script"
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

func renderSelections(selections []plan.Selection) string {
	rows := make([][]string, 0, len(selections))
	for _, sel := range selections {
		mode := "auto"
		if sel.Manual {
			mode = "manual"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", sel.LineNumber),
			truncateCell(sel.LineText, 40),
			sel.SourceID,
			fmt.Sprintf("%.1f%%", sel.Score*100),
			mode,
		})
	}
	return renderTable(
		[]string{"Line", "Script", "Take", "Confidence", "Mode"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func renderGaps(gaps []script.Line) string {
	rows := make([][]string, 0, len(gaps))
	for _, gap := range gaps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", gap.Number),
			truncateCell(gap.Text, 60),
		})
	}
	return renderTable(
		[]string{"Line", "Unmatched Script Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft},
	)
}

func truncateCell(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
