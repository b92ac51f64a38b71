package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type column struct {
	title string
	align columnAlignment
}

var (
	manifestColumns = []column{
		{title: "Manifest"},
		{title: "Rows", align: alignRight},
	}
	demoColumns = []column{
		{title: "Demo"},
		{title: "Mode"},
		{title: "Work", align: alignRight},
		{title: "Rest", align: alignRight},
		{title: "Segments", align: alignRight},
		{title: "Seconds", align: alignRight},
	}
	historyColumns = []column{
		{title: "Recorded"},
		{title: "Video", align: alignRight},
		{title: "Reason"},
		{title: "Score", align: alignRight},
		{title: "Size", align: alignRight},
		{title: "Active"},
		{title: "URL"},
	}
)

// renderTable lays rows out under columns. Short rows are padded; cells past
// the last column are dropped.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(cells(columns, func(i int) string { return columns[i].title }))
	for _, row := range rows {
		tw.AppendRow(cells(columns, func(i int) string {
			if i < len(row) {
				return row[i]
			}
			return ""
		}))
	}

	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		align := text.AlignLeft
		if col.align == alignRight {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func cells(columns []column, value func(int) string) table.Row {
	row := make(table.Row, len(columns))
	for i := range columns {
		row[i] = value(i)
	}
	return row
}
