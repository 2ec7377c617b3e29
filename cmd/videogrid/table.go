package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"videogrid/internal/pipeline"
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

func renderClipTable(clips []pipeline.ClipReport) string {
	rows := make([][]string, 0, len(clips))
	for _, clip := range clips {
		rows = append(rows, []string{
			strconv.Itoa(clip.Index + 1),
			fmt.Sprintf("r%d c%d", clip.Index/4+1, clip.Index%4+1),
			clip.Label,
			fmt.Sprintf("%dx%d", clip.Metadata.Width, clip.Metadata.Height),
			formatRate(clip.Metadata.FrameRate),
			strconv.Itoa(clip.Decoded),
			strconv.Itoa(clip.Looped),
			strconv.Itoa(clip.Held),
		})
	}
	return renderTable(
		[]string{"#", "Cell", "Label", "Size", "FPS", "Decoded", "Looped", "Held"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func formatRate(fps float64) string {
	if fps <= 0 {
		return "?"
	}
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2fs", seconds)
}
