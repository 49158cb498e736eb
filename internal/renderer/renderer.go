// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package renderer turns stored article text plus its structured-data
// mapping into an ordered sequence of display blocks: markdown text runs
// interleaved with tables and charts where the text carries placeholder
// tokens. Render is pure: no I/O and identical output for identical
// inputs, so block sequences are safe to cache.
package renderer

import (
	"regexp"
	"strings"

	"aiblog/internal/models"
)

// placeholderPattern is the one placeholder grammar recognized in article
// text: _||_STRUCTURED_DATA_<N>_||_ with a decimal index. Anything else
// is literal content.
var placeholderPattern = regexp.MustCompile(`_\|\|_STRUCTURED_DATA_(\d+)_\|\|_`)

// BlockKind identifies the three display block variants.
type BlockKind string

const (
	BlockText   BlockKind = "text"
	BlockVisual BlockKind = "visual"
	BlockError  BlockKind = "error"
)

// Block is one element of the rendered article body.
type Block struct {
	Kind    BlockKind
	Text    string  // BlockText: trimmed markdown run
	Index   string  // BlockVisual / BlockError: placeholder index
	Visual  *Visual // BlockVisual
	Message string  // BlockError: inline alert text
}

// Visual is a display-ready table, or a chart when Chart is non-nil.
// Charts keep their normalized tabular form so templates can fall back
// to the table when client-side charting is unavailable.
type Visual struct {
	Title   string
	Columns []string
	Rows    [][]any
	Chart   *ChartAxes // nil = render as a plain table
}

// ChartAxes selects the chart flavour and its category/value columns.
type ChartAxes struct {
	Subtype models.ChartSubtype
	X, Y    string
}

// Render scans fullText for placeholder tokens and produces alternating
// text and visual blocks in source order. Whitespace-only text runs are
// dropped; placeholders with no matching descriptor are dropped silently;
// malformed descriptors become inline error blocks so the rest of the
// article still renders.
func Render(fullText string, data models.VisualMap) []Block {
	var blocks []Block

	matches := placeholderPattern.FindAllStringSubmatchIndex(fullText, -1)
	last := 0
	for _, m := range matches {
		if text := strings.TrimSpace(fullText[last:m[0]]); text != "" {
			blocks = append(blocks, Block{Kind: BlockText, Text: text})
		}
		last = m[1]

		index := fullText[m[2]:m[3]]
		descriptor, ok := data[index]
		if !ok {
			continue
		}
		blocks = append(blocks, buildVisualBlock(index, descriptor))
	}

	if text := strings.TrimSpace(fullText[last:]); text != "" {
		blocks = append(blocks, Block{Kind: BlockText, Text: text})
	}

	return blocks
}

// buildVisualBlock converts one descriptor into a visual or error block.
func buildVisualBlock(index string, d models.VisualDescriptor) Block {
	switch {
	case d.Kind == models.VisualTable && d.Table != nil:
		title := d.Title
		if title == "" {
			title = "Table"
		}
		return Block{Kind: BlockVisual, Index: index, Visual: &Visual{
			Title:   title,
			Columns: d.Table.Columns,
			Rows:    d.Table.Rows,
		}}

	case d.Kind == models.VisualChart && d.Chart != nil:
		return chartBlock(index, d)

	case d.Kind == models.VisualTable:
		return Block{Kind: BlockError, Index: index, Message: "Table data is malformed."}

	case d.Kind == models.VisualChart:
		return Block{Kind: BlockError, Index: index, Message: "Chart data is missing or malformed."}

	default:
		return Block{Kind: BlockError, Index: index, Message: "Unsupported visual type."}
	}
}

// chartBlock normalizes a chart payload to tabular form and attaches chart
// axes when the shape supports them. Fewer than two usable columns or an
// unrecognized subtype degrades to the normalized table, never a failure.
func chartBlock(index string, d models.VisualDescriptor) Block {
	columns, rows := normalizeChartData(d.Chart)
	if len(columns) == 0 || len(rows) == 0 {
		return Block{Kind: BlockError, Index: index, Message: "No usable data for chart."}
	}

	title := d.Title
	if title == "" {
		title = "Untitled Chart"
	}

	visual := &Visual{Title: title, Columns: columns, Rows: rows}

	if len(columns) >= 2 && supportedSubtype(d.Chart.Subtype) {
		visual.Chart = &ChartAxes{
			Subtype: d.Chart.Subtype,
			X:       columns[0],
			Y:       columns[1],
		}
	}

	return Block{Kind: BlockVisual, Index: index, Visual: visual}
}

func supportedSubtype(s models.ChartSubtype) bool {
	switch s {
	case models.ChartBar, models.ChartLine, models.ChartPie:
		return true
	}
	return false
}

// normalizeChartData flattens either payload shape to columns + rows.
// Column order follows the payload document order captured at decode
// time, since the first two columns become the chart axes; names outside
// that order sort alphabetically so the result stays deterministic.
// Column-oriented payloads with ragged lists are right-padded with nils
// to the longest list.
func normalizeChartData(c *models.ChartData) ([]string, [][]any) {
	switch {
	case len(c.Records) > 0:
		columns := c.ColumnOrder()
		rows := make([][]any, 0, len(c.Records))
		for _, rec := range c.Records {
			row := make([]any, len(columns))
			for i, col := range columns {
				row[i] = rec[col] // missing keys stay nil
			}
			rows = append(rows, row)
		}
		return columns, rows

	case len(c.Columns) > 0:
		columns := c.ColumnOrder()
		longest := 0
		for _, vals := range c.Columns {
			if len(vals) > longest {
				longest = len(vals)
			}
		}
		rows := make([][]any, longest)
		for i := range rows {
			row := make([]any, len(columns))
			for j, col := range columns {
				if vals := c.Columns[col]; i < len(vals) {
					row[j] = vals[i]
				}
			}
			rows[i] = row
		}
		return columns, rows
	}

	return nil, nil
}
