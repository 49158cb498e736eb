// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// html.go converts a block sequence into the HTML fragment embedded in
// the article detail page. Text blocks go through goldmark; tables and
// charts are built by hand; charts ship their normalized data as an
// embedded JSON payload picked up by the page's Chart.js hook, with the
// table markup inside <noscript> as a fallback.
package renderer

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks
		extension.Typographer, // smart quotes and dashes
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// HTML renders a block sequence as a single HTML fragment.
func HTML(blocks []Block) template.HTML {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case BlockText:
			b.WriteString(textHTML(block.Text))
		case BlockVisual:
			b.WriteString(visualHTML(block.Visual))
		case BlockError:
			b.WriteString(errorHTML(block.Message))
		}
	}
	return template.HTML(b.String())
}

// textHTML converts one markdown run. On a conversion error the run is
// emitted as an escaped paragraph so the article never loses text.
func textHTML(source string) string {
	var buf strings.Builder
	if err := md.Convert([]byte(source), &buf); err != nil {
		slog.Warn("markdown conversion failed, falling back to plain text", "error", err)
		return "<p>" + html.EscapeString(source) + "</p>\n"
	}
	return `<div class="academic-text">` + "\n" + buf.String() + "</div>\n"
}

// visualHTML renders a table, or a chart container wrapping the table.
func visualHTML(v *Visual) string {
	table := tableHTML(v)
	if v.Chart == nil {
		return table
	}

	payload := chartPayload(v)
	return fmt.Sprintf(
		`<div class="chart-block my-5 shadow-sm border rounded p-3" data-chart-type=%q>
<h5 class="text-center">%s</h5>
<canvas></canvas>
<script type="application/json">%s</script>
<noscript>%s</noscript>
</div>
`,
		v.Chart.Subtype, html.EscapeString(v.Title), payload, table)
}

// tableHTML renders the header row plus one row per data row.
func tableHTML(v *Visual) string {
	var b strings.Builder
	b.WriteString(`<div class="my-5">` + "\n")
	b.WriteString(`<h5 class="text-center">` + html.EscapeString(v.Title) + "</h5>\n")
	b.WriteString(`<table class="table table-bordered table-striped table-hover shadow-sm">` + "\n<thead><tr>")
	for _, col := range v.Columns {
		b.WriteString("<th>" + html.EscapeString(col) + "</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range v.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + html.EscapeString(cellString(cell)) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n</div>\n")
	return b.String()
}

// errorHTML renders the inline alert shown in place of one broken visual.
func errorHTML(message string) string {
	return `<div class="alert alert-danger my-4" role="alert">` +
		html.EscapeString(message) + "</div>\n"
}

// chartPayload serializes the chart's category/value columns for the
// client-side chart hook. The first two columns are the axes.
func chartPayload(v *Visual) string {
	labels := make([]any, len(v.Rows))
	values := make([]any, len(v.Rows))
	for i, row := range v.Rows {
		if len(row) > 0 {
			labels[i] = row[0]
		}
		if len(row) > 1 {
			values[i] = row[1]
		}
	}

	data, err := json.Marshal(map[string]any{
		"title":  v.Title,
		"type":   v.Chart.Subtype,
		"xLabel": v.Chart.X,
		"yLabel": v.Chart.Y,
		"labels": labels,
		"values": values,
	})
	if err != nil {
		return "{}"
	}
	// A literal "</" inside a script element would terminate it early.
	return strings.ReplaceAll(string(data), "</", `<\/`)
}

// cellString formats a cell value for display. JSON numbers decode as
// float64; integral values drop the trailing ".0".
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
