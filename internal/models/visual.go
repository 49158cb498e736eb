// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// VisualKind distinguishes the two visual descriptor payloads.
type VisualKind string

const (
	VisualTable VisualKind = "table"
	VisualChart VisualKind = "chart"
)

// ChartSubtype is the chart flavour requested by the model.
type ChartSubtype string

const (
	ChartBar  ChartSubtype = "bar"
	ChartLine ChartSubtype = "line"
	ChartPie  ChartSubtype = "pie"
)

// VisualMap is the structured-data mapping persisted with an article:
// placeholder index (as a decimal string) → visual descriptor.
type VisualMap map[string]VisualDescriptor

// VisualDescriptor is a tagged union describing one inline visual.
// Exactly one of Table or Chart is set for a well-formed descriptor;
// both stay nil when the payload is malformed, and the renderer turns
// that into an inline error block instead of failing the page.
type VisualDescriptor struct {
	Kind  VisualKind
	Title string
	Table *TableData
	Chart *ChartData
}

// TableData is the payload of a table descriptor.
type TableData struct {
	Columns []string
	Rows    [][]any
}

// ChartData is the payload of a chart descriptor. The model emits data
// either as a list of row records or as a column-oriented mapping of
// value lists; both are preserved as decoded and normalized at render
// time (ragged column lists are right-padded with nulls).
//
// Order holds the column names as they appear in the payload. Chart
// axes come from the first two columns the model wrote, and Go maps
// discard that order, so it is captured separately during decode.
type ChartData struct {
	Subtype ChartSubtype
	Order   []string
	Records []map[string]any
	Columns map[string][]any
}

// ColumnOrder returns every column name, payload order first, with any
// names missing from Order appended alphabetically so the result is
// deterministic for data built in code without one.
func (c *ChartData) ColumnOrder() []string {
	seen := make(map[string]bool, len(c.Order))
	out := make([]string, 0, len(c.Order))
	for _, k := range c.Order {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	var rest []string
	for _, rec := range c.Records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	for k := range c.Columns {
		if !seen[k] {
			seen[k] = true
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// visualJSON is the wire/storage shape of a descriptor.
type visualJSON struct {
	Type      string          `json:"type"`
	Title     string          `json:"title,omitempty"`
	Columns   []string        `json:"columns,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	ChartType string          `json:"chart_type,omitempty"`
}

// UnmarshalJSON decodes the AI-emitted descriptor shape. Decoding is
// deliberately lenient: an unknown type or a payload that doesn't match
// the declared kind leaves Table/Chart nil rather than returning an
// error, so one bad descriptor can't poison the whole mapping.
func (v *VisualDescriptor) UnmarshalJSON(b []byte) error {
	var raw visualJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	v.Kind = VisualKind(raw.Type)
	v.Title = raw.Title
	v.Table = nil
	v.Chart = nil

	switch v.Kind {
	case VisualTable:
		if len(raw.Columns) == 0 || len(raw.Data) == 0 {
			return nil
		}
		var rows [][]any
		if err := json.Unmarshal(raw.Data, &rows); err != nil {
			return nil
		}
		v.Table = &TableData{Columns: raw.Columns, Rows: rows}

	case VisualChart:
		if len(raw.Data) == 0 {
			return nil
		}
		chart := &ChartData{Subtype: ChartSubtype(raw.ChartType)}
		var records []map[string]any
		if err := json.Unmarshal(raw.Data, &records); err == nil {
			chart.Records = records
			chart.Order = recordKeyOrder(raw.Data)
			v.Chart = chart
			return nil
		}
		var cols map[string][]any
		if err := json.Unmarshal(raw.Data, &cols); err == nil {
			chart.Columns = cols
			chart.Order = objectKeyOrder(raw.Data)
			v.Chart = chart
		}
	}

	return nil
}

// recordKeyOrder collects object keys across an array of records in
// first-appearance document order.
func recordKeyOrder(data []byte) []string {
	var elems []json.RawMessage
	if json.Unmarshal(data, &elems) != nil {
		return nil
	}
	var order []string
	seen := make(map[string]bool)
	for _, e := range elems {
		for _, k := range objectKeyOrder(e) {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	return order
}

// objectKeyOrder reads the top-level keys of a JSON object in document
// order, which json.Unmarshal into a map throws away.
func objectKeyOrder(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

// MarshalJSON writes the descriptor back in the same shape it was decoded
// from, so a stored mapping round-trips value-equal through the database.
// Chart payload objects are written with keys in ColumnOrder, keeping the
// axis order stable across store and reload.
func (v VisualDescriptor) MarshalJSON() ([]byte, error) {
	raw := visualJSON{Type: string(v.Kind), Title: v.Title}

	switch {
	case v.Table != nil:
		raw.Columns = v.Table.Columns
		data, err := json.Marshal(v.Table.Rows)
		if err != nil {
			return nil, err
		}
		raw.Data = data
	case v.Chart != nil:
		raw.ChartType = string(v.Chart.Subtype)
		data, err := v.Chart.marshalData()
		if err != nil {
			return nil, err
		}
		raw.Data = data
	}

	return json.Marshal(raw)
}

// marshalData writes the chart payload with ordered object keys.
func (c *ChartData) marshalData() ([]byte, error) {
	keys := c.ColumnOrder()

	switch {
	case c.Records != nil:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, rec := range c.Records {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeOrderedObject(&buf, keys, func(k string) (any, bool) {
				val, ok := rec[k]
				return val, ok
			}); err != nil {
				return nil, err
			}
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil

	case c.Columns != nil:
		var buf bytes.Buffer
		err := writeOrderedObject(&buf, keys, func(k string) (any, bool) {
			val, ok := c.Columns[k]
			return val, ok
		})
		return buf.Bytes(), err
	}

	return []byte("null"), nil
}

// writeOrderedObject emits a JSON object with keys in the given order,
// skipping keys the source does not have.
func writeOrderedObject(buf *bytes.Buffer, keys []string, get func(string) (any, bool)) error {
	buf.WriteByte('{')
	first := true
	for _, k := range keys {
		val, ok := get(k)
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return nil
}
