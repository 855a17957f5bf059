// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package renderer writes tokenized rows back out as delimited text.
// It is the inverse of the tokenizer: rendering then tokenizing with the
// same dialect returns the original rows.
package renderer

import (
	"bufio"
	"io"
	"strings"
)

type Renderer struct {
	delimiter      byte
	eol            string
	quoteAll       bool
	excludeColumns map[string]bool
	includeColumns map[string]bool
}

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		delimiter:      ',',
		eol:            "\n",
		excludeColumns: make(map[string]bool),
		includeColumns: make(map[string]bool),
	}
	for _, option := range options {
		err := option(r)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render writes rows to w as delimited text. When include or exclude
// column sets are configured, the first row is treated as the header and
// every row is filtered to the matching column positions.
func (r *Renderer) Render(w io.Writer, rows [][]string) error {
	keep := r.keepColumns(rows)

	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for n, i := range r.columnOrder(row, keep) {
			if n > 0 {
				if err := bw.WriteByte(r.delimiter); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(r.encode(row[i])); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(r.eol); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// RenderString is Render into a string, for tests and small outputs.
func (r *Renderer) RenderString(rows [][]string) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// keepColumns maps header names to the set of column positions to emit.
// Returns nil when no filtering is configured.
func (r *Renderer) keepColumns(rows [][]string) map[int]bool {
	if len(r.includeColumns) == 0 && len(r.excludeColumns) == 0 {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	keep := make(map[int]bool)
	for i, name := range rows[0] {
		if r.excludeColumns[name] {
			continue
		}
		if len(r.includeColumns) > 0 && !r.includeColumns[name] {
			continue
		}
		keep[i] = true
	}
	return keep
}

func (r *Renderer) columnOrder(row []string, keep map[int]bool) []int {
	order := make([]int, 0, len(row))
	for i := range row {
		if keep != nil && !keep[i] {
			continue
		}
		order = append(order, i)
	}
	return order
}

// encode quotes a field when the dialect requires it: an embedded
// delimiter, quote, line break, or leading/trailing space forces quoting,
// and embedded quotes are doubled.
func (r *Renderer) encode(field string) string {
	needsQuotes := r.quoteAll ||
		strings.IndexByte(field, r.delimiter) >= 0 ||
		strings.ContainsAny(field, "\"\r\n") ||
		(field != "" && (field[0] == ' ' || field[len(field)-1] == ' '))
	if !needsQuotes {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
