// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package tally walks tokenized rows and accumulates per-column
// statistics. The numbers feed the CLI stats report and the column
// metadata stored alongside imported datasets.
package tally

import (
	"strconv"
	"strings"

	"github.com/mdhender/tabtxt"
)

// Column holds the accumulated statistics for one column position.
type Column struct {
	Name     string // header name, or synthesized fieldN
	Position int    // 0-based column position
	Rows     int    // data rows that have a value at this position
	Empty    int    // values that are empty after trimming
	Numeric  int    // values that parse as a float
	MinWidth int    // shortest non-empty value, in runes
	MaxWidth int    // longest value, in runes
}

// Walk tallies the data rows of a tokenized row set. When the config has
// a header row the first row supplies column names and is excluded from
// the counts; otherwise names are synthesized and every row counts.
func Walk(rows [][]string, cfg tabtxt.ParseConfig) []*Column {
	headers := tabtxt.Headers(rows, cfg)
	data := rows
	if cfg.HasHeader && len(rows) > 0 {
		data = rows[1:]
	}

	// ragged rows can be wider than the header row
	width := len(headers)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]*Column, width)
	for i := range columns {
		name := ""
		if i < len(headers) {
			name = headers[i]
		}
		columns[i] = &Column{Name: name, Position: i}
	}

	for _, row := range data {
		for i, value := range row {
			col := columns[i]
			col.Rows++
			if strings.TrimSpace(value) == "" {
				col.Empty++
				continue
			}
			w := len([]rune(value))
			if col.MinWidth == 0 || w < col.MinWidth {
				col.MinWidth = w
			}
			if w > col.MaxWidth {
				col.MaxWidth = w
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				col.Numeric++
			}
		}
	}

	return columns
}
