// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt

import "fmt"

// Record maps a header name to the field value for one data row.
type Record map[string]string

// Headers returns the header names for a tokenized row set. When the
// config has a header row, the first row supplies the names as-is
// (duplicates and empty names included). Otherwise names are synthesized
// as field1..fieldN, with N the widest row in the set.
func Headers(rows [][]string, cfg ParseConfig) []string {
	if cfg.HasHeader {
		if len(rows) == 0 {
			return nil
		}
		return rows[0]
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	headers := make([]string, width)
	for i := range headers {
		headers[i] = fmt.Sprintf("field%d", i+1)
	}
	return headers
}

// Records zips tokenized rows with header names. Rows shorter than the
// header list are padded with empty strings; positions past the header
// count are dropped. Duplicate header names silently overwrite earlier
// values. Zero data rows yields an empty slice.
func Records(rows [][]string, cfg ParseConfig) []Record {
	headers := Headers(rows, cfg)
	data := rows
	if cfg.HasHeader && len(rows) > 0 {
		data = rows[1:]
	}

	records := make([]Record, 0, len(data))
	for _, row := range data {
		rec := make(Record, len(headers))
		for i, name := range headers {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

// Parse is the full pipeline: tokenize text and build records from the
// resulting rows.
func Parse(text string, cfg ParseConfig) []Record {
	return Records(Tokenize(text, cfg), cfg)
}
