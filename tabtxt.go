// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package tabtxt parses tolerant tabular text: CSV and CSV-like dialects
// that mix quoting conventions, line-ending styles, comment lines, and
// ragged row lengths. The parser is best-effort and total; it never
// returns an error for malformed input.
package tabtxt

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 3,
		Patch: 0,
		Build: semver.Commit(),
	}
)

func Version() semver.Version {
	return version
}
