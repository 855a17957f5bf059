// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt

import (
	"iter"
	"strings"
)

// SplitLines segments text into logical lines without parsing fields.
// A logical line may span multiple physical lines when a quote is open;
// quote state toggles on each unescaped '"' with the same doubled-quote
// escape rule as the tokenizer. An unquoted LF or CR ends a line, and an
// unquoted CR+LF pair counts as a single boundary. Lines that are empty
// or all-whitespace after trimming are dropped; a non-blank final line is
// yielded even without a trailing terminator.
//
// SplitLines ignores ParseConfig entirely: no delimiters, no comments.
// It exists for callers that want line-oriented pre-segmentation while
// still respecting embedded newlines inside quoted fields.
func SplitLines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		input := []rune(text)
		var line strings.Builder
		inQuotes := false

		emit := func() bool {
			s := line.String()
			line.Reset()
			if strings.TrimSpace(s) == "" {
				return true
			}
			return yield(s)
		}

		for i := 0; i < len(input); i++ {
			c := input[i]
			switch {
			case c == '"':
				if inQuotes && i+1 < len(input) && input[i+1] == '"' {
					// escaped quote, stays inside the field
					line.WriteRune(c)
					line.WriteRune(c)
					i++
					continue
				}
				inQuotes = !inQuotes
				line.WriteRune(c)

			case !inQuotes && (c == LF || c == CR):
				if c == CR && i+1 < len(input) && input[i+1] == LF {
					i++ // CR+LF is one boundary
				}
				if !emit() {
					return
				}

			default:
				line.WriteRune(c)
			}
		}

		if line.Len() > 0 {
			emit()
		}
	}
}
