// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt

import (
	"strings"
)

const (
	// CR and LF are control characters, respectively coded 0x0D (13 decimal) and 0x0A (10 decimal).
	// Windows uses CR + LF, Unix/Mac uses LF, Classic Mac uses CR.
	// Normalization rewrites all three conventions to a bare LF before scanning.

	// CR is 0x0D or '\r'
	CR rune = rune(13)

	// LF is 0x0A or '\n'
	LF rune = rune(10)

	// NUL is 0x00. It shows up in corrupted exports; the tokenizer treats
	// it as an end-of-record marker rather than rejecting the input.
	NUL rune = rune(0)

	// EOF is a sentinel for end of input, used as the lookahead value
	// when the current rune is the last one.
	EOF rune = rune(-1)

	// BOM is the byte-order mark. Some Windows tools prepend it to UTF-8
	// output; we strip a single leading BOM before scanning.
	BOM rune = '\ufeff'
)

// normalize strips a single leading byte-order mark and rewrites line
// endings to bare LF. CR+LF must be rewritten before stray CR, otherwise
// a CR+LF pair would turn into two line breaks.
func normalize(text string) string {
	text = strings.TrimPrefix(text, string(BOM))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
