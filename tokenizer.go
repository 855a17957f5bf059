// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt

import (
	"log/slog"
	"strings"
)

// Tokenizer invariants and coordinate system
//
// The tokenizer treats input as an immutable sequence of runes. Before the
// machine runs, the input is normalized: a single leading BOM is stripped
// and all line endings are rewritten to bare LF (CR+LF first, then stray
// CR, in that order).
//
// The machine is in exactly one mode at any time:
//
//   modeLineStart - the next rune begins a new logical line. This is the
//                   only mode in which a comment character is recognized.
//   modeDefault   - scanning an unquoted field.
//   modeQuoted    - inside an open quoted field. Delimiters, newlines, and
//                   NUL bytes are literal here; only a quote rune can
//                   change the mode.
//
// Invariants (must always hold):
//
//   mode == modeQuoted => the field buffer starts with '"'
//
//   a row or field, once appended to its parent, is never mutated;
//   the buffers are the only mutable state.
//
//   the machine never fails. Malformed input (stray quote mid-field,
//   unterminated quote, NUL bytes, ragged rows) is absorbed by the
//   recovery rules and reported through diagnostics.
//
// Buffers and finalization:
//
//   - The field buffer holds the raw text of the field being scanned,
//     including the surrounding quote runes of a quoted field. Keeping
//     the quotes in the buffer lets finalizeField detect a fully-quoted
//     field after trimming.
//   - finalizeField trims unquoted fields (when cfg.Trim), strips one
//     pair of surrounding quotes, and collapses doubled quotes.
//   - finalizeRow drops blank rows and comment rows; everything else is
//     appended to the output.

type mode int

const (
	modeLineStart mode = iota // next rune starts a logical line
	modeDefault               // scanning an unquoted field
	modeQuoted                // inside an open quoted field
)

// machine is the tokenizer state. It is call-local; Tokenize builds one
// per invocation, so independent inputs can be parsed concurrently.
type machine struct {
	cfg  ParseConfig
	mode mode

	field strings.Builder // raw text of the current field
	row   []string        // finalized fields of the current row
	out   [][]string      // finalized rows

	line   int // 1-based, for diagnostics
	column int // 1-based rune column, for diagnostics

	diags []Diagnostic
}

func newMachine(cfg ParseConfig) *machine {
	return &machine{
		cfg:    cfg,
		mode:   modeLineStart,
		line:   1,
		column: 1,
	}
}

// Tokenize converts raw delimited text into rows of field values.
// It is total: any input string produces a (possibly empty) row slice,
// never an error. See TokenizeWithDiagnostics for recovery reporting.
func Tokenize(text string, cfg ParseConfig) [][]string {
	rows, _ := TokenizeWithDiagnostics(text, cfg)
	return rows
}

// TokenizeWithDiagnostics is Tokenize plus a report of every recovery the
// machine performed (stray quote mid-field, NUL treated as end of record,
// unterminated quote at end of input). The diagnostics are advisory; they
// never change the rows returned.
func TokenizeWithDiagnostics(text string, cfg ParseConfig) ([][]string, []Diagnostic) {
	input := []rune(normalize(text))
	m := newMachine(cfg)

	for i := 0; i < len(input); {
		var c2 rune
		if i+1 < len(input) {
			c2 = input[i+1]
		} else {
			c2 = EOF
		}
		i += m.step(input, i, input[i], c2)
	}
	m.finish()

	return m.out, m.diags
}

// step executes one transition for the rune c at input[i], with c2 the
// rune after it (EOF at end of input). It returns the number of runes
// consumed: 1 normally, 2 for an escaped quote, more for a comment skip.
func (m *machine) step(input []rune, i int, c, c2 rune) int {
	if m.mode == modeQuoted {
		return m.stepQuoted(c, c2)
	}

	switch {
	case m.mode == modeLineStart && byteEq(c, m.cfg.Comment):
		// skip to the next newline without emitting anything; the
		// newline itself is left for the next step, where it closes
		// an empty row that blank-row suppression then drops.
		n := 1
		for i+n < len(input) && input[i+n] != LF {
			n++
		}
		m.column += n
		return n

	case byteEq(c, m.cfg.Delimiter):
		m.pushField()
		m.mode = modeDefault
		m.column++
		return 1

	case c == LF:
		m.pushField()
		m.pushRow()
		m.mode = modeLineStart
		m.line++
		m.column = 1
		return 1

	case c == NUL:
		// corrupted exports pad records with NUL; treat it as an
		// end-of-record marker instead of rejecting the input
		m.diag(slog.LevelWarn, "NUL treated as end of record")
		m.pushField()
		m.pushRow()
		m.mode = modeLineStart
		m.column++
		return 1

	case c == '"' && m.field.Len() == 0:
		// the opening quote stays in the raw buffer so finalizeField
		// can tell a fully-quoted field from a bare one
		m.field.WriteRune(c)
		m.mode = modeQuoted
		m.column++
		return 1

	case c == '"':
		// a quote after the field has started is not a dialect we
		// reject; keep it as a literal
		m.diag(slog.LevelWarn, "stray quote inside unquoted field")
		m.field.WriteRune(c)
		m.mode = modeDefault
		m.column++
		return 1

	default:
		m.field.WriteRune(c)
		m.mode = modeDefault
		m.column++
		return 1
	}
}

func (m *machine) stepQuoted(c, c2 rune) int {
	switch {
	case c == '"' && c2 == '"':
		// escaped quote: one literal quote, both runes consumed
		m.field.WriteRune('"')
		m.column += 2
		return 2

	case c == '"':
		// closing quote mirrors the opening one in the raw buffer
		m.field.WriteRune('"')
		m.mode = modeDefault
		m.column++
		return 1

	case c == LF:
		// embedded line break inside a quoted field
		m.field.WriteRune(LF)
		m.line++
		m.column = 1
		return 1

	default:
		m.field.WriteRune(c)
		m.column++
		return 1
	}
}

// finish flushes the trailing field and row (input that does not end with
// a newline still yields its last record), then strips any trailing rows
// that are a single empty field.
func (m *machine) finish() {
	if m.mode == modeQuoted {
		m.diag(slog.LevelWarn, "unterminated quote at end of input")
	}
	if m.field.Len() > 0 || len(m.row) > 0 {
		m.pushField()
		m.pushRow()
	}
	for len(m.out) > 0 {
		last := m.out[len(m.out)-1]
		if len(last) != 1 || last[0] != "" {
			break
		}
		m.out = m.out[:len(m.out)-1]
	}
}

// pushField finalizes the current field buffer and appends it to the row.
func (m *machine) pushField() {
	raw := m.field.String()
	m.field.Reset()

	if m.mode != modeQuoted && m.cfg.Trim {
		raw = strings.TrimSpace(raw)
	}
	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		raw = raw[1 : len(raw)-1]
		raw = strings.ReplaceAll(raw, `""`, `"`)
	}

	m.row = append(m.row, raw)
}

// pushRow finalizes the current row. Blank rows (a single empty or
// all-whitespace field) and comment rows are dropped. The comment check
// here is needed because the line-start check only fires when the comment
// character is the very first rune of the line.
func (m *machine) pushRow() {
	row := m.row
	m.row = nil

	if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
		return
	}
	if len(row) > 0 {
		first := strings.TrimSpace(row[0])
		if len(first) > 0 && byteEq(rune(first[0]), m.cfg.Comment) {
			return
		}
	}
	m.out = append(m.out, row)
}

func (m *machine) diag(severity slog.Level, message string) {
	m.diags = append(m.diags, Diagnostic{
		Severity: severity,
		Message:  message,
		Line:     m.line,
		Column:   m.column,
	})
}

func byteEq(c rune, ch byte) bool {
	return ch != 0 && c == rune(ch)
}
