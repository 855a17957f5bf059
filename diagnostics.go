// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Diagnostic reports one recovery the tokenizer performed while absorbing
// malformed input. The parser never fails; diagnostics are how a caller
// finds out that "never fails" did some work.
type Diagnostic struct {
	Severity slog.Level // Warn for recoveries, Info for notes
	Message  string     // "stray quote inside unquoted field"
	Line     int        // 1-based line in the normalized input
	Column   int        // 1-based rune column
	Notes    []string   // optional additional help messages
}

// PrintDiagnostic writes a compiler-style report for one diagnostic:
// a file:line:column header, the offending source line, and a caret
// underline. src should be the same text that was tokenized; the line is
// located in the normalized form of it.
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string, src string) {
	_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		filename, diag.Line, diag.Column,
		strings.ToLower(diag.Severity.String()), diag.Message)

	line := findLine(normalize(src), diag.Line)
	_, _ = fmt.Fprintf(w, "    %s\n", line)

	caret := diag.Column - 1
	if caret < 0 {
		caret = 0
	} else if caret > len([]rune(line)) {
		caret = len([]rune(line))
	}
	_, _ = fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", caret))

	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the 1-based lineNo'th line of src, without its
// terminator. Out of range returns an empty string.
func findLine(src string, lineNo int) string {
	if lineNo < 1 {
		return ""
	}
	for line := range strings.SplitSeq(src, "\n") {
		lineNo--
		if lineNo == 0 {
			return line
		}
	}
	return ""
}
