// Package diag implements the compiler's fatal diagnostic reporting.
//
// Diagnostics are unrecovered: the first error encountered anywhere in the
// pipeline prints a message with source-line context and a caret under the
// offending column, then terminates the process with a non-zero status.
// There is no warning level and no suppression.
package diag

import (
	"fmt"
	"os"
	"strings"
)

// Source holds the original source text so later stages can render
// caret-style diagnostics against byte offsets captured earlier.
type Source struct {
	Name string
	Text string
}

// current is the source buffer diagnostics render against. It is set once
// by the driver before the pipeline runs.
var current *Source

// SetSource installs the source buffer used to render caret diagnostics.
func SetSource(name, text string) {
	current = &Source{Name: name, Text: text}
}

// Errorf reports a bare error with no source position and terminates.
func Errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

// ErrorAt reports an error at a byte offset into the current source buffer,
// printing the offending line and a caret under the column, then terminates.
func ErrorAt(offset int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if current == nil {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}

	lineStart, lineEnd, col := lineBounds(current.Text, offset)
	fmt.Fprintf(os.Stderr, "%s\n", current.Text[lineStart:lineEnd])
	fmt.Fprintf(os.Stderr, "%s^ %s\n", strings.Repeat(" ", col), msg)
	os.Exit(1)
}

// ErrorAtLine reports an error tagged with a 1-based source line, used when
// only line granularity (not a byte offset) is available.
func ErrorAtLine(line int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	name := "<input>"
	if current != nil {
		name = current.Name
	}
	fmt.Fprintf(os.Stderr, "%s:%d: error: %s\n", name, line, msg)
	os.Exit(1)
}

// lineBounds returns the [start,end) of the line containing offset, and the
// column of offset within that line.
func lineBounds(text string, offset int) (start, end, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	start = strings.LastIndexByte(text[:offset], '\n') + 1
	end = len(text)
	if idx := strings.IndexByte(text[offset:], '\n'); idx >= 0 {
		end = offset + idx
	}
	col = offset - start
	return
}
