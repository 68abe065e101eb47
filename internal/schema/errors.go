package schema

import (
	"errors"
	"fmt"
)

// Error kinds raised by Compile. Use errors.Is against these to branch on
// the failure category; the wrapped *ParseError carries the line number.
var (
	// ErrMalformedLine marks a line that fits none of the grammar rules.
	ErrMalformedLine = errors.New("malformed line")
	// ErrIndentation marks a dedent to a depth that was never opened, or
	// an inconsistent indentation level among siblings.
	ErrIndentation = errors.New("indentation error")
	// ErrUnterminatedList marks an opening bracket with no closing one.
	ErrUnterminatedList = errors.New("unterminated list")
	// ErrMalformedEnum marks an inconsistent array element shape or a
	// list token neither parse stage could resolve.
	ErrMalformedEnum = errors.New("malformed enum")
	// ErrMaxDepth marks nesting beyond the recursion bound.
	ErrMaxDepth = errors.New("max depth exceeded")
)

// ParseError is a compile failure bound to a source position. Line is the
// 1-based line number within the schema block (not the whole chat turn).
// A zero Line means the failure is not tied to a single line.
type ParseError struct {
	Kind    error
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the kind sentinel to errors.Is.
func (e *ParseError) Unwrap() error { return e.Kind }

func parseErrf(kind error, line int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
