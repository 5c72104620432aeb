package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxContentLen bounds how much of an offending line is echoed back.
const maxContentLen = 80

// ParseError reports malformed or empty adjacency-list input.
// Line is 1-based; zero means the error is about the input as a whole
// (for example, an input with no data lines).
type ParseError struct {
	Path    string // Input path, empty when parsing a plain reader
	Line    int    // 1-based line number, 0 if not line-specific
	Content string // Offending line, truncated for display
	Reason  string // What was wrong
	Cause   error  // Underlying error (optional)
}

// NewParseError creates a ParseError for the given line.
func NewParseError(line int, content, format string, args ...any) *ParseError {
	return &ParseError{
		Line:    line,
		Content: Truncate(content),
		Reason:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeParse, e.message())
}

func (e *ParseError) message() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:", e.Line)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(e.Reason)
	if e.Content != "" {
		fmt.Fprintf(&b, " (line %q)", e.Content)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Cause }

// ErrorCode returns ErrCodeParse.
func (e *ParseError) ErrorCode() Code { return ErrCodeParse }

// EncodeError reports a graph that cannot be written in CSR form, either
// because a value does not fit its field or because the output failed.
type EncodeError struct {
	Vertex  uint64 // Source vertex holding the offending value
	Index   int    // Position within the vertex's neighbor list
	Value   uint64 // Offending value
	HasEdge bool   // Whether Vertex/Index/Value are set
	Path    string // Output path, when the failure is an I/O one
	Reason  string // What was wrong
	Cause   error  // Underlying error (optional)
}

// NewEdgeRangeError reports a destination id that does not fit in the
// 32-bit edge array.
func NewEdgeRangeError(vertex uint64, index int, value uint64) *EncodeError {
	return &EncodeError{
		Vertex:  vertex,
		Index:   index,
		Value:   value,
		HasEdge: true,
		Reason:  "edge id exceeds uint32 range",
	}
}

// NewWriteError wraps an I/O failure on the output path.
func NewWriteError(path string, cause error, format string, args ...any) *EncodeError {
	return &EncodeError{
		Path:   path,
		Reason: fmt.Sprintf(format, args...),
		Cause:  cause,
	}
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeEncode, e.message())
}

func (e *EncodeError) message() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	if e.HasEdge {
		fmt.Fprintf(&b, ": vertex %d neighbor %d has id %d", e.Vertex, e.Index, e.Value)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *EncodeError) Unwrap() error { return e.Cause }

// ErrorCode returns ErrCodeEncode.
func (e *EncodeError) ErrorCode() Code { return ErrCodeEncode }

// Truncate shortens s for inclusion in a diagnostic.
func Truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxContentLen {
		return s
	}
	cut := maxContentLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
