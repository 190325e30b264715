package adoc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoContent is returned when a parse entry point receives empty input.
var ErrNoContent = errors.New("no content")

// A ParseError describes a structural problem in the source document.
// Line and Column are 1-based; both are 0 when the error is not anchored
// to a specific source position (for example a failed include). For errors
// raised while expanding includes, Chain lists the files being expanded,
// outermost first, ending with the offending file.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Msg      string
	Chain    []string
}

func (e *ParseError) Error() string {
	s := fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Msg)
	if len(e.Chain) > 1 {
		s += " (include chain: " + strings.Join(e.Chain, " -> ") + ")"
	}
	return s
}

// parseErrorf builds a *ParseError anchored at the given token.
func parseErrorf(filename string, tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Filename: filename,
		Line:     tok.Line,
		Column:   tok.Column,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// includeErrorf builds a *ParseError for include processing, which is not
// anchored to a line of the including document. The include stack extended
// by the offending file becomes the error's Chain.
func includeErrorf(filename string, includeStack []string, format string, args ...any) *ParseError {
	chain := make([]string, 0, len(includeStack)+1)
	chain = append(chain, includeStack...)
	chain = append(chain, filename)
	return &ParseError{
		Filename: filename,
		Msg:      fmt.Sprintf(format, args...),
		Chain:    chain,
	}
}
