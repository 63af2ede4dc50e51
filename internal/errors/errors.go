// Package errors formats compile-time diagnostics, lexical, syntax,
// and semantic alike, with source context and a caret pointing
// at the offending column.
package errors

import (
	"fmt"
	"strings"

	"github.com/basiclang/qbvm/internal/lexer"
)

// CompilerError is a single compile-time diagnostic with enough
// context to render a source-line-and-caret message.
type CompilerError struct {
	Message string
	Source  string
	Locus   lexer.Locus
}

// New builds a CompilerError for locus against the given source text.
func New(locus lexer.Locus, source, format string, args ...interface{}) *CompilerError {
	return &CompilerError{Message: fmt.Sprintf(format, args...), Source: source, Locus: locus}
}

func (e *CompilerError) Error() string { return e.Format() }

// Format renders "Error at L:C\n<line>\n<caret>\n<message>"; the
// line-and-caret block is omitted when no source line is available
// for the locus.
func (e *CompilerError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error at %s\n", e.Locus)

	line := sourceLine(e.Source, e.Locus.Line)
	if line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Locus.Line)
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
		col := e.Locus.Column
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		b.WriteString("^\n")
	}
	b.WriteString(e.Message)
	return b.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatErrors renders a batch of diagnostics in one report.
func FormatErrors(errs []*CompilerError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "compilation failed with %d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&b, "[%d/%d] %s\n", i+1, len(errs), e.Format())
		if i < len(errs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
