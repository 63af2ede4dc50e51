// Package lexer turns BASIC source text into a restartable stream of
// tokens. Tokens carry enough position information for the parser and
// later compiler stages to produce source-anchored diagnostics.
package lexer

import "fmt"

// Locus is a (line, column) source position, 1-indexed. It is attached
// to tokens, AST nodes, and bytecode instructions so every diagnostic in
// the pipeline can point back at the originating source text.
type Locus struct {
	Line   int
	Column int
}

// String renders the locus as "L:C", the form used throughout error
// messages ("Syntax error at L:C").
func (l Locus) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// IsZero reports whether the locus was never set.
func (l Locus) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// Token is a single lexical unit: a symbol id (the grammar terminal
// name, e.g. "PRINT" or "IDENT"), the matched lexeme, and its locus.
// EOF is the distinguished token with an empty Text.
type Token struct {
	ID    string
	Text  string
	Locus Locus
}

// EOF is the symbol id used for the end-of-input token.
const EOF = "$end"

// Bad is the symbol id returned for an unrecognized byte; the parser
// turns this into a fatal "Bad character" diagnostic.
const Bad = "$bad"

// IsEOF reports whether this token is the end-of-input marker.
func (t Token) IsEOF() bool {
	return t.ID == EOF
}
