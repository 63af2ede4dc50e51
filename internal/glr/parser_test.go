package glr

import (
	"testing"

	"github.com/basiclang/qbvm/internal/grammar"
	"github.com/basiclang/qbvm/internal/lexer"
)

// sliceSource feeds a fixed token slice to the parser, ending in EOF.
type sliceSource struct {
	toks []lexer.Token
	pos  int
}

func (s *sliceSource) Next() lexer.Token {
	if s.pos >= len(s.toks) {
		return lexer.Token{ID: lexer.EOF}
	}
	t := s.toks[s.pos]
	s.pos++
	return t
}

func tok(id string) lexer.Token { return lexer.Token{ID: id, Text: id} }

func TestGLRShiftReduceSimpleSum(t *testing.T) {
	prods := []*grammar.Production{
		{ID: 1, LHS: "expr", RHS: []string{"expr", "+", "term"}, Action: func(c []interface{}, _ lexer.Locus) interface{} {
			return c[0].(int) + c[2].(int)
		}},
		{ID: 2, LHS: "expr", RHS: []string{"term"}},
		{ID: 3, LHS: "term", RHS: []string{"NUM"}, Action: func(c []interface{}, _ lexer.Locus) interface{} {
			return 1
		}},
	}
	g := grammar.New(prods, "expr")
	p := New(g)
	src := &sliceSource{toks: []lexer.Token{tok("NUM"), tok("+"), tok("NUM"), tok("+"), tok("NUM")}}
	result, ok := p.Parse(src)
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors)
	}
	if result.(int) != 3 {
		t.Fatalf("expected 3, got %v", result)
	}
}

func TestGLRSyntaxError(t *testing.T) {
	prods := []*grammar.Production{
		{ID: 1, LHS: "expr", RHS: []string{"NUM"}},
	}
	g := grammar.New(prods, "expr")
	p := New(g)
	src := &sliceSource{toks: []lexer.Token{tok("+")}}
	_, ok := p.Parse(src)
	if ok {
		t.Fatalf("expected parse to fail")
	}
	if len(p.Errors) == 0 {
		t.Fatalf("expected at least one error")
	}
}

// TestGLRAmbiguousReduceReduce exercises a genuine reduce/reduce
// ambiguity: NUM can reduce as either an 'a' or a 'b', both admissible
// under the same FOLLOW. The lowest rule id must win, and a diagnostic
// must be logged.
func TestGLRAmbiguousReduceReduce(t *testing.T) {
	prods := []*grammar.Production{
		{ID: 1, LHS: "start", RHS: []string{"a"}, Action: func(c []interface{}, _ lexer.Locus) interface{} { return "a" }},
		{ID: 2, LHS: "start", RHS: []string{"b"}, Action: func(c []interface{}, _ lexer.Locus) interface{} { return "b" }},
		{ID: 3, LHS: "a", RHS: []string{"NUM"}},
		{ID: 4, LHS: "b", RHS: []string{"NUM"}},
	}
	g := grammar.New(prods, "start")
	p := New(g)
	src := &sliceSource{toks: []lexer.Token{tok("NUM")}}
	result, ok := p.Parse(src)
	if !ok {
		t.Fatalf("parse failed: %v", p.Errors)
	}
	if result.(string) != "a" {
		t.Fatalf("expected lowest-rule-id win (\"a\"), got %v", result)
	}
	if len(p.Diagnostics) == 0 {
		t.Fatalf("expected an ambiguity diagnostic")
	}
}
