package glr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/basiclang/qbvm/internal/grammar"
	"github.com/basiclang/qbvm/internal/lexer"
)

// TokenSource is anything the parser can pull tokens from; *lexer.Lexer
// satisfies it directly.
type TokenSource interface {
	Next() lexer.Token
}

// ParseError is a fatal parser diagnostic: bad character, stuck
// state, or an unaccepted EOF.
type ParseError struct {
	Locus   lexer.Locus
	Message string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s at %s", e.Message, e.Locus) }

// Parser drives a GLR parse over a grammar.Grammar using a
// graph-structured stack. Diagnostics is the non-fatal ambiguity log,
// appended to whenever a ReduceNode carries more than one derivation.
type Parser struct {
	g           *grammar.Grammar
	aut         *Automaton
	Errors      []*ParseError
	Diagnostics []string
}

// New builds a Parser for g, constructing its LR(0) automaton lazily
// (only the initial state is built up front; GOTO fills in the rest on
// demand).
func New(g *grammar.Grammar) *Parser {
	return &Parser{g: g, aut: NewAutomaton(g)}
}

// Parse runs the GLR algorithm over src's tokens and evaluates the
// accepted parse tree's semantic actions into an AST value. It stops at
// the first fatal error (bad character, stuck state, unaccepted EOF)
// and returns (nil, false) in that case; inspect p.Errors for
// diagnostics.
func (p *Parser) Parse(src TokenSource) (interface{}, bool) {
	root := &ShiftNode{St: p.aut.Initial}
	stackTops := []node{root}

	for {
		tok := src.Next()
		if tok.ID == lexer.Bad {
			p.Errors = append(p.Errors, &ParseError{Locus: tok.Locus, Message: "Bad character"})
			return nil, false
		}

		reduced := p.reduceAll(stackTops, tok.ID)

		if tok.IsEOF() {
			for _, n := range reduced {
				if rn, ok := n.(*ReduceNode); ok && rn.St.Accepting {
					return p.evaluate(rn), true
				}
			}
			p.Errors = append(p.Errors, &ParseError{Locus: tok.Locus, Message: "Unexpected end of input"})
			return nil, false
		}

		nextTops := p.shift(reduced, tok)
		if len(nextTops) == 0 {
			expected := p.expectedAcross(reduced)
			msg := "Syntax error"
			if len(expected) > 0 {
				msg = fmt.Sprintf("Syntax error, expected one of: %s", strings.Join(expected, ", "))
			}
			p.Errors = append(p.Errors, &ParseError{Locus: tok.Locus, Message: msg})
			return nil, false
		}
		stackTops = nextTops
	}
}

func (p *Parser) expectedAcross(tops []node) []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range tops {
		for _, sym := range p.aut.ExpectedTerminals(n.State()) {
			if !seen[sym] {
				seen[sym] = true
				out = append(out, sym)
			}
		}
	}
	sort.Strings(out)
	return out
}

// reduceAll performs every FOLLOW-admissible reduction reachable from
// tops given the current lookahead, recursively (newly produced
// ReduceNodes may themselves be reducible), guarded by a processed-set
// cycle check, and returns tops plus every ReduceNode created.
func (p *Parser) reduceAll(tops []node, lookahead string) []node {
	all := append([]node{}, tops...)
	worklist := append([]node{}, tops...)
	processed := map[string]bool{}

	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		for _, it := range n.State().Reductions {
			if !p.g.InFollow(it.Rule.LHS, lookahead) {
				continue
			}
			ck := fmt.Sprintf("%p#%s", n, it.Key())
			if processed[ck] {
				continue
			}
			processed[ck] = true

			for _, path := range enumeratePaths(n, len(it.Rule.RHS)) {
				target := p.aut.Goto(path.origin.State(), it.Rule.LHS)
				if target == nil {
					continue
				}
				rn, isNew := p.mergeReduce(all, target, path.origin, it.Rule, path.nodes, n.Locus())
				if isNew {
					all = append(all, rn)
					worklist = append(worklist, rn)
				}
			}
		}
	}
	return all
}

type reducePath struct {
	origin node
	nodes  []node
}

// enumeratePaths walks back k parent-edges from n, branching across
// every parent when a node has more than one (the graph-merge case),
// and returns one path per distinct chain, each holding the k symbol
// nodes in left-to-right order plus the node that existed before the
// first of them (the reduction's origin / GOTO anchor).
func enumeratePaths(n node, k int) []reducePath {
	if k == 0 {
		return []reducePath{{origin: n, nodes: nil}}
	}
	var out []reducePath
	for _, parent := range n.Parents() {
		for _, sub := range enumeratePaths(parent, k-1) {
			nodes := make([]node, len(sub.nodes)+1)
			copy(nodes, sub.nodes)
			nodes[len(sub.nodes)] = n
			out = append(out, reducePath{origin: sub.origin, nodes: nodes})
		}
	}
	return out
}

// mergeReduce finds an existing ReduceNode among all for target state
// reached from the same origin, adding the derivation to it as one more
// alternative over the same span, or creates a fresh one. Reductions
// from different origins cover different spans and stay separate nodes.
func (p *Parser) mergeReduce(all []node, target *State, origin node, rule *grammar.Production, children []node, loc lexer.Locus) (*ReduceNode, bool) {
	inode := &InteriorNode{Rule: rule, Children: children, Loc: loc}
	for _, n := range all {
		if rn, ok := n.(*ReduceNode); ok && rn.St == target && len(rn.ParentN) == 1 && rn.ParentN[0] == origin {
			rn.Inodes = append(rn.Inodes, inode)
			return rn, false
		}
	}
	return &ReduceNode{St: target, Loc: loc, ParentN: []node{origin}, Inodes: []*InteriorNode{inode}}, true
}

// shift attempts a shift of tok from every top in tops, merging into a
// shared ShiftNode per target state rather than duplicating nodes.
func (p *Parser) shift(tops []node, tok lexer.Token) []node {
	var next []node
	byState := map[*State]*ShiftNode{}
	for _, n := range tops {
		target := p.aut.Goto(n.State(), tok.ID)
		if target == nil {
			continue
		}
		if existing, ok := byState[target]; ok {
			existing.addParent(n)
			continue
		}
		sn := &ShiftNode{St: target, Tok: tok, ParentN: []node{n}}
		byState[target] = sn
		next = append(next, sn)
	}
	return next
}

// evaluate walks the accepted parse bottom-up, invoking each rule's
// semantic action. Ambiguous ReduceNodes (more than one Inode) are
// resolved by picking the inode whose rule has the lowest declaration
// id and logging a diagnostic.
func (p *Parser) evaluate(n node) interface{} {
	memo := map[node]interface{}{}
	var eval func(node) interface{}
	eval = func(n node) interface{} {
		if v, ok := memo[n]; ok {
			return v
		}
		var result interface{}
		switch v := n.(type) {
		case *ShiftNode:
			result = v.Tok
		case *ReduceNode:
			if len(v.Inodes) == 0 {
				result = nil
				break
			}
			chosen := v.Inodes[0]
			for _, in := range v.Inodes[1:] {
				if in.Rule.ID < chosen.Rule.ID {
					chosen = in
				}
			}
			if len(v.Inodes) > 1 {
				p.Diagnostics = append(p.Diagnostics, fmt.Sprintf(
					"ambiguous derivation at %s: %d alternatives, chose rule %d",
					v.Loc, len(v.Inodes), chosen.Rule.ID))
			}
			loc := chosen.Loc
			if len(chosen.Children) > 0 {
				loc = chosen.Children[0].Locus()
			}
			children := make([]interface{}, len(chosen.Children))
			for i, c := range chosen.Children {
				children[i] = eval(c)
			}
			if chosen.Rule.Action != nil {
				result = chosen.Rule.Action(children, loc)
			} else if len(children) > 0 {
				result = children[0]
			}
			// Anchor the produced node at the derivation's first token so
			// downstream diagnostics point at where the construct starts,
			// sparing every semantic action from threading the locus
			// through by hand.
			if setter, ok := result.(interface{ SetPos(lexer.Locus) }); ok {
				setter.SetPos(loc)
			}
		}
		memo[n] = result
		return result
	}
	return eval(n)
}
