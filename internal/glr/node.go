package glr

import (
	"github.com/basiclang/qbvm/internal/grammar"
	"github.com/basiclang/qbvm/internal/lexer"
)

// node is the common interface for every graph-stack vertex: both
// shifted terminals and reduced non-terminals live in the same graph so
// the parse loop can pop across either kind uniformly.
type node interface {
	State() *State
	Locus() lexer.Locus
	Parents() []node
}

// ShiftNode is a terminal shifted onto the graph stack.
type ShiftNode struct {
	St      *State
	Tok     lexer.Token
	ParentN []node
}

func (s *ShiftNode) State() *State         { return s.St }
func (s *ShiftNode) Locus() lexer.Locus    { return s.Tok.Locus }
func (s *ShiftNode) Parents() []node       { return s.ParentN }
func (s *ShiftNode) addParent(p node)      { s.ParentN = appendUniqueNode(s.ParentN, p) }

// InteriorNode is one specific derivation of a ReduceNode's
// non-terminal: the rule that fired and its children in left-to-right
// order. The child sequence is resolved once, at reduction time, when
// the parent chain is enumerated, so evaluation never has to re-derive
// it.
type InteriorNode struct {
	Rule     *grammar.Production
	Children []node
	Loc      lexer.Locus
}

// ReduceNode is the result of reducing some RHS to a non-terminal.
// It aggregates every alternative derivation that lands
// in the same target state from the same origin via its Inodes list,
// the point the GLR literature calls a packed node.
type ReduceNode struct {
	St      *State
	Loc     lexer.Locus
	ParentN []node
	Inodes  []*InteriorNode
}

func (r *ReduceNode) State() *State      { return r.St }
func (r *ReduceNode) Locus() lexer.Locus { return r.Loc }
func (r *ReduceNode) Parents() []node    { return r.ParentN }
func (r *ReduceNode) addParent(p node)   { r.ParentN = appendUniqueNode(r.ParentN, p) }

func appendUniqueNode(list []node, n node) []node {
	for _, existing := range list {
		if existing == n {
			return list
		}
	}
	return append(list, n)
}
