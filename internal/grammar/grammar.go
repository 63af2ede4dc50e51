// Package grammar holds the declarative rule set for the BASIC dialect:
// productions with semantic actions, plus the FOLLOW-set computation
// the GLR parser (internal/glr) uses to filter reductions.
package grammar

import "github.com/basiclang/qbvm/internal/lexer"

// epsilon is the empty-RHS marker symbol used internally by FIRST/FOLLOW.
const epsilon = ""

// Action is a production's semantic action: given the evaluated values of
// its RHS symbols (left to right) and the locus of the reduction, it
// produces the value associated with the LHS non-terminal. A production
// without an Action defaults to "return the first child, or nil".
type Action func(children []interface{}, locus lexer.Locus) interface{}

// Production is one grammar rule `LHS -> RHS...`. Terminals in RHS are
// symbol ids as produced by the lexer (e.g. "PRINT", "IDENT", "+");
// non-terminals are any other bare name declared as some rule's LHS.
type Production struct {
	ID     int
	LHS    string
	RHS    []string // empty slice = epsilon production
	Action Action
}

// Grammar is a closed rule set plus derived FIRST/FOLLOW tables.
type Grammar struct {
	Productions  []*Production
	Start        string // the distinguished start non-terminal, e.g. "_start"
	byLHS        map[string][]*Production
	nonterminals map[string]bool
	first        map[string]map[string]bool
	follow       map[string]map[string]bool
}

// New builds a Grammar from productions and computes FIRST/FOLLOW.
// augmentedStart is the real top-level non-terminal (e.g. "program");
// New synthesizes the `_start -> augmentedStart` production itself so
// callers never need to special-case the accepting item.
func New(prods []*Production, augmentedStart string) *Grammar {
	all := make([]*Production, 0, len(prods)+1)
	all = append(all, &Production{ID: 0, LHS: "_start", RHS: []string{augmentedStart}})
	for _, p := range prods {
		all = append(all, p)
	}
	g := &Grammar{
		Productions:  all,
		Start:        "_start",
		byLHS:        map[string][]*Production{},
		nonterminals: map[string]bool{},
	}
	for _, p := range all {
		g.byLHS[p.LHS] = append(g.byLHS[p.LHS], p)
		g.nonterminals[p.LHS] = true
	}
	g.computeFirst()
	g.computeFollow()
	return g
}

// ProductionsFor returns every production with the given LHS.
func (g *Grammar) ProductionsFor(lhs string) []*Production {
	return g.byLHS[lhs]
}

// IsNonTerminal reports whether sym is some production's LHS.
func (g *Grammar) IsNonTerminal(sym string) bool { return g.nonterminals[sym] }

// Follow returns the FOLLOW set of a non-terminal as a set (map to bool).
func (g *Grammar) Follow(nonterm string) map[string]bool { return g.follow[nonterm] }

// InFollow reports whether tok is in FOLLOW(nonterm); unknown
// non-terminals have an empty FOLLOW set.
func (g *Grammar) InFollow(nonterm, tok string) bool {
	set := g.follow[nonterm]
	return set != nil && set[tok]
}

func (g *Grammar) computeFirst() {
	g.first = map[string]map[string]bool{}
	for nt := range g.nonterminals {
		g.first[nt] = map[string]bool{}
	}
	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			set := g.first[p.LHS]
			nullable := true
			for _, sym := range p.RHS {
				var symFirst map[string]bool
				if g.nonterminals[sym] {
					symFirst = g.first[sym]
				} else {
					symFirst = map[string]bool{sym: true}
				}
				for t := range symFirst {
					if t == epsilon {
						continue
					}
					if !set[t] {
						set[t] = true
						changed = true
					}
				}
				if !g.nonterminals[sym] || !symFirst[epsilon] {
					nullable = false
					break
				}
			}
			if len(p.RHS) == 0 {
				nullable = true
			}
			if nullable && !set[epsilon] {
				set[epsilon] = true
				changed = true
			}
		}
	}
}

func (g *Grammar) firstOfSeq(seq []string) map[string]bool {
	result := map[string]bool{epsilon: true}
	for _, sym := range seq {
		delete(result, epsilon)
		var symFirst map[string]bool
		if g.nonterminals[sym] {
			symFirst = g.first[sym]
		} else {
			symFirst = map[string]bool{sym: true}
		}
		nullable := false
		for t := range symFirst {
			if t == epsilon {
				nullable = true
				continue
			}
			result[t] = true
		}
		if !nullable {
			return result
		}
		result[epsilon] = true
	}
	return result
}

func (g *Grammar) computeFollow() {
	g.follow = map[string]map[string]bool{}
	for nt := range g.nonterminals {
		g.follow[nt] = map[string]bool{}
	}
	g.follow[g.Start][lexer.EOF] = true

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			for i, sym := range p.RHS {
				if !g.nonterminals[sym] {
					continue
				}
				rest := p.RHS[i+1:]
				restFirst := g.firstOfSeq(rest)
				set := g.follow[sym]
				for t := range restFirst {
					if t == epsilon {
						continue
					}
					if !set[t] {
						set[t] = true
						changed = true
					}
				}
				if restFirst[epsilon] {
					for t := range g.follow[p.LHS] {
						if !set[t] {
							set[t] = true
							changed = true
						}
					}
				}
			}
		}
	}
}
