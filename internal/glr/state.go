package glr

import "github.com/basiclang/qbvm/internal/grammar"

// State is a closure of LR(0) items, identified by the sorted set of its
// item keys. Each State memoizes its own GOTO table and
// exposes the reduction items (those with the dot at the end).
type State struct {
	ID         int
	Items      []Item
	key        string
	goTo       map[string]*State
	Reductions []Item
	Accepting  bool // true if this state contains the completed _start item
}

// Automaton builds and interns States for a Grammar, computing closures
// and GOTOs on demand and caching both.
type Automaton struct {
	g       *grammar.Grammar
	states  map[string]*State
	nextID  int
	Initial *State
}

// NewAutomaton builds the automaton's initial state (the closure of the
// augmented start item) for g. States beyond the initial one are
// computed lazily by GOTO as the parser explores the grammar.
func NewAutomaton(g *grammar.Grammar) *Automaton {
	a := &Automaton{g: g, states: map[string]*State{}}
	start := g.ProductionsFor(g.Start)[0]
	a.Initial = a.intern([]Item{{Rule: start, Pos: 0}})
	return a
}

// closure computes the closure of a core item set: repeatedly add, for
// every item whose next symbol is a non-terminal, that non-terminal's
// productions at dot position 0.
func (a *Automaton) closure(core []Item) []Item {
	items := append([]Item{}, core...)
	seen := map[string]bool{}
	for _, it := range items {
		seen[it.Key()] = true
	}
	work := append([]Item{}, items...)
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		next := it.NextSymbol()
		if next == "" || !a.g.IsNonTerminal(next) {
			continue
		}
		for _, p := range a.g.ProductionsFor(next) {
			ni := Item{Rule: p, Pos: 0}
			if !seen[ni.Key()] {
				seen[ni.Key()] = true
				items = append(items, ni)
				work = append(work, ni)
			}
		}
	}
	return items
}

// intern computes the closure of core, and returns the (possibly
// pre-existing) interned State for it.
func (a *Automaton) intern(core []Item) *State {
	items := a.closure(core)
	key := sortedItemKey(items)
	if s, ok := a.states[key]; ok {
		return s
	}
	s := &State{ID: a.nextID, Items: items, key: key, goTo: map[string]*State{}}
	a.nextID++
	for _, it := range items {
		if it.AtEnd() {
			s.Reductions = append(s.Reductions, it)
			if it.Rule.LHS == a.g.Start {
				s.Accepting = true
			}
		}
	}
	a.states[key] = s
	return s
}

// Goto computes (or returns the memoized) successor state of s on
// symbol, or nil if s has no item expecting symbol next.
func (a *Automaton) Goto(s *State, symbol string) *State {
	if next, ok := s.goTo[symbol]; ok {
		return next
	}
	var core []Item
	for _, it := range s.Items {
		if it.NextSymbol() == symbol {
			core = append(core, it.Advance())
		}
	}
	if len(core) == 0 {
		s.goTo[symbol] = nil
		return nil
	}
	next := a.intern(core)
	s.goTo[symbol] = next
	return next
}

// ExpectedTerminals lists the terminal symbols that could legally shift
// from s, used to build the "expected" list in a syntax error.
func (a *Automaton) ExpectedTerminals(s *State) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range s.Items {
		sym := it.NextSymbol()
		if sym == "" || a.g.IsNonTerminal(sym) {
			continue
		}
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}
