// Package glr implements a generalized LR(0) parser with a
// graph-structured stack (Tomita-style). States are interned by their
// closure's item-key set, GOTO is memoized lazily, and reductions are
// filtered
// by the grammar's FOLLOW sets the way an SLR(1) parser would, while
// still allowing multiple simultaneous stack tops so shift/reduce and
// reduce/reduce ambiguity in the BASIC grammar (array access vs.
// function call, single-line vs. block IF) can be explored concurrently.
package glr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/basiclang/qbvm/internal/grammar"
)

// Item is an LR(0) item: a production together with a dot position in
// its RHS. Its interning key is "r<id>_<pos>".
type Item struct {
	Rule *grammar.Production
	Pos  int
}

// Key returns the item's interning key.
func (it Item) Key() string {
	return fmt.Sprintf("r%d_%d", it.Rule.ID, it.Pos)
}

// AtEnd reports whether the dot has reached the end of the RHS (a
// completed item, i.e. a candidate reduction).
func (it Item) AtEnd() bool { return it.Pos >= len(it.Rule.RHS) }

// NextSymbol returns the RHS symbol immediately after the dot, or ""
// if AtEnd.
func (it Item) NextSymbol() string {
	if it.AtEnd() {
		return ""
	}
	return it.Rule.RHS[it.Pos]
}

// Advance returns the item with the dot moved one position to the
// right. Callers must not call Advance on an AtEnd item.
func (it Item) Advance() Item {
	return Item{Rule: it.Rule, Pos: it.Pos + 1}
}

// sortedItemKey produces the canonical identity string for a set of
// items: their sorted, deduplicated keys joined together. Two closures
// with the same sortedItemKey are the same interned State.
func sortedItemKey(items []Item) string {
	keys := make([]string, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		k := it.Key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}
