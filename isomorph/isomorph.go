// Package isomorph decides whether two overlap graphs have the same topology:
// a node bijection that preserves adjacency and edge weights exactly.
package isomorph

import (
	"github.com/pthm-cable/genarch/overlap"
)

// Oracle decides weighted-graph isomorphism. Implementations may trade
// exactness for speed; the enumerator only relies on the answer.
type Oracle interface {
	Isomorphic(a, b *overlap.Graph) bool
}

// Exact is the default oracle: invariant filters followed by backtracking.
var Exact Oracle = Filtered{Search: Backtracking{}}

// Filtered rejects pairs whose invariants differ before running Search.
type Filtered struct {
	Search Oracle
}

// Isomorphic implements Oracle.
func (f Filtered) Isomorphic(a, b *overlap.Graph) bool {
	if !CouldBeIsomorphic(a, b) {
		return false
	}
	return f.Search.Isomorphic(a, b)
}

// CouldBeIsomorphic runs the cheap necessary conditions, cheapest first:
// order and size, then the degree, weighted-degree, edge-weight and
// component-size multisets.
func CouldBeIsomorphic(a, b *overlap.Graph) bool {
	if a.Order() != b.Order() || a.Size() != b.Size() {
		return false
	}
	return SignatureOf(a).Equal(SignatureOf(b))
}
