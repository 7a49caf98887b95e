package isomorph

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pthm-cable/genarch/overlap"
)

// Signature holds relabeling-invariant properties of an overlap graph.
// Isomorphic graphs always have equal signatures; the converse does not hold.
type Signature struct {
	Order      int
	Size       int
	Degrees    []int // sorted (degree, weighted degree) pairs flattened
	Weights    []int // sorted edge weights
	Components []int // sorted component sizes
}

// SignatureOf computes the signature of g.
func SignatureOf(g *overlap.Graph) Signature {
	n := g.Order()
	s := Signature{Order: n, Size: g.Size()}

	type deg struct{ d, wd int }
	degs := make([]deg, n)
	for u := range degs {
		degs[u] = deg{g.Degree(u), g.WeightedDegree(u)}
	}
	slices.SortFunc(degs, func(x, y deg) int {
		if x.d != y.d {
			return x.d - y.d
		}
		return x.wd - y.wd
	})
	s.Degrees = make([]int, 0, 2*n)
	for _, d := range degs {
		s.Degrees = append(s.Degrees, d.d, d.wd)
	}

	s.Weights = make([]int, 0, g.Size())
	for _, e := range g.Edges() {
		s.Weights = append(s.Weights, e.Weight)
	}
	slices.Sort(s.Weights)

	for _, c := range g.Components() {
		s.Components = append(s.Components, len(c))
	}
	slices.Sort(s.Components)
	return s
}

// Equal reports whether two signatures match.
func (s Signature) Equal(o Signature) bool {
	return s.Order == o.Order &&
		s.Size == o.Size &&
		slices.Equal(s.Degrees, o.Degrees) &&
		slices.Equal(s.Weights, o.Weights) &&
		slices.Equal(s.Components, o.Components)
}

// Key encodes the signature as a string usable as a map key. Equal
// signatures have equal keys.
func (s Signature) Key() string {
	var sb strings.Builder
	writeInts := func(xs []int) {
		for i, x := range xs {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(x))
		}
		sb.WriteByte('|')
	}
	writeInts([]int{s.Order, s.Size})
	writeInts(s.Degrees)
	writeInts(s.Weights)
	writeInts(s.Components)
	return sb.String()
}
