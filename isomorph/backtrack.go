package isomorph

import (
	"github.com/pthm-cable/genarch/overlap"
)

// Backtracking is a VF2-style exact matcher. Nodes of the first graph are
// matched in a connectivity-first order; a candidate pair is feasible only if
// degrees and weighted degrees agree and every already-matched node sees the
// same weight (0 meaning no edge) on both sides.
type Backtracking struct{}

// Isomorphic implements Oracle.
func (Backtracking) Isomorphic(a, b *overlap.Graph) bool {
	n := a.Order()
	if n != b.Order() || a.Size() != b.Size() {
		return false
	}
	if n == 0 {
		return true
	}

	m := &matcher{
		a:      a,
		b:      b,
		order:  matchOrder(a),
		core:   make([]int, n),
		usedB:  make([]bool, n),
		degA:   make([][2]int, n),
		degB:   make([][2]int, n),
		placed: make([]int, 0, n),
	}
	for u := 0; u < n; u++ {
		m.core[u] = -1
		m.degA[u] = [2]int{a.Degree(u), a.WeightedDegree(u)}
		m.degB[u] = [2]int{b.Degree(u), b.WeightedDegree(u)}
	}
	return m.match(0)
}

type matcher struct {
	a, b   *overlap.Graph
	order  []int
	core   []int // a node -> b node, -1 when unmatched
	usedB  []bool
	degA   [][2]int
	degB   [][2]int
	placed []int // a nodes matched so far, in order
}

func (m *matcher) match(depth int) bool {
	if depth == len(m.order) {
		return true
	}
	u := m.order[depth]
	for v := range m.usedB {
		if m.usedB[v] || m.degA[u] != m.degB[v] || !m.feasible(u, v) {
			continue
		}
		m.core[u], m.usedB[v] = v, true
		m.placed = append(m.placed, u)
		if m.match(depth + 1) {
			return true
		}
		m.placed = m.placed[:len(m.placed)-1]
		m.core[u], m.usedB[v] = -1, false
	}
	return false
}

func (m *matcher) feasible(u, v int) bool {
	for _, x := range m.placed {
		if m.a.Weight(u, x) != m.b.Weight(v, m.core[x]) {
			return false
		}
	}
	return true
}

// matchOrder visits nodes so that each next node has the most already-visited
// neighbors, starting components from their highest-degree node.
func matchOrder(g *overlap.Graph) []int {
	n := g.Order()
	visited := make([]bool, n)
	links := make([]int, n) // edges into the visited set
	order := make([]int, 0, n)

	for len(order) < n {
		best := -1
		for u := 0; u < n; u++ {
			if visited[u] {
				continue
			}
			if best < 0 || links[u] > links[best] ||
				(links[u] == links[best] && g.Degree(u) > g.Degree(best)) {
				best = u
			}
		}
		visited[best] = true
		order = append(order, best)
		for _, v := range g.Neighbors(best) {
			links[v]++
		}
	}
	return order
}
