// Package overlap builds the gene overlap graph of a layout: one node per
// gene, and an edge between every pair of genes that share genome sites,
// weighted by the number of shared sites.
package overlap

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/pthm-cable/genarch/arch"
)

// Edge is an undirected weighted edge with U < V.
type Edge struct {
	U, V   int
	Weight int
}

// Graph is an immutable weighted overlap graph over genes 0..n-1.
// Edge weights are mirrored in a dense matrix for constant-time lookup
// during isomorphism search.
type Graph struct {
	g     *simple.WeightedUndirectedGraph
	adj   [][]int
	edges []Edge
}

// Build computes the overlap graph for gene starts on a circular genome.
// Starts are taken modulo genomeLength, so -1 is the last site. Genes that
// share no site with any other gene are isolated nodes. geneLength must lie
// in [1, genomeLength].
func Build(starts []int, geneLength, genomeLength int) *Graph {
	n := len(starts)

	// Site occupancy, genes ascending per site.
	occupancy := make([][]int, genomeLength)
	for gene, s := range starts {
		s = ((s % genomeLength) + genomeLength) % genomeLength
		for off := 0; off < geneLength; off++ {
			site := (s + off) % genomeLength
			if k := len(occupancy[site]); k > 0 && occupancy[site][k-1] == gene {
				continue
			}
			occupancy[site] = append(occupancy[site], gene)
		}
	}

	adj := make([][]int, n)
	for i := range adj {
		adj[i] = make([]int, n)
	}
	for _, occ := range occupancy {
		for i := range occ {
			for j := i + 1; j < len(occ); j++ {
				adj[occ[i]][occ[j]]++
				adj[occ[j]][occ[i]]++
			}
		}
	}
	return fromMatrix(adj)
}

// FromArchitecture builds the overlap graph of an architecture's layout.
func FromArchitecture(a *arch.Architecture) *Graph {
	p := a.Params()
	return Build(a.Starts(), p.GeneLength, p.GenomeLength)
}

func fromMatrix(adj [][]int) *Graph {
	g := &Graph{
		g:   simple.NewWeightedUndirectedGraph(0, 0),
		adj: adj,
	}
	for i := range adj {
		g.g.AddNode(simple.Node(i))
	}
	for u := range adj {
		for v := u + 1; v < len(adj); v++ {
			if w := adj[u][v]; w > 0 {
				g.g.SetWeightedEdge(g.g.NewWeightedEdge(simple.Node(u), simple.Node(v), float64(w)))
				g.edges = append(g.edges, Edge{U: u, V: v, Weight: w})
			}
		}
	}
	return g
}

// Order returns the number of genes.
func (g *Graph) Order() int { return len(g.adj) }

// Size returns the number of edges.
func (g *Graph) Size() int { return len(g.edges) }

// Weight returns the shared-site count of genes u and v, 0 when they do not overlap.
func (g *Graph) Weight(u, v int) int {
	if u == v {
		return 0
	}
	return g.adj[u][v]
}

// Degree returns the number of genes overlapping u.
func (g *Graph) Degree(u int) int {
	return g.g.From(int64(u)).Len()
}

// WeightedDegree returns the total shared-site count of u over all neighbors.
func (g *Graph) WeightedDegree(u int) int {
	total := 0
	for _, w := range g.adj[u] {
		total += w
	}
	return total
}

// Neighbors returns the genes overlapping u, ascending.
func (g *Graph) Neighbors(u int) []int {
	var out []int
	for v, w := range g.adj[u] {
		if w > 0 && v != u {
			out = append(out, v)
		}
	}
	return out
}

// Edges returns the edges ordered by (U, V). The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Components returns the connected components, each sorted ascending, in
// order of their smallest gene.
func (g *Graph) Components() [][]int {
	cc := topo.ConnectedComponents(g.g)
	out := make([][]int, 0, len(cc))
	for _, comp := range cc {
		ids := make([]int, len(comp))
		for i, n := range comp {
			ids[i] = int(n.ID())
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// Weighted exposes the underlying gonum graph for use with gonum algorithms.
func (g *Graph) Weighted() graph.WeightedUndirected { return g.g }

// String renders the edge list, e.g. "{0-1:2 1-2:4}".
func (g *Graph) String() string {
	parts := make([]string, len(g.edges))
	for i, e := range g.edges {
		parts[i] = fmt.Sprintf("%d-%d:%d", e.U, e.V, e.Weight)
	}
	return "{" + strings.Join(parts, " ") + "}"
}
