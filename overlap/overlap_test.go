package overlap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm-cable/genarch/arch"
)

func TestBuildWeights(t *testing.T) {
	// Genome of 16, genes of 4: gene 0 [0..3], gene 1 [2..5], gene 2 [2..5], gene 3 [14..1].
	g := Build([]int{0, 2, 2, 14}, 4, 16)

	if g.Order() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.Order())
	}
	want := []Edge{
		{U: 0, V: 1, Weight: 2},
		{U: 0, V: 2, Weight: 2},
		{U: 0, V: 3, Weight: 2},
		{U: 1, V: 2, Weight: 4},
	}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if g.Weight(3, 0) != 2 || g.Weight(1, 3) != 0 || g.Weight(2, 2) != 0 {
		t.Error("unexpected weight lookups")
	}
	if g.Degree(0) != 3 || g.Degree(3) != 1 {
		t.Errorf("unexpected degrees: %d, %d", g.Degree(0), g.Degree(3))
	}
	if g.WeightedDegree(1) != 6 {
		t.Errorf("expected weighted degree 6, got %d", g.WeightedDegree(1))
	}
	if diff := cmp.Diff([]int{0, 2}, g.Neighbors(1)); diff != "" {
		t.Errorf("neighbors mismatch (-want +got):\n%s", diff)
	}
	if s := g.String(); s != "{0-1:2 0-2:2 0-3:2 1-2:4}" {
		t.Errorf("unexpected string %q", s)
	}
}

func TestBuildIsolatedGenes(t *testing.T) {
	g := Build([]int{0, 4, 8, 12}, 4, 16)
	if g.Order() != 4 {
		t.Errorf("expected 4 nodes, got %d", g.Order())
	}
	if g.Size() != 0 {
		t.Errorf("expected no edges, got %v", g.Edges())
	}
	if n := len(g.Components()); n != 4 {
		t.Errorf("expected 4 components, got %d", n)
	}
	if g.Weighted().Nodes().Len() != 4 {
		t.Error("gonum graph should hold every gene as a node")
	}
}

func TestComponents(t *testing.T) {
	g := Build([]int{8, 0, 10, 2}, 4, 16)
	want := [][]int{{0, 2}, {1, 3}}
	if diff := cmp.Diff(want, g.Components()); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestFromArchitectureMatchesBuild(t *testing.T) {
	p := arch.Params{GenomeLength: 12, GeneCount: 3, GeneLength: 5}
	a := arch.MustNew(p, []int{0, 3, 9})
	got := FromArchitecture(a)
	want := Build([]int{0, 3, 9}, 5, 12)
	if got.String() != want.String() {
		t.Errorf("expected %s, got %s", want, got)
	}

	// Shared-site counts must agree with the architecture's occupancy map.
	for u := 0; u < 3; u++ {
		for v := u + 1; v < 3; v++ {
			shared := 0
			for _, site := range a.CodingSites() {
				occ := a.SiteOccupancy(site)
				hasU, hasV := false, false
				for _, gene := range occ {
					hasU = hasU || int(gene) == u
					hasV = hasV || int(gene) == v
				}
				if hasU && hasV {
					shared++
				}
			}
			if got.Weight(u, v) != shared {
				t.Errorf("genes %d,%d: expected weight %d, got %d", u, v, shared, got.Weight(u, v))
			}
		}
	}
}

func TestBuildWrapsNegativeStarts(t *testing.T) {
	got := Build([]int{-2, 0, -16}, 4, 16)
	want := Build([]int{14, 0, 0}, 4, 16)
	if diff := cmp.Diff(want.Edges(), got.Edges()); diff != "" {
		t.Errorf("negative starts not wrapped (-want +got):\n%s", diff)
	}
}
