// Package arch models a genetic architecture: fixed-length genes placed on a
// circular genome, and the site/gene occupancy maps derived from their starts.
package arch

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidArchitecture is returned for malformed construction parameters.
var ErrInvalidArchitecture = errors.New("invalid architecture")

// GeneID identifies a gene by its index in the start layout.
type GeneID int

// SiteID identifies a genome position in [0, genome length).
type SiteID int

// Occupant is one gene covering a site, at a given offset within that gene.
type Occupant struct {
	Gene   GeneID
	Offset int
}

// Params are the size parameters shared by every layout of an architecture family.
type Params struct {
	GenomeLength int `yaml:"genome_length"`
	GeneCount    int `yaml:"gene_count"`
	GeneLength   int `yaml:"gene_length"`
}

// Validate checks the size parameters on their own, before any layout is known.
func (p Params) Validate() error {
	switch {
	case p.GenomeLength <= 0:
		return fmt.Errorf("%w: genome length %d must be positive", ErrInvalidArchitecture, p.GenomeLength)
	case p.GeneCount <= 0:
		return fmt.Errorf("%w: gene count %d must be positive", ErrInvalidArchitecture, p.GeneCount)
	case p.GeneLength <= 0:
		return fmt.Errorf("%w: gene length %d must be positive", ErrInvalidArchitecture, p.GeneLength)
	case p.GeneLength > p.GenomeLength:
		return fmt.Errorf("%w: gene length %d exceeds genome length %d", ErrInvalidArchitecture, p.GeneLength, p.GenomeLength)
	}
	return nil
}

// Architecture is an immutable gene layout with its derived occupancy maps.
// All derived structures are computed once in New and never modified.
type Architecture struct {
	params Params
	starts []int

	genePositions       [][]SiteID   // gene -> site at each offset
	codingSites         []SiteID     // ascending
	siteOccupancy       [][]GeneID   // site -> occupying genes, ascending
	codingSiteOccupancy [][]Occupant // site -> (gene, offset); empty for neutral sites
}

// New builds an architecture from size parameters and gene start positions.
func New(p Params, starts []int) (*Architecture, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(starts) != p.GeneCount {
		return nil, fmt.Errorf("%w: got %d gene starts for %d genes", ErrInvalidArchitecture, len(starts), p.GeneCount)
	}
	for g, s := range starts {
		if s < 0 || s >= p.GenomeLength {
			return nil, fmt.Errorf("%w: gene %d start %d outside [0, %d)", ErrInvalidArchitecture, g, s, p.GenomeLength)
		}
	}

	a := &Architecture{
		params:              p,
		starts:              slices.Clone(starts),
		genePositions:       make([][]SiteID, p.GeneCount),
		siteOccupancy:       make([][]GeneID, p.GenomeLength),
		codingSiteOccupancy: make([][]Occupant, p.GenomeLength),
	}

	// A gene never covers the same site twice because GeneLength <= GenomeLength,
	// so each (site, gene) pair has exactly one offset.
	for g, s := range starts {
		positions := make([]SiteID, p.GeneLength)
		for off := range positions {
			site := SiteID((s + off) % p.GenomeLength)
			positions[off] = site
			a.siteOccupancy[site] = append(a.siteOccupancy[site], GeneID(g))
			a.codingSiteOccupancy[site] = append(a.codingSiteOccupancy[site], Occupant{Gene: GeneID(g), Offset: off})
		}
		a.genePositions[g] = positions
	}
	for site, occ := range a.siteOccupancy {
		if len(occ) > 0 {
			a.codingSites = append(a.codingSites, SiteID(site))
		}
	}
	return a, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(p Params, starts []int) *Architecture {
	a, err := New(p, starts)
	if err != nil {
		panic(fmt.Sprintf("arch: %v", err))
	}
	return a
}

// Params returns the size parameters.
func (a *Architecture) Params() Params { return a.params }

// GenomeLength returns the number of sites.
func (a *Architecture) GenomeLength() int { return a.params.GenomeLength }

// GeneCount returns the number of genes.
func (a *Architecture) GeneCount() int { return a.params.GeneCount }

// GeneLength returns the number of sites per gene.
func (a *Architecture) GeneLength() int { return a.params.GeneLength }

// Starts returns a copy of the gene start positions.
func (a *Architecture) Starts() []int { return slices.Clone(a.starts) }

// GenePositions returns the sites covered by gene g, in offset order.
// The returned slice must not be modified.
func (a *Architecture) GenePositions(g GeneID) []SiteID { return a.genePositions[g] }

// CodingSites returns the sites covered by at least one gene, ascending.
// The returned slice must not be modified.
func (a *Architecture) CodingSites() []SiteID { return a.codingSites }

// SiteOccupancy returns the genes covering site s, ascending. Empty for neutral sites.
// The returned slice must not be modified.
func (a *Architecture) SiteOccupancy(s SiteID) []GeneID { return a.siteOccupancy[s] }

// CodingSiteOccupancy returns the (gene, offset) pairs mapped onto site s.
// The returned slice must not be modified.
func (a *Architecture) CodingSiteOccupancy(s SiteID) []Occupant { return a.codingSiteOccupancy[s] }

// IsCoding reports whether any gene covers site s.
func (a *Architecture) IsCoding(s SiteID) bool { return len(a.siteOccupancy[s]) > 0 }

// OccupantCount returns how many genes cover site s.
func (a *Architecture) OccupantCount(s SiteID) int { return len(a.siteOccupancy[s]) }

// String implements fmt.Stringer.
func (a *Architecture) String() string {
	return fmt.Sprintf("genome=%d genes=%d gene_len=%d starts=%v",
		a.params.GenomeLength, a.params.GeneCount, a.params.GeneLength, a.starts)
}
