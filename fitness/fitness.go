// Package fitness scores genomes against gene targets on a fixed genetic
// architecture, and computes the best achievable and expected-best scores
// under a per-site majority vote.
//
// Both Fitness and Optimal count gene positions, not sites: a site shared by
// two genes can contribute 2 even though it holds a single value. Fitness
// scores a concrete genome; Optimal scores the per-site majority choice, and
// the two agree on the genome Optimal returns.
package fitness

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pthm-cable/genarch/arch"
	"github.com/pthm-cable/genarch/environment"
)

// ErrMismatchedTargetShape is returned when targets or genomes do not fit the architecture.
var ErrMismatchedTargetShape = errors.New("mismatched target shape")

// Evaluator computes fitness values for one architecture. It is safe for
// concurrent use because the architecture is immutable.
type Evaluator struct {
	arch *arch.Architecture
}

// NewEvaluator wraps an architecture.
func NewEvaluator(a *arch.Architecture) *Evaluator {
	return &Evaluator{arch: a}
}

// Architecture returns the evaluated architecture.
func (e *Evaluator) Architecture() *arch.Architecture { return e.arch }

// OptimalGenome is the majority-vote assignment of coding sites.
type OptimalGenome struct {
	// Sites holds the chosen value of every coding site. Neutral sites are absent.
	Sites map[arch.SiteID]int
	// Fitness is the sum over coding sites of the winning vote count.
	Fitness int
}

// Genome expands the assignment to a full genome, writing fill at neutral sites.
func (o OptimalGenome) Genome(genomeLength, fill int) []int {
	g := make([]int, genomeLength)
	for i := range g {
		if v, ok := o.Sites[arch.SiteID(i)]; ok {
			g[i] = v
		} else {
			g[i] = fill
		}
	}
	return g
}

func (e *Evaluator) checkTargets(targets environment.Gradient) error {
	p := e.arch.Params()
	if len(targets) != p.GeneCount {
		return fmt.Errorf("%w: %d targets for %d genes", ErrMismatchedTargetShape, len(targets), p.GeneCount)
	}
	for g, t := range targets {
		if len(t) != p.GeneLength {
			return fmt.Errorf("%w: gene %d target has length %d, want %d", ErrMismatchedTargetShape, g, len(t), p.GeneLength)
		}
	}
	return nil
}

// Fitness scores one point per (gene, offset) whose genome site equals the
// gene's target at that offset.
func (e *Evaluator) Fitness(genome []int, targets environment.Gradient) (int, error) {
	if err := e.checkTargets(targets); err != nil {
		return 0, err
	}
	if len(genome) != e.arch.GenomeLength() {
		return 0, fmt.Errorf("%w: genome has length %d, want %d", ErrMismatchedTargetShape, len(genome), e.arch.GenomeLength())
	}

	score := 0
	for g := range targets {
		for off, site := range e.arch.GenePositions(arch.GeneID(g)) {
			if genome[site] == targets[g][off] {
				score++
			}
		}
	}
	return score, nil
}

// Optimal picks, for every coding site, the value most occupying genes vote
// for. Ties go to the smallest value in the sorted target alphabet. The site
// contributes its winning vote count.
func (e *Evaluator) Optimal(targets environment.Gradient) (OptimalGenome, error) {
	if err := e.checkTargets(targets); err != nil {
		return OptimalGenome{}, err
	}

	alphabet := targets.Alphabet()
	votes := make([]int, len(alphabet))
	out := OptimalGenome{Sites: make(map[arch.SiteID]int, len(e.arch.CodingSites()))}

	for _, site := range e.arch.CodingSites() {
		clear(votes)
		for _, occ := range e.arch.CodingSiteOccupancy(site) {
			v := targets[occ.Gene][occ.Offset]
			i, _ := slices.BinarySearch(alphabet, v)
			votes[i]++
		}
		// Strict > keeps the first (smallest) value on ties.
		best := 0
		for i := 1; i < len(votes); i++ {
			if votes[i] > votes[best] {
				best = i
			}
		}
		out.Sites[site] = alphabet[best]
		out.Fitness += votes[best]
	}
	return out, nil
}

// NKFitness sums, over genes, the table entry selected by the gene's bits read
// from the genome at the gene's positions (offset 0 is the most significant bit).
func (e *Evaluator) NKFitness(genome []int, nk environment.NK) (float64, error) {
	p := e.arch.Params()
	if len(genome) != p.GenomeLength {
		return 0, fmt.Errorf("%w: genome has length %d, want %d", ErrMismatchedTargetShape, len(genome), p.GenomeLength)
	}
	if len(nk) != p.GeneCount {
		return 0, fmt.Errorf("%w: %d tables for %d genes", ErrMismatchedTargetShape, len(nk), p.GeneCount)
	}

	var total float64
	for g, table := range nk {
		if len(table) != 1<<p.GeneLength {
			return 0, fmt.Errorf("%w: gene %d table has %d entries, want %d", ErrMismatchedTargetShape, g, len(table), 1<<p.GeneLength)
		}
		value := 0
		for _, site := range e.arch.GenePositions(arch.GeneID(g)) {
			value <<= 1
			if genome[site] != 0 {
				value |= 1
			}
		}
		total += table[value]
	}
	return total, nil
}
