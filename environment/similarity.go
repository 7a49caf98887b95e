package environment

import "fmt"

// Similarity counts positions where a and b hold the same value.
func Similarity[S ~[]E, E comparable](a, b S) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrUnequalLengthOperands, len(a), len(b))
	}
	n := 0
	for i := range a {
		if a[i] == b[i] {
			n++
		}
	}
	return n, nil
}

// MaxAlignedSimilarity returns the highest positional agreement between a and
// every cyclic rotation of b. Gene targets sit on a circular genome, so a
// rotation that lines two targets up exactly scores the full length.
func MaxAlignedSimilarity[S ~[]E, E comparable](a, b S) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrUnequalLengthOperands, len(a), len(b))
	}
	n := len(a)
	best := 0
	for shift := 0; shift < n; shift++ {
		score := 0
		for i := 0; i < n; i++ {
			if a[(i+shift)%n] == b[i] {
				score++
			}
		}
		best = max(best, score)
	}
	return best, nil
}

// MaxOverhangSimilarity is the linear variant: b slides past a in both
// directions and only the overlapping window is compared, so a shift of k
// compares n-k positions.
func MaxOverhangSimilarity[S ~[]E, E comparable](a, b S) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrUnequalLengthOperands, len(a), len(b))
	}
	n := len(a)
	best := 0
	for shift := 0; shift < n; shift++ {
		right, left := 0, 0
		for i := 0; i < n-shift; i++ {
			if a[i+shift] == b[i] {
				right++
			}
			if a[i] == b[i+shift] {
				left++
			}
		}
		best = max(best, right, left)
	}
	return best, nil
}

// PairSimilarity compares the targets of two genes.
type PairSimilarity struct {
	GeneA      int `csv:"gene_a"`
	GeneB      int `csv:"gene_b"`
	Similarity int `csv:"gene_pair_target_similarity"`
	MaxAligned int `csv:"gene_pair_target_max_alignment_similarity"`
}

// PairwiseSimilarity compares every unordered gene pair (a < b) of a gradient.
func PairwiseSimilarity(g Gradient) ([]PairSimilarity, error) {
	var out []PairSimilarity
	for a := range g {
		for b := a + 1; b < len(g); b++ {
			sim, err := Similarity(g[a], g[b])
			if err != nil {
				return nil, fmt.Errorf("genes %d and %d: %w", a, b, err)
			}
			aligned, err := MaxAlignedSimilarity(g[a], g[b])
			if err != nil {
				return nil, fmt.Errorf("genes %d and %d: %w", a, b, err)
			}
			out = append(out, PairSimilarity{GeneA: a, GeneB: b, Similarity: sim, MaxAligned: aligned})
		}
	}
	return out, nil
}
