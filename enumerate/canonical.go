package enumerate

import "slices"

// Canonicalize sorts gene starts and left-packs them: gene i may start no
// later than min(i*geneLength, end of gene i-1). Layouts that differ only in
// slack between non-overlapping genes collapse to the same tuple. Applying it
// to a canonical tuple returns the same tuple.
func Canonicalize(starts []int, geneLength int) []int {
	out := slices.Clone(starts)
	slices.Sort(out)
	prevEnd := 0
	for i, s := range out {
		bound := min(i*geneLength, prevEnd)
		if s > bound {
			out[i] = bound
		}
		prevEnd = out[i] + geneLength
	}
	return out
}
