package telemetry

import (
	"log/slog"
	"slices"
)

// EnumerationStats holds aggregated statistics for one enumeration run.
type EnumerationStats struct {
	GenomeLength int `csv:"genome_length"`
	GeneCount    int `csv:"gene_count"`
	GeneLength   int `csv:"gene_length"`

	// Pipeline funnel
	Candidates      int64 `csv:"candidates"`      // multisets of start positions
	Canonical       int   `csv:"canonical"`       // distinct canonical tuples
	Representatives int   `csv:"representatives"` // isomorphism classes

	// Classification work
	SignatureHits int `csv:"signature_hits"` // candidate/representative pairs reaching the exact search
	ExactMatches  int `csv:"exact_matches"`

	// Class size distribution (canonical tuples per representative)
	LargestClass  int     `csv:"largest_class"`
	MeanClassSize float64 `csv:"mean_class_size"`
	ClassSizeP50  float64 `csv:"class_size_p50"`
	ClassSizeP90  float64 `csv:"class_size_p90"`

	Workers int `csv:"workers"`
}

// SetClassSizes fills the class size distribution fields.
func (s *EnumerationStats) SetClassSizes(sizes []int) {
	if len(sizes) == 0 {
		return
	}
	sorted := make([]float64, len(sizes))
	var sum int
	for i, n := range sizes {
		sorted[i] = float64(n)
		sum += n
	}
	slices.Sort(sorted)

	s.LargestClass = int(sorted[len(sorted)-1])
	s.MeanClassSize = float64(sum) / float64(len(sizes))
	s.ClassSizeP50 = Percentile(sorted, 0.50)
	s.ClassSizeP90 = Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s EnumerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("genome_length", s.GenomeLength),
		slog.Int("gene_count", s.GeneCount),
		slog.Int("gene_length", s.GeneLength),
		slog.Int64("candidates", s.Candidates),
		slog.Int("canonical", s.Canonical),
		slog.Int("representatives", s.Representatives),
		slog.Int("signature_hits", s.SignatureHits),
		slog.Int("exact_matches", s.ExactMatches),
		slog.Int("largest_class", s.LargestClass),
		slog.Float64("mean_class_size", s.MeanClassSize),
		slog.Int("workers", s.Workers),
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
