// Package enumerate generates every topologically distinct gene-overlap
// architecture for a genome size, gene count and gene length.
//
// The pipeline is: all multisets of start positions, canonicalization,
// exact-tuple dedup, overlap graph construction, and isomorphism
// classification against the growing set of accepted representatives.
package enumerate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/pthm-cable/genarch/arch"
	"github.com/pthm-cable/genarch/isomorph"
	"github.com/pthm-cable/genarch/overlap"
	"github.com/pthm-cable/genarch/telemetry"
)

// ErrBudgetExceeded is returned before generation when the candidate count
// exceeds Options.MaxCandidates.
var ErrBudgetExceeded = errors.New("enumeration budget exceeded")

// ctxCheckInterval is how many candidates are processed between context checks.
const ctxCheckInterval = 4096

// Options tune an enumeration run. The zero value is usable.
type Options struct {
	// Workers building overlap graphs in parallel. 0 means GOMAXPROCS.
	Workers int
	// MaxCandidates caps C(genome+genes-1, genes). 0 means no cap.
	MaxCandidates int64
	// Oracle decides isomorphism. nil means isomorph.Exact. Representatives
	// are only compared within equal signature buckets, so an oracle must
	// never match graphs with different isomorph.Signature values.
	Oracle isomorph.Oracle
	// Logger receives progress and summary records. nil means slog.Default().
	Logger *slog.Logger
	// Perf, if set, records phase timings for the run.
	Perf *telemetry.PerfCollector
}

// Representative is the first canonical tuple admitted for its isomorphism class.
type Representative struct {
	Starts []int
	Graph  *overlap.Graph
	// ClassSize counts the distinct canonical tuples in the class, this one included.
	ClassSize int
}

// Result is the outcome of an enumeration run.
type Result struct {
	Params          arch.Params
	Representatives []Representative
	Stats           telemetry.EnumerationStats
}

// CandidateCount returns the number of start-position multisets,
// C(genome_length + gene_count - 1, gene_count).
func CandidateCount(p arch.Params) *big.Int {
	return new(big.Int).Binomial(int64(p.GenomeLength+p.GeneCount-1), int64(p.GeneCount))
}

// Enumerate runs the full pipeline. Invalid parameters and budget overruns
// are reported before any candidate is generated; after that, only context
// cancellation stops the run.
//
// Canonical tuples are classified in ascending lexicographic order, so the
// tuple kept per class is reproducible regardless of Workers.
func Enumerate(ctx context.Context, p arch.Params, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	count := CandidateCount(p)
	if opts.MaxCandidates > 0 && count.Cmp(big.NewInt(opts.MaxCandidates)) > 0 {
		return nil, fmt.Errorf("%w: %s candidates, limit %d", ErrBudgetExceeded, count, opts.MaxCandidates)
	}
	if !count.IsInt64() {
		return nil, fmt.Errorf("%w: %s candidates", ErrBudgetExceeded, count)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	oracle := opts.Oracle
	if oracle == nil {
		oracle = isomorph.Exact
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &Result{Params: p}
	res.Stats = telemetry.EnumerationStats{
		GenomeLength: p.GenomeLength,
		GeneCount:    p.GeneCount,
		GeneLength:   p.GeneLength,
		Candidates:   count.Int64(),
		Workers:      workers,
	}

	opts.Perf.StartRun()
	defer opts.Perf.EndRun()

	opts.Perf.StartPhase(telemetry.PhaseGenerate)
	tuples, err := canonicalTuples(ctx, p)
	if err != nil {
		return nil, err
	}
	res.Stats.Canonical = len(tuples)
	logger.Debug("canonical tuples generated",
		"candidates", res.Stats.Candidates,
		"canonical", len(tuples),
	)

	opts.Perf.StartPhase(telemetry.PhaseGraph)
	graphs, keys, err := buildGraphs(ctx, p, tuples, workers)
	if err != nil {
		return nil, err
	}

	opts.Perf.StartPhase(telemetry.PhaseClassify)
	if err := res.classify(ctx, tuples, graphs, keys, oracle, logger); err != nil {
		return nil, err
	}

	sizes := make([]int, len(res.Representatives))
	for i, r := range res.Representatives {
		sizes[i] = r.ClassSize
	}
	res.Stats.Representatives = len(res.Representatives)
	res.Stats.SetClassSizes(sizes)

	logger.Info("enumeration complete", "stats", res.Stats)
	return res, nil
}

// canonicalTuples draws every multiset of GeneCount starts from
// [0, GenomeLength) and returns the distinct canonical forms, sorted.
// Multisets are produced from GeneCount-combinations of
// [0, GenomeLength+GeneCount-1) by subtracting each element's index.
func canonicalTuples(ctx context.Context, p arch.Params) ([][]int, error) {
	gen := combin.NewCombinationGenerator(p.GenomeLength+p.GeneCount-1, p.GeneCount)
	comb := make([]int, p.GeneCount)
	starts := make([]int, p.GeneCount)

	seen := make(map[string]struct{})
	var out [][]int
	for n := 0; gen.Next(); n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("generating candidates: %w", err)
			}
		}
		gen.Combination(comb)
		for i, c := range comb {
			starts[i] = c - i
		}
		canon := Canonicalize(starts, p.GeneLength)
		key := tupleKey(canon)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, canon)
	}
	slices.SortFunc(out, slices.Compare)
	return out, nil
}

// buildGraphs constructs overlap graphs and signature keys in parallel.
// Worker w handles indices w, w+workers, ...; results land at their index.
func buildGraphs(ctx context.Context, p arch.Params, tuples [][]int, workers int) ([]*overlap.Graph, []string, error) {
	graphs := make([]*overlap.Graph, len(tuples))
	keys := make([]string, len(tuples))

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < len(tuples); i += workers {
				if (i/workers)%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				graphs[i] = overlap.Build(tuples[i], p.GeneLength, p.GenomeLength)
				keys[i] = isomorph.SignatureOf(graphs[i]).Key()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("building overlap graphs: %w", err)
	}
	return graphs, keys, nil
}

// classify admits tuples in index order. It is the single writer of the
// representative set: a tuple joins the first representative in its
// signature bucket that the oracle matches, or becomes a new representative.
func (r *Result) classify(ctx context.Context, tuples [][]int, graphs []*overlap.Graph, keys []string, oracle isomorph.Oracle, logger *slog.Logger) error {
	buckets := make(map[string][]int)
	for i := range tuples {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("classifying candidates: %w", err)
			}
			if i > 0 {
				logger.Debug("classifying", "done", i, "total", len(tuples), "representatives", len(r.Representatives))
			}
		}

		matched := false
		for _, ri := range buckets[keys[i]] {
			r.Stats.SignatureHits++
			if oracle.Isomorphic(graphs[i], r.Representatives[ri].Graph) {
				r.Stats.ExactMatches++
				r.Representatives[ri].ClassSize++
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		buckets[keys[i]] = append(buckets[keys[i]], len(r.Representatives))
		r.Representatives = append(r.Representatives, Representative{
			Starts:    tuples[i],
			Graph:     graphs[i],
			ClassSize: 1,
		})
	}
	return nil
}

func tupleKey(t []int) string {
	var sb strings.Builder
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
