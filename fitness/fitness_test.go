package fitness

import (
	"errors"
	"math/big"
	"math/bits"
	"testing"

	"github.com/pthm-cable/genarch/arch"
	"github.com/pthm-cable/genarch/environment"
)

// bruteSiteContribution averages the majority size over all 2^k vote patterns.
func bruteSiteContribution(k int) *big.Rat {
	total := int64(0)
	for pattern := 0; pattern < 1<<k; pattern++ {
		ones := bits.OnesCount(uint(pattern))
		total += int64(max(ones, k-ones))
	}
	return big.NewRat(total, int64(1)<<k)
}

func TestSiteContributionSmall(t *testing.T) {
	tests := []struct {
		k    int
		want *big.Rat
	}{
		{0, big.NewRat(0, 1)},
		{1, big.NewRat(1, 1)},
		{2, big.NewRat(3, 2)},
		{3, big.NewRat(9, 4)},
		{4, big.NewRat(11, 4)},
		{5, big.NewRat(55, 16)},
	}
	for _, tt := range tests {
		if got := SiteContribution(tt.k); got.Cmp(tt.want) != 0 {
			t.Errorf("k=%d: expected %s, got %s", tt.k, tt.want.RatString(), got.RatString())
		}
	}
}

func TestSiteContributionMatchesBruteForce(t *testing.T) {
	for k := 2; k <= 12; k++ {
		want := bruteSiteContribution(k)
		if got := SiteContribution(k); got.Cmp(want) != 0 {
			t.Errorf("k=%d: expected %s, got %s", k, want.RatString(), got.RatString())
		}
	}
}

func TestSiteContributionLargeIsExact(t *testing.T) {
	// Binomials here overflow int64; the result must still be a valid mean.
	k := 80
	c := SiteContribution(k)
	if c.Cmp(big.NewRat(int64(k)/2, 1)) <= 0 || c.Cmp(big.NewRat(int64(k), 1)) > 0 {
		t.Errorf("k=%d: contribution %s outside (k/2, k]", k, c.FloatString(4))
	}
}

func TestExpectedOptimal(t *testing.T) {
	// Sites 0,1 and 4,5 have one occupant; sites 2,3 have two.
	a := arch.MustNew(arch.Params{GenomeLength: 8, GeneCount: 2, GeneLength: 4}, []int{0, 2})
	ev := NewEvaluator(a)
	if got := ev.ExpectedOptimal(); got != 7.0 {
		t.Errorf("expected 7.0, got %f", got)
	}

	// Fully stacked: one site family with 3 occupants on every coding site.
	a = arch.MustNew(arch.Params{GenomeLength: 8, GeneCount: 3, GeneLength: 4}, []int{0, 0, 0})
	ev = NewEvaluator(a)
	if got := ev.ExpectedOptimalRat(); got.Cmp(big.NewRat(9, 1)) != 0 {
		t.Errorf("expected 9, got %s", got.RatString())
	}
}

func TestOptimalUnanimousTargets(t *testing.T) {
	a := arch.MustNew(arch.Params{GenomeLength: 16, GeneCount: 4, GeneLength: 4}, []int{0, 1, 3, 10})
	ev := NewEvaluator(a)
	targets := environment.Gradient{
		{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1},
	}
	opt, err := ev.Optimal(targets)
	if err != nil {
		t.Fatalf("Optimal failed: %v", err)
	}
	total := 0
	for _, site := range a.CodingSites() {
		total += a.OccupantCount(site)
	}
	if opt.Fitness != total {
		t.Errorf("expected fitness %d (all occupants), got %d", total, opt.Fitness)
	}
	if len(opt.Sites) != len(a.CodingSites()) {
		t.Errorf("expected %d assigned sites, got %d", len(a.CodingSites()), len(opt.Sites))
	}
}

func TestOptimalTieBreaksToSmallestValue(t *testing.T) {
	// Two genes fully overlapping and disagreeing everywhere.
	a := arch.MustNew(arch.Params{GenomeLength: 4, GeneCount: 2, GeneLength: 4}, []int{0, 0})
	ev := NewEvaluator(a)
	opt, err := ev.Optimal(environment.Gradient{{1, 0, 1, 0}, {0, 1, 0, 1}})
	if err != nil {
		t.Fatalf("Optimal failed: %v", err)
	}
	for site, v := range opt.Sites {
		if v != 0 {
			t.Errorf("site %d: expected tie to resolve to 0, got %d", site, v)
		}
	}
	if opt.Fitness != 4 {
		t.Errorf("expected fitness 4, got %d", opt.Fitness)
	}
}

func TestOptimalIsOptimalExhaustive(t *testing.T) {
	p := arch.Params{GenomeLength: 4, GeneCount: 2, GeneLength: 4}
	for _, starts := range [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 3}} {
		a := arch.MustNew(p, starts)
		ev := NewEvaluator(a)

		for envBits := 0; envBits < 1<<8; envBits++ {
			targets := environment.Gradient{make([]int, 4), make([]int, 4)}
			for i := 0; i < 8; i++ {
				targets[i/4][i%4] = (envBits >> i) & 1
			}
			opt, err := ev.Optimal(targets)
			if err != nil {
				t.Fatalf("Optimal failed: %v", err)
			}
			optGenome := opt.Genome(p.GenomeLength, 0)
			optScore, err := ev.Fitness(optGenome, targets)
			if err != nil {
				t.Fatalf("Fitness failed: %v", err)
			}
			if optScore != opt.Fitness {
				t.Fatalf("starts %v env %08b: Fitness(optimal genome)=%d, Optimal=%d", starts, envBits, optScore, opt.Fitness)
			}

			for genomeBits := 0; genomeBits < 1<<4; genomeBits++ {
				genome := make([]int, 4)
				for i := range genome {
					genome[i] = (genomeBits >> i) & 1
				}
				score, _ := ev.Fitness(genome, targets)
				if score > optScore {
					t.Fatalf("starts %v env %08b: genome %04b scores %d > optimal %d", starts, envBits, genomeBits, score, optScore)
				}
			}
		}
	}
}

func TestFitnessCountsSharedSitesPerGene(t *testing.T) {
	a := arch.MustNew(arch.Params{GenomeLength: 4, GeneCount: 2, GeneLength: 4}, []int{0, 0})
	ev := NewEvaluator(a)
	score, err := ev.Fitness([]int{1, 1, 1, 1}, environment.Gradient{{1, 1, 1, 1}, {1, 1, 1, 1}})
	if err != nil {
		t.Fatalf("Fitness failed: %v", err)
	}
	if score != 8 {
		t.Errorf("expected 8 (two genes x four sites), got %d", score)
	}
}

func TestMismatchedShapes(t *testing.T) {
	a := arch.MustNew(arch.Params{GenomeLength: 8, GeneCount: 2, GeneLength: 4}, []int{0, 4})
	ev := NewEvaluator(a)
	good := environment.Gradient{{0, 0, 0, 0}, {0, 0, 0, 0}}

	if _, err := ev.Optimal(environment.Gradient{{0, 0, 0, 0}}); !errors.Is(err, ErrMismatchedTargetShape) {
		t.Errorf("gene count: expected ErrMismatchedTargetShape, got %v", err)
	}
	if _, err := ev.Optimal(environment.Gradient{{0, 0, 0, 0}, {0, 0, 0}}); !errors.Is(err, ErrMismatchedTargetShape) {
		t.Errorf("gene length: expected ErrMismatchedTargetShape, got %v", err)
	}
	if _, err := ev.Fitness(make([]int, 7), good); !errors.Is(err, ErrMismatchedTargetShape) {
		t.Errorf("genome length: expected ErrMismatchedTargetShape, got %v", err)
	}
	if _, err := ev.NKFitness(make([]int, 8), environment.NK{make([]float64, 16)}); !errors.Is(err, ErrMismatchedTargetShape) {
		t.Errorf("nk tables: expected ErrMismatchedTargetShape, got %v", err)
	}
}

func TestNKFitness(t *testing.T) {
	// Gene 0 covers sites 0,1; gene 1 covers sites 1,2.
	a := arch.MustNew(arch.Params{GenomeLength: 4, GeneCount: 2, GeneLength: 2}, []int{0, 1})
	ev := NewEvaluator(a)
	nk := environment.NK{
		{0.0, 0.1, 0.2, 0.3},
		{1.0, 2.0, 3.0, 4.0},
	}
	// Gene 0 reads "10" = 2, gene 1 reads "01" = 1.
	got, err := ev.NKFitness([]int{1, 0, 1, 0}, nk)
	if err != nil {
		t.Fatalf("NKFitness failed: %v", err)
	}
	if got != 0.2+2.0 {
		t.Errorf("expected 2.2, got %f", got)
	}
}

func TestSummarizeExhaustiveMatchesExpected(t *testing.T) {
	a := arch.MustNew(arch.Params{GenomeLength: 4, GeneCount: 2, GeneLength: 2}, []int{0, 1})
	ev := NewEvaluator(a)

	var envs []environment.Gradient
	for envBits := 0; envBits < 1<<4; envBits++ {
		envs = append(envs, environment.Gradient{
			{envBits & 1, (envBits >> 1) & 1},
			{(envBits >> 2) & 1, (envBits >> 3) & 1},
		})
	}
	s, err := ev.Summarize(envs)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Expected != 3.5 {
		t.Errorf("expected closed form 3.5, got %f", s.Expected)
	}
	if s.Mean != s.Expected {
		t.Errorf("exhaustive mean %f should equal expectation %f", s.Mean, s.Expected)
	}
	if s.CILow > s.Mean || s.CIHigh < s.Mean {
		t.Errorf("confidence interval [%f, %f] excludes mean %f", s.CILow, s.CIHigh, s.Mean)
	}
	if s.Samples != 16 {
		t.Errorf("expected 16 samples, got %d", s.Samples)
	}
}

func TestCheckBinary(t *testing.T) {
	for _, ok := range [][]int{{0, 1}, {1, 0}, {1, 0, 1}} {
		if err := CheckBinary(ok); err != nil {
			t.Errorf("CheckBinary(%v): unexpected error %v", ok, err)
		}
	}
	for _, bad := range [][]int{nil, {0}, {0, 1, 2}, {1, 2}} {
		if err := CheckBinary(bad); !errors.Is(err, ErrNonBinaryAlphabet) {
			t.Errorf("CheckBinary(%v): expected ErrNonBinaryAlphabet, got %v", bad, err)
		}
	}
}

func TestSummarizeRejectsNonBinaryTargets(t *testing.T) {
	a := arch.MustNew(arch.Params{GenomeLength: 4, GeneCount: 2, GeneLength: 4}, []int{0, 0})
	ev := NewEvaluator(a)

	envs := []environment.Gradient{
		{{0, 1, 0, 1}, {1, 1, 0, 0}},
		{{0, 2, 0, 1}, {1, 1, 0, 0}},
	}
	if _, err := ev.Summarize(envs); !errors.Is(err, ErrNonBinaryAlphabet) {
		t.Errorf("expected ErrNonBinaryAlphabet, got %v", err)
	}

	// Unanimous environments only use part of the alphabet and are still binary.
	if _, err := ev.Summarize([]environment.Gradient{{{1, 1, 1, 1}, {1, 1, 1, 1}}}); err != nil {
		t.Errorf("all-ones environment rejected: %v", err)
	}
}
