package fitness

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/genarch/environment"
)

// Summary compares the sampled optimal fitness over a set of environments
// with its closed-form expectation.
type Summary struct {
	Expected float64 `csv:"expected_optimal_fitness"`
	Samples  int     `csv:"samples"`
	Mean     float64 `csv:"sampled_mean"`
	StdDev   float64 `csv:"sampled_stddev"`
	CILow    float64 `csv:"ci95_low"`
	CIHigh   float64 `csv:"ci95_high"`
}

// Summarize computes Optimal for every environment and reports the mean with
// a normal-approximation 95% confidence interval. Every target must be 0 or 1,
// since Expected is the binary closed form.
func (e *Evaluator) Summarize(envs []environment.Gradient) (Summary, error) {
	s := Summary{Expected: e.ExpectedOptimal(), Samples: len(envs)}
	if len(envs) == 0 {
		return s, nil
	}

	xs := make([]float64, len(envs))
	for i, env := range envs {
		for _, v := range env.Alphabet() {
			if v != 0 && v != 1 {
				return Summary{}, fmt.Errorf("%w: environment %d has target %d", ErrNonBinaryAlphabet, i, v)
			}
		}
		opt, err := e.Optimal(env)
		if err != nil {
			return Summary{}, fmt.Errorf("environment %d: %w", i, err)
		}
		xs[i] = float64(opt.Fitness)
	}

	if len(xs) == 1 {
		s.Mean, s.CILow, s.CIHigh = xs[0], xs[0], xs[0]
		return s, nil
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	half := 1.96 * s.StdDev / math.Sqrt(float64(len(xs)))
	s.CILow, s.CIHigh = s.Mean-half, s.Mean+half
	return s, nil
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("expected", s.Expected),
		slog.Int("samples", s.Samples),
		slog.Float64("mean", s.Mean),
		slog.Float64("ci95_low", s.CILow),
		slog.Float64("ci95_high", s.CIHigh),
	)
}
