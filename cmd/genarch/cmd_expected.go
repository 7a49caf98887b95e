package main

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/genarch/arch"
	"github.com/pthm-cable/genarch/config"
	"github.com/pthm-cable/genarch/environment"
	"github.com/pthm-cable/genarch/fitness"
	"github.com/pthm-cable/genarch/telemetry"
)

// fitnessRecord is one row of fitness.csv.
type fitnessRecord struct {
	Starts string `csv:"gene_starts"`
	Exact  string `csv:"expected_optimal_exact"`
	fitness.Summary
}

func newExpectedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expected",
		Short: "Expected optimal fitness of architectures over random binary environments",
		Long: `Report the exact expected optimal fitness of an architecture and compare it
with the mean optimal fitness over environment.count random environments
drawn with environment.seed.

Without --starts, every enumerated representative is evaluated. With an
output directory, rows are written to fitness.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Cfg()
			if err := fitness.CheckBinary(cfg.Environment.Alphabet); err != nil {
				return err
			}
			starts, _ := cmd.Flags().GetIntSlice("starts")

			layouts := [][]int{starts}
			if len(starts) == 0 {
				res, err := runEnumeration(cmd.Context(), cfg, nil)
				if err != nil {
					return err
				}
				layouts = layouts[:0]
				for _, r := range res.Representatives {
					layouts = append(layouts, r.Starts)
				}
			}

			rng := rand.New(rand.NewSource(cfg.Environment.Seed))
			envs := make([]environment.Gradient, cfg.Environment.Count)
			for i := range envs {
				envs[i] = environment.RandomGradient(rng, cfg.Architecture.GeneCount, cfg.Architecture.GeneLength, cfg.Environment.Alphabet)
			}

			perf := telemetry.NewPerfCollector(len(layouts))
			records, err := summarizeLayouts(cfg, layouts, envs, perf)
			if err != nil {
				return err
			}
			slog.Info("expected fitness timing", "perf", perf.Stats())

			om, err := telemetry.NewOutputManager(cfg.Output.Dir)
			if err != nil {
				return err
			}
			if err := telemetry.WriteRows(om, "fitness.csv", records); err != nil {
				return err
			}
			if err := om.WritePerf(perf.Stats()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range records {
				fmt.Fprintf(out, "[%s] expected=%s (%.4f) sampled=%.4f ci95=[%.4f, %.4f] n=%d\n",
					r.Starts, r.Exact, r.Expected, r.Mean, r.CILow, r.CIHigh, r.Samples)
			}
			return nil
		},
	}

	cmd.Flags().IntSlice("starts", nil, "Gene start positions, e.g. --starts 0,2,8 (default: all representatives)")
	return cmd
}

// summarizeLayouts evaluates each layout as one timed run: the exact
// expectation, then the sampled summary.
func summarizeLayouts(cfg *config.Config, layouts [][]int, envs []environment.Gradient, perf *telemetry.PerfCollector) ([]fitnessRecord, error) {
	records := make([]fitnessRecord, 0, len(layouts))
	for _, starts := range layouts {
		a, err := arch.New(cfg.Architecture, starts)
		if err != nil {
			return nil, err
		}
		ev := fitness.NewEvaluator(a)

		perf.StartRun()
		perf.StartPhase(telemetry.PhaseExpected)
		exact := ev.ExpectedOptimalRat().RatString()
		perf.StartPhase(telemetry.PhaseSample)
		sum, err := ev.Summarize(envs)
		perf.EndRun()
		if err != nil {
			return nil, err
		}
		slog.Debug("architecture summarized", "architecture", a.String(), "summary", sum)
		records = append(records, fitnessRecord{
			Starts:  joinInts(starts),
			Exact:   exact,
			Summary: sum,
		})
	}
	return records, nil
}
