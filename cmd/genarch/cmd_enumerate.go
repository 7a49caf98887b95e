package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/genarch/arch"
	"github.com/pthm-cable/genarch/config"
	"github.com/pthm-cable/genarch/enumerate"
	"github.com/pthm-cable/genarch/fitness"
	"github.com/pthm-cable/genarch/telemetry"
)

func newEnumerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Enumerate topologically distinct gene-overlap architectures",
		Long: `Generate every placement of the configured genes, collapse placements that
differ only in slack between non-overlapping genes, and keep one
representative per overlap-graph isomorphism class.

With an output directory, writes the representatives as ancestor lines
(architectures.csv, or architecture-<i>.csv with single_file: false),
representatives.csv, enumeration.csv, perf.csv and config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Cfg()
			start := time.Now()

			perf := telemetry.NewPerfCollector(1)
			res, err := runEnumeration(cmd.Context(), cfg, perf)
			if err != nil {
				return err
			}

			om, err := telemetry.NewOutputManager(cfg.Output.Dir)
			if err != nil {
				return err
			}
			if err := writeEnumeration(om, cfg, res, perf); err != nil {
				return err
			}

			slog.Info("enumeration timing", "perf", perf.Stats())
			fmt.Fprintf(cmd.OutOrStdout(), "%d candidates, %d canonical, %d representatives in %s\n",
				res.Stats.Candidates, res.Stats.Canonical, res.Stats.Representatives,
				formatDuration(time.Since(start)))
			if dir := om.Dir(); dir != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", dir)
			}
			return nil
		},
	}
	return cmd
}

// runEnumeration runs the enumerator under the configured limits.
func runEnumeration(ctx context.Context, cfg *config.Config, perf *telemetry.PerfCollector) (*enumerate.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Enumeration.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Enumeration.Timeout)
		defer cancel()
	}
	return enumerate.Enumerate(ctx, cfg.Architecture, enumerate.Options{
		Workers:       cfg.Enumeration.Workers,
		MaxCandidates: cfg.Enumeration.MaxCandidates,
		Logger:        slog.Default(),
		Perf:          perf,
	})
}

func writeEnumeration(om *telemetry.OutputManager, cfg *config.Config, res *enumerate.Result, perf *telemetry.PerfCollector) error {
	p := res.Params
	lines := make([]string, 0, len(res.Representatives))
	records := make([]telemetry.RepresentativeRecord, 0, len(res.Representatives))
	for i, r := range res.Representatives {
		a, err := arch.New(p, r.Starts)
		if err != nil {
			return fmt.Errorf("representative %d: %w", i, err)
		}
		st := a.Stats()
		lines = append(lines, arch.FormatAncestor(r.Starts, p.GenomeLength, ""))
		records = append(records, telemetry.RepresentativeRecord{
			Index:            i,
			Starts:           joinInts(r.Starts),
			Edges:            r.Graph.String(),
			ClassSize:        r.ClassSize,
			ExpectedOptimal:  fitness.NewEvaluator(a).ExpectedOptimal(),
			CodingSites:      st.CodingSites,
			NeutralSites:     st.NeutralSites,
			SingleGeneSites:  st.SingleGeneSites,
			MultiGeneSites:   st.MultiGeneSites,
			MeanOccupancy:    st.MeanOccupancy,
			MeanNeighbors:    st.MeanNeighbors,
			OverlapEdgeCount: r.Graph.Size(),
		})
	}

	if err := om.WriteArchitectures(lines, cfg.Output.SingleFile); err != nil {
		return err
	}
	if err := om.WriteRepresentatives(records); err != nil {
		return err
	}
	if err := om.WriteStats(res.Stats); err != nil {
		return err
	}
	if err := om.WritePerf(perf.Stats()); err != nil {
		return err
	}
	return om.WriteConfig(cfg)
}
