package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/genarch/arch"
	"github.com/pthm-cable/genarch/config"
	"github.com/pthm-cable/genarch/environment"
	"github.com/pthm-cable/genarch/overlap"
)

// pairRecord joins target similarity with the genes' site overlap.
type pairRecord struct {
	environment.PairSimilarity
	Overlap int `csv:"gene_pair_overlap"`
}

func newSimilarityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similarity [A B]",
		Short: "Compare target strings or every gene pair of an environment",
		Long: `With two bit strings, print their positional similarity and their best
similarity over all cyclic shifts.

With --env, print CSV rows for every gene pair of a gradient environment
file. Adding --starts includes the number of sites each pair shares.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			envPath, _ := cmd.Flags().GetString("env")
			if envPath == "" {
				if len(args) != 2 {
					return errors.New("similarity needs two strings or --env")
				}
				return compareStrings(cmd, args[0], args[1])
			}
			starts, _ := cmd.Flags().GetIntSlice("starts")
			return compareEnvironment(cmd, envPath, starts)
		},
	}

	cmd.Flags().String("env", "", "Gradient environment file to compare gene by gene")
	cmd.Flags().IntSlice("starts", nil, "Gene start positions for overlap counts")
	return cmd
}

func compareStrings(cmd *cobra.Command, a, b string) error {
	sim, err := environment.Similarity([]byte(a), []byte(b))
	if err != nil {
		return err
	}
	aligned, err := environment.MaxAlignedSimilarity([]byte(a), []byte(b))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "similarity=%d max_aligned=%d\n", sim, aligned)
	return nil
}

func compareEnvironment(cmd *cobra.Command, path string, starts []int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	g, err := environment.ParseGradient(string(data))
	if err != nil {
		return err
	}
	pairs, err := environment.PairwiseSimilarity(g)
	if err != nil {
		return err
	}

	var graph *overlap.Graph
	if len(starts) > 0 {
		_, geneLength, err := g.Shape()
		if err != nil {
			return err
		}
		p := arch.Params{
			GenomeLength: config.Cfg().Architecture.GenomeLength,
			GeneCount:    len(g),
			GeneLength:   geneLength,
		}
		a, err := arch.New(p, starts)
		if err != nil {
			return err
		}
		graph = overlap.FromArchitecture(a)
	}

	rows := make([]pairRecord, len(pairs))
	for i, p := range pairs {
		rows[i] = pairRecord{PairSimilarity: p}
		if graph != nil {
			rows[i].Overlap = graph.Weight(p.GeneA, p.GeneB)
		}
	}
	return gocsv.Marshal(rows, cmd.OutOrStdout())
}
