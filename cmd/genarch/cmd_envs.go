package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/genarch/config"
	"github.com/pthm-cable/genarch/environment"
	"github.com/pthm-cable/genarch/telemetry"
)

func newEnvsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "Generate unique random environment files",
		Long: `Write environment.count distinct gradient environments to
<output>/gradient/gradient_env_<i>.env and, when environment.nk is set, as
many NK value tables to <output>/nk/nk_env_<i>.env.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Cfg()
			if cfg.Output.Dir == "" {
				return errors.New("envs needs an output directory (--output-dir or output.dir)")
			}
			om, err := telemetry.NewOutputManager(cfg.Output.Dir)
			if err != nil {
				return err
			}

			n, err := writeEnvironments(om, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d environment files to %s\n", n, om.Dir())
			return nil
		},
	}
	return cmd
}

func writeEnvironments(om *telemetry.OutputManager, cfg *config.Config) (int, error) {
	p := cfg.Architecture
	env := cfg.Environment
	rng := rand.New(rand.NewSource(env.Seed))

	gradients, err := environment.UniqueGradients(rng, env.Count, p.GeneCount, p.GeneLength, env.Alphabet)
	if err != nil {
		return 0, err
	}
	for i, g := range gradients {
		if err := om.WriteEnvironment("gradient", i, g.String()); err != nil {
			return 0, err
		}
	}
	written := len(gradients)

	if env.NK {
		for i, nk := range environment.UniqueNK(rng, env.Count, p.GeneCount, p.GeneLength) {
			if err := om.WriteEnvironment("nk", i, nk.String()); err != nil {
				return 0, err
			}
		}
		written += env.Count
	}

	slog.Info("environments generated",
		"gradient", len(gradients),
		"nk", env.NK,
		"seed", env.Seed,
	)
	return written, om.WriteConfig(cfg)
}
