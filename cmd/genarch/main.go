// Package main provides the genarch command: enumeration of gene-overlap
// architectures, their optimal-fitness analysis, and environment generation.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/genarch/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "genarch",
		Short: "Genetic architecture enumeration and optimal-fitness analysis",
		Long: `genarch enumerates the topologically distinct ways fixed-length genes can
overlap on a circular genome, and scores architectures by the best fitness
achievable under a per-site majority vote over random binary environments.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int("genome-length", 0, "Override architecture.genome_length")
	rootCmd.PersistentFlags().Int("gene-count", 0, "Override architecture.gene_count")
	rootCmd.PersistentFlags().Int("gene-length", 0, "Override architecture.gene_length")
	rootCmd.PersistentFlags().String("output-dir", "", "Override output.dir")
	rootCmd.PersistentFlags().Int64("seed", 0, "Override environment.seed")

	rootCmd.AddCommand(
		newEnumerateCmd(),
		newExpectedCmd(),
		newEnvsCmd(),
		newSimilarityCmd(),
	)
	return rootCmd
}

// setup installs the JSON logger, loads config and applies flag overrides.
func setup(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("parsing --log-level: %w", err)
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level))

	configPath, _ := cmd.Flags().GetString("config")
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	flags := cmd.Flags()
	if flags.Changed("genome-length") {
		cfg.Architecture.GenomeLength, _ = flags.GetInt("genome-length")
	}
	if flags.Changed("gene-count") {
		cfg.Architecture.GeneCount, _ = flags.GetInt("gene-count")
	}
	if flags.Changed("gene-length") {
		cfg.Architecture.GeneLength, _ = flags.GetInt("gene-length")
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("seed") {
		cfg.Environment.Seed, _ = flags.GetInt64("seed")
	}
	return cfg.Validate()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// joinInts renders starts as "0 2 8".
func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
