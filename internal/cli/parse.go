package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonalspace/cadenza/internal/pipeline"
)

var (
	strategy    string
	threshold   float64
	maxArc      int
	viterbi     bool
	derivations bool
	results     int
	timeout     time.Duration
	jsonOutput  bool
	noCache     bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <chords>",
	Short: "Parse one chord sequence",
	Long: `Parse a chord sequence into ranked harmonic analyses.

The sequence is given as chord symbols separated by spaces, bar lines or
commas. Quote it so the shell passes it as one argument.

Example:
  cadenza parse "Dm7 G7 Cmaj7"
  cadenza parse "Am7b5 | D7 | Gm" --strategy pcfg --viterbi
  cadenza parse "Dm7 G7 Cmaj7" --derivations --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&strategy, "strategy", "", "scoring strategy (plain, pcfg, tagrank)")
	parseCmd.Flags().Float64Var(&threshold, "threshold", 0, "beam ratio in (0,1]")
	parseCmd.Flags().IntVar(&maxArc, "max-arc", -1, "max signs per chart cell, 0 for no cap")
	parseCmd.Flags().BoolVar(&viterbi, "viterbi", false, "keep only the best derivation per category (pcfg)")
	parseCmd.Flags().BoolVar(&derivations, "derivations", false, "include derivation traces in output")
	parseCmd.Flags().IntVar(&results, "n", -1, "number of top parses to report, 0 for all")
	parseCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-parse timeout, 0 for none")
	parseCmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON instead of text")
	parseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable probability memoization")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if strategy != "" {
		cfg.Parser.Strategy = strategy
	}
	if threshold != 0 {
		cfg.Parser.Threshold = threshold
	}
	if maxArc >= 0 {
		cfg.Parser.MaxArc = maxArc
	}
	if viterbi {
		cfg.Parser.Viterbi = true
	}
	if derivations {
		cfg.Parser.Derivations = true
	}
	if results >= 0 {
		cfg.Parser.Results = results
	}
	if timeout > 0 {
		cfg.Parser.Timeout = timeout
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache

	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return err
	}

	input := strings.Join(args, " ")
	report, err := p.ParseSequence(context.Background(), input)
	if err != nil {
		return err
	}

	if jsonOutput {
		return pipeline.RenderJSON(os.Stdout, report)
	}
	return pipeline.RenderText(os.Stdout, report)
}
