package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tonalspace/cadenza/internal/pipeline"
	"github.com/tonalspace/cadenza/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	ratePerSec   float64
	rateBurst    int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Parse multiple chord sequences from a file in parallel",
	Long: `Batch parses many sequences concurrently:
- Read sequences from the input file (one per line, # for comments)
- Parse them in parallel with a configurable worker count
- Write one JSON report per sequence plus an index.yaml

Example:
  cadenza batch tunes.txt
  cadenza batch tunes.txt --concurrency 8 --output-dir ./reports
  cadenza batch tunes.txt --rate 50 --parse-timeout 30s`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
	batchCmd.Flags().Float64Var(&ratePerSec, "rate", 0, "max parses started per second, 0 for unlimited")
	batchCmd.Flags().IntVar(&rateBurst, "burst", 0, "rate limiter burst size")

	// Per-parse flags shared with the parse command
	batchCmd.Flags().StringVar(&strategy, "strategy", "", "scoring strategy (plain, pcfg, tagrank)")
	batchCmd.Flags().Float64Var(&threshold, "threshold", 0, "beam ratio in (0,1]")
	batchCmd.Flags().IntVar(&maxArc, "max-arc", -1, "max signs per chart cell, 0 for no cap")
	batchCmd.Flags().BoolVar(&viterbi, "viterbi", false, "keep only the best derivation per category (pcfg)")
	batchCmd.Flags().BoolVar(&derivations, "derivations", false, "include derivation traces in reports")
	batchCmd.Flags().IntVar(&results, "n", -1, "number of top parses per report, 0 for all")
	batchCmd.Flags().DurationVar(&timeout, "parse-timeout", 0, "per-sequence timeout, 0 for none")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable probability memoization")
}

// indexEntry is one line of the batch index.yaml.
type indexEntry struct {
	Line   int    `yaml:"line"`
	Input  string `yaml:"input"`
	Report string `yaml:"report,omitempty"`
	Parses int    `yaml:"parses"`
	Error  string `yaml:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

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
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if ratePerSec > 0 {
		cfg.RateLimit.PerSecond = ratePerSec
	}
	if rateBurst > 0 {
		cfg.RateLimit.Burst = rateBurst
	}
	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return err
	}

	var limiter *worker.Limiter
	if cfg.RateLimit.PerSecond > 0 {
		limiter = worker.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter)

	fmt.Fprintf(os.Stderr, "Reading sequences from %s\n", file)
	batchResults, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Parsed %d sequences with %d workers\n",
		len(batchResults), cfg.Concurrency.Workers)

	successCount := 0
	failureCount := 0
	index := make([]indexEntry, 0, len(batchResults))

	for _, result := range batchResults {
		entry := indexEntry{Line: result.Line, Input: result.Input}
		if result.Error != nil {
			failureCount++
			entry.Error = result.Error.Error()
			fmt.Fprintf(os.Stderr, "line %d: %v\n", result.Line, result.Error)
			index = append(index, entry)
			continue
		}

		name := fmt.Sprintf("seq-%04d.json", result.Line)
		path := filepath.Join(cfg.Output.Directory, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report %s: %w", path, err)
		}
		if err := pipeline.RenderJSON(f, result.Report); err != nil {
			_ = f.Close()
			return fmt.Errorf("write report %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close report %s: %w", path, err)
		}

		successCount++
		entry.Report = name
		entry.Parses = len(result.Report.Parses)
		index = append(index, entry)
	}

	indexData, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	indexPath := filepath.Join(cfg.Output.Directory, "index.yaml")
	if err := os.WriteFile(indexPath, indexData, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sequences\n", len(batchResults))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Directory)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d sequences failed", failureCount, len(batchResults))
	}
	return nil
}
