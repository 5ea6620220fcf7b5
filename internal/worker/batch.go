package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tonalspace/cadenza/internal/model"
)

// SequenceParser parses one chord sequence. Implemented by the pipeline.
type SequenceParser interface {
	ParseSequence(ctx context.Context, input string) (*model.Report, error)
}

// ParseJob is one sequence to parse within a batch.
type ParseJob struct {
	// Line is the 1-based position of the sequence in the batch input, used
	// to restore input order in the results.
	Line    int
	Input   string
	Parser  SequenceParser
	Limiter *Limiter
}

// Execute implements Job.
func (j *ParseJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx); err != nil {
			return &ParseResult{Line: j.Line, Input: j.Input, Error: err}
		}
	}
	report, err := j.Parser.ParseSequence(ctx, j.Input)
	return &ParseResult{Line: j.Line, Input: j.Input, Report: report, Error: err}
}

// ParseResult is the outcome of one batch sequence.
type ParseResult struct {
	Line   int
	Input  string
	Report *model.Report
	Error  error
}

// GetError implements Result.
func (r *ParseResult) GetError() error { return r.Error }

// BatchProcessor parses many sequences concurrently.
type BatchProcessor struct {
	parser      SequenceParser
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. limiter may be nil.
func NewBatchProcessor(parser SequenceParser, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessSequences parses the given sequences concurrently and returns the
// results in input order. Cancelling ctx stops in-flight parses; sequences
// that never ran produce no result.
func (b *BatchProcessor) ProcessSequences(ctx context.Context, sequences []string) []*ParseResult {
	if len(sequences) == 0 {
		return []*ParseResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for i, seq := range sequences {
		pool.Submit(&ParseJob{
			Line:    i + 1,
			Input:   seq,
			Parser:  b.parser,
			Limiter: b.limiter,
		})
	}
	results := pool.Wait()

	parseResults := make([]*ParseResult, len(results))
	for i, result := range results {
		parseResults[i] = result.(*ParseResult)
	}
	sort.Slice(parseResults, func(i, j int) bool {
		return parseResults[i].Line < parseResults[j].Line
	})
	return parseResults
}

// ProcessFile reads sequences from a file and parses them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ParseResult, error) {
	sequences, err := ReadSequences(path)
	if err != nil {
		return nil, fmt.Errorf("read sequences: %w", err)
	}
	return b.ProcessSequences(ctx, sequences), nil
}

// ReadSequences reads chord sequences from a file, one per line. Blank lines
// and lines starting with # are skipped. Repeated sequences are kept: a tune
// list legitimately contains duplicates.
func ReadSequences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sequences []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sequences = append(sequences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return sequences, nil
}
