// Package pipeline assembles the full parsing stack behind one call: chord
// tokenization, the built-in tonal grammar, the configured scoring strategy
// and the parser, producing a report per input sequence.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tonalspace/cadenza/internal/cache"
	"github.com/tonalspace/cadenza/internal/chart"
	"github.com/tonalspace/cadenza/internal/chord"
	"github.com/tonalspace/cadenza/internal/grammar"
	"github.com/tonalspace/cadenza/internal/logmath"
	"github.com/tonalspace/cadenza/internal/model"
	"github.com/tonalspace/cadenza/internal/parse"
	"github.com/tonalspace/cadenza/internal/score"
	"github.com/tonalspace/cadenza/internal/sign"
	"github.com/tonalspace/cadenza/internal/tagger"
)

// harmonicModel is the built-in probability model for the tonal grammar.
// Binary expansions share one probability and the tritone substitution is
// penalized, so ranking is driven mostly by the tagger's quality table while
// longer derivations still pay per rule application.
type harmonicModel struct{}

func (harmonicModel) InsideProbability(kind score.Expansion, parent *sign.Sign, children ...*sign.Sign) float64 {
	if kind == score.ExpansionUnary {
		return 0.2
	}
	return 0.5
}

func (harmonicModel) OutsideProbability(*sign.Sign) float64 { return 1 }

// Pipeline parses chord sequences under one fixed configuration. The
// grammar, strategy and memoized model are shared; each ParseSequence call
// builds its own parser and chart, so a pipeline is safe for concurrent use
// by the batch workers.
type Pipeline struct {
	cfg      model.Config
	logger   *log.Logger
	grammar  *grammar.Grammar
	strategy chart.Strategy
	tagger   parse.Tagger
}

// New builds a pipeline from configuration. The probability model is
// memoized through the in-process cache when caching is enabled.
func New(cfg model.Config, logger *log.Logger) (*Pipeline, error) {
	var m score.Model = harmonicModel{}
	if cfg.Cache.Enabled {
		m = score.NewCachedModel(m, cache.NewMemory(cfg.Cache.TTL, 0))
	}
	strategy, err := score.ForName(cfg.Parser.Strategy, m, cfg.Parser.Viterbi)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:      cfg,
		logger:   logger,
		grammar:  grammar.Tonal(),
		strategy: strategy,
		tagger:   tagger.NewChord(),
	}, nil
}

// Grammar returns the grammar the pipeline parses with.
func (p *Pipeline) Grammar() *grammar.Grammar { return p.grammar }

// ParseSequence parses one chord sequence and builds its report. Sequences
// the grammar cannot fully analyze produce a report with no parses, not an
// error; malformed chord symbols are errors.
func (p *Pipeline) ParseSequence(ctx context.Context, input string) (*model.Report, error) {
	chords, err := chord.ParseSequence(input)
	if err != nil {
		return nil, fmt.Errorf("parse sequence: %w", err)
	}
	tokens := make([]string, len(chords))
	for i, c := range chords {
		tokens[i] = c.Symbol
	}

	if p.cfg.Parser.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Parser.Timeout)
		defer cancel()
	}

	parser := parse.New(p.grammar, p.strategy, p.tagger, parse.Config{
		Threshold:   p.cfg.Parser.Threshold,
		MaxArc:      p.cfg.Parser.MaxArc,
		Derivations: p.cfg.Parser.Derivations,
	})
	parser.SetLogger(p.logger)

	report := model.NewReport(strings.TrimSpace(input), tokens, p.cfg.Parser.Strategy)
	started := time.Now()
	parses, err := parser.Parse(ctx, tokens)
	report.Duration = time.Since(started)
	if err != nil {
		return nil, err
	}
	report.TimedOut = parser.TimedOut()

	if n := p.cfg.Parser.Results; n > 0 && len(parses) > n {
		parses = parses[:n]
	}
	for i, sg := range parses {
		entry := model.Parse{
			Rank:           i + 1,
			Category:       sg.Category.Label(),
			Semantics:      fmt.Sprint(sg.Semantics),
			LogProbability: sg.Probability,
			Probability:    logmath.Exp(sg.Probability),
		}
		if arena := parser.Chart().Arena(); arena != nil {
			entry.Derivation = arena.Format(sg.Trace())
		}
		report.Parses = append(report.Parses, entry)
	}
	p.logger.Info("parsed sequence",
		"tokens", len(tokens),
		"parses", len(report.Parses),
		"timed_out", report.TimedOut,
		"duration", report.Duration)
	return report, nil
}
