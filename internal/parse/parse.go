// Package parse wires a tagger, a grammar and a scoring strategy into the
// full parsing pipeline for one input sequence: tag the tokens, seed the
// chart diagonal, run the bottom-up fill, and extract the ranked complete
// parses, falling back to a backoff model when the grammar finds none.
package parse

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/tonalspace/cadenza/internal/chart"
	"github.com/tonalspace/cadenza/internal/grammar"
	"github.com/tonalspace/cadenza/internal/sign"
)

// TaggedSign couples one candidate lexical sign with the ordinary (non-log)
// probability the tagger assigned to it.
type TaggedSign struct {
	Sign        *sign.Sign
	Probability float64
}

// Tagger proposes candidate lexical signs for one input token. Returning an
// empty slice with a nil error means the tagger recognizes the token but has
// no category for it; the parser turns that into a TagError.
type Tagger interface {
	Tag(position int, word string) ([]TaggedSign, error)
}

// Backoff produces parses by some other means when the grammar derives no
// complete parse. The parser only consults it after a finished, non-aborted
// fill that left the top cell without a root sign.
type Backoff interface {
	Parse(words []string) ([]*sign.Sign, error)
}

// TagError reports an input token the tagger could not assign any category.
type TagError struct {
	Position int
	Word     string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("no category for %q at position %d", e.Word, e.Position)
}

// Config carries the parser settings.
type Config struct {
	// Threshold is the beam ratio in (0,1].
	Threshold float64

	// MaxArc caps the signs kept per cell after beaming; 0 disables the cap.
	MaxArc int

	// Derivations enables derivation trace bookkeeping on the chart.
	Derivations bool
}

// DefaultConfig returns the default parser settings.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.01,
		MaxArc:    20,
	}
}

// Parser runs parses over one grammar, strategy and tagger combination. A
// parser handles one Parse call at a time; Abort may be called from any
// goroutine while a Parse is in flight.
type Parser struct {
	grammar  *grammar.Grammar
	strategy chart.Strategy
	tagger   Tagger
	cfg      Config
	logger   *log.Logger
	backoff  Backoff

	chart    *chart.Chart
	aborted  atomic.Bool
	timedOut bool
}

// New creates a parser. A zero Threshold is outside the valid (0,1] range
// and falls back to the DefaultConfig value. MaxArc is taken literally,
// since 0 is a meaningful setting (no cap); callers wanting the default cap
// start from DefaultConfig.
func New(g *grammar.Grammar, strategy chart.Strategy, tagger Tagger, cfg Config) *Parser {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}
	return &Parser{
		grammar:  g,
		strategy: strategy,
		tagger:   tagger,
		cfg:      cfg,
		logger:   log.New(io.Discard),
	}
}

// SetBackoff installs a fallback model consulted when the grammar finds no
// complete parse.
func (p *Parser) SetBackoff(b Backoff) { p.backoff = b }

// SetLogger installs a logger for progress and beam diagnostics.
func (p *Parser) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	p.logger = l
}

// Abort requests that an in-flight Parse stop at its next span boundary.
// The parse then returns whatever it has derived so far, with TimedOut set.
func (p *Parser) Abort() { p.aborted.Store(true) }

// TimedOut reports whether the last Parse stopped early, either through
// Abort or through context cancellation.
func (p *Parser) TimedOut() bool { return p.timedOut }

// Chart returns the chart of the last Parse, for inspection of partial
// results. Nil before the first Parse.
func (p *Parser) Chart() *chart.Chart { return p.chart }

// Parse tags the input tokens, fills the chart bottom-up and returns the
// complete parses ranked by probability descending. An empty input yields
// nil parses and no error. A finished parse with no complete analysis is not
// an error either: it returns empty results, after consulting the backoff
// model when one is installed.
func (p *Parser) Parse(ctx context.Context, words []string) ([]*sign.Sign, error) {
	p.aborted.Store(false)
	p.timedOut = false
	p.chart = nil
	if len(words) == 0 {
		return nil, nil
	}

	p.chart = chart.New(p.grammar, p.strategy, len(words), chart.Config{
		Threshold:   p.cfg.Threshold,
		MaxArc:      p.cfg.MaxArc,
		Derivations: p.cfg.Derivations,
		Logger:      p.logger,
	})

	for position, word := range words {
		tagged, err := p.tagger.Tag(position, word)
		if err != nil {
			return nil, fmt.Errorf("tag %q at position %d: %w", word, position, err)
		}
		if len(tagged) == 0 {
			return nil, &TagError{Position: position, Word: word}
		}
		signs := make([]*sign.Sign, 0, len(tagged))
		for _, ts := range tagged {
			p.strategy.ScoreLexical(ts.Sign, word, ts.Probability)
			signs = append(signs, ts.Sign)
		}
		p.chart.Seed(position, signs, word)
	}

	quit := func() bool {
		if p.aborted.Load() {
			return true
		}
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}
	if err := p.chart.Fill(quit); err != nil {
		return nil, err
	}
	p.timedOut = p.aborted.Load() || ctx.Err() != nil
	if p.timedOut {
		p.logger.Warn("parse stopped early", "tokens", len(words))
	}

	parses := p.chart.RankedParses()
	if len(parses) == 0 && !p.timedOut && p.backoff != nil {
		p.logger.Debug("no complete parse, trying backoff")
		backed, err := p.backoff.Parse(words)
		if err != nil {
			return nil, fmt.Errorf("backoff: %w", err)
		}
		return backed, nil
	}
	return parses, nil
}
