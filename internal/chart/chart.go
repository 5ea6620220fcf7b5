// Package chart implements the triangular parse chart and its bottom-up
// filling loop. The chart owns every sign produced during a parse; scoring
// behaviour is plugged in through the Strategy interface.
package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tonalspace/cadenza/internal/grammar"
	"github.com/tonalspace/cadenza/internal/sign"
)

// Strategy supplies the scoring behaviour the chart's rule-application hooks
// call into: how a freshly derived sign's score is computed from its rule
// and antecedents, and how duplicate signs in a cell merge. A strategy is
// selected once per parser configuration and never changes mid-parse.
type Strategy interface {
	Name() string

	// Scored reports whether signs carry probabilities under this strategy.
	// The chart skips beaming entirely for unscored strategies.
	Scored() bool

	// ScoreLexical scores a lexical sign before it is seeded onto the
	// diagonal. tagProb is the ordinary probability the tagger assigned.
	ScoreLexical(s *sign.Sign, word string, tagProb float64)

	// ScoreUnary scores the result of a unary rule application.
	ScoreUnary(result, arg *sign.Sign)

	// ScoreBinary scores the result of a binary rule application.
	ScoreBinary(result, left, right *sign.Sign)

	// Policy returns the merge policy duplicate categories are folded with.
	Policy() sign.MergePolicy
}

// Arc identifies one cell of the chart by its span.
type Arc struct {
	Start, End int
}

// Config carries the per-parse chart settings.
type Config struct {
	// Threshold is the beam ratio in (0,1].
	Threshold float64

	// MaxArc is the hard cap on signs per cell after beaming; 0 disables it.
	MaxArc int

	// Derivations enables derivation trace bookkeeping.
	Derivations bool

	// Logger receives beam and progress diagnostics at debug level. Nil
	// discards them.
	Logger *log.Logger
}

// Chart is a triangular table of sign sets indexed by (start, end) spans,
// 0 <= start < end <= N. Cells are filled strictly bottom-up by span length.
type Chart struct {
	grammar  *grammar.Grammar
	strategy Strategy
	size     int
	logger   *log.Logger
	arena    *sign.Arena

	// table[start][end-start-1] holds the signs spanning (start, end).
	table [][]*sign.Set
}

// New creates an empty chart over an input of the given length.
func New(g *grammar.Grammar, strategy Strategy, size int, cfg Config) *Chart {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var arena *sign.Arena
	if cfg.Derivations {
		arena = sign.NewArena()
	}
	c := &Chart{
		grammar:  g,
		strategy: strategy,
		size:     size,
		logger:   logger,
		arena:    arena,
	}
	c.table = make([][]*sign.Set, size)
	for start := 0; start < size; start++ {
		c.table[start] = make([]*sign.Set, size-start)
		for i := range c.table[start] {
			c.table[start][i] = sign.NewSet(strategy.Policy(), cfg.Threshold,
				cfg.MaxArc, arena)
		}
	}
	return c
}

// Size returns the input length the chart was built for.
func (c *Chart) Size() int { return c.size }

// Arena returns the derivation trace arena, or nil when traces are off.
func (c *Chart) Arena() *sign.Arena { return c.arena }

func (c *Chart) cell(start, end int) *sign.Set {
	return c.table[start][end-start-1]
}

// Signs returns the signs currently spanning (start, end).
func (c *Chart) Signs(start, end int) []*sign.Sign {
	return c.cell(start, end).Values()
}

// Seed populates the diagonal cell (position, position+1) with pre-scored
// lexical signs, bypassing rule application and the merge policy.
func (c *Chart) Seed(position int, signs []*sign.Sign, word string) {
	cell := c.cell(position, position+1)
	for _, sg := range signs {
		if c.arena != nil {
			sg.SetTrace(c.arena.Leaf(sg.Category.Label(), word))
		}
		cell.Seed(sg)
	}
}

// ApplyUnaryRule applies one unary rule to every sign in cell (start, end)
// and inserts the scored results back into the same cell. Returns true if
// any new sign was added or replaced an existing one; a replacement counts
// as progress because the surviving sign has seen no rule applications yet.
func (c *Chart) ApplyUnaryRule(rule grammar.Rule, start, end int) (bool, error) {
	if rule.Arity() != 1 {
		return false, &grammar.RuleError{Rule: rule.Name(),
			Msg: fmt.Sprintf("arity %d applied as unary", rule.Arity())}
	}
	cell := c.cell(start, end)
	added := false
	for _, sg := range cell.Values() {
		if sg.RuleApplied(rule.Name(), nil) {
			continue
		}
		results, err := rule.Apply([]*sign.Sign{sg})
		if err != nil {
			return added, fmt.Errorf("apply %s at (%d,%d): %w", rule.Name(), start, end, err)
		}
		sg.NoteRuleApplied(rule.Name(), nil)
		for _, result := range results {
			c.strategy.ScoreUnary(result, sg)
			if c.arena != nil {
				result.SetTrace(c.arena.Derive(result.Category.Label(),
					rule.Name(), sg.Trace()))
			}
			if cell.Insert(result) {
				added = true
			}
		}
	}
	return added, nil
}

// ApplyUnaryRules closes cell (start, end) under the grammar's unary rules:
// all rules are applied repeatedly until a fixed point, so chained rules
// (A -> B, B -> C) produce their full closure regardless of rule order.
func (c *Chart) ApplyUnaryRules(start, end int) (bool, error) {
	any := false
	for {
		pass := false
		for _, rule := range c.grammar.UnaryRules {
			added, err := c.ApplyUnaryRule(rule, start, end)
			if err != nil {
				return any, err
			}
			pass = pass || added
		}
		if !pass {
			return any, nil
		}
		any = true
	}
}

// ApplyBinaryRule applies one binary rule to every (left, right) pair drawn
// from cells (start, middle) and (middle, end), inserting scored results
// into cell (start, end).
func (c *Chart) ApplyBinaryRule(rule grammar.Rule, start, middle, end int) (bool, error) {
	if rule.Arity() != 2 {
		return false, &grammar.RuleError{Rule: rule.Name(),
			Msg: fmt.Sprintf("arity %d applied as binary", rule.Arity())}
	}
	target := c.cell(start, end)
	added := false
	for _, left := range c.cell(start, middle).Values() {
		for _, right := range c.cell(middle, end).Values() {
			if left.RuleApplied(rule.Name(), right) {
				continue
			}
			results, err := rule.Apply([]*sign.Sign{left, right})
			if err != nil {
				return added, fmt.Errorf("apply %s at (%d,%d,%d): %w",
					rule.Name(), start, middle, end, err)
			}
			left.NoteRuleApplied(rule.Name(), right)
			for _, result := range results {
				c.strategy.ScoreBinary(result, left, right)
				if c.arena != nil {
					result.SetTrace(c.arena.Derive(result.Category.Label(),
						rule.Name(), left.Trace(), right.Trace()))
				}
				if target.Insert(result) {
					added = true
				}
			}
		}
	}
	return added, nil
}

// ApplyBinaryRules applies every binary rule in the grammar for one split
// point.
func (c *Chart) ApplyBinaryRules(start, middle, end int) (bool, error) {
	any := false
	for _, rule := range c.grammar.BinaryRules {
		added, err := c.ApplyBinaryRule(rule, start, middle, end)
		if err != nil {
			return any, err
		}
		any = any || added
	}
	return any, nil
}

// Fill runs the bottom-up chart-filling sweep: for each span length from 1
// to N, each cell of that length is completed from its shorter constituents,
// closed under unary rules, and beamed (except the top cell). quit is a
// cooperative stop check consulted at the start of each span-length
// iteration; when it returns true Fill stops early, leaving whatever has
// been derived so far in place.
func (c *Chart) Fill(quit func() bool) error {
	for length := 1; length <= c.size; length++ {
		if quit != nil && quit() {
			c.logger.Debug("fill stopped early", "length", length)
			return nil
		}
		for start := 0; start+length <= c.size; start++ {
			end := start + length
			if length > 1 {
				for middle := start + 1; middle < end; middle++ {
					if _, err := c.ApplyBinaryRules(start, middle, end); err != nil {
						return err
					}
				}
			}
			if _, err := c.ApplyUnaryRules(start, end); err != nil {
				return err
			}
			c.ApplyBeam(&Arc{start, end})
		}
		c.logger.Debug("completed span length", "length", length, "cells", c.size-length+1)
	}
	return nil
}

// ApplyBeam prunes one cell, or every cell when arc is nil. The top-level
// span (0,N) is never beamed: nothing consumes it further, so pruning it
// could only lose results. Unscored strategies skip beaming entirely.
func (c *Chart) ApplyBeam(arc *Arc) {
	if !c.strategy.Scored() {
		return
	}
	if arc != nil {
		if arc.Start == 0 && arc.End == c.size {
			return
		}
		if removed := c.cell(arc.Start, arc.End).ApplyBeam(); removed > 0 {
			c.logger.Debug("beam pruned cell", "start", arc.Start, "end", arc.End,
				"removed", removed)
		}
		return
	}
	for start := 0; start < c.size; start++ {
		for end := start + 1; end <= c.size; end++ {
			if start == 0 && end == c.size {
				continue
			}
			c.cell(start, end).ApplyBeam()
		}
	}
}

// Parses returns the signs in the top cell whose category the grammar
// recognizes as a root, in insertion order.
func (c *Chart) Parses() []*sign.Sign {
	if c.size == 0 {
		return nil
	}
	var out []*sign.Sign
	for _, sg := range c.cell(0, c.size).Values() {
		if c.grammar.IsRoot(sg.Category) {
			out = append(out, sg)
		}
	}
	return out
}

// RankedParses returns the complete parses sorted by probability
// descending, ties in insertion order.
func (c *Chart) RankedParses() []*sign.Sign {
	if c.size == 0 {
		return nil
	}
	var out []*sign.Sign
	for _, sg := range c.cell(0, c.size).Ranked() {
		if c.grammar.IsRoot(sg.Category) {
			out = append(out, sg)
		}
	}
	return out
}

// Summary renders the cell-size triangle of the chart, one row per start
// node. Useful for progress logging on long inputs.
func (c *Chart) Summary() string {
	var b strings.Builder
	b.WriteString("F\\T")
	for end := 1; end <= c.size; end++ {
		fmt.Fprintf(&b, "\t%d", end)
	}
	b.WriteByte('\n')
	for start := 0; start < c.size; start++ {
		fmt.Fprintf(&b, "%d", start)
		b.WriteString(strings.Repeat("\t-", start))
		for end := start + 1; end <= c.size; end++ {
			fmt.Fprintf(&b, "\t%d", c.cell(start, end).Len())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
