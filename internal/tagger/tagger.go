// Package tagger provides the lexical front ends of the parser: the chord
// tagger that proposes harmonic-function categories for chord symbols, and a
// pretagged source for inputs that arrive already annotated.
package tagger

import (
	"fmt"

	"github.com/tonalspace/cadenza/internal/chord"
	"github.com/tonalspace/cadenza/internal/grammar"
	"github.com/tonalspace/cadenza/internal/parse"
	"github.com/tonalspace/cadenza/internal/sign"
)

// functionProb is one candidate interpretation of a chord quality.
type functionProb struct {
	function grammar.Function
	prob     float64
}

// qualityTable maps each chord quality to its candidate harmonic functions,
// most likely first. The probabilities per quality sum to 1.
var qualityTable = map[chord.Quality][]functionProb{
	chord.Dominant: {
		{grammar.Dominant, 0.75},
		{grammar.Tonic, 0.15},
		{grammar.Subdominant, 0.10},
	},
	chord.Major: {
		{grammar.Tonic, 0.7},
		{grammar.Subdominant, 0.2},
		{grammar.Dominant, 0.1},
	},
	chord.Minor: {
		{grammar.Subdominant, 0.6},
		{grammar.Tonic, 0.3},
		{grammar.Dominant, 0.1},
	},
	chord.HalfDiminished: {
		{grammar.Subdominant, 0.7},
		{grammar.Dominant, 0.3},
	},
	chord.Diminished: {
		{grammar.Dominant, 0.5},
		{grammar.Subdominant, 0.5},
	},
	chord.Augmented: {
		{grammar.Dominant, 0.6},
		{grammar.Tonic, 0.4},
	},
}

// Chord tags chord symbols with harmonic-function categories. Each symbol is
// parsed and its quality looked up in a fixed ambiguity table, so a G7
// yields a likely Dom[G] alongside less likely Ton[G] and Sub[G] readings
// for the chart to arbitrate between.
type Chord struct{}

// NewChord creates the chord tagger.
func NewChord() *Chord { return &Chord{} }

// Tag implements parse.Tagger.
func (t *Chord) Tag(position int, word string) ([]parse.TaggedSign, error) {
	c, err := chord.Parse(word)
	if err != nil {
		return nil, err
	}
	candidates := qualityTable[c.Quality]
	tagged := make([]parse.TaggedSign, 0, len(candidates))
	for _, fp := range candidates {
		cat := grammar.TonalCategory{Function: fp.function, Root: c.Root}
		sg := sign.New(cat, c.Symbol)
		sg.Tag = fp.function.String()
		tagged = append(tagged, parse.TaggedSign{Sign: sg, Probability: fp.prob})
	}
	return tagged, nil
}

// Pretagged serves a fixed tag assignment, one candidate list per input
// position. Useful in tests and for inputs annotated upstream.
type Pretagged struct {
	positions [][]parse.TaggedSign
}

// NewPretagged creates a pretagged source over the given per-position
// candidates.
func NewPretagged(positions [][]parse.TaggedSign) *Pretagged {
	return &Pretagged{positions: positions}
}

// Tag implements parse.Tagger.
func (t *Pretagged) Tag(position int, word string) ([]parse.TaggedSign, error) {
	if position < 0 || position >= len(t.positions) {
		return nil, fmt.Errorf("position %d outside pretagged input of length %d",
			position, len(t.positions))
	}
	return t.positions[position], nil
}
