// Package score implements the three scoring strategies the chart engine
// can be configured with (plain, PCFG inside-outside, tag-rank max-product)
// and the probability model interface the PCFG strategy consumes.
package score

import (
	"strings"

	"github.com/tonalspace/cadenza/internal/sign"
)

// Expansion names the kind of tree expansion a probability is asked for.
type Expansion string

const (
	// ExpansionLeaf is a lexical expansion: category -> word.
	ExpansionLeaf Expansion = "leaf"

	// ExpansionUnary is a one-child expansion: parent -> child.
	ExpansionUnary Expansion = "unary"

	// ExpansionRight is a two-child expansion, named for the head direction
	// the underlying model conditions on.
	ExpansionRight Expansion = "right"
)

// Model supplies ordinary (non-log) probabilities in [0,1] for PCFG scoring.
// The chart stores their logs; models never deal in log space.
type Model interface {
	// InsideProbability returns the probability of expanding parent into the
	// given children, ignoring outside context.
	InsideProbability(kind Expansion, parent *sign.Sign, children ...*sign.Sign) float64

	// OutsideProbability returns the probability contribution of everything
	// outside the sign's sub-derivation.
	OutsideProbability(s *sign.Sign) float64
}

// LexicalModel is implemented by models that assign their own lexical
// probabilities. When the model does not, the PCFG strategy falls back to
// the probability the tagger supplied with each sign.
type LexicalModel interface {
	LexicalProbability(s *sign.Sign, word string) float64
}

// TableModel is a Model backed by explicit probability tables keyed by
// category labels. Missing entries fall back to per-kind defaults, which
// makes small hand-built models practical: set the probabilities you care
// about and let everything else default.
type TableModel struct {
	expansions map[string]float64
	lexical    map[string]float64
	outside    map[string]float64

	// Fallbacks used when no table entry matches.
	FallbackExpansion float64
	FallbackLexical   float64
	FallbackOutside   float64
}

// NewTableModel creates a table model whose fallbacks are all 1, i.e. a
// model that is maximally permissive until probabilities are set.
func NewTableModel() *TableModel {
	return &TableModel{
		expansions:        make(map[string]float64),
		lexical:           make(map[string]float64),
		outside:           make(map[string]float64),
		FallbackExpansion: 1,
		FallbackLexical:   1,
		FallbackOutside:   1,
	}
}

func expansionKey(kind Expansion, parent string, children ...string) string {
	return string(kind) + "|" + parent + "|" + strings.Join(children, "|")
}

// SetExpansion sets the probability of expanding parent into children under
// the given expansion kind. Labels are category labels.
func (m *TableModel) SetExpansion(kind Expansion, parent string, p float64, children ...string) {
	m.expansions[expansionKey(kind, parent, children...)] = p
}

// SetLexical sets the probability of a category label generating a word.
func (m *TableModel) SetLexical(category, word string, p float64) {
	m.lexical[category+"|"+word] = p
}

// SetOutside sets the outside probability for a category label.
func (m *TableModel) SetOutside(category string, p float64) {
	m.outside[category] = p
}

// InsideProbability implements Model.
func (m *TableModel) InsideProbability(kind Expansion, parent *sign.Sign, children ...*sign.Sign) float64 {
	labels := make([]string, len(children))
	for i, c := range children {
		labels[i] = c.Category.Label()
	}
	if p, ok := m.expansions[expansionKey(kind, parent.Category.Label(), labels...)]; ok {
		return p
	}
	return m.FallbackExpansion
}

// OutsideProbability implements Model.
func (m *TableModel) OutsideProbability(s *sign.Sign) float64 {
	if p, ok := m.outside[s.Category.Label()]; ok {
		return p
	}
	return m.FallbackOutside
}

// LexicalProbability implements LexicalModel.
func (m *TableModel) LexicalProbability(s *sign.Sign, word string) float64 {
	if p, ok := m.lexical[s.Category.Label()+"|"+word]; ok {
		return p
	}
	return m.FallbackLexical
}
