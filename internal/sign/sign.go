// Package sign holds the analysis objects produced during chart parsing: the
// Sign itself, the per-span Set with its category-deduplication and merge
// contract, the merge policies used by the scoring strategies, and the
// derivation trace arena.
package sign

import "fmt"

// Category identifies the syntactic type of a sign. Implementations must be
// comparable values: categories are used directly as map keys for
// deduplication.
type Category interface {
	Label() string
}

// Sign is one candidate analysis spanning a contiguous range of input
// tokens. A sign is created either by the tagger (lexical signs) or by rule
// application (derived signs). After creation only the two score fields are
// ever mutated, and only by the merge policy of the set that owns the sign.
type Sign struct {
	Category Category

	// Tag names the lexical or derivational source of the sign, as reported
	// by the tagger. Empty for derived signs.
	Tag string

	// Semantics is the opaque semantic payload carried alongside the
	// category. The chart never inspects it.
	Semantics any

	// Probability is the sign's total score as a natural-log probability.
	Probability float64

	// InsideProbability is the natural-log probability of the sub-derivation
	// alone, excluding outside context.
	InsideProbability float64

	trace   TraceID
	applied map[appliedKey]struct{}
}

// appliedKey records one rule application attempt so it is never repeated
// for the same sign (and, for binary rules, the same partner).
type appliedKey struct {
	rule    string
	partner *Sign
}

// New creates a sign with the given category and semantic payload. Scores
// default to log(1); the scoring strategy overwrites them before the sign is
// inserted into a chart cell.
func New(cat Category, semantics any) *Sign {
	return &Sign{
		Category:  cat,
		Semantics: semantics,
		trace:     TraceNone,
	}
}

// Trace returns the id of the sign's derivation trace node, or TraceNone.
func (s *Sign) Trace() TraceID { return s.trace }

// SetTrace attaches a derivation trace node to the sign.
func (s *Sign) SetTrace(id TraceID) { s.trace = id }

// RuleApplied reports whether the named rule has already been tried on this
// sign. For binary rules, partner is the right-hand sign of the attempted
// pair; for unary rules it is nil.
func (s *Sign) RuleApplied(rule string, partner *Sign) bool {
	if s.applied == nil {
		return false
	}
	_, ok := s.applied[appliedKey{rule, partner}]
	return ok
}

// NoteRuleApplied records that the named rule has been tried on this sign,
// so repeat applications can be skipped. They would only rederive signs that
// are already in the chart.
func (s *Sign) NoteRuleApplied(rule string, partner *Sign) {
	if s.applied == nil {
		s.applied = make(map[appliedKey]struct{})
	}
	s.applied[appliedKey{rule, partner}] = struct{}{}
}

func (s *Sign) String() string {
	if s.Tag != "" {
		return fmt.Sprintf("%s/%s", s.Category.Label(), s.Tag)
	}
	return s.Category.Label()
}
