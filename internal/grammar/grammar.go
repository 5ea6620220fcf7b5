// Package grammar defines the rule and grammar types the chart engine
// consumes, together with the built-in tonal-function grammar used by the
// CLI. Grammars are constructed programmatically; there is no grammar file
// format.
package grammar

import (
	"fmt"

	"github.com/tonalspace/cadenza/internal/sign"
)

// Rule is a single grammar rule. Apply takes exactly Arity antecedent signs
// and returns the derived signs. A nil result with a nil error means the
// rule is structurally inapplicable to the inputs; a non-nil error means the
// grammar is misconfigured and must propagate.
type Rule interface {
	Name() string
	Arity() int
	Apply(signs []*sign.Sign) ([]*sign.Sign, error)
}

// RuleError reports a rule invoked in a way its definition forbids, such as
// an arity mismatch. It always indicates a misconfigured grammar, never an
// unparseable input.
type RuleError struct {
	Rule string
	Msg  string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Msg)
}

// Grammar carries the rule set and the root-category predicate the parser
// uses when extracting complete parses from the top cell.
type Grammar struct {
	Name        string
	UnaryRules  []Rule
	BinaryRules []Rule

	// IsRoot reports whether a category represents a complete parse of the
	// whole input.
	IsRoot func(c sign.Category) bool
}

// UnaryRuleFunc adapts a function to the Rule interface for arity-1 rules.
type UnaryRuleFunc struct {
	RuleName string
	Fn       func(s *sign.Sign) []*sign.Sign
}

func (r UnaryRuleFunc) Name() string { return r.RuleName }
func (r UnaryRuleFunc) Arity() int   { return 1 }

func (r UnaryRuleFunc) Apply(signs []*sign.Sign) ([]*sign.Sign, error) {
	if len(signs) != 1 {
		return nil, &RuleError{Rule: r.RuleName, Msg: fmt.Sprintf("arity 1, got %d signs", len(signs))}
	}
	return r.Fn(signs[0]), nil
}

// BinaryRuleFunc adapts a function to the Rule interface for arity-2 rules.
type BinaryRuleFunc struct {
	RuleName string
	Fn       func(left, right *sign.Sign) []*sign.Sign
}

func (r BinaryRuleFunc) Name() string { return r.RuleName }
func (r BinaryRuleFunc) Arity() int   { return 2 }

func (r BinaryRuleFunc) Apply(signs []*sign.Sign) ([]*sign.Sign, error) {
	if len(signs) != 2 {
		return nil, &RuleError{Rule: r.RuleName, Msg: fmt.Sprintf("arity 2, got %d signs", len(signs))}
	}
	return r.Fn(signs[0], signs[1]), nil
}
