package score

import (
	"math"
	"testing"

	"github.com/tonalspace/cadenza/internal/chart"
	"github.com/tonalspace/cadenza/internal/grammar"
	"github.com/tonalspace/cadenza/internal/logmath"
	"github.com/tonalspace/cadenza/internal/sign"
)

type cat string

func (c cat) Label() string { return string(c) }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

// selfGrammar combines two T signs into another T, so an n-token input has
// every binary bracketing as a distinct derivation.
func selfGrammar() *grammar.Grammar {
	pair := grammar.BinaryRuleFunc{RuleName: "pair", Fn: func(l, r *sign.Sign) []*sign.Sign {
		if l.Category == cat("T") && r.Category == cat("T") {
			return []*sign.Sign{sign.New(cat("T"), nil)}
		}
		return nil
	}}
	return &grammar.Grammar{
		Name:        "self",
		BinaryRules: []grammar.Rule{pair},
		IsRoot:      func(c sign.Category) bool { return c == cat("T") },
	}
}

func seedTokens(c *chart.Chart, strategy chart.Strategy, n int) {
	for i := 0; i < n; i++ {
		sg := sign.New(cat("T"), nil)
		sg.Tag = "t"
		strategy.ScoreLexical(sg, "t", 1)
		c.Seed(i, []*sign.Sign{sg}, "t")
	}
}

func fillTokens(t *testing.T, strategy chart.Strategy, n int) *chart.Chart {
	t.Helper()
	c := chart.New(selfGrammar(), strategy, n, chart.Config{Threshold: 1e-12, MaxArc: 0})
	seedTokens(c, strategy, n)
	if err := c.Fill(nil); err != nil {
		t.Fatal(err)
	}
	return c
}

func expansionModel(p float64) *TableModel {
	m := NewTableModel()
	m.SetExpansion(ExpansionRight, "T", p, "T", "T")
	return m
}

func TestPCFGSumsOverBracketings(t *testing.T) {
	// Three unit-probability tokens and a single rule with p = 0.5. Two
	// bracketings exist, each with inside probability 0.25, so the summed
	// inside probability of the top T is 0.5.
	strategy := NewPCFG(expansionModel(0.5), false)
	c := fillTokens(t, strategy, 3)

	parses := c.Parses()
	if len(parses) != 1 {
		t.Fatalf("got %d parses, want 1", len(parses))
	}
	if got := parses[0].InsideProbability; !almostEqual(got, logmath.Log(0.5)) {
		t.Errorf("summed inside probability %v, want ln(0.5)", got)
	}
}

func TestPCFGViterbiKeepsBestBracketing(t *testing.T) {
	strategy := NewPCFG(expansionModel(0.5), true)
	c := fillTokens(t, strategy, 3)

	parses := c.Parses()
	if len(parses) != 1 {
		t.Fatalf("got %d parses, want 1", len(parses))
	}
	// Each bracketing has inside probability 0.25; viterbi keeps one.
	if got := parses[0].InsideProbability; !almostEqual(got, logmath.Log(0.25)) {
		t.Errorf("viterbi inside probability %v, want ln(0.25)", got)
	}
}

func TestPCFGAppliesOutsideProbability(t *testing.T) {
	m := expansionModel(0.5)
	m.SetOutside("T", 0.1)
	strategy := NewPCFG(m, false)
	c := fillTokens(t, strategy, 2)

	parses := c.Parses()
	if len(parses) != 1 {
		t.Fatalf("got %d parses, want 1", len(parses))
	}
	p := parses[0]
	if !almostEqual(p.InsideProbability, logmath.Log(0.5)) {
		t.Errorf("inside probability %v, want ln(0.5)", p.InsideProbability)
	}
	if !almostEqual(p.Probability, logmath.Log(0.05)) {
		t.Errorf("total probability %v, want ln(0.05)", p.Probability)
	}
}

func TestPCFGLexicalModelOverridesTagger(t *testing.T) {
	m := expansionModel(1)
	m.SetLexical("T", "t", 0.25)
	strategy := NewPCFG(m, false)

	sg := sign.New(cat("T"), nil)
	strategy.ScoreLexical(sg, "t", 0.9)
	if !almostEqual(sg.InsideProbability, logmath.Log(0.25)) {
		t.Errorf("lexical inside probability %v, want the model's ln(0.25)", sg.InsideProbability)
	}
}

func TestPCFGFallsBackToTaggerProbability(t *testing.T) {
	strategy := NewPCFG(nonLexicalModel{}, false)

	sg := sign.New(cat("T"), nil)
	strategy.ScoreLexical(sg, "t", 0.4)
	if !almostEqual(sg.InsideProbability, logmath.Log(0.4)) {
		t.Errorf("lexical inside probability %v, want the tagger's ln(0.4)", sg.InsideProbability)
	}
}

// nonLexicalModel implements Model but not LexicalModel.
type nonLexicalModel struct{}

func (nonLexicalModel) InsideProbability(kind Expansion, parent *sign.Sign, children ...*sign.Sign) float64 {
	return 1
}

func (nonLexicalModel) OutsideProbability(*sign.Sign) float64 { return 1 }

func TestPCFGZeroProbabilityExpansion(t *testing.T) {
	strategy := NewPCFG(expansionModel(0), false)
	c := fillTokens(t, strategy, 2)

	parses := c.Parses()
	if len(parses) != 1 {
		t.Fatalf("got %d parses, want 1", len(parses))
	}
	if parses[0].InsideProbability != logmath.Zero {
		t.Errorf("inside probability %v, want log-zero", parses[0].InsideProbability)
	}
}
