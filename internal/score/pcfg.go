package score

import (
	"github.com/tonalspace/cadenza/internal/logmath"
	"github.com/tonalspace/cadenza/internal/sign"
)

// PCFG scores signs with a probabilistic grammar model. Each derived sign's
// inside probability is the product of its children's inside probabilities
// and the model's expansion probability; the total probability further
// multiplies in the model's outside estimate. All arithmetic happens in
// natural-log space on the sign's score fields.
//
// By default duplicate categories sum their probability mass, so a sign's
// score is the probability of its category over every derivation. In
// viterbi mode duplicates instead keep the single best derivation by inside
// probability, which preserves exact derivation traces at the cost of the
// summed mass.
type PCFG struct {
	model   Model
	viterbi bool
}

// NewPCFG creates a PCFG strategy over the given model. viterbi selects
// best-derivation merging instead of probability summing.
func NewPCFG(model Model, viterbi bool) *PCFG {
	return &PCFG{model: model, viterbi: viterbi}
}

func (p *PCFG) Name() string {
	if p.viterbi {
		return "pcfg-viterbi"
	}
	return "pcfg"
}

func (*PCFG) Scored() bool { return true }

// ScoreLexical sets a lexical sign's inside probability from the model when
// it supplies lexical probabilities, falling back to the tagger's
// probability otherwise.
func (p *PCFG) ScoreLexical(s *sign.Sign, word string, tagProb float64) {
	prob := tagProb
	if lex, ok := p.model.(LexicalModel); ok {
		prob = lex.LexicalProbability(s, word)
	}
	s.InsideProbability = logmath.Log(prob)
	p.total(s)
}

func (p *PCFG) ScoreUnary(result, arg *sign.Sign) {
	expansion := logmath.Log(p.model.InsideProbability(ExpansionUnary, result, arg))
	result.InsideProbability = expansion + arg.InsideProbability
	p.total(result)
}

func (p *PCFG) ScoreBinary(result, left, right *sign.Sign) {
	expansion := logmath.Log(p.model.InsideProbability(ExpansionRight, result, left, right))
	result.InsideProbability = expansion + left.InsideProbability + right.InsideProbability
	p.total(result)
}

func (p *PCFG) total(s *sign.Sign) {
	s.Probability = s.InsideProbability + logmath.Log(p.model.OutsideProbability(s))
}

func (p *PCFG) Policy() sign.MergePolicy {
	if p.viterbi {
		return sign.ViterbiReplace{}
	}
	return sign.LogSum{}
}
