package score

import (
	"github.com/tonalspace/cadenza/internal/logmath"
	"github.com/tonalspace/cadenza/internal/sign"
)

// TagRank is a lightweight ranking heuristic: a derived sign's score is the
// product of its antecedents' scores, seeded from the tagger's lexical
// probabilities, and duplicate categories keep the maximum. The scores order
// parses by the quality of the tag assignments underneath them; they are not
// probability masses and need no grammar model.
type TagRank struct{}

// NewTagRank creates the tag-rank strategy.
func NewTagRank() *TagRank { return &TagRank{} }

func (*TagRank) Name() string { return "tagrank" }

func (*TagRank) Scored() bool { return true }

func (*TagRank) ScoreLexical(s *sign.Sign, word string, tagProb float64) {
	s.Probability = logmath.Log(tagProb)
	s.InsideProbability = s.Probability
}

func (*TagRank) ScoreUnary(result, arg *sign.Sign) {
	result.Probability = arg.Probability
	result.InsideProbability = result.Probability
}

func (*TagRank) ScoreBinary(result, left, right *sign.Sign) {
	result.Probability = left.Probability + right.Probability
	result.InsideProbability = result.Probability
}

func (*TagRank) Policy() sign.MergePolicy { return sign.MaxProbability{} }
