package score

import "github.com/tonalspace/cadenza/internal/sign"

// Plain is the unweighted strategy: no scores, no beaming, first derivation
// of a category wins. It answers the yes/no question of whether the grammar
// accepts the input at all.
type Plain struct{}

// NewPlain creates the unweighted strategy.
func NewPlain() *Plain { return &Plain{} }

func (*Plain) Name() string { return "plain" }

func (*Plain) Scored() bool { return false }

func (*Plain) ScoreLexical(s *sign.Sign, word string, tagProb float64) {}

func (*Plain) ScoreUnary(result, arg *sign.Sign) {}

func (*Plain) ScoreBinary(result, left, right *sign.Sign) {}

func (*Plain) Policy() sign.MergePolicy { return sign.FirstWins{} }
