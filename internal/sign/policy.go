package sign

import "github.com/tonalspace/cadenza/internal/logmath"

// MergePolicy decides what happens when a sign is inserted into a set that
// already holds a sign with the same category. Merge either folds incoming
// into existing (returning false) or asks for incoming to replace existing
// outright (returning true). Merging is commutative and associative in
// log-probability space, so insertion order never changes the final scores.
type MergePolicy interface {
	Merge(existing, incoming *Sign) bool
}

// FirstWins discards the incoming duplicate. Used by the unweighted
// strategy, where there are no scores to compare: the first derivation of a
// category stands for all of them.
type FirstWins struct{}

func (FirstWins) Merge(existing, incoming *Sign) bool { return false }

// LogSum accumulates duplicate derivations by summing their probabilities in
// log space. The surviving sign's scores then represent the probability of
// the category over all derivations that produced it.
type LogSum struct{}

func (LogSum) Merge(existing, incoming *Sign) bool {
	existing.Probability = logmath.Add(existing.Probability, incoming.Probability)
	existing.InsideProbability = logmath.Add(existing.InsideProbability,
		incoming.InsideProbability)
	return false
}

// MaxProbability keeps the probability of the most likely derivation path.
// The result is a ranking score, not a probability mass.
type MaxProbability struct{}

func (MaxProbability) Merge(existing, incoming *Sign) bool {
	if incoming.Probability > existing.Probability {
		existing.Probability = incoming.Probability
	}
	return false
}

// ViterbiReplace keeps the single best derivation per category, judged by
// inside probability: a strictly better incoming sign replaces the existing
// one, anything else is discarded.
type ViterbiReplace struct{}

func (ViterbiReplace) Merge(existing, incoming *Sign) bool {
	return incoming.InsideProbability > existing.InsideProbability
}
