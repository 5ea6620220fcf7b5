package sign

import (
	"math"
	"sort"

	"github.com/tonalspace/cadenza/internal/logmath"
)

// Set holds the signs valid for exactly one input span. It enforces the
// category-deduplication contract through a merge policy and provides beam
// pruning over the signs it owns.
//
// Invariant: at most one sign per distinct category among rule-derived
// entries. Seeded lexical signs bypass the merge policy and are deduplicated
// on (category, tag) instead, so the diagonal may legitimately hold several
// signs of one category that came from different tags.
type Set struct {
	policy    MergePolicy
	threshold float64
	maxSize   int
	arena     *Arena

	entries    []*Sign
	byCategory map[Category]*Sign
	seeded     map[seedKey]struct{}

	// beamed is cleared by any insert or removal; ApplyBeam is a no-op while
	// it is still set, making repeated beam calls idempotent.
	beamed bool
}

type seedKey struct {
	cat Category
	tag string
}

// NewSet creates an empty sign set.
//
// threshold is the beam ratio in (0,1]: after beaming, every surviving sign
// satisfies probability >= max + ln(threshold). maxSize caps the number of
// signs kept after the ratio cut; 0 means no hard cap. arena may be nil when
// derivation traces are not being kept.
func NewSet(policy MergePolicy, threshold float64, maxSize int, arena *Arena) *Set {
	return &Set{
		policy:     policy,
		threshold:  threshold,
		maxSize:    maxSize,
		arena:      arena,
		byCategory: make(map[Category]*Sign),
	}
}

// Len returns the number of signs in the set.
func (s *Set) Len() int { return len(s.entries) }

// Insert adds a rule-derived sign to the set. If no existing entry shares
// the sign's category it is appended and Insert returns true. Otherwise the
// merge policy runs on (existing, incoming); a replacement also returns
// true, since the surviving sign is a new one that downstream rules have not
// seen yet. Only a merge into the existing sign returns false, though its
// scores may have changed.
func (s *Set) Insert(sg *Sign) bool {
	s.beamed = false
	existing, ok := s.byCategory[sg.Category]
	if !ok {
		s.append(sg)
		return true
	}
	if s.policy.Merge(existing, sg) {
		// Replacement: the incoming sign inherits the loser's alternative
		// derivations before taking its place.
		if s.arena != nil {
			s.arena.AddAlternatives(sg.Trace(), existing.Trace())
		}
		s.replace(existing, sg)
		return true
	}
	if s.arena != nil {
		s.arena.AddAlternatives(existing.Trace(), sg.Trace())
	}
	return false
}

// Seed adds a lexical sign directly, bypassing the merge policy. Duplicate
// (category, tag) pairs are discarded. Returns true if the sign was added.
func (s *Set) Seed(sg *Sign) bool {
	if s.seeded == nil {
		s.seeded = make(map[seedKey]struct{})
	}
	key := seedKey{sg.Category, sg.Tag}
	if _, ok := s.seeded[key]; ok {
		return false
	}
	s.seeded[key] = struct{}{}
	s.beamed = false
	s.append(sg)
	return true
}

func (s *Set) append(sg *Sign) {
	s.entries = append(s.entries, sg)
	// The category index keeps the first sign stored for a category;
	// rule-derived duplicates merge into that one.
	if _, ok := s.byCategory[sg.Category]; !ok {
		s.byCategory[sg.Category] = sg
	}
}

func (s *Set) replace(old, new *Sign) {
	for i, e := range s.entries {
		if e == old {
			s.entries[i] = new
			break
		}
	}
	s.byCategory[new.Category] = new
}

// Remove removes a sign by identity. Used by beam pruning.
func (s *Set) Remove(sg *Sign) {
	for i, e := range s.entries {
		if e == sg {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.beamed = false
			break
		}
	}
	if s.byCategory[sg.Category] == sg {
		delete(s.byCategory, sg.Category)
		// The diagonal can hold another sign of the same category under a
		// different tag; keep the index pointing at one of them.
		for _, e := range s.entries {
			if e.Category == sg.Category {
				s.byCategory[sg.Category] = e
				break
			}
		}
	}
}

// Values returns the signs in the set in insertion order.
func (s *Set) Values() []*Sign {
	out := make([]*Sign, len(s.entries))
	copy(out, s.entries)
	return out
}

// ByCategory returns the sign stored for a category, or nil.
func (s *Set) ByCategory(c Category) *Sign {
	return s.byCategory[c]
}

// Ranked returns the signs sorted by probability descending. Ties keep
// insertion order, so top-n extraction is reproducible.
func (s *Set) Ranked() []*Sign {
	out := s.Values()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	return out
}

// MaxProbability returns the highest probability in the set, or log-zero for
// an empty set.
func (s *Set) MaxProbability() float64 {
	max := logmath.Zero
	for _, e := range s.entries {
		if e.Probability > max {
			max = e.Probability
		}
	}
	return max
}

// ApplyBeam prunes the set: first every sign whose probability falls below
// max + ln(threshold), then, if a hard cap is configured, everything beyond
// the maxSize highest-probability signs. A no-op on an empty set and a true
// no-op when nothing was inserted or removed since the last application.
func (s *Set) ApplyBeam() int {
	if s.beamed || len(s.entries) == 0 {
		return 0
	}
	removed := 0
	cutoff := s.MaxProbability() + math.Log(s.threshold)
	for _, sg := range s.Values() {
		if sg.Probability < cutoff {
			s.Remove(sg)
			removed++
		}
	}
	if s.maxSize != 0 && len(s.entries) > s.maxSize {
		ranked := s.Ranked()
		for _, sg := range ranked[s.maxSize:] {
			s.Remove(sg)
			removed++
		}
	}
	s.beamed = true
	return removed
}
