package grammar

import (
	"fmt"

	"github.com/tonalspace/cadenza/internal/chord"
	"github.com/tonalspace/cadenza/internal/sign"
)

// Function is the harmonic function of a tonal category.
type Function int

const (
	Tonic Function = iota
	Subdominant
	Dominant
)

func (f Function) String() string {
	switch f {
	case Tonic:
		return "Ton"
	case Subdominant:
		return "Sub"
	case Dominant:
		return "Dom"
	}
	return "?"
}

// TonalCategory is an atomic category of the built-in grammar: a harmonic
// function rooted at a pitch class, e.g. Dom[G]. Being a small value type it
// is directly usable as a deduplication key.
type TonalCategory struct {
	Function Function
	Root     chord.Class
}

func (c TonalCategory) Label() string {
	return fmt.Sprintf("%s[%s]", c.Function, c.Root.Name())
}

// interval returns the number of semitones from b up to a, mod 12.
func interval(a, b chord.Class) int {
	return ((int(a) - int(b)) % 12 + 12) % 12
}

func derived(cat TonalCategory, semantics string) []*sign.Sign {
	return []*sign.Sign{sign.New(cat, semantics)}
}

func sem(s *sign.Sign) string {
	str, _ := s.Semantics.(string)
	return str
}

// Tonal returns the built-in tonal-function grammar. Categories are harmonic
// functions over the 12 pitch classes; the rules cover the cadences and
// preparations that account for most of a lead sheet:
//
//	cadence   Dom[G]  Ton[C] -> Ton[C]   (dominant a fifth above the tonic)
//	plagal    Sub[F]  Ton[C] -> Ton[C]
//	prep      Sub[D]  Dom[G] -> Dom[G]   (ii-V preparation)
//	chain     Dom[D]  Dom[G] -> Dom[G]   (extended dominants)
//	extend    Ton[C]  Ton[C] -> Ton[C]
//	tritone   Dom[G] -> Dom[Db]          (unary substitution)
func Tonal() *Grammar {
	cadence := BinaryRuleFunc{"cadence", func(l, r *sign.Sign) []*sign.Sign {
		dom, ok := l.Category.(TonalCategory)
		ton, ok2 := r.Category.(TonalCategory)
		if !ok || !ok2 || dom.Function != Dominant || ton.Function != Tonic {
			return nil
		}
		if interval(dom.Root, ton.Root) != 7 {
			return nil
		}
		return derived(ton, fmt.Sprintf("(V->I %s %s)", sem(l), sem(r)))
	}}

	plagal := BinaryRuleFunc{"plagal", func(l, r *sign.Sign) []*sign.Sign {
		sub, ok := l.Category.(TonalCategory)
		ton, ok2 := r.Category.(TonalCategory)
		if !ok || !ok2 || sub.Function != Subdominant || ton.Function != Tonic {
			return nil
		}
		if interval(sub.Root, ton.Root) != 5 {
			return nil
		}
		return derived(ton, fmt.Sprintf("(IV->I %s %s)", sem(l), sem(r)))
	}}

	prep := BinaryRuleFunc{"prep", func(l, r *sign.Sign) []*sign.Sign {
		sub, ok := l.Category.(TonalCategory)
		dom, ok2 := r.Category.(TonalCategory)
		if !ok || !ok2 || sub.Function != Subdominant || dom.Function != Dominant {
			return nil
		}
		if interval(sub.Root, dom.Root) != 7 {
			return nil
		}
		return derived(dom, fmt.Sprintf("(ii->V %s %s)", sem(l), sem(r)))
	}}

	chain := BinaryRuleFunc{"chain", func(l, r *sign.Sign) []*sign.Sign {
		outer, ok := l.Category.(TonalCategory)
		inner, ok2 := r.Category.(TonalCategory)
		if !ok || !ok2 || outer.Function != Dominant || inner.Function != Dominant {
			return nil
		}
		if interval(outer.Root, inner.Root) != 7 {
			return nil
		}
		return derived(inner, fmt.Sprintf("(V/V %s %s)", sem(l), sem(r)))
	}}

	extend := BinaryRuleFunc{"extend", func(l, r *sign.Sign) []*sign.Sign {
		a, ok := l.Category.(TonalCategory)
		b, ok2 := r.Category.(TonalCategory)
		if !ok || !ok2 || a.Function != Tonic || a != b {
			return nil
		}
		return derived(a, fmt.Sprintf("(I+I %s %s)", sem(l), sem(r)))
	}}

	tritone := UnaryRuleFunc{"tritone", func(s *sign.Sign) []*sign.Sign {
		dom, ok := s.Category.(TonalCategory)
		if !ok || dom.Function != Dominant {
			return nil
		}
		sub := TonalCategory{Function: Dominant, Root: dom.Root.Add(6)}
		return derived(sub, fmt.Sprintf("(tsub %s)", sem(s)))
	}}

	return &Grammar{
		Name:        "tonal",
		UnaryRules:  []Rule{tritone},
		BinaryRules: []Rule{cadence, plagal, prep, chain, extend},
		IsRoot: func(c sign.Category) bool {
			tc, ok := c.(TonalCategory)
			return ok && tc.Function == Tonic
		},
	}
}
