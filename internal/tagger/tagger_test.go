package tagger

import (
	"math"
	"testing"

	"github.com/tonalspace/cadenza/internal/grammar"
	"github.com/tonalspace/cadenza/internal/parse"
	"github.com/tonalspace/cadenza/internal/sign"
)

func TestChordTagsDominantSeventh(t *testing.T) {
	tg := NewChord()
	tagged, err := tg.Tag(0, "G7")
	if err != nil {
		t.Fatal(err)
	}
	if len(tagged) != 3 {
		t.Fatalf("G7 got %d candidates, want 3", len(tagged))
	}

	top := tagged[0]
	cat, ok := top.Sign.Category.(grammar.TonalCategory)
	if !ok {
		t.Fatalf("candidate category %T, want TonalCategory", top.Sign.Category)
	}
	if cat.Function != grammar.Dominant || cat.Root != 7 {
		t.Errorf("top candidate %s, want Dom[G]", cat.Label())
	}
	if top.Probability != 0.75 {
		t.Errorf("top candidate probability %v, want 0.75", top.Probability)
	}
	if top.Sign.Tag != "Dom" {
		t.Errorf("top candidate tag %q, want Dom", top.Sign.Tag)
	}
}

func TestChordProbabilitiesSumToOne(t *testing.T) {
	tg := NewChord()
	for _, symbol := range []string{"G7", "Cmaj7", "Dm7", "Bm7b5", "Bdim", "Caug"} {
		tagged, err := tg.Tag(0, symbol)
		if err != nil {
			t.Fatalf("%s: %v", symbol, err)
		}
		sum := 0.0
		for _, ts := range tagged {
			sum += ts.Probability
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("%s: candidate probabilities sum to %v, want 1", symbol, sum)
		}
	}
}

func TestChordCandidatesShareRoot(t *testing.T) {
	tg := NewChord()
	tagged, err := tg.Tag(0, "Ebmaj7")
	if err != nil {
		t.Fatal(err)
	}
	for _, ts := range tagged {
		cat := ts.Sign.Category.(grammar.TonalCategory)
		if cat.Root != 3 {
			t.Errorf("candidate %s has wrong root, want Eb", cat.Label())
		}
		if ts.Sign.Semantics != "Ebmaj7" {
			t.Errorf("candidate semantics %v, want the chord symbol", ts.Sign.Semantics)
		}
	}
}

func TestChordRejectsMalformedSymbol(t *testing.T) {
	tg := NewChord()
	if _, err := tg.Tag(0, "X7"); err == nil {
		t.Error("malformed symbol tagged without error")
	}
}

func TestPretagged(t *testing.T) {
	sg := sign.New(grammar.TonalCategory{Function: grammar.Tonic, Root: 0}, "C")
	tg := NewPretagged([][]parse.TaggedSign{
		{{Sign: sg, Probability: 1}},
	})

	tagged, err := tg.Tag(0, "C")
	if err != nil {
		t.Fatal(err)
	}
	if len(tagged) != 1 || tagged[0].Sign != sg {
		t.Errorf("pretagged returned %v", tagged)
	}

	if _, err := tg.Tag(1, "C"); err == nil {
		t.Error("out-of-range position accepted")
	}
	if _, err := tg.Tag(-1, "C"); err == nil {
		t.Error("negative position accepted")
	}
}
