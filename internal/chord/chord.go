// Package chord parses chord symbols ("Dm7", "G7", "Cmaj7") into the root
// pitch class and coarse quality the tagger works from. It deliberately
// ignores extensions and alterations beyond what changes harmonic function.
package chord

import (
	"fmt"
	"strings"
)

// Class is a pitch class, 0 (C) through 11 (B).
type Class int

var classNames = [12]string{
	"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B",
}

// Name returns the conventional (flat-preferring) name of the pitch class.
func (c Class) Name() string {
	return classNames[((int(c)%12)+12)%12]
}

// Add transposes the pitch class by an interval in semitones.
func (c Class) Add(semitones int) Class {
	return Class((((int(c) + semitones) % 12) + 12) % 12)
}

// Quality is the coarse chord quality the tagger distinguishes.
type Quality int

const (
	Major Quality = iota
	Minor
	Dominant
	Diminished
	HalfDiminished
	Augmented
)

func (q Quality) String() string {
	switch q {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Dominant:
		return "dominant"
	case Diminished:
		return "diminished"
	case HalfDiminished:
		return "half-diminished"
	case Augmented:
		return "augmented"
	}
	return "unknown"
}

// Chord is one parsed chord symbol.
type Chord struct {
	Root    Class
	Quality Quality

	// Symbol is the input text the chord was parsed from.
	Symbol string
}

func (c Chord) String() string { return c.Symbol }

var naturals = map[byte]Class{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Parse parses a single chord symbol. The root is a letter A-G with optional
// sharps/flats; the remainder is matched against common quality spellings.
func Parse(symbol string) (Chord, error) {
	sym := strings.TrimSpace(symbol)
	if sym == "" {
		return Chord{}, fmt.Errorf("empty chord symbol")
	}
	root, ok := naturals[sym[0]]
	if !ok {
		return Chord{}, fmt.Errorf("chord %q: root must be A-G", symbol)
	}
	rest := sym[1:]
	for len(rest) > 0 {
		if rest[0] == '#' {
			root = root.Add(1)
		} else if rest[0] == 'b' {
			root = root.Add(-1)
		} else {
			break
		}
		rest = rest[1:]
	}
	quality, err := parseQuality(rest)
	if err != nil {
		return Chord{}, fmt.Errorf("chord %q: %w", symbol, err)
	}
	return Chord{Root: root, Quality: quality, Symbol: sym}, nil
}

func parseQuality(s string) (Quality, error) {
	switch {
	case s == "" || s == "6" || strings.HasPrefix(s, "maj") ||
		strings.HasPrefix(s, "M7") || strings.HasPrefix(s, "M9") ||
		strings.HasPrefix(s, "69"):
		return Major, nil
	case strings.HasPrefix(s, "m7b5") || strings.HasPrefix(s, "min7b5") ||
		strings.HasPrefix(s, "%") || strings.HasPrefix(s, "ø"):
		return HalfDiminished, nil
	case strings.HasPrefix(s, "dim") || strings.HasPrefix(s, "o7") || s == "o":
		return Diminished, nil
	case strings.HasPrefix(s, "aug") || strings.HasPrefix(s, "+"):
		return Augmented, nil
	case strings.HasPrefix(s, "m") && !strings.HasPrefix(s, "maj"):
		return Minor, nil
	case strings.HasPrefix(s, "7") || strings.HasPrefix(s, "9") ||
		strings.HasPrefix(s, "11") || strings.HasPrefix(s, "13") ||
		strings.HasPrefix(s, "sus") || strings.HasPrefix(s, "alt"):
		return Dominant, nil
	}
	return Major, fmt.Errorf("unrecognized quality %q", s)
}

// ParseSequence splits an input line into chord symbols and parses each one.
// Whitespace and bar lines ("|") both act as separators, so lead-sheet style
// input like "Dm7 G7 | Cmaj7" works directly.
func ParseSequence(input string) ([]Chord, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '|' || r == ','
	})
	chords := make([]Chord, 0, len(fields))
	for i, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		chords = append(chords, c)
	}
	return chords, nil
}
