package model

import (
	"time"

	"github.com/google/uuid"
)

// Report is the result of parsing one chord sequence.
type Report struct {
	ID        string        `json:"id" yaml:"id"`
	Input     string        `json:"input" yaml:"input"`
	Tokens    []string      `json:"tokens" yaml:"tokens"`
	Strategy  string        `json:"strategy" yaml:"strategy"`
	TimedOut  bool          `json:"timed_out" yaml:"timed_out"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Parses    []Parse       `json:"parses" yaml:"parses"`
}

// Parse is one complete analysis within a report, ranked from 1.
type Parse struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Category string `json:"category" yaml:"category"`

	// Semantics is the string form of the analysis's semantic payload.
	Semantics string `json:"semantics" yaml:"semantics"`

	// LogProbability is the natural-log score; Probability is its ordinary
	// form, which underflows to 0 for very long inputs and is informational
	// only.
	LogProbability float64 `json:"log_probability" yaml:"log_probability"`
	Probability    float64 `json:"probability" yaml:"probability"`

	// Derivation is the bracketed derivation trace, when traces are enabled.
	Derivation string `json:"derivation,omitempty" yaml:"derivation,omitempty"`
}

// NewReport creates an empty report for an input with a fresh id.
func NewReport(input string, tokens []string, strategy string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Input:     input,
		Tokens:    tokens,
		Strategy:  strategy,
		CreatedAt: time.Now().UTC(),
	}
}
