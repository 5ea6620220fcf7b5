package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tonalspace/cadenza/internal/model"
)

// RenderJSON writes a report as indented JSON.
func RenderJSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderText writes a report in a human-readable form.
func RenderText(w io.Writer, r *model.Report) error {
	fmt.Fprintf(w, "Input:    %s\n", r.Input)
	fmt.Fprintf(w, "Strategy: %s\n", r.Strategy)
	fmt.Fprintf(w, "Duration: %s\n", r.Duration)
	if r.TimedOut {
		fmt.Fprintln(w, "Status:   timed out (partial results)")
	}
	if len(r.Parses) == 0 {
		fmt.Fprintln(w, "No complete parse.")
		return nil
	}
	for _, p := range r.Parses {
		fmt.Fprintf(w, "\n#%d  %s  (log p = %.4f)\n", p.Rank, p.Category, p.LogProbability)
		fmt.Fprintf(w, "    %s\n", p.Semantics)
		if p.Derivation != "" {
			fmt.Fprintf(w, "    %s\n", p.Derivation)
		}
	}
	return nil
}
