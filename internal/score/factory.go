package score

import (
	"fmt"

	"github.com/tonalspace/cadenza/internal/chart"
)

// Names lists the selectable strategy names in presentation order.
func Names() []string {
	return []string{"plain", "pcfg", "tagrank"}
}

// ForName builds the named strategy. model is required for "pcfg" and
// ignored by the others; viterbi only affects "pcfg".
func ForName(name string, model Model, viterbi bool) (chart.Strategy, error) {
	switch name {
	case "plain":
		return NewPlain(), nil
	case "pcfg":
		if model == nil {
			return nil, fmt.Errorf("strategy %s requires a probability model", name)
		}
		return NewPCFG(model, viterbi), nil
	case "tagrank":
		return NewTagRank(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (valid: plain, pcfg, tagrank)", name)
	}
}
