package sign

import (
	"fmt"
	"strings"
)

// TraceID indexes a derivation trace node in an Arena.
type TraceID int

// TraceNone marks a sign that carries no derivation trace.
const TraceNone TraceID = -1

// Derivation records one way a trace node's sign was produced: the rule that
// fired and the trace nodes of its antecedents.
type Derivation struct {
	Rule     string
	Children []TraceID
}

// TraceNode is one node of a derivation forest. A merged sign accumulates
// every alternative derivation that produced its category; the list is
// append-only.
type TraceNode struct {
	// Label is the category label of the sign the node describes.
	Label string

	// Word is the input token for lexical nodes, empty otherwise.
	Word string

	Derivations []Derivation
}

// Arena owns the trace nodes for one chart. Nodes are indexed by integer id
// rather than linked by pointers, so very large derivation forests neither
// recurse deeply on teardown nor keep signs alive through back-references.
type Arena struct {
	nodes []TraceNode
}

// NewArena creates an empty trace arena.
func NewArena() *Arena {
	return &Arena{}
}

// Leaf records a lexical trace node for a sign read directly off the input.
func (a *Arena) Leaf(label, word string) TraceID {
	a.nodes = append(a.nodes, TraceNode{Label: label, Word: word})
	return TraceID(len(a.nodes) - 1)
}

// Derive records a trace node for a sign produced by a rule application.
func (a *Arena) Derive(label, rule string, children ...TraceID) TraceID {
	a.nodes = append(a.nodes, TraceNode{
		Label:       label,
		Derivations: []Derivation{{Rule: rule, Children: children}},
	})
	return TraceID(len(a.nodes) - 1)
}

// AddAlternatives appends src's derivations to dst. Used when a sign merges
// into an existing one so the survivor remembers both derivation paths.
func (a *Arena) AddAlternatives(dst, src TraceID) {
	if dst == TraceNone || src == TraceNone || dst == src {
		return
	}
	a.nodes[dst].Derivations = append(a.nodes[dst].Derivations,
		a.nodes[src].Derivations...)
}

// Node returns the trace node for an id. The returned pointer is valid until
// the next node is added.
func (a *Arena) Node(id TraceID) *TraceNode {
	return &a.nodes[id]
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// Format renders the first derivation of a trace as a bracketed string, e.g.
// "(cadence (prep Dm7:Sub[D] G7:Dom[G]) Cmaj7:Ton[C])".
func (a *Arena) Format(id TraceID) string {
	if id == TraceNone {
		return ""
	}
	var b strings.Builder
	a.format(&b, id)
	return b.String()
}

func (a *Arena) format(b *strings.Builder, id TraceID) {
	n := a.Node(id)
	if len(n.Derivations) == 0 {
		fmt.Fprintf(b, "%s:%s", n.Word, n.Label)
		return
	}
	d := n.Derivations[0]
	b.WriteByte('(')
	b.WriteString(d.Rule)
	for _, c := range d.Children {
		b.WriteByte(' ')
		a.format(b, c)
	}
	b.WriteByte(')')
}
