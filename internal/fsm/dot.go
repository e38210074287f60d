package fsm

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT prints a Graphviz digraph of a to w. Final states are double
// circles and Epsilon moves are labeled ε.
func WriteDOT(w io.Writer, a Automaton) error {
	var b strings.Builder
	fmt.Fprintln(&b, "digraph G {")
	fmt.Fprintln(&b, "    rankdir=LR;")

	finals := toSet(a.Finals())
	for _, q := range a.States() {
		shape := "circle"
		if _, ok := finals[q]; ok {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "    q%d [shape=%s];\n", q, shape)
	}
	for _, t := range a.Transitions() {
		fmt.Fprintf(&b, "    q%d -> q%d [label=\"%s\"];\n", t.From, t.To, dotLabel(t.Symbol))
	}
	fmt.Fprintf(&b, "    _start [shape=point]; _start -> q%d;\n", a.Initial())
	fmt.Fprintln(&b, "}")

	_, err := io.WriteString(w, b.String())
	return err
}

func dotLabel(r rune) string {
	switch r {
	case Epsilon:
		return "ε"
	case '"', '\\':
		return `\` + string(r)
	case '\n':
		return `\\n`
	case '\t':
		return `\\t`
	}
	return string(r)
}
