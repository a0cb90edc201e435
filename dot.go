package fsm

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT writes a Graphviz DOT rendering of the DFA.
func WriteDOT(w io.Writer, d *DFA) error {
	description := d.Description
	if description == "" {
		description = d.Name
	}
	if err := writeDOTHeader(w, d.Name, description); err != nil {
		return err
	}

	states := d.States()
	for _, s := range states {
		if err := writeDOTState(w, s); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "    __start -> \"%s\";\n", escapeDOT(states[d.start].Key)); err != nil {
		return err
	}

	for _, e := range d.Edges() {
		if err := writeDOTEdge(w, states[e.From].Key, states[e.To].Key, e.Label); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteNFADOT writes a Graphviz DOT rendering of the NFA. ε-moves render
// with the symbol ε alongside any character labels.
func WriteNFADOT(w io.Writer, n *NFA, name, description string) error {
	if description == "" {
		description = name
	}
	if err := writeDOTHeader(w, name, description); err != nil {
		return err
	}

	states := n.States()
	for _, s := range states {
		if err := writeDOTState(w, s); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "    __start -> \"%s\";\n", escapeDOT(states[n.startState].Key)); err != nil {
		return err
	}

	for _, e := range n.Edges() {
		if err := writeDOTEdge(w, states[e.From].Key, states[e.To].Key, e.Label); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func writeDOTHeader(w io.Writer, name, label string) error {
	if _, err := fmt.Fprintf(w, "digraph \"%s\" {\n", escapeDOT(name)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "    rankdir=LR;"); err != nil {
		return err
	}
	label = strings.ReplaceAll(escapeDOT(label), "\n", "\\n")
	if _, err := fmt.Fprintf(w, "    label=\"%s\";\n", label); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "    node [shape=circle];"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "    __start [shape=none, label=\"\"];")
	return err
}

func writeDOTState(w io.Writer, s StateView) error {
	shape := "circle"
	if s.Accept {
		shape = "doublecircle"
	}
	_, err := fmt.Fprintf(w, "    \"%s\" [label=\"%s\", shape=%s];\n",
		escapeDOT(s.Key), escapeDOT(s.Label), shape)
	return err
}

func writeDOTEdge(w io.Writer, srcKey, destKey, label string) error {
	_, err := fmt.Fprintf(w, "    \"%s\" -> \"%s\" [label=\"%s\"];\n",
		escapeDOT(srcKey), escapeDOT(destKey), escapeDOT(label))
	return err
}

func escapeDOT(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
