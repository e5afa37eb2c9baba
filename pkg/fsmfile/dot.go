package fsmfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// GenerateDOT converts an automaton to Graphviz DOT format. Accepting states
// are drawn as double circles, and an invisible node "__" points at the start
// state. Every transition becomes its own labelled edge.
func GenerateDOT(a *fsm.Automaton) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %s{\n", strings.ToUpper(a.Mode().String())))

	for _, state := range a.States() {
		shape := "circle"
		if a.IsAccepting(state) {
			shape = "doublecircle"
		}
		sb.WriteString(fmt.Sprintf("\t\"%s\" [shape=\"%s\"]\n", escapeDOT(state), shape))
	}
	sb.WriteString("\t__ [label=\"\", fixedsize=\"false\", width=0, height=0, shape=none]\n")

	for _, t := range a.Transitions() {
		sb.WriteString(fmt.Sprintf("\t\"%s\" -> \"%s\" [label=\"%s\"]\n",
			escapeDOT(t.From), escapeDOT(t.To), escapeDOT(string(t.Symbol))))
	}

	sb.WriteString(fmt.Sprintf("\t__ -> \"%s\"\n", escapeDOT(a.Start())))
	sb.WriteString("}")

	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
