package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// GenerateGo generates a Go simulator program (package main) for the
// automaton. If the automaton is non-deterministic, it is first converted
// to a DFA.
func GenerateGo(a *fsm.Automaton) string {
	t := NewTable(a)
	var sb strings.Builder

	sb.WriteString(`// Code generated by tocc. DO NOT EDIT.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

`)

	sb.WriteString("var stateNames = [...]string{\n")
	for _, name := range t.Names {
		sb.WriteString(fmt.Sprintf("\t%q,\n", name))
	}
	sb.WriteString("}\n\n")

	sb.WriteString("func transition(q int, b rune) int {\n")
	sb.WriteString("\tswitch q {\n")
	for i := range t.Names {
		sb.WriteString(fmt.Sprintf("\tcase %d:\n", i))
		sb.WriteString("\t\tswitch b {\n")
		for k, c := range t.Symbols {
			sb.WriteString(fmt.Sprintf("\t\tcase %q:\n", c))
			sb.WriteString(fmt.Sprintf("\t\t\treturn %d\n", t.Next[i][k]))
		}
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("\tos.Exit(2)\n")
	sb.WriteString("\treturn 0\n")
	sb.WriteString("}\n\n")

	sb.WriteString("func main() {\n")
	sb.WriteString("\tline, _ := bufio.NewReader(os.Stdin).ReadString('\\n')\n")
	sb.WriteString("\tstate := 0\n")
	sb.WriteString("\tfor _, c := range strings.TrimRight(line, \"\\r\\n\") {\n")
	sb.WriteString("\t\tstate = transition(state, c)\n")
	sb.WriteString("\t\tfmt.Println(stateNames[state])\n")
	sb.WriteString("\t}\n")

	if len(t.Accepting) > 0 {
		cases := make([]string, len(t.Accepting))
		for i, idx := range t.Accepting {
			cases[i] = fmt.Sprint(idx)
		}
		sb.WriteString("\tswitch state {\n")
		sb.WriteString(fmt.Sprintf("\tcase %s:\n", strings.Join(cases, ", ")))
		sb.WriteString("\t\tfmt.Println(\"Accept\")\n")
		sb.WriteString("\t\treturn\n")
		sb.WriteString("\t}\n")
	}
	sb.WriteString("\tfmt.Println(\"Not Accept\")\n")
	sb.WriteString("\tos.Exit(1)\n")
	sb.WriteString("}\n")

	return sb.String()
}
