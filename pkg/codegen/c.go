package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// GenerateC generates a C simulator for the automaton.
// If the automaton is non-deterministic, it is first converted to a DFA.
func GenerateC(a *fsm.Automaton) string {
	t := NewTable(a)
	var sb strings.Builder

	sb.WriteString("#include<stdio.h>\n")
	sb.WriteString("#include<stdlib.h>\n")

	// Transition function
	sb.WriteString("int transition(int q, char b){\n")
	for i := range t.Names {
		sb.WriteString(fmt.Sprintf("\tif(q == %d){\n", i))
		for k, c := range t.Symbols {
			sb.WriteString(fmt.Sprintf("\t\tif(b == '%s'){\n", escapeCChar(c)))
			sb.WriteString(fmt.Sprintf("\t\t\treturn %d;\n", t.Next[i][k]))
			sb.WriteString("\t\t}\n")
		}
		sb.WriteString("\t}\n")
	}
	sb.WriteString("\texit(2);\n")
	sb.WriteString("}\n")

	// Main loop
	sb.WriteString("int main(){\n")
	sb.WriteString("\tint curr_state = 0;\n")
	sb.WriteString("\tint c;\n")
	sb.WriteString(fmt.Sprintf("\tchar state_names[%d][%d] = {\n", len(t.Names), t.longestName()+1))
	for _, name := range t.Names {
		sb.WriteString(fmt.Sprintf("\t\t\"%s\",\n", escapeC(name)))
	}
	sb.WriteString("\t};\n")
	sb.WriteString("\twhile((c = getchar())!=EOF && (c!='\\n')){\n")
	sb.WriteString("\t\tcurr_state = transition(curr_state, c);\n")
	sb.WriteString("\t\tprintf(\"%s\\n\", state_names[curr_state]);\n")
	sb.WriteString("\t}\n")

	// Acceptance check
	if len(t.Accepting) > 0 {
		conds := make([]string, len(t.Accepting))
		for i, idx := range t.Accepting {
			conds[i] = fmt.Sprintf("(curr_state == %d)", idx)
		}
		if len(conds) == 1 {
			sb.WriteString(fmt.Sprintf("\tif(%s){\n", conds[0]))
		} else {
			sb.WriteString(fmt.Sprintf("\tif (%s ||\n", conds[0]))
			for _, cond := range conds[1 : len(conds)-1] {
				sb.WriteString(fmt.Sprintf("\t   %s ||\n", cond))
			}
			sb.WriteString(fmt.Sprintf("\t    %s){\n", conds[len(conds)-1]))
		}
		sb.WriteString("\t\tprintf(\"Accept\\n\");\n")
		sb.WriteString("\t\treturn 0;\n")
		sb.WriteString("\t}\n")
	}
	sb.WriteString("\tprintf(\"Not Accept\\n\");\n")
	sb.WriteString("\treturn 1;\n")
	sb.WriteString("}")

	return sb.String()
}

func escapeC(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// escapeCChar renders c for use inside a C or Rust character literal.
func escapeCChar(c rune) string {
	switch c {
	case '\'', '\\':
		return "\\" + string(c)
	}
	return string(c)
}
