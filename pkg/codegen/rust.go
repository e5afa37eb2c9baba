package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// GenerateRust generates a Rust simulator program for the automaton.
// If the automaton is non-deterministic, it is first converted to a DFA.
func GenerateRust(a *fsm.Automaton) string {
	t := NewTable(a)
	var sb strings.Builder

	sb.WriteString("// Generated by tocc.\n\n")
	sb.WriteString("use std::io::{self, BufRead};\n")
	sb.WriteString("use std::process;\n\n")

	sb.WriteString(fmt.Sprintf("const STATE_NAMES: [&str; %d] = [\n", len(t.Names)))
	for _, name := range t.Names {
		sb.WriteString(fmt.Sprintf("    \"%s\",\n", escapeC(name)))
	}
	sb.WriteString("];\n\n")

	sb.WriteString("fn transition(q: usize, b: char) -> usize {\n")
	sb.WriteString("    match (q, b) {\n")
	for i := range t.Names {
		for k, c := range t.Symbols {
			sb.WriteString(fmt.Sprintf("        (%d, '%s') => %d,\n", i, escapeCChar(c), t.Next[i][k]))
		}
	}
	sb.WriteString("        _ => process::exit(2),\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n\n")

	sb.WriteString("fn main() {\n")
	sb.WriteString("    let mut line = String::new();\n")
	sb.WriteString("    let _ = io::stdin().lock().read_line(&mut line);\n")
	sb.WriteString("    let mut state: usize = 0;\n")
	sb.WriteString("    for c in line.trim_end_matches(&['\\r', '\\n'][..]).chars() {\n")
	sb.WriteString("        state = transition(state, c);\n")
	sb.WriteString("        println!(\"{}\", STATE_NAMES[state]);\n")
	sb.WriteString("    }\n")

	if len(t.Accepting) > 0 {
		arms := make([]string, len(t.Accepting))
		for i, idx := range t.Accepting {
			arms[i] = fmt.Sprint(idx)
		}
		sb.WriteString(fmt.Sprintf("    if matches!(state, %s) {\n", strings.Join(arms, " | ")))
		sb.WriteString("        println!(\"Accept\");\n")
		sb.WriteString("        process::exit(0);\n")
		sb.WriteString("    }\n")
	}
	sb.WriteString("    println!(\"Not Accept\");\n")
	sb.WriteString("    process::exit(1);\n")
	sb.WriteString("}\n")

	return sb.String()
}
