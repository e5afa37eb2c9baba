package fsmfile

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// SyntaxError reports malformed automaton source text.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// Rule is one "<state> <symbol> <state>" entry of the source text.
type Rule struct {
	From   string
	Symbol rune
	To     string
}

// Fields holds the raw, unvalidated content of a source file.
type Fields struct {
	Start  string
	Finals []string
	Rules  []Rule
}

// States returns every state named by a rule, on either side, in order of
// first appearance.
func (f *Fields) States() []string {
	seen := make(map[string]bool)
	var states []string
	for _, r := range f.Rules {
		for _, s := range [2]string{r.From, r.To} {
			if !seen[s] {
				seen[s] = true
				states = append(states, s)
			}
		}
	}
	return states
}

// Alphabet returns every rule symbol in order of first appearance.
func (f *Fields) Alphabet() []rune {
	seen := make(map[rune]bool)
	var alphabet []rune
	for _, r := range f.Rules {
		if !seen[r.Symbol] {
			seen[r.Symbol] = true
			alphabet = append(alphabet, r.Symbol)
		}
	}
	return alphabet
}

// Build turns the fields into a validated automaton. In Deterministic mode a
// repeated (state, symbol) pair is a semantic error; in NonDeterministic mode
// the targets are unioned.
func (f *Fields) Build(mode fsm.Mode) (*fsm.Automaton, error) {
	b := fsm.NewDeltaBuilder(mode)
	for _, r := range f.Rules {
		if err := b.Add(r.From, r.Symbol, r.To); err != nil {
			return nil, err
		}
	}
	return fsm.New(f.States(), f.Alphabet(), b.Build(), f.Start, f.Finals)
}

// ParseFields parses source text of the form
//
//	{ <start> ; <final>, <final> ; <state> <symbol> <state>, ... }
//
// without validating the automaton it describes.
func ParseFields(source string) (*Fields, error) {
	source = strings.TrimSpace(source)
	if !strings.HasPrefix(source, "{") {
		return nil, syntaxErrorf("first character should be {")
	}
	if !strings.HasSuffix(source, "}") || len(source) < 2 {
		return nil, syntaxErrorf("last character should be }")
	}
	source = source[1 : len(source)-1]

	if n := strings.Count(source, ";"); n != 2 {
		return nil, syntaxErrorf("number of ; is %d, expected 2", n)
	}
	segments := strings.Split(source, ";")

	f := &Fields{Start: strings.TrimSpace(segments[0])}
	if !isAlnum(f.Start) {
		return nil, syntaxErrorf("invalid start state %q", f.Start)
	}

	finals := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' {
			return -1
		}
		return r
	}, segments[1])
	if finals != "" {
		f.Finals = strings.Split(finals, ",")
	}

	for _, rule := range strings.Split(segments[2], ",") {
		rule = strings.TrimSpace(rule)
		if strings.Count(rule, " ") != 2 {
			return nil, syntaxErrorf("%q - 3 tokens expected", rule)
		}
		tokens := strings.Split(rule, " ")
		for _, token := range tokens {
			if !isAlnum(token) {
				return nil, syntaxErrorf("%q - unknown character", token)
			}
		}
		if utf8.RuneCountInString(tokens[1]) != 1 {
			return nil, syntaxErrorf("%q - single character expected", tokens[1])
		}
		symbol, _ := utf8.DecodeRuneInString(tokens[1])
		f.Rules = append(f.Rules, Rule{From: tokens[0], Symbol: symbol, To: tokens[2]})
	}

	return f, nil
}

// ParseSource parses and validates source text.
func ParseSource(source string, mode fsm.Mode) (*fsm.Automaton, error) {
	f, err := ParseFields(source)
	if err != nil {
		return nil, err
	}
	return f.Build(mode)
}

// ReadSourceFile reads and parses a source file.
func ReadSourceFile(path string, mode fsm.Mode) (*fsm.Automaton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSource(string(data), mode)
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
