package fsmfile

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// jsonAutomaton is the JSON representation of an automaton definition.
type jsonAutomaton struct {
	Mode        string           `json:"mode"`
	States      []string         `json:"states"`
	Alphabet    []string         `json:"alphabet"`
	Start       string           `json:"start"`
	Finals      []string         `json:"finals"`
	Transitions []jsonTransition `json:"transitions"`
}

type jsonTransition struct {
	From   string      `json:"from"`
	Symbol string      `json:"symbol"`
	To     interface{} `json:"to"` // string or []string
}

// ParseJSON parses and validates an automaton definition from JSON.
func ParseJSON(data []byte) (*fsm.Automaton, error) {
	var j jsonAutomaton
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	mode, err := fsm.ParseMode(j.Mode)
	if err != nil {
		return nil, err
	}

	if err := checkNames(&j); err != nil {
		return nil, err
	}

	declared := make(map[string]bool, len(j.States))
	for _, s := range j.States {
		declared[s] = true
	}

	alphabet := make([]rune, 0, len(j.Alphabet))
	inAlphabet := make(map[rune]bool, len(j.Alphabet))
	for _, s := range j.Alphabet {
		c, err := singleRune(s)
		if err != nil {
			return nil, err
		}
		if !isAlnum(s) {
			return nil, syntaxErrorf("%q - unknown character", s)
		}
		alphabet = append(alphabet, c)
		inAlphabet[c] = true
	}

	b := fsm.NewDeltaBuilder(mode)
	for i, jt := range j.Transitions {
		symbol, err := singleRune(jt.Symbol)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		if !declared[jt.From] {
			return nil, fmt.Errorf("transition %d: source state %s not in set of states", i, jt.From)
		}
		if !inAlphabet[symbol] {
			return nil, fmt.Errorf("transition %d: symbol %c not in alphabet", i, symbol)
		}

		var to []string
		switch v := jt.To.(type) {
		case string:
			to = []string{v}
		case []interface{}:
			for _, s := range v {
				str, ok := s.(string)
				if !ok {
					return nil, fmt.Errorf("transition %d: target %v is not a string", i, s)
				}
				to = append(to, str)
			}
		case nil:
		default:
			return nil, fmt.Errorf("transition %d: unsupported target %v", i, v)
		}

		if err := b.Add(jt.From, symbol, to...); err != nil {
			return nil, err
		}
	}

	return fsm.New(j.States, alphabet, b.Build(), j.Start, j.Finals)
}

// checkNames applies the source grammar's naming rule to every state name
// in the document.
func checkNames(j *jsonAutomaton) error {
	names := append([]string{j.Start}, j.States...)
	names = append(names, j.Finals...)
	for _, jt := range j.Transitions {
		names = append(names, jt.From)
		switch v := jt.To.(type) {
		case string:
			names = append(names, v)
		case []interface{}:
			for _, s := range v {
				if str, ok := s.(string); ok {
					names = append(names, str)
				}
			}
		}
	}
	for _, name := range names {
		if !isAlnum(name) {
			return syntaxErrorf("invalid state name %q", name)
		}
	}
	return nil
}

// ToJSON converts an automaton to JSON.
func ToJSON(a *fsm.Automaton, pretty bool) ([]byte, error) {
	j := jsonAutomaton{
		Mode:        a.Mode().String(),
		States:      a.States(),
		Start:       a.Start(),
		Finals:      a.Finals(),
		Transitions: []jsonTransition{},
	}
	for _, c := range a.Alphabet() {
		j.Alphabet = append(j.Alphabet, string(c))
	}
	if j.Finals == nil {
		j.Finals = []string{}
	}

	for _, state := range a.States() {
		for _, c := range a.Alphabet() {
			if !a.Delta().Has(state, c) {
				continue
			}
			jt := jsonTransition{From: state, Symbol: string(c)}
			to := a.Targets(state, c)
			if a.Mode() == fsm.Deterministic && len(to) == 1 {
				jt.To = to[0]
			} else {
				jt.To = to
			}
			j.Transitions = append(j.Transitions, jt)
		}
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("symbol %q must be a single character", s)
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}
