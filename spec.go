package fsm

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/gologger"
)

// specDocument is the top-level shape of a YAML automaton specification.
type specDocument struct {
	Name        string                      `yaml:"name"`
	Description string                      `yaml:"description"`
	DFA         bool                        `yaml:"dfa"`
	States      map[string]specStateProps   `yaml:"states"`
	Alphabet    []SymbolSpec                `yaml:"alphabet"`
	StartState  string                      `yaml:"start_state"`
	Transitions map[string][]specTransition `yaml:"transitions"`
}

type specStateProps struct {
	Accept bool   `yaml:"accept"`
	Label  string `yaml:"label"`
}

type specTransition struct {
	To string     `yaml:"to"`
	On SymbolSpec `yaml:"on"`
}

// FromSpec builds an automaton from a YAML specification. When the spec
// carries `dfa: true`, the declared transitions must already be
// deterministic and total and a DFA is built directly; otherwise the spec is
// read as an NFA and determinized. Nothing is partially constructed: any
// validation failure returns an error and no automaton.
func FromSpec(content []byte) (*FSM, error) {
	var doc specDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpecSyntax, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: 'name' is required", ErrSpecSyntax)
	}
	if len(doc.Alphabet) == 0 {
		return nil, fmt.Errorf("%w: 'alphabet' is required", ErrSpecSyntax)
	}
	if len(doc.States) == 0 {
		return nil, fmt.Errorf("%w: 'states' is required", ErrSpecSyntax)
	}

	alphabet, err := readAlphabet(doc.Alphabet)
	if err != nil {
		return nil, err
	}

	// state bijection: sorted key order, stable regardless of document order
	stateKeys := make([]string, 0, len(doc.States))
	for key := range doc.States {
		stateKeys = append(stateKeys, key)
	}
	sort.Strings(stateKeys)

	stateIndex := make(map[string]int, len(stateKeys))
	states := make([]StateInfo, len(stateKeys))
	accept := make([]bool, len(stateKeys))
	for i, key := range stateKeys {
		props := doc.States[key]
		stateIndex[key] = i
		states[i] = StateInfo{Label: props.Label, Accept: props.Accept}
		accept[i] = props.Accept
	}

	startIdx, err := resolveStateKey(stateIndex, doc.StartState)
	if err != nil {
		return nil, err
	}

	if doc.DFA {
		table, err := buildDFATable(stateKeys, stateIndex, doc.Transitions, alphabet)
		if err != nil {
			return nil, err
		}
		gologger.Verbose().Msgf("Loaded DFA '%s' with %d states over %d symbols", doc.Name, len(stateKeys), alphabet.Len())
		return &FSM{DFA: &DFA{
			Name:        doc.Name,
			Description: doc.Description,
			alphabet:    alphabet,
			stateKeys:   stateKeys,
			stateIndex:  stateIndex,
			states:      states,
			start:       startIdx,
			accept:      accept,
			table:       table,
		}}, nil
	}

	nfa, err := buildSpecNFA(stateKeys, stateIndex, startIdx, accept, doc.Transitions, alphabet)
	if err != nil {
		return nil, err
	}
	dfa := nfa.Determinize(doc.Name, doc.Description, alphabet)
	gologger.Verbose().Msgf("Determinized NFA '%s': %d NFA states -> %d DFA states", doc.Name, nfa.StateCount(), dfa.StateCount())
	return &FSM{DFA: dfa, NFA: nfa}, nil
}

func readAlphabet(specs []SymbolSpec) (*Alphabet, error) {
	var chars []rune
	for i := range specs {
		part, err := specs[i].chars(nil)
		if err != nil {
			return nil, err
		}
		for c := range part {
			chars = append(chars, c)
		}
	}
	return NewAlphabet(chars), nil
}

func resolveStateKey(stateIndex map[string]int, key string) (int, error) {
	idx, ok := stateIndex[key]
	if !ok {
		return 0, fmt.Errorf("%w: state '%s' not found", ErrUnknownState, key)
	}
	return idx, nil
}

// buildDFATable expands the declared transitions into a dense total table.
// Ambiguous cells and cells left unset are errors, not repaired.
func buildDFATable(stateKeys []string, stateIndex map[string]int, transitions map[string][]specTransition, alphabet *Alphabet) ([]int, error) {
	width := alphabet.Len()
	table := make([]int, len(stateKeys)*width)
	for i := range table {
		table[i] = -1
	}

	srcKeys := make([]string, 0, len(transitions))
	for key := range transitions {
		srcKeys = append(srcKeys, key)
	}
	sort.Strings(srcKeys)

	for _, srcKey := range srcKeys {
		srcIdx, err := resolveStateKey(stateIndex, srcKey)
		if err != nil {
			return nil, err
		}
		for _, rule := range transitions[srcKey] {
			destIdx, err := resolveStateKey(stateIndex, rule.To)
			if err != nil {
				return nil, err
			}
			trig, err := rule.On.resolveTrigger(alphabet)
			if err != nil {
				return nil, err
			}
			if trig.epsilon {
				return nil, fmt.Errorf("%w: epsilon transitions are not allowed when 'dfa' is true (state '%s')", ErrEpsilonInDFA, srcKey)
			}
			for _, c := range sortedRunes(trig.chars) {
				alphaIdx, ok := alphabet.Index(c)
				if !ok {
					return nil, fmt.Errorf("%w: character '%c' in transition from state '%s'", ErrOutOfAlphabet, c, srcKey)
				}
				cell := srcIdx*width + alphaIdx
				if existing := table[cell]; existing != -1 && existing != destIdx {
					return nil, fmt.Errorf("%w: state '%s' on symbol '%c' maps to both '%s' and '%s'",
						ErrAmbiguity, srcKey, c, stateKeys[existing], rule.To)
				}
				table[cell] = destIdx
			}
		}
	}

	for cell, dest := range table {
		if dest == -1 {
			srcIdx, alphaIdx := cell/width, cell%width
			return nil, fmt.Errorf("%w: state '%s' has no transition for symbol '%c'",
				ErrIncompleteDFA, stateKeys[srcIdx], alphabet.Symbol(alphaIdx))
		}
	}
	return table, nil
}

// buildSpecNFA assembles the declared transitions into an NFA. No ambiguity
// or totality checks apply: nondeterminism and partiality are what the NFA
// form is for. Characters outside the alphabet are tolerated here; the
// determinizer only ever moves on alphabet symbols, so such edges never
// fire.
func buildSpecNFA(stateKeys []string, stateIndex map[string]int, startIdx int, accept []bool, transitions map[string][]specTransition, alphabet *Alphabet) (*NFA, error) {
	edges := make(map[edge]map[int]struct{})
	add := func(from, to int, symbol rune) {
		key := edge{From: from, Symbol: symbol}
		if edges[key] == nil {
			edges[key] = make(map[int]struct{})
		}
		edges[key][to] = struct{}{}
	}

	for srcKey, rules := range transitions {
		srcIdx, err := resolveStateKey(stateIndex, srcKey)
		if err != nil {
			return nil, err
		}
		for _, rule := range rules {
			destIdx, err := resolveStateKey(stateIndex, rule.To)
			if err != nil {
				return nil, err
			}
			trig, err := rule.On.resolveTrigger(alphabet)
			if err != nil {
				return nil, err
			}
			if trig.epsilon {
				add(srcIdx, destIdx, epsilonSymbol)
				continue
			}
			for c := range trig.chars {
				add(srcIdx, destIdx, c)
			}
		}
	}

	acceptStates := make(map[int]struct{})
	for i, ok := range accept {
		if ok {
			acceptStates[i] = struct{}{}
		}
	}

	return &NFA{
		transitions:  edges,
		startState:   startIdx,
		acceptStates: acceptStates,
		stateKeys:    stateKeys,
	}, nil
}

func sortedRunes(set map[rune]struct{}) []rune {
	out := make([]rune, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
