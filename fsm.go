// Package fsm compiles finite-state acceptors from YAML specifications or
// classical regular expressions and evaluates them against input strings.
// Both front-ends lower to a nondeterministic automaton; subset construction
// turns that into a complete, dense, table-encoded DFA for a tight
// acceptance loop.
package fsm

import "os"

// FSM is a compiled automaton: the runnable DFA, plus the intermediate NFA
// when one existed (regex compilation and NFA-mode specs). Specs declared
// with `dfa: true` build the DFA directly and carry no NFA.
type FSM struct {
	DFA *DFA
	NFA *NFA
}

// FromSpecFile reads a YAML specification from disk and builds an automaton
// from it.
func FromSpecFile(path string) (*FSM, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromSpec(content)
}
