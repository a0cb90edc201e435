package fsm

import "errors"

// Construction error kinds. Every error returned while building an automaton
// wraps exactly one of these sentinels, so callers can classify failures with
// errors.Is without parsing messages.
var (
	// ErrSpecSyntax indicates a malformed automaton specification: an unknown
	// key shape, a bad or reversed range, or an empty range endpoint.
	ErrSpecSyntax = errors.New("spec syntax error")
	// ErrUnknownState indicates a transition or start_state referencing a
	// state key that does not appear under 'states'.
	ErrUnknownState = errors.New("unknown state")
	// ErrOutOfAlphabet indicates a DFA-mode transition triggering on a
	// character outside the declared alphabet.
	ErrOutOfAlphabet = errors.New("character not in alphabet")
	// ErrAmbiguity indicates two transitions in a DFA-mode spec assigning
	// different destinations to the same (state, symbol) pair.
	ErrAmbiguity = errors.New("ambiguous transition")
	// ErrIncompleteDFA indicates a (state, symbol) pair with no transition
	// in a DFA-mode spec.
	ErrIncompleteDFA = errors.New("incomplete transitions")
	// ErrEpsilonInDFA indicates an epsilon trigger in a DFA-mode spec.
	ErrEpsilonInDFA = errors.New("epsilon transition in dfa")
	// ErrRegexSyntax indicates a malformed regular expression.
	ErrRegexSyntax = errors.New("regex syntax error")
)
