package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSpecNFAMode(t *testing.T) {
	// ε-moves encoding a|b
	spec := []byte(`
name: a-or-b
alphabet: ["ab"]
states:
  s0: {}
  a0: {}
  a1: {accept: true}
  b0: {}
  b1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: a0, on: epsilon}
    - {to: b0, on: epsilon}
  a0:
    - {to: a1, on: "a"}
  b0:
    - {to: b1, on: "b"}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.NotNil(t, machine.NFA)
	require.True(t, machine.DFA.Run("a"))
	require.True(t, machine.DFA.Run("b"))
	require.False(t, machine.DFA.Run(""))
	require.False(t, machine.DFA.Run("ab"))
}

func TestFromSpecNondeterministicTransitions(t *testing.T) {
	// same (state, char) with two targets is fine in NFA mode
	spec := []byte(`
name: nondet
alphabet: ["a"]
states:
  s0: {}
  s1: {}
  s2: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s1, on: "a"}
    - {to: s2, on: "a"}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.True(t, machine.DFA.Run("a"))
	require.False(t, machine.DFA.Run("aa"))
}

func TestFromSpecDeterministicNFAModeNotRejected(t *testing.T) {
	// a spec that happens to be deterministic and total is still accepted
	// without the dfa flag; validation applies to DFA mode only
	spec := []byte(`
name: odd-ones-nfa-mode
alphabet: ["01"]
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: "0"}
    - {to: s1, on: "1"}
  s1:
    - {to: s1, on: "0"}
    - {to: s0, on: "1"}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.NotNil(t, machine.NFA)
	require.True(t, machine.DFA.Run("1101"))
	require.False(t, machine.DFA.Run("11"))
}

func TestFromSpecPartialNFAModeAllowed(t *testing.T) {
	// partial transitions are legal without the dfa flag; the determinizer
	// supplies the dead sink
	spec := []byte(`
name: just-a
alphabet: ["ab"]
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s1, on: "a"}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.True(t, machine.DFA.Run("a"))
	require.False(t, machine.DFA.Run("b"))
	require.False(t, machine.DFA.Run("ab"))
	_, found := machine.DFA.StateIndex(FailureStateKey)
	require.True(t, found)
}

func TestFromSpecSymbolSpecifiers(t *testing.T) {
	spec := []byte(`
name: specifiers
alphabet:
  - {crange: "a..e"}
  - {nrange: "0..3"}
  - "xy"
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s1, on: [{crange: "a..c"}, "x"]}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.Equal(t, []rune{'0', '1', '2', '3', 'a', 'b', 'c', 'd', 'e', 'x', 'y'}, machine.DFA.Alphabet().Symbols())
	for _, input := range []string{"a", "b", "c", "x"} {
		require.True(t, machine.DFA.Run(input), input)
	}
	for _, input := range []string{"d", "e", "y", "0", "3"} {
		require.False(t, machine.DFA.Run(input), input)
	}
}

func TestFromSpecAlphabetKeywordTrigger(t *testing.T) {
	spec := []byte(`
name: any
dfa: true
alphabet: ["abc"]
states:
  s0: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: alphabet}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.True(t, machine.DFA.Run("abcabc"))
}

func TestFromSpecExceptList(t *testing.T) {
	// exclusion with a list value: fires for the 24 non-x, non-y letters
	spec := []byte(`
name: except-list
alphabet:
  - {crange: "a..z"}
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s1, on: {except: ["x", "y"]}}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	fired := 0
	for c := 'a'; c <= 'z'; c++ {
		if machine.DFA.Run(string(c)) {
			fired++
		}
	}
	require.Equal(t, 24, fired)
	require.False(t, machine.DFA.Run("x"))
	require.False(t, machine.DFA.Run("y"))
}

func TestFromSpecExceptScalar(t *testing.T) {
	spec := []byte(`
name: except-scalar
dfa: true
alphabet: ["ab"]
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s1, on: {except: "b"}}
    - {to: s0, on: "b"}
  s1:
    - {to: s1, on: alphabet}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.True(t, machine.DFA.Run("a"))
	require.False(t, machine.DFA.Run("b"))
}

func TestFromSpecErrors(t *testing.T) {
	testcases := []struct {
		name string
		spec string
		kind error
	}{
		{
			"ambiguity",
			`
name: ambiguous
dfa: true
alphabet: ["a"]
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: "a"}
    - {to: s1, on: "a"}
`,
			ErrAmbiguity,
		},
		{
			"incomplete",
			`
name: partial
dfa: true
alphabet: ["ab"]
states:
  s0: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: "a"}
`,
			ErrIncompleteDFA,
		},
		{
			"epsilon in dfa",
			`
name: eps
dfa: true
alphabet: ["a"]
states:
  s0: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: epsilon}
    - {to: s0, on: "a"}
`,
			ErrEpsilonInDFA,
		},
		{
			"unknown transition target",
			`
name: ghost
alphabet: ["a"]
states:
  s0: {}
start_state: s0
transitions:
  s0:
    - {to: missing, on: "a"}
`,
			ErrUnknownState,
		},
		{
			"unknown start state",
			`
name: lost
alphabet: ["a"]
states:
  s0: {}
start_state: missing
transitions: {}
`,
			ErrUnknownState,
		},
		{
			"out of alphabet",
			`
name: outside
dfa: true
alphabet: ["a"]
states:
  s0: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: "az"}
`,
			ErrOutOfAlphabet,
		},
		{
			"reversed crange",
			`
name: reversed
alphabet:
  - {crange: "z..a"}
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"empty crange endpoint",
			`
name: empty-end
alphabet:
  - {crange: "a.."}
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"malformed crange",
			`
name: malformed
alphabet:
  - {crange: "abc"}
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"nrange out of bounds",
			`
name: toobig
alphabet:
  - {nrange: "3..12"}
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"reversed nrange",
			`
name: reversed-n
alphabet:
  - {nrange: "7..2"}
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"unknown specifier key",
			`
name: badkey
alphabet:
  - {range: "a..z"}
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"missing name",
			`
alphabet: ["a"]
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"missing alphabet",
			`
name: no-alphabet
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"missing states",
			`
name: no-states
alphabet: ["a"]
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
		{
			"alphabet keyword inside alphabet",
			`
name: circular
alphabet: [alphabet]
states:
  s0: {}
start_state: s0
transitions: {}
`,
			ErrSpecSyntax,
		},
	}

	for _, tc := range testcases {
		_, err := FromSpec([]byte(tc.spec))
		require.Error(t, err, tc.name)
		require.ErrorIs(t, err, tc.kind, tc.name)
	}
}

func TestFromSpecNothingPartiallyConstructed(t *testing.T) {
	machine, err := FromSpec([]byte(`not: [valid`))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSpecSyntax)
	require.Nil(t, machine)
}

func TestFromSpecDeterministicPipeline(t *testing.T) {
	spec := []byte(`
name: repeat
alphabet: ["ab"]
states:
  s0: {}
  s1: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s1, on: "a"}
    - {to: s0, on: "b"}
  s1:
    - {to: s0, on: epsilon}
`)
	first, err := FromSpec(spec)
	require.Nil(t, err)
	second, err := FromSpec(spec)
	require.Nil(t, err)
	require.Equal(t, first.DFA.table, second.DFA.table)
	require.Equal(t, first.DFA.stateKeys, second.DFA.stateKeys)
	for _, input := range []string{"", "a", "ab", "ba", "aab", "bbbab"} {
		require.Equal(t, first.DFA.Run(input), second.DFA.Run(input), input)
	}
}

func TestFromSpecStateLabels(t *testing.T) {
	spec := []byte(`
name: labeled
dfa: true
alphabet: ["a"]
states:
  s0: {accept: true, label: "the start"}
  s1: {}
start_state: s0
transitions:
  s0:
    - {to: s1, on: "a"}
  s1:
    - {to: s1, on: "a"}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	idx, ok := machine.DFA.StateIndex("s0")
	require.True(t, ok)
	require.Equal(t, "the start", machine.DFA.State(idx).Label)
}
