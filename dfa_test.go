package fsm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var oddOnesSpec = []byte(`
name: odd-ones
description: accepts binary strings containing an odd number of ones
dfa: true
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

func TestRunOddOnes(t *testing.T) {
	machine, err := FromSpec(oddOnesSpec)
	require.Nil(t, err)
	require.Nil(t, machine.NFA) // direct DFA, no intermediate automaton

	for _, input := range []string{"1", "111", "01", "1101"} {
		require.True(t, machine.DFA.Run(input), input)
	}
	for _, input := range []string{"", "0", "11"} {
		require.False(t, machine.DFA.Run(input), input)
	}
}

func TestRunOutOfAlphabetRejects(t *testing.T) {
	machine, err := FromSpec(oddOnesSpec)
	require.Nil(t, err)
	require.False(t, machine.DFA.Run("2"))
	require.False(t, machine.DFA.Run("1x1"))
	require.False(t, machine.DFA.Run("1 "))
}

func TestRunEmptyInputAcceptedIffStartAccepts(t *testing.T) {
	spec := []byte(`
name: start-accepts
dfa: true
alphabet: ["a"]
states:
  s0: {accept: true}
start_state: s0
transitions:
  s0:
    - {to: s0, on: "a"}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	require.True(t, machine.DFA.Run(""))

	rejecting, err := FromRegex("a")
	require.Nil(t, err)
	require.False(t, rejecting.DFA.Run(""))
}

func TestRunNoAcceptStatesRejectsEverything(t *testing.T) {
	spec := []byte(`
name: sink
dfa: true
alphabet: ["ab"]
states:
  s0: {}
start_state: s0
transitions:
  s0:
    - {to: s0, on: alphabet}
`)
	machine, err := FromSpec(spec)
	require.Nil(t, err)
	for _, input := range []string{"", "a", "b", "ab", "bbba"} {
		require.False(t, machine.DFA.Run(input), input)
	}
}

func TestWriteTransitionTable(t *testing.T) {
	machine, err := FromSpec(oddOnesSpec)
	require.Nil(t, err)

	var buff strings.Builder
	require.Nil(t, machine.DFA.WriteTransitionTable(&buff))
	out := buff.String()

	require.Contains(t, out, "DFA: odd-ones")
	require.Contains(t, out, "STATE")
	require.Contains(t, out, "--> s0")
	require.Contains(t, out, "s1*") // accepting marker
}

func TestStateBijection(t *testing.T) {
	machine, err := FromSpec(oddOnesSpec)
	require.Nil(t, err)
	dfa := machine.DFA

	for i := 0; i < dfa.StateCount(); i++ {
		idx, ok := dfa.StateIndex(dfa.StateKey(i))
		require.True(t, ok)
		require.Equal(t, i, idx)
	}
	_, ok := dfa.StateIndex("nope")
	require.False(t, ok)
}

func TestAlphabetBijection(t *testing.T) {
	alphabet := NewAlphabet([]rune{'b', 'a', 'c', 'a'})
	require.Equal(t, 3, alphabet.Len())
	require.Equal(t, []rune{'a', 'b', 'c'}, alphabet.Symbols())
	for i, c := range alphabet.Symbols() {
		idx, ok := alphabet.Index(c)
		require.True(t, ok)
		require.Equal(t, i, idx)
		require.Equal(t, c, alphabet.Symbol(i))
	}
	require.False(t, alphabet.Contains('z'))
}
