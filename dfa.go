package fsm

import (
	"fmt"
	"io"
)

// FailureStateKey is the key and label of the synthetic dead state added
// during determinization when the subset-constructed DFA is not total.
const FailureStateKey = "FAILURE"

// StateInfo holds per-state display attributes.
type StateInfo struct {
	Label  string
	Accept bool
}

// DFA is a deterministic finite automaton backed by a dense row-major
// transition table of size StateCount() * alphabet.Len(). The table is total
// and deterministic: exactly one target per (state, symbol). Immutable once
// built; safe to share across readers.
type DFA struct {
	Name        string
	Description string

	alphabet   *Alphabet
	stateKeys  []string // state index -> key
	stateIndex map[string]int
	states     []StateInfo

	start  int
	accept []bool
	table  []int // table[state*alphabet.Len()+symbolIdx] = next state
}

// Run reports whether the DFA accepts the whole input. Characters outside
// the alphabet reject immediately; empty input is accepted iff the start
// state accepts. Run never fails and performs no allocation.
func (d *DFA) Run(input string) bool {
	state := d.start
	width := d.alphabet.Len()
	for _, c := range input {
		idx, ok := d.alphabet.index[c]
		if !ok {
			return false
		}
		state = d.table[state*width+idx]
	}
	return d.accept[state]
}

// StateCount returns the number of states.
func (d *DFA) StateCount() int {
	return len(d.stateKeys)
}

// TransitionCount returns the number of entries in the transition table.
func (d *DFA) TransitionCount() int {
	return len(d.table)
}

// Start returns the start state index.
func (d *DFA) Start() int {
	return d.start
}

// IsAccepting reports whether state idx is accepting.
func (d *DFA) IsAccepting(idx int) bool {
	return d.accept[idx]
}

// StateKey returns the key of state idx.
func (d *DFA) StateKey(idx int) string {
	return d.stateKeys[idx]
}

// StateIndex returns the index of the state with the given key.
func (d *DFA) StateIndex(key string) (int, bool) {
	idx, ok := d.stateIndex[key]
	return idx, ok
}

// State returns the display attributes of state idx.
func (d *DFA) State(idx int) StateInfo {
	return d.states[idx]
}

// Alphabet returns the automaton's alphabet.
func (d *DFA) Alphabet() *Alphabet {
	return d.alphabet
}

// Next returns the state reached from state on the symbol at alphabet index
// symbolIdx.
func (d *DFA) Next(state, symbolIdx int) int {
	return d.table[state*d.alphabet.Len()+symbolIdx]
}

const (
	tablePrefixWidth   = 4  // "--> " or "    "
	tableStateColWidth = 10 // 8 chars for key + 1 for '*' + 1 space
	tableCellWidth     = 9  // 8 chars for key + 1 space
)

// WriteTransitionTable writes a human-readable rendering of the transition
// table. The start state row is marked with an arrow and accepting states
// with a trailing '*'. Keys are truncated to 8 characters.
func (d *DFA) WriteTransitionTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "DFA: %s\n", d.Name); err != nil {
		return err
	}

	header := fmt.Sprintf("%-*s%-*s", tablePrefixWidth, "", tableStateColWidth, "STATE")
	for _, c := range d.alphabet.Symbols() {
		if c == ' ' {
			c = '␣'
		}
		header += fmt.Sprintf("%-*c", tableCellWidth, c)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	width := d.alphabet.Len()
	for src := range d.stateKeys {
		prefix := "    "
		if src == d.start {
			prefix = "--> "
		}
		display := truncateKey(d.stateKeys[src])
		if d.accept[src] {
			display += "*"
		}
		row := fmt.Sprintf("%-*s%-*s", tablePrefixWidth, prefix, tableStateColWidth, display)
		for a := 0; a < width; a++ {
			row += fmt.Sprintf("%-*s", tableCellWidth, truncateKey(d.stateKeys[d.table[src*width+a]]))
		}
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

func truncateKey(key string) string {
	if runes := []rune(key); len(runes) > 8 {
		return string(runes[:8])
	}
	return key
}
