package fsm

import (
	"sort"
	"strconv"
	"strings"
)

// tableKey addresses one cell of the DFA transition map during construction.
type tableKey struct {
	State  int
	Symbol int // alphabet index
}

// Determinize converts the NFA to an equivalent DFA using subset
// construction. The alphabet is iterated in ascending order, so the result
// is fully deterministic: same NFA in, same indices, table, and keys out.
//
// The start subset is always index 0. If any (state, symbol) pair ends up
// without a target, one synthetic dead state keyed FAILURE is appended at
// the last index, all missing transitions point at it, and it loops to
// itself on every symbol. A total subset DFA gets no dead state.
func (n *NFA) Determinize(name, description string, alphabet *Alphabet) *DFA {
	width := alphabet.Len()

	// subset of NFA states -> DFA state index, in discovery order
	subsetIndex := make(map[string]int)
	var subsets [][]int
	var worklist [][]int

	transitions := make(map[tableKey]int)

	startSet := n.epsilonClosure([]int{n.startState})
	subsetIndex[subsetKey(startSet)] = 0
	subsets = append(subsets, startSet)
	worklist = append(worklist, startSet)

	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]
		currentIdx := subsetIndex[subsetKey(current)]

		for a := 0; a < width; a++ {
			target := n.epsilonClosure(n.move(current, alphabet.Symbol(a)))
			if len(target) == 0 {
				continue
			}
			key := subsetKey(target)
			nextIdx, seen := subsetIndex[key]
			if !seen {
				nextIdx = len(subsets)
				subsetIndex[key] = nextIdx
				subsets = append(subsets, target)
				worklist = append(worklist, target)
			}
			transitions[tableKey{State: currentIdx, Symbol: a}] = nextIdx
		}
	}

	// dead state for missing transitions, equivalent to the Ø state
	numStates := len(subsets)
	needsDead := false
	for i := 0; i < numStates && !needsDead; i++ {
		for a := 0; a < width; a++ {
			if _, ok := transitions[tableKey{State: i, Symbol: a}]; !ok {
				needsDead = true
				break
			}
		}
	}

	deadIdx := -1
	totalStates := numStates
	if needsDead {
		deadIdx = numStates
		totalStates++
		for a := 0; a < width; a++ {
			transitions[tableKey{State: deadIdx, Symbol: a}] = deadIdx
		}
	}

	stateKeys := make([]string, 0, totalStates)
	stateIndex := make(map[string]int, totalStates)
	states := make([]StateInfo, 0, totalStates)
	accept := make([]bool, 0, totalStates)

	for idx, subset := range subsets {
		accepting := false
		for _, s := range subset {
			if _, ok := n.acceptStates[s]; ok {
				accepting = true
				break
			}
		}

		keys := make([]string, len(subset))
		for i, s := range subset {
			keys[i] = n.stateKeys[s]
		}
		sort.Strings(keys)
		key := "{" + strings.Join(keys, ",") + "}"

		stateKeys = append(stateKeys, key)
		stateIndex[key] = idx
		states = append(states, StateInfo{Label: key, Accept: accepting})
		accept = append(accept, accepting)
	}

	if needsDead {
		stateKeys = append(stateKeys, FailureStateKey)
		stateIndex[FailureStateKey] = deadIdx
		states = append(states, StateInfo{Label: FailureStateKey, Accept: false})
		accept = append(accept, false)
	}

	fill := 0
	if needsDead {
		fill = deadIdx
	}
	table := make([]int, totalStates*width)
	for i := range table {
		table[i] = fill
	}
	for key, to := range transitions {
		table[key.State*width+key.Symbol] = to
	}

	return &DFA{
		Name:        name,
		Description: description,
		alphabet:    alphabet,
		stateKeys:   stateKeys,
		stateIndex:  stateIndex,
		states:      states,
		start:       0,
		accept:      accept,
		table:       table,
	}
}

// subsetKey canonicalizes a sorted state set for use as a map key.
func subsetKey(states []int) string {
	var b strings.Builder
	for i, s := range states {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s))
	}
	return b.String()
}
