package fsm

import (
	"fmt"
	"sort"
)

// epsilonSymbol marks an ε-edge in the transition map. It is outside any
// valid codepoint so it can never collide with an input character.
const epsilonSymbol rune = -1

// edge identifies all transitions leaving one state on one symbol
// (epsilonSymbol for ε-edges).
type edge struct {
	From   int
	Symbol rune
}

// NFA is a nondeterministic finite automaton with optional ε-edges.
// Transitions may be nondeterministic, partial, and may contain ε-cycles.
// Immutable once built.
type NFA struct {
	transitions  map[edge]map[int]struct{}
	startState   int
	acceptStates map[int]struct{}
	stateKeys    []string // state index -> display key
}

// StateCount returns the number of states.
func (n *NFA) StateCount() int {
	return len(n.stateKeys)
}

// Start returns the start state index.
func (n *NFA) Start() int {
	return n.startState
}

// IsAccepting reports whether state idx is accepting.
func (n *NFA) IsAccepting(idx int) bool {
	_, ok := n.acceptStates[idx]
	return ok
}

// StateKey returns the display key of state idx.
func (n *NFA) StateKey(idx int) string {
	return n.stateKeys[idx]
}

// symbols returns the distinct non-ε characters appearing on any edge.
func (n *NFA) symbols() []rune {
	set := make(map[rune]struct{})
	for e := range n.transitions {
		if e.Symbol != epsilonSymbol {
			set[e.Symbol] = struct{}{}
		}
	}
	out := make([]rune, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// epsilonClosure returns all states reachable from the given set via zero or
// more ε-edges, as a sorted slice. Defined for any input set, including the
// empty one, and tolerates ε-cycles.
func (n *NFA) epsilonClosure(states []int) []int {
	closure := make(map[int]struct{}, len(states))
	worklist := make([]int, 0, len(states))
	for _, s := range states {
		closure[s] = struct{}{}
		worklist = append(worklist, s)
	}
	for len(worklist) > 0 {
		state := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for dest := range n.transitions[edge{From: state, Symbol: epsilonSymbol}] {
			if _, seen := closure[dest]; !seen {
				closure[dest] = struct{}{}
				worklist = append(worklist, dest)
			}
		}
	}
	return sortedStates(closure)
}

// move returns all states directly reachable from the given set on symbol,
// as a sorted slice.
func (n *NFA) move(states []int, symbol rune) []int {
	result := make(map[int]struct{})
	for _, s := range states {
		for dest := range n.transitions[edge{From: s, Symbol: symbol}] {
			result[dest] = struct{}{}
		}
	}
	return sortedStates(result)
}

func sortedStates(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// nfaBuilder assembles an NFA from states drawn off a monotonic counter.
type nfaBuilder struct {
	transitions  map[edge]map[int]struct{}
	stateCounter int
}

func newNFABuilder() *nfaBuilder {
	return &nfaBuilder{transitions: make(map[edge]map[int]struct{})}
}

func (b *nfaBuilder) newState() int {
	state := b.stateCounter
	b.stateCounter++
	return state
}

func (b *nfaBuilder) addTransition(from, to int, symbol rune) {
	key := edge{From: from, Symbol: symbol}
	if b.transitions[key] == nil {
		b.transitions[key] = make(map[int]struct{})
	}
	b.transitions[key][to] = struct{}{}
}

// BuildNFA converts an expression tree into an NFA using Thompson's
// construction. The result has exactly one start and one accepting state,
// and its keys are synthesized as q0, q1, ...
func BuildNFA(e Expr) *NFA {
	b := newNFABuilder()
	start, accept := exprToNFA(e, b)

	keys := make([]string, b.stateCounter)
	for i := range keys {
		keys[i] = fmt.Sprintf("q%d", i)
	}

	return &NFA{
		transitions:  b.transitions,
		startState:   start,
		acceptStates: map[int]struct{}{accept: {}},
		stateKeys:    keys,
	}
}

// exprToNFA recursively compiles one expression node, returning its start
// and accept states. Every node except Concat contributes two fresh states;
// subexpression boundaries are joined with ε-edges.
func exprToNFA(e Expr, b *nfaBuilder) (int, int) {
	switch v := e.(type) {
	case *Epsilon:
		start, end := b.newState(), b.newState()
		b.addTransition(start, end, epsilonSymbol)
		return start, end
	case *Literal:
		start, end := b.newState(), b.newState()
		b.addTransition(start, end, v.Char)
		return start, end
	case *Concat:
		leftStart, leftEnd := exprToNFA(v.Left, b)
		rightStart, rightEnd := exprToNFA(v.Right, b)
		b.addTransition(leftEnd, rightStart, epsilonSymbol)
		return leftStart, rightEnd
	case *Alternate:
		start, end := b.newState(), b.newState()
		leftStart, leftEnd := exprToNFA(v.Left, b)
		rightStart, rightEnd := exprToNFA(v.Right, b)
		b.addTransition(start, leftStart, epsilonSymbol)
		b.addTransition(start, rightStart, epsilonSymbol)
		b.addTransition(leftEnd, end, epsilonSymbol)
		b.addTransition(rightEnd, end, epsilonSymbol)
		return start, end
	case *Star:
		start, end := b.newState(), b.newState()
		innerStart, innerEnd := exprToNFA(v.Inner, b)
		b.addTransition(start, end, epsilonSymbol) // skip, zero occurrences
		b.addTransition(start, innerStart, epsilonSymbol)
		b.addTransition(innerEnd, end, epsilonSymbol)
		b.addTransition(innerEnd, innerStart, epsilonSymbol) // loop
		return start, end
	default:
		panic(fmt.Sprintf("unhandled expression node %T", e))
	}
}
