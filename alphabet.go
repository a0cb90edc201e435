package fsm

import (
	"sort"

	sliceutil "github.com/projectdiscovery/utils/slice"
)

// Alphabet is a finite ordered set of input characters with a stable
// bijection between characters and indices in [0, Len()). Iteration order is
// ascending codepoint order. Fixed at construction, never mutated.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// NewAlphabet builds an alphabet from the given characters. Duplicates are
// collapsed and the result is sorted ascending.
func NewAlphabet(chars []rune) *Alphabet {
	symbols := sliceutil.Dedupe(chars)
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	index := make(map[rune]int, len(symbols))
	for i, c := range symbols {
		index[c] = i
	}
	return &Alphabet{symbols: symbols, index: index}
}

// Len returns the number of characters in the alphabet.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}

// Index returns the index of c, or false if c is not in the alphabet.
func (a *Alphabet) Index(c rune) (int, bool) {
	i, ok := a.index[c]
	return i, ok
}

// Symbol returns the character at index i.
func (a *Alphabet) Symbol(i int) rune {
	return a.symbols[i]
}

// Symbols returns the characters in ascending order. The returned slice is
// shared and must not be modified.
func (a *Alphabet) Symbols() []rune {
	return a.symbols
}

// Contains reports whether c is in the alphabet.
func (a *Alphabet) Contains(c rune) bool {
	_, ok := a.index[c]
	return ok
}
