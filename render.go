package fsm

import (
	"sort"
	"strings"
)

// StateView is a read-only projection of one state for rendering.
type StateView struct {
	Index  int
	Key    string
	Label  string
	Accept bool
	Start  bool
}

// EdgeView is a read-only projection of all transitions between one pair of
// states, with the triggering characters collapsed into a compact label.
type EdgeView struct {
	From    int
	To      int
	Symbols []rune // ascending; empty for a pure ε-edge
	Epsilon bool   // an ε-move exists between From and To (NFA only)
	Label   string
}

// States returns the DFA's states in index order. A state with no declared
// label falls back to its key.
func (d *DFA) States() []StateView {
	views := make([]StateView, len(d.stateKeys))
	for i, key := range d.stateKeys {
		label := d.states[i].Label
		if label == "" {
			label = key
		}
		views[i] = StateView{
			Index:  i,
			Key:    key,
			Label:  label,
			Accept: d.accept[i],
			Start:  i == d.start,
		}
	}
	return views
}

// Edges returns the DFA's transitions grouped by (source, destination),
// ordered by source then destination index.
func (d *DFA) Edges() []EdgeView {
	width := d.alphabet.Len()
	grouped := make(map[[2]int][]rune)
	for src := range d.stateKeys {
		for a := 0; a < width; a++ {
			dest := d.table[src*width+a]
			grouped[[2]int{src, dest}] = append(grouped[[2]int{src, dest}], d.alphabet.Symbol(a))
		}
	}
	return edgeViews(grouped, nil)
}

// States returns the NFA's states in index order.
func (n *NFA) States() []StateView {
	views := make([]StateView, len(n.stateKeys))
	for i, key := range n.stateKeys {
		views[i] = StateView{
			Index:  i,
			Key:    key,
			Label:  key,
			Accept: n.IsAccepting(i),
			Start:  i == n.startState,
		}
	}
	return views
}

// Edges returns the NFA's transitions grouped by (source, destination).
// ε-moves set Epsilon and render as ε alongside any character labels.
func (n *NFA) Edges() []EdgeView {
	grouped := make(map[[2]int][]rune)
	epsilons := make(map[[2]int]bool)
	for e, dests := range n.transitions {
		for dest := range dests {
			pair := [2]int{e.From, dest}
			if e.Symbol == epsilonSymbol {
				epsilons[pair] = true
				if _, ok := grouped[pair]; !ok {
					grouped[pair] = nil
				}
			} else {
				grouped[pair] = append(grouped[pair], e.Symbol)
			}
		}
	}
	return edgeViews(grouped, epsilons)
}

func edgeViews(grouped map[[2]int][]rune, epsilons map[[2]int]bool) []EdgeView {
	views := make([]EdgeView, 0, len(grouped))
	for pair, symbols := range grouped {
		sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })
		var parts []string
		if len(symbols) > 0 {
			parts = append(parts, FormatCharSet(symbols))
		}
		eps := epsilons[pair]
		if eps {
			parts = append(parts, "ε")
		}
		views = append(views, EdgeView{
			From:    pair[0],
			To:      pair[1],
			Symbols: symbols,
			Epsilon: eps,
			Label:   strings.Join(parts, ", "),
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].From != views[j].From {
			return views[i].From < views[j].From
		}
		return views[i].To < views[j].To
	})
	return views
}

// FormatCharSet renders a sorted character set compactly, collapsing runs of
// three or more consecutive codepoints into ranges (e.g. "a-c, z, 0-9").
func FormatCharSet(chars []rune) string {
	if len(chars) == 0 {
		return " "
	}
	var parts []string
	for i := 0; i < len(chars); {
		start := chars[i]
		end := start
		j := i + 1
		for j < len(chars) && chars[j] == end+1 {
			end = chars[j]
			j++
		}
		switch {
		case start == end:
			parts = append(parts, formatChar(start))
		case end == start+1:
			parts = append(parts, formatChar(start), formatChar(end))
		default:
			parts = append(parts, formatChar(start)+"-"+formatChar(end))
		}
		i = j
	}
	return strings.Join(parts, ", ")
}

// formatChar renders a single character for an edge label, escaping the
// characters that would collide with label syntax.
func formatChar(c rune) string {
	switch c {
	case '"':
		return `\"`
	case '\\':
		return `\\`
	case ' ':
		return "␣"
	case ',':
		return "[comma]"
	case '-':
		return "[dash]"
	default:
		return string(c)
	}
}
