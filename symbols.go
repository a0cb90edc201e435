package fsm

import (
	"fmt"
	"strconv"
	"strings"
)

// symbolKind discriminates the forms a symbol specifier can take.
type symbolKind int

const (
	symbolLiteral symbolKind = iota
	symbolCharRange
	symbolNumRange
	symbolAlphabet
	symbolEpsilon
	symbolExcept
	symbolList
)

// SymbolSpec is one symbol specifier from an automaton spec: a string
// literal, a character or numeric range, the keywords alphabet/epsilon, an
// exclusion, or a list of specifiers. The same grammar serves alphabet
// entries and transition triggers; which forms are valid depends on where
// the specifier appears.
type SymbolSpec struct {
	kind symbolKind
	text string       // literal characters, or the raw range string
	list []SymbolSpec // operands of a list or exclusion
}

// UnmarshalYAML decodes a specifier from its untagged YAML shape. The
// exclusion form must be recognized before the range form: a list-valued
// 'except' member is not a valid range record, and shape-based matching
// would otherwise misread it as one.
func (s *SymbolSpec) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := parseSymbolValue(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func parseSymbolValue(raw interface{}) (SymbolSpec, error) {
	switch v := raw.(type) {
	case string:
		switch v {
		case "alphabet":
			return SymbolSpec{kind: symbolAlphabet}, nil
		case "epsilon":
			return SymbolSpec{kind: symbolEpsilon}, nil
		default:
			return SymbolSpec{kind: symbolLiteral, text: v}, nil
		}
	case []interface{}:
		items := make([]SymbolSpec, 0, len(v))
		for _, item := range v {
			parsed, err := parseSymbolValue(item)
			if err != nil {
				return SymbolSpec{}, err
			}
			items = append(items, parsed)
		}
		return SymbolSpec{kind: symbolList, list: items}, nil
	case map[string]interface{}:
		return parseSymbolMap(v)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, value := range v {
			ks, ok := key.(string)
			if !ok {
				return SymbolSpec{}, fmt.Errorf("%w: symbol specifier keys must be strings, got %v", ErrSpecSyntax, key)
			}
			m[ks] = value
		}
		return parseSymbolMap(m)
	default:
		return SymbolSpec{}, fmt.Errorf("%w: expected a string, range map, or list as symbol specifier, got %T", ErrSpecSyntax, raw)
	}
}

func parseSymbolMap(m map[string]interface{}) (SymbolSpec, error) {
	// exclusion first: {except: ...} carries a nested specifier or list,
	// which the range record below would reject
	if exceptRaw, ok := m["except"]; ok {
		if len(m) != 1 {
			return SymbolSpec{}, fmt.Errorf("%w: 'except' cannot be combined with other keys", ErrSpecSyntax)
		}
		inner, err := parseSymbolValue(exceptRaw)
		if err != nil {
			return SymbolSpec{}, err
		}
		return SymbolSpec{kind: symbolExcept, list: []SymbolSpec{inner}}, nil
	}

	var ranges []SymbolSpec
	for key, value := range m {
		text, isString := value.(string)
		switch key {
		case "crange":
			if !isString {
				return SymbolSpec{}, fmt.Errorf("%w: crange must be a string, got %T", ErrSpecSyntax, value)
			}
			ranges = append(ranges, SymbolSpec{kind: symbolCharRange, text: text})
		case "nrange":
			if !isString {
				return SymbolSpec{}, fmt.Errorf("%w: nrange must be a string, got %T", ErrSpecSyntax, value)
			}
			ranges = append(ranges, SymbolSpec{kind: symbolNumRange, text: text})
		default:
			return SymbolSpec{}, fmt.Errorf("%w: unknown symbol specifier key '%s'", ErrSpecSyntax, key)
		}
	}
	if len(ranges) == 0 {
		return SymbolSpec{}, fmt.Errorf("%w: empty symbol specifier map", ErrSpecSyntax)
	}
	if len(ranges) == 1 {
		return ranges[0], nil
	}
	return SymbolSpec{kind: symbolList, list: ranges}, nil
}

// trigger is a resolved transition trigger: either an ε-move or a concrete
// character set.
type trigger struct {
	epsilon bool
	chars   map[rune]struct{}
}

// resolveTrigger expands the specifier into a trigger against the full
// alphabet. Only a top-level 'epsilon' denotes an ε-move.
func (s *SymbolSpec) resolveTrigger(full *Alphabet) (trigger, error) {
	if s.kind == symbolEpsilon {
		return trigger{epsilon: true}, nil
	}
	set, err := s.chars(full)
	if err != nil {
		return trigger{}, err
	}
	return trigger{chars: set}, nil
}

// chars expands the specifier to the character set it denotes. full is the
// complete alphabet; it is nil while the alphabet declaration itself is
// being parsed, which makes the alphabet-relative forms invalid.
func (s *SymbolSpec) chars(full *Alphabet) (map[rune]struct{}, error) {
	switch s.kind {
	case symbolLiteral:
		set := make(map[rune]struct{}, len(s.text))
		for _, c := range s.text {
			set[c] = struct{}{}
		}
		return set, nil
	case symbolCharRange:
		return charRangeSet(s.text)
	case symbolNumRange:
		return numRangeSet(s.text)
	case symbolAlphabet:
		if full == nil {
			return nil, fmt.Errorf("%w: keyword 'alphabet' is not valid in the alphabet declaration", ErrSpecSyntax)
		}
		set := make(map[rune]struct{}, full.Len())
		for _, c := range full.Symbols() {
			set[c] = struct{}{}
		}
		return set, nil
	case symbolEpsilon:
		return nil, fmt.Errorf("%w: 'epsilon' does not denote a character set", ErrSpecSyntax)
	case symbolExcept:
		if full == nil {
			return nil, fmt.Errorf("%w: 'except' is not valid in the alphabet declaration", ErrSpecSyntax)
		}
		excluded, err := s.list[0].chars(full)
		if err != nil {
			return nil, err
		}
		set := make(map[rune]struct{})
		for _, c := range full.Symbols() {
			if _, skip := excluded[c]; !skip {
				set[c] = struct{}{}
			}
		}
		return set, nil
	case symbolList:
		set := make(map[rune]struct{})
		for i := range s.list {
			part, err := s.list[i].chars(full)
			if err != nil {
				return nil, err
			}
			for c := range part {
				set[c] = struct{}{}
			}
		}
		return set, nil
	default:
		return nil, fmt.Errorf("%w: unhandled symbol specifier kind %d", ErrSpecSyntax, s.kind)
	}
}

// charRangeSet expands "X..Y" to the inclusive codepoint range X..Y.
func charRangeSet(raw string) (map[rune]struct{}, error) {
	parts := strings.Split(raw, "..")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: invalid character range '%s'", ErrSpecSyntax, raw)
	}
	startRunes, endRunes := []rune(parts[0]), []rune(parts[1])
	if len(startRunes) == 0 {
		return nil, fmt.Errorf("%w: empty start in range '%s'", ErrSpecSyntax, raw)
	}
	if len(endRunes) == 0 {
		return nil, fmt.Errorf("%w: empty end in range '%s'", ErrSpecSyntax, raw)
	}
	start, end := startRunes[0], endRunes[0]
	if start > end {
		return nil, fmt.Errorf("%w: start character greater than end in range '%s'", ErrSpecSyntax, raw)
	}
	set := make(map[rune]struct{}, end-start+1)
	for c := start; c <= end; c++ {
		set[c] = struct{}{}
	}
	return set, nil
}

// numRangeSet expands "m..n" to the ASCII digits m through n. Both ends
// must be integers in 0..9.
func numRangeSet(raw string) (map[rune]struct{}, error) {
	parts := strings.Split(raw, "..")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: invalid numeric range '%s'", ErrSpecSyntax, raw)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start number in range '%s'", ErrSpecSyntax, raw)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end number in range '%s'", ErrSpecSyntax, raw)
	}
	if start > end {
		return nil, fmt.Errorf("%w: start number greater than end in range '%s'", ErrSpecSyntax, raw)
	}
	if start < 0 || end > 9 {
		return nil, fmt.Errorf("%w: numeric range must be between 0 and 9, got '%s'", ErrSpecSyntax, raw)
	}
	set := make(map[rune]struct{}, end-start+1)
	for n := start; n <= end; n++ {
		set[rune('0'+n)] = struct{}{}
	}
	return set, nil
}
