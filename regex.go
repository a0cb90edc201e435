package fsm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/projectdiscovery/gologger"
)

// ParseRegex parses a regular expression into an expression tree.
//
// The supported syntax is:
//   - Literals: any character except the metacharacters ( ) | * + ? ^
//   - Concatenation: ab (a followed by b)
//   - Alternation (union): a|b (a or b)
//   - Kleene star: a* (zero or more occurrences of a)
//   - Grouping: (ab|cd)* (zero or more occurrences of ab or cd)
//
// Shorthands are desugared while parsing:
//   - Plus: a+ (one or more occurrences of a, equiv to aa*)
//   - Optional: a? (zero or one occurrence of a, equiv to (a|ε))
//   - Exponentiation: (ab)^3 (exactly 3 occurrences of ab, equiv to ababab)
//
// Whitespace in the input is ignored.
func ParseRegex(pattern string) (Expr, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty regex string", ErrRegexSyntax)
	}

	var cleaned []rune
	for _, c := range pattern {
		if !unicode.IsSpace(c) {
			cleaned = append(cleaned, c)
		}
	}

	p := &regexParser{input: cleaned}
	expr, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, fmt.Errorf("%w: unexpected token after parsed expression", ErrRegexSyntax)
	}
	return expr, nil
}

// FromRegex compiles a regular expression all the way down to a runnable
// automaton. The alphabet is the set of literal characters appearing in the
// pattern.
func FromRegex(pattern string) (*FSM, error) {
	start := time.Now()
	expr, err := ParseRegex(pattern)
	if err != nil {
		return nil, err
	}
	gologger.Verbose().Msgf("Parsed regex in %v", time.Since(start))

	start = time.Now()
	nfa := BuildNFA(expr)
	gologger.Verbose().Msgf("Constructed NFA with %d states in %v", nfa.StateCount(), time.Since(start))

	alphabet := NewAlphabet(nfa.symbols())

	start = time.Now()
	dfa := nfa.Determinize("regex: "+pattern, "", alphabet)
	gologger.Verbose().Msgf("Converted NFA to DFA with %d states in %v", dfa.StateCount(), time.Since(start))

	return &FSM{DFA: dfa, NFA: nfa}, nil
}

// regexParser is a recursive descent parser with one-character lookahead.
// Precedence, lowest to highest: alternation, concatenation, postfix
// operators, atoms.
type regexParser struct {
	input []rune
	pos   int
}

func (p *regexParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *regexParser) peek() (rune, bool) {
	if p.eof() {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *regexParser) next() (rune, bool) {
	c, ok := p.peek()
	if ok {
		p.pos++
	}
	return c, ok
}

func (p *regexParser) parseAlternate() (Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.pos++ // consume the '|'
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &Alternate{Left: left, Right: right}
	}
	return left, nil
}

func (p *regexParser) parseConcat() (Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	// if the next token can start an expression, it's concatenation
	for {
		c, ok := p.peek()
		if !ok || c == ')' || c == '|' {
			break
		}
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &Concat{Left: left, Right: right}
	}
	return left, nil
}

func (p *regexParser) parsePostfix() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		switch c {
		case '*':
			p.pos++
			expr = &Star{Inner: expr}
		case '+':
			p.pos++
			expr = &Concat{Left: expr, Right: &Star{Inner: cloneExpr(expr)}}
		case '?':
			p.pos++
			expr = &Alternate{Left: expr, Right: &Epsilon{}}
		case '^':
			p.pos++
			expr, err = p.parseExponent(expr)
			if err != nil {
				return nil, err
			}
		default:
			return expr, nil
		}
	}
	return expr, nil
}

func (p *regexParser) parseExponent(expr Expr) (Expr, error) {
	var digits strings.Builder
	for {
		c, ok := p.peek()
		if !ok || c < '0' || c > '9' {
			break
		}
		digits.WriteRune(c)
		p.pos++
	}
	if digits.Len() == 0 {
		return nil, fmt.Errorf("%w: expected a number after '^' for exponentiation", ErrRegexSyntax)
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number for exponent", ErrRegexSyntax)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: exponent must be a positive integer", ErrRegexSyntax)
	}
	base := expr
	for i := 2; i <= n; i++ {
		expr = &Concat{Left: expr, Right: cloneExpr(base)}
	}
	return expr, nil
}

func (p *regexParser) parseTerm() (Expr, error) {
	c, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrRegexSyntax)
	}
	switch c {
	case '(':
		expr, err := p.parseAlternate()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.next(); !ok || closing != ')' {
			return nil, fmt.Errorf("%w: mismatched parentheses: expected ')'", ErrRegexSyntax)
		}
		return expr, nil
	case ')':
		return nil, fmt.Errorf("%w: mismatched parentheses: unexpected ')'", ErrRegexSyntax)
	case '|', '*', '+', '?', '^':
		return nil, fmt.Errorf("%w: unexpected operator '%c'", ErrRegexSyntax, c)
	default:
		return &Literal{Char: c}, nil
	}
}

// cloneExpr deep-copies an expression tree. Desugared operators repeat their
// operand, and each repetition must be an independent subtree.
func cloneExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Epsilon:
		return &Epsilon{}
	case *Literal:
		return &Literal{Char: v.Char}
	case *Concat:
		return &Concat{Left: cloneExpr(v.Left), Right: cloneExpr(v.Right)}
	case *Alternate:
		return &Alternate{Left: cloneExpr(v.Left), Right: cloneExpr(v.Right)}
	case *Star:
		return &Star{Inner: cloneExpr(v.Inner)}
	default:
		panic(fmt.Sprintf("unhandled expression node %T", e))
	}
}
