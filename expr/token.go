// Package expr turns solver output into display tokens and evaluates
// player-built arithmetic expressions.
package expr

import (
	"encoding/json"
	"regexp"
	"strconv"
)

type Kind int

const (
	Operand Kind = iota
	Operator
)

func (k Kind) String() string {
	switch k {
	case Operand:
		return "operand"
	case Operator:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is one tile of a rendered expression. ID is the token's position in
// the raw match sequence and only serves as a rendering key.
type Token struct {
	Kind   Kind
	Value  int    // Operand only
	Symbol string // Operator only
	ID     int
}

func (t Token) String() string {
	if t.Kind == Operand {
		return strconv.Itoa(t.Value)
	}
	return t.Symbol
}

func (t Token) MarshalJSON() ([]byte, error) {
	var value any = t.Symbol
	if t.Kind == Operand {
		value = t.Value
	}
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Value any    `json:"value"`
		ID    int    `json:"id"`
	}{t.Kind.String(), value, t.ID})
}

var tokenPattern = regexp.MustCompile(`\d+|[+\-*/()]`)

// Tokenize splits an expression into operand and operator tokens in reading
// order. Parentheses are structural and are not emitted, though they still
// count toward token IDs.
func Tokenize(expression string) []Token {
	matches := tokenPattern.FindAllString(expression, -1)
	tokens := make([]Token, 0, len(matches))
	for i, m := range matches {
		switch m {
		case "(", ")":
			continue
		case "+", "-", "*", "/":
			tokens = append(tokens, Token{Kind: Operator, Symbol: m, ID: i})
		default:
			n, err := strconv.Atoi(m)
			if err != nil {
				// Wider than int. Solver output holds only dice and Evaluate
				// rejects such runs, so answers are never checked without them.
				continue
			}
			tokens = append(tokens, Token{Kind: Operand, Value: n, ID: i})
		}
	}
	return tokens
}

// Operands returns the operand values of an expression in reading order.
func Operands(expression string) []int {
	var values []int
	for _, t := range Tokenize(expression) {
		if t.Kind == Operand {
			values = append(values, t.Value)
		}
	}
	return values
}
