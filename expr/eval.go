package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmpty            = errors.New("expr: empty expression")
	ErrInvalidCharacter = errors.New("expr: invalid character")
	ErrSyntax           = errors.New("expr: syntax error")
	ErrDivisionByZero   = errors.New("expr: division by zero")
	ErrOperandRange     = errors.New("expr: operand out of range")
)

// Evaluate computes the value of an arithmetic expression built from
// integers, + - * /, parentheses and whitespace, with the usual precedence.
// Unary + and - are accepted. Nothing outside that grammar is executed.
func Evaluate(expression string) (float64, error) {
	lexemes, err := scan(expression)
	if err != nil {
		return 0, err
	}
	if len(lexemes) == 0 {
		return 0, ErrEmpty
	}

	p := &parser{lexemes: lexemes}
	value, err := p.sum()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.lexemes) {
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, p.peek(), p.pos)
	}
	return value, nil
}

func scan(expression string) ([]string, error) {
	var lexemes []string
	for i := 0; i < len(expression); {
		c := expression[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(expression) && expression[i] >= '0' && expression[i] <= '9' {
				i++
			}
			lexemes = append(lexemes, expression[start:i])
		case strings.IndexByte("+-*/()", c) >= 0:
			lexemes = append(lexemes, string(c))
			i++
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, c, i)
		}
	}
	return lexemes, nil
}

type parser struct {
	lexemes []string
	pos     int
}

func (p *parser) peek() string {
	if p.pos >= len(p.lexemes) {
		return ""
	}
	return p.lexemes[p.pos]
}

func (p *parser) next() string {
	l := p.peek()
	p.pos++
	return l
}

// sum := product (("+" | "-") product)*
func (p *parser) sum() (float64, error) {
	left, err := p.product()
	if err != nil {
		return 0, err
	}
	for p.peek() == "+" || p.peek() == "-" {
		op := p.next()
		right, err := p.product()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

// product := unary (("*" | "/") unary)*
func (p *parser) product() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.peek() == "*" || p.peek() == "/" {
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
	return left, nil
}

// unary := ("+" | "-") unary | primary
func (p *parser) unary() (float64, error) {
	switch p.peek() {
	case "+":
		p.next()
		return p.unary()
	case "-":
		p.next()
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

// primary := integer | "(" sum ")"
func (p *parser) primary() (float64, error) {
	l := p.next()
	switch {
	case l == "":
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	case l == "(":
		v, err := p.sum()
		if err != nil {
			return 0, err
		}
		if p.next() != ")" {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrSyntax)
		}
		return v, nil
	case l[0] >= '0' && l[0] <= '9':
		// Operands must read the same here as in Tokenize.
		n, err := strconv.Atoi(l)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrOperandRange, l)
		}
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, l)
	}
}
