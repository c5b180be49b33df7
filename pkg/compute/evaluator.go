package compute

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Resolver supplies the value of a referenced field key. The boolean reports
// whether the key exists at all; existing-but-empty values resolve to 0.
type Resolver func(key string) (string, bool)

// Evaluator is a small, dependency-free arithmetic evaluator for computed
// document fields.
//
// Supported syntax:
// - decimal literals: `0.18`, `42`
// - field references: `quantity_kg`, `unit_price`
// - operators: `+ - * /` with the usual precedence, parentheses
// - aggregation: `sum(a, b, c)`
//
// Field values are read through a Resolver so the evaluator stays agnostic of
// the override/default layering applied by callers.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

// Eval evaluates expression against resolve and returns the numeric result.
func (e *Evaluator) Eval(expression string, resolve Resolver) (float64, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return 0, errors.New("compute: empty expression")
	}
	if resolve == nil {
		resolve = func(string) (string, bool) { return "", false }
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return 0, err
	}
	stream := &tokenStream{tokens: tokens}
	node, err := parseSum(stream)
	if err != nil {
		return 0, err
	}
	if stream.pos < len(stream.tokens) {
		return 0, fmt.Errorf("compute: unexpected token %q", stream.tokens[stream.pos].raw)
	}

	value, err := node.eval(resolve)
	if err != nil {
		return 0, err
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, errors.New("compute: result is not a finite number")
	}
	return value, nil
}

// EvalString formats the result of Eval for display, trimming insignificant
// trailing zeros to at most two decimal places.
func (e *Evaluator) EvalString(expression string, resolve Resolver) (string, error) {
	value, err := e.Eval(expression, resolve)
	if err != nil {
		return "", err
	}
	return FormatNumber(value), nil
}

// FormatNumber renders a computed value the way documents display amounts:
// whole numbers without decimals, fractional values with two.
func FormatNumber(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdentifier
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenComma
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '+':
			tokens = append(tokens, token{kind: tokenPlus, raw: "+"})
			i++
		case ch == '-':
			tokens = append(tokens, token{kind: tokenMinus, raw: "-"})
			i++
		case ch == '*':
			tokens = append(tokens, token{kind: tokenStar, raw: "*"})
			i++
		case ch == '/':
			tokens = append(tokens, token{kind: tokenSlash, raw: "/"})
			i++
		case ch == ',':
			tokens = append(tokens, token{kind: tokenComma, raw: ","})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("compute: invalid number literal %q", raw)
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw})
		case isIdentByte(ch):
			start := i
			for i < len(input) && (isIdentByte(input[i]) || input[i] >= '0' && input[i] <= '9') {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdentifier, raw: input[start:i]})
		default:
			return nil, fmt.Errorf("compute: unexpected character %q", string(ch))
		}
	}
	return tokens, nil
}

func isIdentByte(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

type exprNode interface {
	eval(resolve Resolver) (float64, error)
}

type exprBinary struct {
	op    tokenKind
	left  exprNode
	right exprNode
}

func (n exprBinary) eval(resolve Resolver) (float64, error) {
	left, err := n.left.eval(resolve)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(resolve)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokenPlus:
		return left + right, nil
	case tokenMinus:
		return left - right, nil
	case tokenStar:
		return left * right, nil
	case tokenSlash:
		if right == 0 {
			return 0, errors.New("compute: division by zero")
		}
		return left / right, nil
	default:
		return 0, fmt.Errorf("compute: unsupported operator")
	}
}

type exprNegate struct {
	inner exprNode
}

func (n exprNegate) eval(resolve Resolver) (float64, error) {
	value, err := n.inner.eval(resolve)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

type exprLiteral struct {
	value float64
}

func (n exprLiteral) eval(Resolver) (float64, error) { return n.value, nil }

type exprRef struct {
	key string
}

func (n exprRef) eval(resolve Resolver) (float64, error) {
	raw, ok := resolve(n.key)
	if !ok {
		return 0, fmt.Errorf("compute: unknown field %q", n.key)
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(normalizeNumeric(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("compute: field %q is not numeric: %q", n.key, raw)
	}
	return value, nil
}

type exprSum struct {
	args []exprNode
}

func (n exprSum) eval(resolve Resolver) (float64, error) {
	var total float64
	for _, arg := range n.args {
		value, err := arg.eval(resolve)
		if err != nil {
			return 0, err
		}
		total += value
	}
	return total, nil
}

// normalizeNumeric strips thousands separators operators commonly type into
// amount fields ("1,250.50" -> "1250.50").
func normalizeNumeric(raw string) string {
	if !strings.Contains(raw, ",") {
		return raw
	}
	return strings.ReplaceAll(raw, ",", "")
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) peek(kind tokenKind) bool {
	return s.pos < len(s.tokens) && s.tokens[s.pos].kind == kind
}

func parseSum(stream *tokenStream) (exprNode, error) {
	left, err := parseProduct(stream)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case stream.match(tokenPlus):
			right, err := parseProduct(stream)
			if err != nil {
				return nil, err
			}
			left = exprBinary{op: tokenPlus, left: left, right: right}
		case stream.match(tokenMinus):
			right, err := parseProduct(stream)
			if err != nil {
				return nil, err
			}
			left = exprBinary{op: tokenMinus, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func parseProduct(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case stream.match(tokenStar):
			right, err := parseUnary(stream)
			if err != nil {
				return nil, err
			}
			left = exprBinary{op: tokenStar, left: left, right: right}
		case stream.match(tokenSlash):
			right, err := parseUnary(stream)
			if err != nil {
				return nil, err
			}
			left = exprBinary{op: tokenSlash, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenMinus) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNegate{inner: inner}, nil
	}
	stream.match(tokenPlus)
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseSum(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("compute: missing closing ')'")
		}
		return inner, nil
	}

	if stream.pos >= len(stream.tokens) {
		return nil, errors.New("compute: unexpected end of expression")
	}
	tok := stream.tokens[stream.pos]
	stream.pos++

	switch tok.kind {
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("compute: invalid number literal %q", tok.raw)
		}
		return exprLiteral{value: value}, nil
	case tokenIdentifier:
		if strings.EqualFold(tok.raw, "sum") && stream.peek(tokenLParen) {
			return parseSumCall(stream)
		}
		return exprRef{key: tok.raw}, nil
	default:
		return nil, fmt.Errorf("compute: expected value, got %q", tok.raw)
	}
}

func parseSumCall(stream *tokenStream) (exprNode, error) {
	stream.match(tokenLParen)
	if stream.match(tokenRParen) {
		return exprSum{}, nil
	}

	var args []exprNode
	for {
		arg, err := parseSum(stream)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if stream.match(tokenComma) {
			continue
		}
		if stream.match(tokenRParen) {
			return exprSum{args: args}, nil
		}
		return nil, errors.New("compute: missing closing ')' in sum()")
	}
}
