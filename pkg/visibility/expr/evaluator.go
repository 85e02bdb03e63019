package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/visibility"
)

// Evaluator is a small, dependency-free evaluator for visibility conditions,
// matching the behaviour of the translated script expressions.
//
// Supported syntax:
// - field references: `${consent}`
// - comparisons: `${consent} = 'yes'`, `${age} != 18`, `${age} >= 18`
// - bare words compare as strings: `${region} = north`
// - boolean composition: `a and b`, `a or b`, `not(a)`, parentheses
// - `selected(${field}, 'value')` for multiple-choice answers
//
// Values are read from visibility.Context.Values; `${extras.key}` reads
// visibility.Context.Extras. An unknown field behaves like the script
// accessor's undefined: `=` is false and `!=` is true.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	_ = fieldPath
	node, err := Parse(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx)
}

// Node is a parsed condition.
type Node interface {
	eval(ctx visibility.Context) (bool, error)
}

// Parse compiles a condition. An empty condition yields a nil Node, meaning
// always visible.
func Parse(rule string) (Node, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return parseExpression(tokens)
}

type tokenKind int

const (
	tokenField tokenKind = iota
	tokenString
	tokenNumber
	tokenWord
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenSelected
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	next := func() byte {
		if i >= len(input) {
			return 0
		}
		return input[i]
	}

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ch == ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case ch == ',':
			i++
			tokens = append(tokens, token{kind: tokenComma, raw: ","})
		case ch == '=':
			i++
			if next() == '=' {
				i++
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "="})
		case ch == '!':
			i++
			if next() != '=' {
				return nil, errors.New("visibility/expr: unexpected '!'; use '!=' or not()")
			}
			i++
			tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
		case ch == '<' || ch == '>':
			i++
			kind, raw := tokenLt, "<"
			if ch == '>' {
				kind, raw = tokenGt, ">"
			}
			if next() == '=' {
				i++
				kind++
				raw += "="
			}
			tokens = append(tokens, token{kind: kind, raw: raw})
		case ch == '$':
			if i+1 >= len(input) || input[i+1] != '{' {
				return nil, errors.New("visibility/expr: unexpected '$'")
			}
			end := strings.IndexByte(input[i+2:], '}')
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated field reference")
			}
			name := strings.TrimSpace(input[i+2 : i+2+end])
			if name == "" {
				return nil, errors.New("visibility/expr: empty field reference")
			}
			tokens = append(tokens, token{kind: tokenField, raw: name})
			i += end + 3
		case ch == '"' || ch == '\'':
			end := strings.IndexByte(input[i+1:], ch)
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			tokens = append(tokens, token{kind: tokenString, raw: input[i+1 : i+1+end]})
			i += end + 2
		default:
			start := i
			for i < len(input) && isWordByte(input[i]) {
				i++
			}
			if start == i {
				return nil, fmt.Errorf("visibility/expr: unexpected %q", ch)
			}
			raw := input[start:i]
			switch raw {
			case "and":
				tokens = append(tokens, token{kind: tokenAnd, raw: raw})
			case "or":
				tokens = append(tokens, token{kind: tokenOr, raw: raw})
			case "not":
				tokens = append(tokens, token{kind: tokenNot, raw: raw})
			case "selected":
				tokens = append(tokens, token{kind: tokenSelected, raw: raw})
			default:
				if looksLikeNumber(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenWord, raw: raw})
				}
			}
		}
	}

	return tokens, nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '+' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func looksLikeNumber(raw string) bool {
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

type exprOr struct {
	left  Node
	right Node
}

func (n exprOr) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(ctx)
}

type exprAnd struct {
	left  Node
	right Node
}

func (n exprAnd) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(ctx)
}

type exprNot struct {
	inner Node
}

func (n exprNot) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// operand is either a field reference or a literal.
type operand struct {
	field   string
	literal string
	numeric bool
}

func (o operand) value(ctx visibility.Context) (any, bool) {
	if o.field == "" {
		return o.literal, true
	}
	return lookup(ctx, o.field)
}

type exprCompare struct {
	left  operand
	op    tokenKind
	right operand
}

func (n exprCompare) eval(ctx visibility.Context) (bool, error) {
	lv, lok := n.left.value(ctx)
	rv, rok := n.right.value(ctx)

	switch n.op {
	case tokenEq:
		return lok && rok && coerceString(lv) == coerceString(rv), nil
	case tokenNeq:
		return !(lok && rok) || coerceString(lv) != coerceString(rv), nil
	}

	if !lok || !rok {
		return false, nil
	}
	cmp, ok := compareOrdered(lv, rv, n.left.numeric || n.right.numeric)
	if !ok {
		return false, nil
	}
	switch n.op {
	case tokenLt:
		return cmp < 0, nil
	case tokenLte:
		return cmp <= 0, nil
	case tokenGt:
		return cmp > 0, nil
	case tokenGte:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("visibility/expr: unsupported operator")
	}
}

type exprSelected struct {
	field  operand
	choice operand
}

func (n exprSelected) eval(ctx visibility.Context) (bool, error) {
	value, ok := n.field.value(ctx)
	if !ok {
		return false, nil
	}
	want, _ := n.choice.value(ctx)
	target := coerceString(want)
	for _, item := range selections(value) {
		if item == target {
			return true, nil
		}
	}
	return false, nil
}

type exprTruthy struct {
	operand operand
}

func (n exprTruthy) eval(ctx visibility.Context) (bool, error) {
	value, ok := n.operand.value(ctx)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (Node, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (Node, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (Node, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (Node, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (Node, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if stream.match(tokenSelected) {
		return parseSelected(stream)
	}

	left, err := stream.consumeOperand()
	if err != nil {
		return nil, err
	}
	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte} {
		if stream.match(op) {
			right, err := stream.consumeOperand()
			if err != nil {
				return nil, err
			}
			return exprCompare{left: left, op: op, right: right}, nil
		}
	}
	return exprTruthy{operand: left}, nil
}

func parseSelected(stream *tokenStream) (Node, error) {
	if !stream.match(tokenLParen) {
		return nil, errors.New("visibility/expr: expected '(' after selected")
	}
	field, err := stream.consumeOperand()
	if err != nil {
		return nil, err
	}
	if !stream.match(tokenComma) {
		return nil, errors.New("visibility/expr: expected ',' in selected()")
	}
	choice, err := stream.consumeOperand()
	if err != nil {
		return nil, err
	}
	if !stream.match(tokenRParen) {
		return nil, errors.New("visibility/expr: missing closing ')' in selected()")
	}
	return exprSelected{field: field, choice: choice}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) {
		return false
	}
	if s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consumeOperand() (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("visibility/expr: missing operand")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenField:
		return operand{field: tok.raw}, nil
	case tokenString, tokenWord:
		return operand{literal: tok.raw}, nil
	case tokenNumber:
		return operand{literal: tok.raw, numeric: true}, nil
	default:
		return operand{}, fmt.Errorf("visibility/expr: expected operand, got %q", tok.raw)
	}
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}

	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		path := strings.TrimSpace(key[len("extras."):])
		return lookupMap(ctx.Extras, path)
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || strings.TrimSpace(path) == "" {
		return nil, false
	}
	path = strings.TrimSpace(path)

	// Prefer exact match: question names may contain dots.
	if v, ok := values[path]; ok {
		return v, true
	}

	parts := strings.Split(path, ".")
	var current any = values
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func compareOrdered(left, right any, numeric bool) (int, bool) {
	ls, rs := coerceString(left), coerceString(right)
	if numeric {
		lf, lerr := strconv.ParseFloat(strings.TrimSpace(ls), 64)
		rf, rerr := strconv.ParseFloat(strings.TrimSpace(rs), 64)
		if lerr != nil || rerr != nil {
			return 0, false
		}
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	}
	return strings.Compare(ls, rs), true
}

func selections(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, coerceString(item))
		}
		return out
	default:
		return strings.Fields(coerceString(value))
	}
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return true
	}
}

// coerceString mirrors how the runtime accessor exposes answers: strings as
// is, multiple selections joined with single spaces.
func coerceString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, " ")
	case []any:
		return strings.Join(selections(v), " ")
	default:
		return fmt.Sprint(value)
	}
}
