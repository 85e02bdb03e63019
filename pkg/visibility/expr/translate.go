package expr

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldAccessor is the runtime function a translated condition calls to read
// the live value of a field.
const FieldAccessor = "getFieldValue"

// Transient markers used while disambiguating comparison operators. They may
// not appear in the code part of a condition.
const (
	markerEq = "_eq_"
	markerNe = "_ne_"
	markerGe = "_ge_"
	markerLe = "_le_"
)

var reservedMarkers = []string{markerEq, markerNe, markerGe, markerLe}

var (
	fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)
	bareOperand      = regexp.MustCompile(`(===|!==|>=|<=|>|<)(\s*)([A-Za-z0-9_.\-]+)`)
	numericLiteral   = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
	notCall          = regexp.MustCompile(`\bnot\s*\(`)
)

var (
	comparisonProtect = strings.NewReplacer("!=", markerNe, ">=", markerGe, "<=", markerLe)
	comparisonResolve = strings.NewReplacer(markerEq, "===", markerNe, "!==", markerGe, ">=", markerLe, "<=")
	connectives       = strings.NewReplacer(" and ", " && ", " or ", " || ")
)

// SyntaxError reports a condition that cannot be translated.
type SyntaxError struct {
	Condition string
	Offset    int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("visibility/expr: %s at offset %d in %q", e.Msg, e.Offset, e.Condition)
}

type segmentKind int

const (
	segmentCode segmentKind = iota
	segmentField
	segmentLiteral
)

type segment struct {
	kind   segmentKind
	text   string
	offset int
}

// Translate rewrites a visibility condition into a script boolean expression.
// The rules apply in a fixed order: field references become accessor calls,
// then `!=`, `>=`, `<=` are set apart from `=` (which becomes strict
// equality; `!=` becomes strict inequality), then the word connectives
// ` and ` / ` or ` become `&&` / `||`. Finally bare words compared with `=`
// or `!=` are quoted, since the accessor yields strings.
//
// Quoted literals and field names are copied verbatim and never rewritten.
// Field existence is not checked: an unknown field reads as undefined at
// runtime.
func Translate(condition string) (string, error) {
	src := strings.TrimSpace(condition)
	if src == "" {
		return "true", nil
	}

	segments, err := split(src)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, seg := range segments {
		switch seg.kind {
		case segmentField:
			b.WriteString(FieldAccessor + "('" + seg.text + "')")
		case segmentLiteral:
			b.WriteString(seg.text)
		default:
			for _, marker := range reservedMarkers {
				if idx := strings.Index(seg.text, marker); idx >= 0 {
					return "", &SyntaxError{Condition: src, Offset: seg.offset + idx, Msg: fmt.Sprintf("reserved sequence %q", marker)}
				}
			}
			code := comparisonProtect.Replace(seg.text)
			code = strings.ReplaceAll(code, "=", markerEq)
			code = comparisonResolve.Replace(code)
			code = connectives.Replace(code)
			code = notCall.ReplaceAllString(code, "!(")
			b.WriteString(quoteBareOperands(code))
		}
	}

	return b.String(), nil
}

// split cuts the condition into code, field reference and quoted literal
// segments.
func split(src string) ([]segment, error) {
	var segments []segment
	start := 0
	flush := func(end int) {
		if end > start {
			segments = append(segments, segment{kind: segmentCode, text: src[start:end], offset: start})
		}
	}

	for i := 0; i < len(src); {
		switch ch := src[i]; {
		case ch == '$' && i+1 < len(src) && src[i+1] == '{':
			if err := checkBoundary(src, i); err != nil {
				return nil, err
			}
			flush(i)
			end := strings.IndexByte(src[i+2:], '}')
			if end < 0 {
				return nil, &SyntaxError{Condition: src, Offset: i, Msg: "unterminated field reference"}
			}
			name := strings.TrimSpace(src[i+2 : i+2+end])
			if !fieldNamePattern.MatchString(name) {
				return nil, &SyntaxError{Condition: src, Offset: i, Msg: fmt.Sprintf("invalid field name %q", name)}
			}
			segments = append(segments, segment{kind: segmentField, text: name, offset: i})
			i += end + 3
			if err := checkTrailing(src, i); err != nil {
				return nil, err
			}
			start = i
		case ch == '\'' || ch == '"':
			if err := checkBoundary(src, i); err != nil {
				return nil, err
			}
			flush(i)
			end := strings.IndexByte(src[i+1:], ch)
			if end < 0 {
				return nil, &SyntaxError{Condition: src, Offset: i, Msg: "unterminated string literal"}
			}
			segments = append(segments, segment{kind: segmentLiteral, text: src[i : i+end+2], offset: i})
			i += end + 2
			if err := checkTrailing(src, i); err != nil {
				return nil, err
			}
			start = i
		case ch == '}' || ch == '{':
			return nil, &SyntaxError{Condition: src, Offset: i, Msg: fmt.Sprintf("unexpected %q", ch)}
		default:
			i++
		}
	}
	flush(len(src))
	return segments, nil
}

// checkBoundary rejects a field reference or literal starting at `at` that
// directly follows a word, as in "and${b}".
func checkBoundary(src string, at int) error {
	if at > 0 && isBoundaryWordByte(src[at-1]) {
		return &SyntaxError{Condition: src, Offset: at, Msg: "operand directly follows a word"}
	}
	return nil
}

// checkTrailing rejects a word directly after a field reference or literal
// ending before `at`, as in "${a}or".
func checkTrailing(src string, at int) error {
	if at < len(src) && isBoundaryWordByte(src[at]) {
		return &SyntaxError{Condition: src, Offset: at, Msg: "word directly follows an operand"}
	}
	return nil
}

func isBoundaryWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// quoteBareOperands quotes the bare word right of a comparison. Numbers stay
// bare for ordering comparisons so they compare numerically; words followed
// by "(" are function calls and stay untouched.
func quoteBareOperands(code string) string {
	matches := bareOperand.FindAllStringSubmatchIndex(code, -1)
	if len(matches) == 0 {
		return code
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		op, word := code[m[2]:m[3]], code[m[6]:m[7]]
		b.WriteString(code[last:m[6]])

		call := strings.HasPrefix(strings.TrimLeft(code[m[7]:], " "), "(")
		ordering := op != "===" && op != "!=="
		if call || (ordering && numericLiteral.MatchString(word)) {
			b.WriteString(word)
		} else {
			b.WriteString("'" + word + "'")
		}
		last = m[7]
	}
	b.WriteString(code[last:])
	return b.String()
}
