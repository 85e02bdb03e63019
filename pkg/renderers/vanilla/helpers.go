package vanilla

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render/markup"
)

// ProgressPercent is the completion reported once the question at index of
// total has been answered.
func ProgressPercent(index, total int) int {
	if total <= 1 {
		return 100
	}
	percent := (index + 1) * 100 / (total - 1)
	if percent > 100 {
		return 100
	}
	return percent
}

// rendersContainer reports whether questions of type t produce an element
// with id q_<name> that visibility guards can toggle.
func rendersContainer(t model.QuestionType) bool {
	switch t {
	case model.QuestionTypeGroupBegin,
		model.QuestionTypeNote,
		model.QuestionTypeSelectOne,
		model.QuestionTypeSelectMultiple,
		model.QuestionTypeText:
		return true
	default:
		return false
	}
}

func questionID(name string) string {
	return "q_" + strings.TrimSpace(name)
}

// containerAttrs returns the id, class and style of a question container.
// Conditional questions start hidden until updateVisibility runs.
func containerAttrs(q model.Question, class string, style ...string) []markup.Attr {
	attrs := make([]markup.Attr, 0, 3)
	if strings.TrimSpace(q.Name) != "" {
		attrs = append(attrs, markup.A("id", questionID(q.Name)))
	}
	if class != "" {
		attrs = append(attrs, markup.A("class", class))
	}
	styles := append([]string(nil), style...)
	if q.Conditional() {
		styles = append(styles, "display:none;")
	}
	if len(styles) > 0 {
		attrs = append(attrs, markup.A("style", strings.Join(styles, " ")))
	}
	return attrs
}

func isHorizontal(appearance string) bool {
	return strings.Contains(strings.ToLower(appearance), "horizontal")
}

// jsValue encodes v as a JavaScript literal. The JSON encoder escapes <, >
// and &, so the result is safe inside a script element.
func jsValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

type scriptBuilder struct {
	strings.Builder
}

func (b *scriptBuilder) line(s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func (b *scriptBuilder) linef(format string, args ...any) {
	b.line(fmt.Sprintf(format, args...))
}
