// Package lint reports structural problems in a survey before it is
// rendered: unbalanced groups, unusable names, conditions the document
// runtime cannot evaluate and strings missing translations.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/visibility/expr"
)

// Severity ranks an Issue.
type Severity string

const (
	// SeverityError marks problems that make rendering fail or produce a
	// broken document.
	SeverityError Severity = "error"
	// SeverityWarning marks problems the renderer tolerates.
	SeverityWarning Severity = "warning"
)

// Issue is one finding. Row is the zero-based index of the question it
// refers to, or -1 for survey-wide findings.
type Issue struct {
	Severity Severity
	Row      int
	Question string
	Message  string
}

func (i Issue) String() string {
	if i.Row < 0 {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	name := i.Question
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s: row %d %s: %s", i.Severity, i.Row+1, name, i.Message)
}

// Option customises a Check.
type Option func(*config)

type config struct {
	consentField string
	extras       []string
}

// WithConsentField names the question the submit button depends on. An
// empty name disables the check.
func WithConsentField(name string) Option {
	return func(c *config) {
		c.consentField = strings.TrimSpace(name)
	}
}

// WithRequiredExtras replaces the list of extra strings expected on every
// survey.
func WithRequiredExtras(keys ...string) Option {
	return func(c *config) {
		c.extras = append([]string(nil), keys...)
	}
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Check inspects survey and returns its issues ordered by row, survey-wide
// findings last.
func Check(survey *model.Survey, opts ...Option) []Issue {
	cfg := config{
		consentField: "consent",
		extras: append([]string{model.ExtraSubmit, model.ExtraLanguage},
			model.ProgressExtras...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if survey == nil {
		return []Issue{{Severity: SeverityError, Row: -1, Message: "survey is nil"}}
	}

	c := &checker{survey: survey, cfg: cfg, fields: survey.FieldNames()}
	c.languages()
	c.questions()
	c.extras()
	c.consent()

	sort.SliceStable(c.issues, func(a, b int) bool {
		ra, rb := c.issues[a].Row, c.issues[b].Row
		if ra < 0 || rb < 0 {
			return ra >= 0 && rb < 0
		}
		return ra < rb
	})
	return c.issues
}

type checker struct {
	survey *model.Survey
	cfg    config
	fields map[string]struct{}
	issues []Issue
}

func (c *checker) report(severity Severity, row int, q *model.Question, format string, args ...any) {
	issue := Issue{Severity: severity, Row: row, Message: fmt.Sprintf(format, args...)}
	if q != nil {
		issue.Question = q.Name
	}
	c.issues = append(c.issues, issue)
}

func (c *checker) languages() {
	if len(c.survey.Languages) == 0 {
		c.report(SeverityError, -1, nil, "survey declares no languages")
	}
}

func (c *checker) defaultLanguage() string {
	if len(c.survey.Languages) == 0 {
		return ""
	}
	return c.survey.Languages[0].Code
}

func (c *checker) questions() {
	var (
		open  []int
		names = make(map[string]int)
	)

	for row := range c.survey.Questions {
		q := &c.survey.Questions[row]

		switch q.Type {
		case model.QuestionTypeGroupBegin:
			open = append(open, row)
		case model.QuestionTypeGroupEnd:
			if len(open) == 0 {
				c.report(SeverityError, row, q, "group end without an open group")
			} else {
				open = open[:len(open)-1]
			}
		case model.QuestionTypeNote, model.QuestionTypeSelectOne, model.QuestionTypeSelectMultiple,
			model.QuestionTypeText, model.QuestionTypeHidden:
			c.name(row, q, names)
		case "":
			c.report(SeverityWarning, row, q, "question has no type and is skipped")
		default:
			c.report(SeverityWarning, row, q, "unsupported question type %q is skipped", q.Type)
		}

		if q.Type != model.QuestionTypeHidden && q.Type != model.QuestionTypeGroupEnd {
			c.translation(row, q, "label", q.Label)
			c.translation(row, q, "hint", q.Hint)
		}
		if q.Type.IsChoice() {
			c.choices(row, q)
		}
		if q.Conditional() && q.Type != model.QuestionTypeHidden && q.Type != model.QuestionTypeGroupEnd {
			c.condition(row, q)
		}
	}

	for _, row := range open {
		c.report(SeverityError, row, &c.survey.Questions[row], "group is never closed")
	}
}

func (c *checker) name(row int, q *model.Question, seen map[string]int) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		c.report(SeverityError, row, q, "%s question has no name", q.Type)
		return
	}
	if first, dup := seen[name]; dup {
		c.report(SeverityError, row, q, "duplicate name, first used on row %d", first+1)
		return
	}
	seen[name] = row
}

func (c *checker) translation(row int, q *model.Question, what string, t *model.Translation) {
	if t == nil || t.IsEmpty() {
		return
	}
	for idx, lang := range c.survey.LanguageCodes() {
		if _, ok := t.Get(lang); ok {
			continue
		}
		if idx == 0 {
			c.report(SeverityError, row, q, "%s has no text in default language %q", what, lang)
			continue
		}
		c.report(SeverityWarning, row, q, "%s has no text in language %q", what, lang)
	}
}

func (c *checker) choices(row int, q *model.Question) {
	if q.ListName == "" {
		c.report(SeverityWarning, row, q, "%s question names no choice list", q.Type)
		return
	}
	choices := c.survey.ChoicesFor(q.ListName)
	if len(choices) == 0 {
		c.report(SeverityWarning, row, q, "choice list %q has no choices", q.ListName)
		return
	}
	def := c.defaultLanguage()
	for _, choice := range choices {
		if choice.Label == nil || choice.Label.IsEmpty() || def == "" {
			continue
		}
		if _, ok := choice.Label.Get(def); !ok {
			c.report(SeverityError, row, q, "choice %q has no text in default language %q", choice.Name, def)
		}
	}
}

func (c *checker) condition(row int, q *model.Question) {
	if _, err := expr.Translate(q.Relevant); err != nil {
		c.report(SeverityError, row, q, "condition cannot be translated: %v", err)
		return
	}
	for _, ref := range expr.References(q.Relevant) {
		if _, ok := c.fields[ref]; !ok {
			c.report(SeverityWarning, row, q, "condition references unknown field %q", ref)
		}
	}
}

func (c *checker) extras() {
	for _, key := range c.cfg.extras {
		if _, ok := c.survey.ExtraString(key); !ok {
			c.report(SeverityWarning, -1, nil, "extra string %q is missing", key)
		}
	}
}

func (c *checker) consent() {
	if c.cfg.consentField == "" {
		return
	}
	if _, ok := c.fields[c.cfg.consentField]; !ok {
		c.report(SeverityWarning, -1, nil, "no %q question: the submit button is never shown", c.cfg.consentField)
	}
}
