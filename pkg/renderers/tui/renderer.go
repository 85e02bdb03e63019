package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/visibility"
	"github.com/goliatone/go-surveygen/pkg/visibility/expr"
)

// Renderer implements render.Renderer for terminal-driven sessions: it walks
// the survey question by question, skipping questions whose condition does
// not hold for the answers given so far, and returns the serialized answers.
type Renderer struct {
	driver            PromptDriver
	evaluator         visibility.Evaluator
	outputFormat      OutputFormat
	prefill           map[string]any
	submitTransformer SubmitTransformer
	confirmSubmit     bool
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, expression
// evaluator, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		evaluator:    expr.New(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

type walk struct {
	ctx      context.Context
	survey   *model.Survey
	state    *State
	language string
	// hidden records, per open group, whether the group is skipped.
	hidden []bool
}

// Render prompts for every visible question and returns the answers.
func (r *Renderer) Render(ctx context.Context, survey *model.Survey, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if survey == nil {
		return nil, errors.New("tui: survey is nil")
	}
	languages := survey.LanguageCodes()
	if len(languages) == 0 {
		return nil, ErrNoLanguages
	}

	w := &walk{
		ctx:      ctx,
		survey:   survey,
		state:    NewState(r.prefill),
		language: opts.Language,
	}
	if w.language == "" {
		w.language = languages[0]
	}

	for _, q := range survey.Questions {
		if err := r.step(w, q); err != nil {
			return nil, err
		}
	}
	if len(w.hidden) > 0 {
		return nil, &render.StructuralError{Reason: "group is never closed"}
	}

	if r.confirmSubmit {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: r.text(w, survey.Extra[model.ExtraSubmit], "Submit"), Default: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	values := w.state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values, w.state.Order())
}

func (r *Renderer) step(w *walk, q model.Question) error {
	switch q.Type {
	case model.QuestionTypeGroupBegin:
		skip := w.skipping()
		if !skip {
			visible, err := r.visible(w, q)
			if err != nil {
				return err
			}
			skip = !visible
			if !skip {
				if title := r.text(w, q.Label, ""); title != "" {
					if err := r.driver.Info(w.ctx, r.theme.GroupPrefix+title); err != nil {
						return err
					}
				}
			}
		}
		w.hidden = append(w.hidden, skip)
		return nil
	case model.QuestionTypeGroupEnd:
		if len(w.hidden) == 0 {
			return &render.StructuralError{Question: q.Name, Reason: "group end without an open group"}
		}
		w.hidden = w.hidden[:len(w.hidden)-1]
		return nil
	}

	if w.skipping() {
		return nil
	}
	switch q.Type {
	case model.QuestionTypeNote, model.QuestionTypeSelectOne, model.QuestionTypeSelectMultiple, model.QuestionTypeText:
	default:
		return nil
	}
	visible, err := r.visible(w, q)
	if err != nil || !visible {
		return err
	}

	switch q.Type {
	case model.QuestionTypeNote:
		return r.driver.Info(w.ctx, r.theme.InfoPrefix+r.text(w, q.Label, q.Name))
	case model.QuestionTypeSelectOne:
		return r.promptSelectOne(w, q)
	case model.QuestionTypeSelectMultiple:
		return r.promptSelectMultiple(w, q)
	default:
		return r.promptText(w, q)
	}
}

func (w *walk) skipping() bool {
	for _, hidden := range w.hidden {
		if hidden {
			return true
		}
	}
	return false
}

func (r *Renderer) visible(w *walk, q model.Question) (bool, error) {
	if !q.Conditional() {
		return true, nil
	}
	ok, err := r.evaluator.Eval(q.Name, q.Relevant, visibility.Context{Values: w.state.Values()})
	if err != nil {
		return false, &render.StructuralError{Question: q.Name, Reason: "invalid visibility condition", Err: err}
	}
	return ok, nil
}

func (r *Renderer) promptSelectOne(w *walk, q model.Question) error {
	choices := w.survey.ChoicesFor(q.ListName)
	if len(choices) == 0 {
		return nil
	}
	options := r.choiceLabels(w, choices)
	current := w.state.stringValue(q.Name)
	idx, err := r.driver.Select(w.ctx, SelectConfig{
		Message:      r.prompt(w, q),
		Options:      options,
		DefaultIndex: choiceIndex(choices, current),
		Help:         r.text(w, q.Hint, ""),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(choices) {
		return fmt.Errorf("tui: question %q: selection %d out of range", q.Name, idx)
	}
	return w.state.SetValue(q.Name, choices[idx].Name)
}

func (r *Renderer) promptSelectMultiple(w *walk, q model.Question) error {
	choices := w.survey.ChoicesFor(q.ListName)
	if len(choices) == 0 {
		return nil
	}
	var defaults []int
	for _, token := range w.state.selections(q.Name) {
		if idx := choiceIndex(choices, token); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}
	indices, err := r.driver.MultiSelect(w.ctx, SelectConfig{
		Message:  r.prompt(w, q),
		Options:  r.choiceLabels(w, choices),
		Defaults: defaults,
		Help:     r.text(w, q.Hint, ""),
	})
	if err != nil {
		return err
	}
	picked := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(choices) {
			return fmt.Errorf("tui: question %q: selection %d out of range", q.Name, idx)
		}
		picked = append(picked, choices[idx].Name)
	}
	return w.state.SetValue(q.Name, picked)
}

func (r *Renderer) promptText(w *walk, q model.Question) error {
	value, err := r.driver.Input(w.ctx, InputConfig{
		Message: r.prompt(w, q),
		Default: w.state.stringValue(q.Name),
		Help:    r.text(w, q.Hint, ""),
	})
	if err != nil {
		return err
	}
	return w.state.SetValue(q.Name, value)
}

func (r *Renderer) prompt(w *walk, q model.Question) string {
	return r.theme.PromptPrefix + r.text(w, q.Label, q.Name)
}

func (r *Renderer) text(w *walk, t *model.Translation, fallback string) string {
	if text := localize(t, w.language, w.survey.LanguageCodes()); text != "" {
		return text
	}
	return fallback
}

func (r *Renderer) choiceLabels(w *walk, choices []model.Choice) []string {
	out := make([]string, 0, len(choices))
	for _, choice := range choices {
		out = append(out, r.text(w, choice.Label, choice.Name))
	}
	return out
}

func choiceIndex(choices []model.Choice, name string) int {
	for i, choice := range choices {
		if choice.Name == name {
			return i
		}
	}
	return -1
}

func (r *Renderer) serialize(values map[string]any, order []string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values, order)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				flattened.Add(key, item)
			}
		case []any:
			for _, item := range v {
				flattened.Add(key, fmt.Sprint(item))
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

// prettyPrint lists answers in the order they were given, followed by any
// prefilled values that were never asked, sorted by name.
func prettyPrint(values map[string]any, order []string) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(order))
	for _, key := range order {
		if value, ok := values[key]; ok {
			writePretty(&b, key, value)
			seen[key] = struct{}{}
		}
	}
	rest := make([]string, 0, len(values))
	for key := range values {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		writePretty(&b, key, values[key])
	}
	return b.String()
}

func writePretty(b *strings.Builder, key string, value any) {
	switch v := value.(type) {
	case []string:
		fmt.Fprintf(b, "%s=%s\n", key, strings.Join(v, ", "))
	default:
		fmt.Fprintf(b, "%s=%v\n", key, v)
	}
}
