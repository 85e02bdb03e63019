package vanilla

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/render/markup"
	"github.com/goliatone/go-surveygen/pkg/visibility/expr"
)

var hiddenInputs = []string{
	"surveysource",
	"survey_channel",
	"survey_start_time",
	"survey_mid_time",
	"survey_end_time",
	"language",
}

type openGroup struct {
	name  string
	scope *markup.Scope
}

// document carries the state of a single render.
type document struct {
	ctx      context.Context
	cfg      config
	w        *markup.Writer
	survey   *model.Survey
	registry *render.StringRegistry
	usage    *render.Usage
	sections *SectionTracker

	hidden       []render.HiddenField
	groups       []openGroup
	pendingTitle *model.Translation
}

func (d *document) render(header []byte) error {
	root := d.w.Open("html", markup.A("class", "notranslate"), markup.A("translate", "no"))
	defer root.Close()

	if err := d.renderHead(header); err != nil {
		return err
	}
	return d.renderBody()
}

func (d *document) renderHead(header []byte) error {
	head := d.w.Open("head")
	defer head.Close()

	script, err := d.visibilityScript()
	if err != nil {
		return err
	}
	for _, key := range model.ProgressExtras {
		if t, ok := d.survey.ExtraString(key); ok {
			d.registry.RecordUsageAs(t, key, d.usage)
		}
	}

	if err := d.w.Within("script", nil, func() error {
		d.w.Raw(script)
		return nil
	}); err != nil {
		return err
	}
	if len(header) > 0 {
		d.w.Raw(string(header))
	}
	return nil
}

// visibilityScript builds the head script: the current language, the
// configured languages and updateVisibility with one guard per conditional
// question.
func (d *document) visibilityScript() (string, error) {
	var b scriptBuilder
	b.linef("var currentlanguage = %s;", jsValue(d.usage.DefaultLanguage()))
	b.linef("var languages = %s;", jsValue(d.usage.Languages()))
	b.line("function updateVisibility(percentcomplete) {")
	for _, q := range d.survey.Questions {
		if !q.Conditional() || !rendersContainer(q.Type) {
			continue
		}
		condition, err := expr.Translate(q.Relevant)
		if err != nil {
			return "", &render.StructuralError{Question: q.Name, Reason: "invalid visibility condition", Err: err}
		}
		b.linef("document.getElementById(%s).style.display = (%s) ? 'block' : 'none';", jsValue(questionID(q.Name)), condition)
	}
	consent, err := expr.Translate(fmt.Sprintf("${%s}='%s'", d.cfg.consentField, d.cfg.consentValue))
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: consent guard: %w", err)
	}
	b.linef("document.getElementById('submitbutton').style.display = (%s) ? 'block' : 'none';", consent)
	b.line("activityhappened(percentcomplete);")
	b.line("}")
	return b.String(), nil
}

func (d *document) renderBody() error {
	chrome := d.cfg.chrome
	body := d.w.Open("body", markup.A("onload", "initSurvey()"), markup.A("class", chrome.Body))
	defer body.Close()

	d.w.Text("noscript", nil, html.EscapeString(d.cfg.noScript))
	d.renderProgressBar()

	content := d.w.Open("main", markup.A("role", "main"), markup.A("class", chrome.Main))
	defer content.Close()
	form := d.w.Open("form",
		markup.A("method", "post"),
		markup.A("onsubmit", "return submitform();"),
		markup.A("id", "myform"),
	)
	defer form.Close()

	d.sections.BeginSection()
	if err := d.renderLanguageSelector(); err != nil {
		return err
	}

	total := len(d.survey.Questions)
	for i, q := range d.survey.Questions {
		if err := d.ctx.Err(); err != nil {
			return err
		}
		if err := d.renderQuestion(q, ProgressPercent(i, total)); err != nil {
			return err
		}
	}
	if n := len(d.groups); n > 0 {
		return &render.StructuralError{Question: d.groups[n-1].name, Reason: "group is never closed"}
	}
	d.sections.EndSection()

	if err := d.renderSubmit(); err != nil {
		return err
	}
	d.renderHiddenInputs()
	form.Close()
	content.Close()

	return d.renderTrailingScript()
}

func (d *document) renderHiddenInputs() {
	taken := d.survey.FieldNames()
	for _, name := range hiddenInputs {
		d.w.Leaf("input", markup.A("type", "hidden"), markup.A("name", name))
		taken[name] = struct{}{}
	}
	for _, field := range d.hidden {
		if _, dup := taken[field.Name]; dup {
			d.cfg.logger.Debug("skipping hidden field", "name", field.Name)
			continue
		}
		d.w.Leaf("input",
			markup.A("type", "hidden"),
			markup.A("name", field.Name),
			markup.A("value", field.Value),
		)
	}
}

func (d *document) renderProgressBar() {
	chrome := d.cfg.chrome
	box := d.w.Open("div",
		markup.A("style", "position: fixed; top: 0px; z-index: 99999;"),
		markup.A("class", chrome.ProgressBox),
	)
	defer box.Close()
	d.w.Text("div", []markup.Attr{
		markup.A("id", "progress"),
		markup.A("class", chrome.ProgressBar),
		markup.A("role", "progressbar"),
		markup.A("style", "width: 0%"),
		markup.A("aria-valuenow", "0"),
		markup.A("aria-valuemin", "0"),
		markup.A("aria-valuemax", "100"),
	}, "")
}

func (d *document) renderLanguageSelector() error {
	return d.w.Within("div", []markup.Attr{markup.A("style", "text-align: right")}, func() error {
		if t, ok := d.survey.ExtraString(model.ExtraLanguage); ok {
			if err := d.writeSpan(t); err != nil {
				return fmt.Errorf("vanilla renderer: language label: %w", err)
			}
		}
		return d.w.Within("select", []markup.Attr{
			markup.A("id", "languageselector"),
			markup.A("onchange", "updateLanguage(this.value)"),
		}, func() error {
			for _, lang := range d.survey.Languages {
				attrs := []markup.Attr{markup.A("value", lang.Code)}
				if lang.Code == d.usage.DefaultLanguage() {
					attrs = append(attrs, markup.A("selected", "selected"))
				}
				name := lang.Name
				if name == "" {
					name = lang.Code
				}
				d.w.Text("option", attrs, html.EscapeString(name))
			}
			return nil
		})
	})
}

func (d *document) renderSubmit() error {
	chrome := d.cfg.chrome
	card := d.w.Open("div",
		markup.A("class", chrome.SubmitCard),
		markup.A("id", "submitbutton"),
		markup.A("style", "display:none;"),
	)
	defer card.Close()
	return d.w.Within("div", []markup.Attr{markup.A("class", chrome.SubmitHeader)}, func() error {
		return d.w.Within("button", []markup.Attr{
			markup.A("type", "submit"),
			markup.A("class", chrome.SubmitButton),
		}, func() error {
			t, ok := d.survey.ExtraString(model.ExtraSubmit)
			if !ok {
				return nil
			}
			if err := d.writeSpan(t); err != nil {
				return fmt.Errorf("vanilla renderer: submit label: %w", err)
			}
			return nil
		})
	})
}

func (d *document) renderTrailingScript() error {
	table, err := d.usage.MarshalLookupTable()
	if err != nil {
		return fmt.Errorf("vanilla renderer: %w", err)
	}
	return d.w.Within("script", nil, func() error {
		d.w.Raw("var translations = " + string(table) + ";")
		if d.cfg.runtimeScript != "" {
			d.w.Raw(d.cfg.runtimeScript)
		}
		return nil
	})
}

func (d *document) renderQuestion(q model.Question, percent int) error {
	switch q.Type {
	case model.QuestionTypeGroupBegin:
		d.beginGroup(q)
		return nil
	case model.QuestionTypeGroupEnd:
		return d.endGroup(q)
	case model.QuestionTypeHidden:
		return nil
	case model.QuestionTypeNote:
		d.enterQuestion()
		return d.renderNote(q)
	case model.QuestionTypeSelectOne, model.QuestionTypeSelectMultiple:
		d.enterQuestion()
		return d.renderChoiceQuestion(q, percent)
	case model.QuestionTypeText:
		d.enterQuestion()
		return d.renderTextQuestion(q, percent)
	default:
		d.cfg.logger.Debug("skipping unsupported question type",
			slog.String("question", q.Name),
			slog.String("type", string(q.Type)),
		)
		return nil
	}
}

func (d *document) beginGroup(q model.Question) {
	d.sections.EndSection()
	scope := d.w.Open("div", containerAttrs(q, "")...)
	d.groups = append(d.groups, openGroup{name: q.Name, scope: scope})
	d.sections.BeginSection()
	d.pendingTitle = nil
	if !q.Label.IsEmpty() {
		d.pendingTitle = q.Label
	}
}

func (d *document) endGroup(q model.Question) error {
	n := len(d.groups)
	if n == 0 {
		return &render.StructuralError{Question: q.Name, Reason: "group end without an open group"}
	}
	d.sections.EndSection()
	d.groups[n-1].scope.Close()
	d.groups = d.groups[:n-1]
	d.pendingTitle = nil
	return nil
}

// enterQuestion places the next question block: top level questions get
// their own card, grouped questions share the group's card.
func (d *document) enterQuestion() {
	if len(d.groups) == 0 {
		d.sections.BeginQuestion()
		return
	}
	if !d.sections.IsOpen() {
		d.sections.BeginSection()
	}
}

func (d *document) writeSpan(t *model.Translation) error {
	id, text, err := d.registry.Emit(t, d.usage)
	if err != nil {
		return err
	}
	d.w.Text("span", []markup.Attr{markup.A("name", id.String())}, text)
	return nil
}
