package vanilla

import (
	"encoding/base64"
	"fmt"
	"html"
	"strconv"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render/markup"
)

const noteIconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24"><circle cx="12" cy="12" r="11" fill="#17a2b8"/><rect x="11" y="10" width="2" height="8" fill="#fff"/><rect x="11" y="6" width="2" height="2" fill="#fff"/></svg>`

var noteBackground = "background-image: url(data:image/svg+xml;base64," +
	base64.StdEncoding.EncodeToString([]byte(noteIconSVG)) +
	"); background-repeat: no-repeat; background-position: .5rem .75rem; padding-left: 2.75rem;"

func (d *document) renderNote(q model.Question) error {
	attrs := containerAttrs(q, d.cfg.chrome.Question, noteBackground)
	return d.w.Within("div", attrs, func() error {
		if err := d.renderPendingTitle(q); err != nil {
			return err
		}
		return d.w.Within("div", []markup.Attr{markup.A("class", d.cfg.chrome.NoteBody)}, func() error {
			return d.questionSpan(q, q.Label)
		})
	})
}

func (d *document) renderChoiceQuestion(q model.Question, percent int) error {
	inputType := "radio"
	if q.Type == model.QuestionTypeSelectMultiple {
		inputType = "checkbox"
	}
	groupClass := d.cfg.chrome.ChoiceStack
	if isHorizontal(q.Appearance) {
		groupClass = d.cfg.chrome.ChoiceRow
	}
	onclick := "updateVisibility(" + strconv.Itoa(percent) + ")"

	return d.w.Within("div", containerAttrs(q, d.cfg.chrome.Question), func() error {
		if err := d.renderQuestionHeading(q); err != nil {
			return err
		}
		for _, choice := range d.survey.ChoicesFor(q.ListName) {
			err := d.w.Within("div", []markup.Attr{markup.A("class", groupClass)}, func() error {
				return d.w.Within("label", []markup.Attr{markup.A("class", d.cfg.chrome.ChoiceLabel)}, func() error {
					d.w.Leaf("input",
						markup.A("onclick", onclick),
						markup.A("type", inputType),
						markup.A("name", q.Name),
						markup.A("value", choice.Name),
					)
					if choice.Label.IsEmpty() {
						d.w.Text("span", nil, html.EscapeString(choice.Name))
						return nil
					}
					return d.questionSpan(q, choice.Label)
				})
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *document) renderTextQuestion(q model.Question, percent int) error {
	return d.w.Within("div", containerAttrs(q, d.cfg.chrome.Question), func() error {
		if err := d.renderQuestionHeading(q); err != nil {
			return err
		}
		return d.w.Within("div", []markup.Attr{markup.A("class", d.cfg.chrome.TextGroup)}, func() error {
			d.w.Leaf("input",
				markup.A("class", d.cfg.chrome.TextInput),
				markup.A("type", "text"),
				markup.A("name", q.Name),
				markup.A("onchange", "updateVisibility("+strconv.Itoa(percent)+")"),
			)
			return nil
		})
	})
}

// renderPendingTitle writes the title of the enclosing group on the first
// block rendered inside it, notes included.
func (d *document) renderPendingTitle(q model.Question) error {
	title := d.pendingTitle
	if title == nil {
		return nil
	}
	d.pendingTitle = nil
	return d.w.Within("div", []markup.Attr{markup.A("class", d.cfg.chrome.GroupTitle)}, func() error {
		return d.questionSpan(q, title)
	})
}

// renderQuestionHeading writes the pending group title, then the label and
// hint of q.
func (d *document) renderQuestionHeading(q model.Question) error {
	if err := d.renderPendingTitle(q); err != nil {
		return err
	}
	if q.Label.IsEmpty() && q.Hint.IsEmpty() {
		return nil
	}
	return d.w.Within("div", []markup.Attr{markup.A("class", d.cfg.chrome.Label)}, func() error {
		if err := d.questionSpan(q, q.Label); err != nil {
			return err
		}
		if q.Hint.IsEmpty() {
			return nil
		}
		d.w.Leaf("br")
		return d.w.Within("small", nil, func() error {
			return d.questionSpan(q, q.Hint)
		})
	})
}

// questionSpan writes t as a translatable span. Empty strings are skipped.
func (d *document) questionSpan(q model.Question, t *model.Translation) error {
	if t.IsEmpty() {
		return nil
	}
	if err := d.writeSpan(t); err != nil {
		return fmt.Errorf("vanilla renderer: question %q: %w", q.Name, err)
	}
	return nil
}
