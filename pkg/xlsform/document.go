package xlsform

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-surveygen/pkg/model"
)

// DocumentOptions tunes ParseDocument.
type DocumentOptions struct {
	// KeepMarkup disables label sanitising.
	KeepMarkup bool
}

// ParseDocument decodes a YAML or JSON survey document. JSON is tried first,
// then YAML. When the document lists no languages they are inferred from the
// translations, sorted by code. Labels and hints go through the same
// preparation as workbook cells.
func ParseDocument(data []byte, source string, opts DocumentOptions) (*model.Survey, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("xlsform: document %s is empty", source)
	}

	var survey model.Survey
	if err := json.Unmarshal(data, &survey); err != nil {
		survey = model.Survey{}
		if yerr := yaml.Unmarshal(data, &survey); yerr != nil {
			return nil, fmt.Errorf("xlsform: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}

	for i := range survey.Questions {
		q := &survey.Questions[i]
		raw := strings.TrimSpace(string(q.Type))
		if q.ListName == "" {
			q.Type, q.ListName = model.ParseQuestionType(normalizeType(raw))
		} else {
			q.Type, _ = model.ParseQuestionType(normalizeType(raw))
		}
	}

	prepareLabels(&survey, !opts.KeepMarkup)

	if survey.Extra == nil {
		survey.Extra = make(map[string]*model.Translation)
	}
	for _, choice := range survey.Choices {
		if choice.ListName != model.ExtraListName {
			continue
		}
		if _, ok := survey.Extra[choice.Name]; !ok {
			survey.Extra[choice.Name] = choice.Label
		}
	}

	if len(survey.Languages) == 0 {
		for _, code := range inferLanguages(&survey) {
			survey.AddLanguage(code, LanguageName(code))
		}
	}
	for i := range survey.Languages {
		if survey.Languages[i].Name == "" {
			survey.Languages[i].Name = LanguageName(survey.Languages[i].Code)
		}
	}
	if len(survey.Languages) == 0 {
		return nil, fmt.Errorf("xlsform: document %s declares no languages", source)
	}
	return &survey, nil
}

// prepareLabels runs every translation of the survey through labelText once,
// even when several entries share the same Translation.
func prepareLabels(survey *model.Survey, sanitize bool) {
	seen := make(map[*model.Translation]struct{})
	prepare := func(t *model.Translation) {
		if t == nil {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		for _, code := range t.Languages() {
			text, _ := t.Get(code)
			t.Set(code, labelText(text, sanitize))
		}
	}
	for _, q := range survey.Questions {
		prepare(q.Label)
		prepare(q.Hint)
	}
	for _, c := range survey.Choices {
		prepare(c.Label)
	}
	for _, t := range survey.Extra {
		prepare(t)
	}
}

func inferLanguages(survey *model.Survey) []string {
	seen := make(map[string]struct{})
	add := func(t *model.Translation) {
		for _, code := range t.Languages() {
			seen[code] = struct{}{}
		}
	}
	for _, q := range survey.Questions {
		add(q.Label)
		add(q.Hint)
	}
	for _, c := range survey.Choices {
		add(c.Label)
	}
	for _, t := range survey.Extra {
		add(t)
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Dump writes the survey model as indented JSON.
func Dump(w io.Writer, survey *model.Survey) error {
	if survey == nil {
		return fmt.Errorf("xlsform: survey is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(survey); err != nil {
		return fmt.Errorf("xlsform: dump survey: %w", err)
	}
	return nil
}
