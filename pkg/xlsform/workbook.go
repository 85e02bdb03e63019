package xlsform

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-surveygen/pkg/model"
)

const (
	surveySheet  = "survey"
	choicesSheet = "choices"
)

// WorkbookOptions tunes ParseWorkbook.
type WorkbookOptions struct {
	// DefaultLanguage is the code given to plain "label" columns.
	DefaultLanguage string
	// KeepMarkup disables label sanitising.
	KeepMarkup bool
}

func (o WorkbookOptions) defaultLanguage() string {
	if o.DefaultLanguage == "" {
		return DefaultLanguage
	}
	return o.DefaultLanguage
}

// ParseWorkbook decodes an XLSForm workbook. Languages are taken from the
// translated label columns of the survey sheet, in column order.
func ParseWorkbook(data []byte, opts WorkbookOptions) (*model.Survey, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xlsform: open workbook: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]string)
	for _, name := range f.GetSheetList() {
		sheets[strings.ToLower(strings.TrimSpace(name))] = name
	}

	sheet, ok := sheets[surveySheet]
	if !ok {
		return nil, fmt.Errorf("xlsform: workbook has no %q sheet", surveySheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsform: read %q sheet: %w", sheet, err)
	}

	survey := &model.Survey{Extra: make(map[string]*model.Translation)}
	if err := parseSurveyRows(survey, rows, opts); err != nil {
		return nil, err
	}

	if sheet, ok := sheets[choicesSheet]; ok {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsform: read %q sheet: %w", sheet, err)
		}
		parseChoiceRows(survey, rows, opts)
	}
	return survey, nil
}

func parseSurveyRows(survey *model.Survey, rows [][]string, opts WorkbookOptions) error {
	if len(rows) == 0 {
		return fmt.Errorf("xlsform: %q sheet is empty", surveySheet)
	}
	h := newHeader(rows[0], opts.defaultLanguage())
	typeCol := h.column("type")
	if typeCol < 0 {
		return fmt.Errorf("xlsform: %q sheet has no type column", surveySheet)
	}
	if len(h.labels) == 0 {
		return fmt.Errorf("xlsform: %q sheet has no label columns", surveySheet)
	}
	for _, label := range h.labels {
		survey.AddLanguage(label.code, label.name)
	}

	nameCol := h.column("name")
	relevantCol := h.column("relevant")
	appearanceCol := h.column("appearance")
	sanitize := !opts.KeepMarkup

	for _, row := range rows[1:] {
		raw := strings.TrimSpace(cell(row, typeCol))
		if raw == "" {
			continue
		}
		qt, list := model.ParseQuestionType(normalizeType(raw))
		q := model.Question{
			Type:       qt,
			ListName:   list,
			Name:       strings.TrimSpace(cell(row, nameCol)),
			Relevant:   strings.TrimSpace(cell(row, relevantCol)),
			Appearance: strings.TrimSpace(cell(row, appearanceCol)),
		}
		if q.Name != "" {
			q.Label = &model.Translation{}
			for _, label := range h.labels {
				q.Label.Set(label.code, labelText(cell(row, label.index), sanitize))
				if hint := h.hintColumn(label); hint >= 0 {
					if q.Hint == nil {
						q.Hint = &model.Translation{}
					}
					q.Hint.Set(label.code, labelText(cell(row, hint), sanitize))
				}
			}
		}
		survey.Questions = append(survey.Questions, q)
	}
	return nil
}

func parseChoiceRows(survey *model.Survey, rows [][]string, opts WorkbookOptions) {
	if len(rows) == 0 {
		return
	}
	h := newHeader(rows[0], opts.defaultLanguage())
	listCol := h.column("list_name")
	if listCol < 0 {
		listCol = h.column("list name")
	}
	nameCol := h.column("name")
	sanitize := !opts.KeepMarkup

	for _, row := range rows[1:] {
		list := strings.TrimSpace(cell(row, listCol))
		if list == "" {
			continue
		}
		choice := model.Choice{
			ListName: list,
			Name:     strings.TrimSpace(cell(row, nameCol)),
			Label:    &model.Translation{},
		}
		for _, label := range h.labels {
			choice.Label.Set(label.code, labelText(cell(row, label.index), sanitize))
		}
		if list == model.ExtraListName {
			survey.Extra[choice.Name] = choice.Label
		}
		survey.Choices = append(survey.Choices, choice)
	}
}

// normalizeType accepts the underscore spellings of group markers.
func normalizeType(raw string) string {
	switch strings.ToLower(strings.Join(strings.Fields(raw), " ")) {
	case "begin_group", "begin group":
		return string(model.QuestionTypeGroupBegin)
	case "end_group", "end group":
		return string(model.QuestionTypeGroupEnd)
	}
	return raw
}
