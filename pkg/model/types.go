package model

import "strings"

// QuestionType enumerates the row types understood by the renderers.
type QuestionType string

const (
	QuestionTypeGroupBegin     QuestionType = "begin group"
	QuestionTypeGroupEnd       QuestionType = "end group"
	QuestionTypeHidden         QuestionType = "hidden"
	QuestionTypeNote           QuestionType = "note"
	QuestionTypeSelectOne      QuestionType = "select_one"
	QuestionTypeSelectMultiple QuestionType = "select_multiple"
	QuestionTypeText           QuestionType = "text"
)

// Well-known keys of Survey.Extra.
const (
	ExtraSubmit    = "submit"
	ExtraLanguage  = "language"
	ExtraProgress1 = "progress_1"
	ExtraProgress2 = "progress_2"
	ExtraProgress3 = "progress_3"
)

// ExtraListName is the choice list whose rows populate Survey.Extra.
const ExtraListName = "extratranslation"

// ProgressExtras lists the progress message keys in display order.
var ProgressExtras = []string{ExtraProgress1, ExtraProgress2, ExtraProgress3}

// IsChoice reports whether questions of this type render one control per
// choice of their list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSelectOne || t == QuestionTypeSelectMultiple
}

// IsGroupMarker reports whether the type opens or closes a group.
func (t QuestionType) IsGroupMarker() bool {
	return t == QuestionTypeGroupBegin || t == QuestionTypeGroupEnd
}

// ParseQuestionType splits a raw type cell such as "select_one yes_no" into
// the question type and the referenced choice list.
func ParseQuestionType(raw string) (QuestionType, string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", ""
	}
	head := QuestionType(fields[0])
	if head.IsChoice() {
		if len(fields) > 1 {
			return head, fields[1]
		}
		return head, ""
	}
	return QuestionType(strings.Join(fields, " ")), ""
}

// Question is one row of survey logic.
type Question struct {
	Type       QuestionType `json:"type" yaml:"type"`
	Name       string       `json:"name" yaml:"name"`
	ListName   string       `json:"listName,omitempty" yaml:"listName,omitempty"`
	Label      *Translation `json:"label,omitempty" yaml:"label,omitempty"`
	Hint       *Translation `json:"hint,omitempty" yaml:"hint,omitempty"`
	Relevant   string       `json:"relevant,omitempty" yaml:"relevant,omitempty"`
	Appearance string       `json:"appearance,omitempty" yaml:"appearance,omitempty"`
}

// Conditional reports whether the question carries a visibility condition.
func (q Question) Conditional() bool {
	return strings.TrimSpace(q.Relevant) != ""
}

// Choice is one selectable option of a named choice list.
type Choice struct {
	ListName string       `json:"listName" yaml:"listName"`
	Name     string       `json:"name" yaml:"name"`
	Label    *Translation `json:"label,omitempty" yaml:"label,omitempty"`
}

// Language pairs a language code with its display name.
type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Survey is the full questionnaire definition.
type Survey struct {
	Questions []Question              `json:"questions" yaml:"questions"`
	Choices   []Choice                `json:"choices,omitempty" yaml:"choices,omitempty"`
	Languages []Language              `json:"languages" yaml:"languages"`
	Extra     map[string]*Translation `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ChoicesFor returns the choices of the named list in source order.
func (s *Survey) ChoicesFor(listName string) []Choice {
	if s == nil || listName == "" {
		return nil
	}
	var out []Choice
	for _, choice := range s.Choices {
		if choice.ListName == listName {
			out = append(out, choice)
		}
	}
	return out
}

// LanguageCodes returns the configured language codes in order.
func (s *Survey) LanguageCodes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Languages))
	for _, lang := range s.Languages {
		out = append(out, lang.Code)
	}
	return out
}

// Language looks up a configured language by code.
func (s *Survey) Language(code string) (Language, bool) {
	if s == nil {
		return Language{}, false
	}
	for _, lang := range s.Languages {
		if lang.Code == code {
			return lang, true
		}
	}
	return Language{}, false
}

// AddLanguage registers a language, updating the display name when the code
// is already known so the original column order is preserved.
func (s *Survey) AddLanguage(code, name string) {
	for i := range s.Languages {
		if s.Languages[i].Code == code {
			if name != "" {
				s.Languages[i].Name = name
			}
			return
		}
	}
	s.Languages = append(s.Languages, Language{Code: code, Name: name})
}

// ExtraString returns the extra UI string registered under key.
func (s *Survey) ExtraString(key string) (*Translation, bool) {
	if s == nil || s.Extra == nil {
		return nil, false
	}
	t, ok := s.Extra[key]
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// FieldNames returns the set of question names that hold a form value.
func (s *Survey) FieldNames() map[string]struct{} {
	out := make(map[string]struct{})
	if s == nil {
		return out
	}
	for _, q := range s.Questions {
		if q.Name == "" || q.Type.IsGroupMarker() {
			continue
		}
		out[q.Name] = struct{}{}
	}
	return out
}
