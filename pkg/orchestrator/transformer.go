package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-surveygen/pkg/model"
	"gopkg.in/yaml.v3"
)

// Transformer mutates a Survey before decorators run. Implementations can
// rename questions, override strings, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, survey *model.Survey) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, survey *model.Survey) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, survey *model.Survey) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, survey)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, survey *model.Survey) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, survey); err != nil {
				return err
			}
		}
		return nil
	})
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document. The document shape supports extra UI strings and per-question
// patches:
//
//	extra:
//	  submit: {en: "Send", es: "Enviar"}
//	questions:
//	  city:
//	    label: {en: "Town"}
//	    relevant: "${consent}='yes'"
//	    rename: town
//
// Translations are merged per language, so a patch that names only "en"
// keeps every other language of the original string.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Extra     map[string]map[string]string `json:"extra" yaml:"extra"`
	Questions map[string]questionPatch     `json:"questions" yaml:"questions"`
}

type questionPatch struct {
	Label      map[string]string `json:"label" yaml:"label"`
	Hint       map[string]string `json:"hint" yaml:"hint"`
	Relevant   *string           `json:"relevant" yaml:"relevant"`
	Appearance *string           `json:"appearance" yaml:"appearance"`
	Rename     string            `json:"rename" yaml:"rename"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(trimmed, &document); err != nil {
		if yamlErr := yaml.Unmarshal(trimmed, &document); yamlErr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", yamlErr)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied survey.
func (t *PresetTransformer) Transform(ctx context.Context, survey *model.Survey) error {
	if survey == nil {
		return errors.New("preset transformer: survey is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, key := range sortedKeys(t.document.Extra) {
		if survey.Extra == nil {
			survey.Extra = make(map[string]*model.Translation)
		}
		survey.Extra[key] = mergeTranslation(survey.Extra[key], t.document.Extra[key])
	}

	for _, name := range sortedKeys(t.document.Questions) {
		if err := ctx.Err(); err != nil {
			return err
		}
		question := findQuestion(survey.Questions, name)
		if question == nil {
			return fmt.Errorf("preset transformer: question %q not found", name)
		}
		applyQuestionPatch(question, t.document.Questions[name])
	}
	return nil
}

func applyQuestionPatch(question *model.Question, patch questionPatch) {
	if len(patch.Label) > 0 {
		question.Label = mergeTranslation(question.Label, patch.Label)
	}
	if len(patch.Hint) > 0 {
		question.Hint = mergeTranslation(question.Hint, patch.Hint)
	}
	if patch.Relevant != nil {
		question.Relevant = strings.TrimSpace(*patch.Relevant)
	}
	if patch.Appearance != nil {
		question.Appearance = strings.TrimSpace(*patch.Appearance)
	}
	if name := strings.TrimSpace(patch.Rename); name != "" {
		question.Name = name
	}
}

func findQuestion(questions []model.Question, name string) *model.Question {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	for idx := range questions {
		if questions[idx].Name == name && !questions[idx].Type.IsGroupMarker() {
			return &questions[idx]
		}
	}
	for idx := range questions {
		if questions[idx].Name == name {
			return &questions[idx]
		}
	}
	return nil
}

// mergeTranslation returns a new translation so strings shared by pointer
// elsewhere in the survey are left untouched.
func mergeTranslation(base *model.Translation, src map[string]string) *model.Translation {
	out := model.NewTranslation()
	if base != nil {
		for lang, text := range *base {
			out.Set(lang, text)
		}
	}
	for lang, text := range src {
		out.Set(lang, text)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
