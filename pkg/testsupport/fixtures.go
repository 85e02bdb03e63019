package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
)

// SampleSurvey returns a bilingual (en, es) survey exercising every question
// type: a consent question, a grouped block shown only after consent, a
// hidden field and the well-known extra strings. Every call returns fresh
// values so tests may mutate the result.
func SampleSurvey() *model.Survey {
	return &model.Survey{
		Languages: []model.Language{
			{Code: "en", Name: "English"},
			{Code: "es", Name: "Español"},
		},
		Questions: []model.Question{
			{Type: model.QuestionTypeNote, Name: "intro", Label: model.NewTranslation("en", "Welcome", "es", "Bienvenido")},
			{Type: model.QuestionTypeSelectOne, Name: "consent", ListName: "yn", Label: model.NewTranslation("en", "Do you consent?", "es", "¿Consiente?")},
			{Type: model.QuestionTypeGroupBegin, Name: "about", Relevant: "${consent}=yes", Label: model.NewTranslation("en", "About you", "es", "Sobre usted")},
			{Type: model.QuestionTypeText, Name: "city", Label: model.NewTranslation("en", "City", "es", "Ciudad"), Hint: model.NewTranslation("en", "Where you live", "es", "Donde vive")},
			{Type: model.QuestionTypeSelectMultiple, Name: "pets", ListName: "pets", Appearance: "horizontal", Label: model.NewTranslation("en", "Pets", "es", "Mascotas")},
			{Type: model.QuestionTypeSelectOne, Name: "dog_name_known", ListName: "yn", Relevant: "selected(${pets}, 'dog')", Label: model.NewTranslation("en", "Do you know its name?", "es", "¿Sabe su nombre?")},
			{Type: model.QuestionTypeGroupEnd, Name: "about"},
			{Type: model.QuestionTypeHidden, Name: "token", Label: model.NewTranslation("en", "Never shown", "es", "Nunca visible")},
		},
		Choices: []model.Choice{
			{ListName: "yn", Name: "yes", Label: model.NewTranslation("en", "Yes", "es", "Sí")},
			{ListName: "yn", Name: "no", Label: model.NewTranslation("en", "No", "es", "No")},
			{ListName: "pets", Name: "dog", Label: model.NewTranslation("en", "Dog", "es", "Perro")},
			{ListName: "pets", Name: "cat", Label: model.NewTranslation("en", "Cat", "es", "Gato")},
		},
		Extra: map[string]*model.Translation{
			model.ExtraSubmit:    model.NewTranslation("en", "Submit", "es", "Enviar"),
			model.ExtraLanguage:  model.NewTranslation("en", "Language", "es", "Idioma"),
			model.ExtraProgress1: model.NewTranslation("en", "Just started", "es", "Recién empezado"),
			model.ExtraProgress2: model.NewTranslation("en", "Halfway", "es", "A mitad"),
			model.ExtraProgress3: model.NewTranslation("en", "Done", "es", "Listo"),
		},
	}
}

// LookupTable extracts the `var translations = ...;` table from a rendered
// document.
func LookupTable(t *testing.T, document []byte) render.LookupTable {
	t.Helper()

	table, err := ParseLookupTable(document)
	if err != nil {
		t.Fatalf("lookup table: %v", err)
	}
	return table
}

// ParseLookupTable is LookupTable without *testing.T.
func ParseLookupTable(document []byte) (render.LookupTable, error) {
	const marker = "var translations = "
	text := string(document)
	start := strings.Index(text, marker)
	if start < 0 {
		return nil, errors.New("testsupport: document has no translations table")
	}
	rest := text[start+len(marker):]
	end := strings.Index(rest, ";\n")
	if end < 0 {
		return nil, errors.New("testsupport: translations table is not terminated")
	}
	var table render.LookupTable
	if err := json.Unmarshal([]byte(rest[:end]), &table); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal translations: %w", err)
	}
	return table, nil
}

// CountTags returns how many opening and closing tags named tag appear in
// document.
func CountTags(document []byte, tag string) (open, closed int) {
	open = bytes.Count(document, []byte("<"+tag+">")) + bytes.Count(document, []byte("<"+tag+" "))
	closed = bytes.Count(document, []byte("</"+tag+">"))
	return open, closed
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs render against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, render func(io.Writer) error) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.Bytes()
}
