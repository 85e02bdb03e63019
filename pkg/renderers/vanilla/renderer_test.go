package vanilla

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/testsupport"
)

func consentSurvey() *model.Survey {
	return &model.Survey{
		Languages: []model.Language{{Code: "en", Name: "English"}, {Code: "es", Name: "Español"}},
		Questions: []model.Question{
			{Type: model.QuestionTypeSelectOne, Name: "q1", ListName: "yn", Label: model.NewTranslation("en", "Consent?", "es", "¿Consiente?")},
		},
		Choices: []model.Choice{
			{ListName: "yn", Name: "yes", Label: model.NewTranslation("en", "Yes", "es", "Sí")},
			{ListName: "yn", Name: "no", Label: model.NewTranslation("en", "No", "es", "No")},
		},
	}
}

func mustRender(t *testing.T, survey *model.Survey, opts render.RenderOptions) []byte {
	t.Helper()
	out, err := New().Render(context.Background(), survey, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func assertBalanced(t *testing.T, doc []byte) {
	t.Helper()
	for _, tag := range []string{"html", "head", "body", "main", "form", "div", "label", "select", "script", "span"} {
		open, closed := testsupport.CountTags(doc, tag)
		if open != closed {
			t.Fatalf("tag %s: %d opened, %d closed", tag, open, closed)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	t.Parallel()

	r := New()
	if r.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", r.Name())
	}
	if r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
	var _ render.Renderer = r
}

func TestRender_SingleChoiceQuestion(t *testing.T) {
	t.Parallel()

	doc := mustRender(t, consentSurvey(), render.RenderOptions{Language: "en"})

	if got := strings.Count(string(doc), `type="radio" name="q1"`); got != 2 {
		t.Fatalf("expected 2 radio inputs for q1, got %d", got)
	}
	if !bytes.Contains(doc, []byte(`<span name="t0">Consent?</span>`)) {
		t.Fatalf("label span missing:\n%s", doc)
	}

	table := testsupport.LookupTable(t, doc)
	want := render.LookupTable{
		"en": {"t0": "Consent?", "t1": "Yes", "t2": "No"},
		"es": {"t0": "¿Consiente?", "t1": "Sí", "t2": "No"},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Fatalf("lookup table mismatch (-want +got):\n%s", diff)
	}
	assertBalanced(t, doc)
}

func TestRender_HiddenQuestionProducesNothing(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = []model.Question{
		{Type: model.QuestionTypeHidden, Name: "h", Label: model.NewTranslation("en", "Secret", "es", "Secreto")},
	}
	doc := mustRender(t, survey, render.RenderOptions{})

	if bytes.Contains(doc, []byte("q_h")) || bytes.Contains(doc, []byte("Secret")) {
		t.Fatalf("hidden question leaked into document")
	}
	table := testsupport.LookupTable(t, doc)
	for lang, entries := range table {
		if len(entries) != 0 {
			t.Fatalf("expected empty %s table, got %v", lang, entries)
		}
	}
}

func TestRender_GroupIsWellFormed(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = []model.Question{
		{Type: model.QuestionTypeGroupBegin, Name: "g", Label: model.NewTranslation("en", "Group", "es", "Grupo")},
		{Type: model.QuestionTypeText, Name: "a", Label: model.NewTranslation("en", "A", "es", "A")},
		{Type: model.QuestionTypeGroupEnd, Name: "g"},
		{Type: model.QuestionTypeText, Name: "b", Label: model.NewTranslation("en", "B", "es", "B")},
	}
	doc := mustRender(t, survey, render.RenderOptions{})

	assertBalanced(t, doc)
	text := string(doc)
	group := strings.Index(text, `<div id="q_g">`)
	title := strings.Index(text, `<div class="h4 border-gray mb-0">`)
	question := strings.Index(text, `<div id="q_a"`)
	if group < 0 || title < 0 || question < 0 || !(group < question && question < title) {
		t.Fatalf("group title should render inside the first grouped question:\n%s", text)
	}
}

func TestRender_NestedGroupsAndSampleSurvey(t *testing.T) {
	t.Parallel()

	doc := mustRender(t, testsupport.SampleSurvey(), render.RenderOptions{Language: "es"})
	assertBalanced(t, doc)

	text := string(doc)
	for _, fragment := range []string{
		`var currentlanguage = "es";`,
		`var languages = ["en","es"];`,
		`document.getElementById("q_about").style.display = (getFieldValue('consent')==='yes') ? 'block' : 'none';`,
		`document.getElementById("q_dog_name_known").style.display = (selected(getFieldValue('pets'), 'dog')) ? 'block' : 'none';`,
		`document.getElementById('submitbutton').style.display = (getFieldValue('consent')==='yes') ? 'block' : 'none';`,
		`<div id="q_about" style="display:none;">`,
		`<div class="btn-group">`,
		`type="checkbox" name="pets" value="dog"`,
		`<option value="es" selected="selected">Español</option>`,
		`<input type="hidden" name="survey_start_time" />`,
		`<body onload="initSurvey()" class="bg-info inheritalign">`,
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("document missing %q", fragment)
		}
	}

	table := testsupport.LookupTable(t, doc)
	if table["es"]["progress_2"] != "A mitad" || table["en"]["progress_3"] != "Done" {
		t.Fatalf("progress strings not recorded under their keys: %v", table)
	}
	if strings.Contains(text, "Nunca visible") {
		t.Fatalf("hidden question label was emitted")
	}
}

func TestRender_ProgressInOnclick(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	note := model.Question{Type: model.QuestionTypeNote, Name: "n", Label: model.NewTranslation("en", "Note", "es", "Nota")}
	survey.Questions = []model.Question{note, note, survey.Questions[0], note, note}
	survey.Questions[1].Name = "n2"
	survey.Questions[3].Name = "n3"
	survey.Questions[4].Name = "n4"

	doc := mustRender(t, survey, render.RenderOptions{})
	if !bytes.Contains(doc, []byte(`onclick="updateVisibility(75)"`)) {
		t.Fatalf("expected progress 75 for the third of five questions")
	}
}

func TestRender_UnbalancedGroupEnd(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = append(survey.Questions, model.Question{Type: model.QuestionTypeGroupEnd, Name: "stray"})

	var buf bytes.Buffer
	err := New().RenderTo(context.Background(), &buf, survey, render.RenderOptions{})
	if !errors.Is(err, render.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	var structural *render.StructuralError
	if !errors.As(err, &structural) || structural.Question != "stray" {
		t.Fatalf("expected error naming the stray group end, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("partial document written: %d bytes", buf.Len())
	}
}

func TestRender_UnclosedGroup(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = append([]model.Question{{Type: model.QuestionTypeGroupBegin, Name: "open"}}, survey.Questions...)

	out, err := New().Render(context.Background(), survey, render.RenderOptions{})
	if !errors.Is(err, render.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no document on error")
	}
}

func TestRender_InvalidCondition(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions[0].Relevant = "${broken"

	_, err := New().Render(context.Background(), survey, render.RenderOptions{})
	if !errors.Is(err, render.ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestRender_MissingDefaultTranslation(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions[0].Label = model.NewTranslation("es", "Solo español")

	var buf bytes.Buffer
	err := New().RenderTo(context.Background(), &buf, survey, render.RenderOptions{Language: "en"})
	if !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected missing translation error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("partial document written")
	}
}

func TestRender_UnknownLanguage(t *testing.T) {
	t.Parallel()

	_, err := New().Render(context.Background(), consentSurvey(), render.RenderOptions{Language: "fr"})
	var missing *render.MissingTranslationError
	if !errors.As(err, &missing) || missing.Language != "fr" {
		t.Fatalf("expected missing translation for fr, got %v", err)
	}
}

func TestRender_UnknownQuestionTypeSkipped(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = append(survey.Questions, model.Question{Type: "integer", Name: "age", Label: model.NewTranslation("en", "Age", "es", "Edad")})

	doc := mustRender(t, survey, render.RenderOptions{})
	if bytes.Contains(doc, []byte("q_age")) {
		t.Fatalf("unsupported question rendered")
	}
}

func TestRender_SharedRegistryKeepsIdentifiers(t *testing.T) {
	t.Parallel()

	survey := testsupport.SampleSurvey()
	registry := render.NewStringRegistry()
	renderer := New()

	docs := make(map[string][]byte)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, lang := range survey.LanguageCodes() {
		wg.Add(1)
		go func(lang string) {
			defer wg.Done()
			out, err := renderer.Render(context.Background(), survey, render.RenderOptions{Language: lang, Registry: registry})
			if err != nil {
				t.Errorf("render %s: %v", lang, err)
				return
			}
			mu.Lock()
			docs[lang] = out
			mu.Unlock()
		}(lang)
	}
	wg.Wait()

	en := testsupport.LookupTable(t, docs["en"])
	es := testsupport.LookupTable(t, docs["es"])
	if diff := cmp.Diff(en["en"], es["en"]); diff != "" {
		t.Fatalf("identifiers differ between variants (-en +es):\n%s", diff)
	}
	id, ok := registry.Lookup(survey.Questions[1].Label)
	if !ok {
		t.Fatalf("consent label was never registered")
	}
	for lang, doc := range docs {
		if !bytes.Contains(doc, []byte(`<span name="`+id.String()+`">`)) {
			t.Fatalf("%s document does not use %s for the consent label", lang, id)
		}
	}
}

func TestRender_CustomHeaderAndOptions(t *testing.T) {
	t.Parallel()

	renderer := New(
		WithChrome(Chrome{SubmitButton: "btn btn-success"}),
		WithNoScriptMessage("Enable JavaScript"),
		WithConsent("q1", "no"),
	)
	doc, err := renderer.Render(context.Background(), consentSurvey(), render.RenderOptions{Header: []byte("<title>Custom</title>")})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(doc)
	for _, fragment := range []string{
		"<title>Custom</title>",
		`<button type="submit" class="btn btn-success">`,
		"<noscript>Enable JavaScript</noscript>",
		"(getFieldValue('q1')==='no')",
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("document missing %q", fragment)
		}
	}
	if strings.Contains(text, "bootstrap.min.css") {
		t.Fatalf("default header should be replaced")
	}
}

func TestRender_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, consentSurvey(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProgressPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		index, total, want int
	}{
		{0, 0, 100},
		{0, 1, 100},
		{0, 2, 100},
		{0, 4, 33},
		{1, 4, 66},
		{2, 5, 75},
		{4, 5, 100},
	}
	for _, tc := range cases {
		if got := ProgressPercent(tc.index, tc.total); got != tc.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tc.index, tc.total, got, tc.want)
		}
	}
}

func TestDefaultAssets(t *testing.T) {
	t.Parallel()

	if len(DefaultHeader()) == 0 {
		t.Fatalf("default header is empty")
	}
	script := defaultRuntimeScript()
	for _, fn := range []string{"function getFieldValue(", "function selected(", "function updateLanguage(", "function activityhappened(", "function submitform(", "function initSurvey("} {
		if !strings.Contains(script, fn) {
			t.Errorf("runtime script missing %s", fn)
		}
	}
}

func TestRenderer_ExtraHiddenFields(t *testing.T) {
	t.Parallel()

	out := mustRender(t, consentSurvey(), render.RenderOptions{
		HiddenFields: render.MergeHiddenFields(nil,
			render.CSRFToken("_csrf", `a"b`),
			render.Hidden("language", "xx"),
			render.Hidden("q1", "clash"),
		),
	})
	doc := string(out)

	if !strings.Contains(doc, `<input type="hidden" name="_csrf" value="a&#34;b" />`) {
		t.Fatalf("expected escaped csrf input in:\n%s", doc)
	}
	if strings.Contains(doc, `value="xx"`) || strings.Contains(doc, `value="clash"`) {
		t.Fatal("hidden fields colliding with runtime inputs or questions must be skipped")
	}
	assertBalanced(t, out)
}

func TestRender_FieldNamedLikeTranslationSpan(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = []model.Question{
		{Type: model.QuestionTypeSelectOne, Name: "t1", ListName: "yn", Label: model.NewTranslation("en", "Agree?", "es", "¿De acuerdo?")},
		{Type: model.QuestionTypeText, Name: "city", Relevant: "${t1}='yes'", Label: model.NewTranslation("en", "City", "es", "Ciudad")},
	}
	doc := string(mustRender(t, survey, render.RenderOptions{Language: "en"}))

	if !strings.Contains(doc, `<span name="t1">Yes</span>`) {
		t.Fatalf("expected a translation span sharing the field name:\n%s", doc)
	}
	if got := strings.Count(doc, `type="radio" name="t1"`); got != 2 {
		t.Fatalf("expected 2 radio inputs for t1, got %d", got)
	}
	if !strings.Contains(doc, `(getFieldValue('t1')==='yes')`) {
		t.Fatalf("expected visibility guard on t1:\n%s", doc)
	}
	for _, want := range []string{
		"function formFields(",
		"tag === 'INPUT' || tag === 'SELECT' || tag === 'TEXTAREA'",
		"var fields = formFields(name);",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("runtime must read form controls only, missing %q", want)
		}
	}
	if strings.Contains(doc, "var fields = document.getElementsByName(name);") {
		t.Fatal("runtime reads every named element, spans included")
	}
}

func TestRender_GroupOfNotesKeepsTitle(t *testing.T) {
	t.Parallel()

	survey := consentSurvey()
	survey.Questions = []model.Question{
		{Type: model.QuestionTypeGroupBegin, Name: "intro", Label: model.NewTranslation("en", "Welcome", "es", "Bienvenida")},
		{Type: model.QuestionTypeNote, Name: "n1", Label: model.NewTranslation("en", "Read this", "es", "Lea esto")},
		{Type: model.QuestionTypeNote, Name: "n2", Label: model.NewTranslation("en", "And this", "es", "Y esto")},
		{Type: model.QuestionTypeGroupEnd, Name: "intro"},
	}
	doc := mustRender(t, survey, render.RenderOptions{Language: "en"})
	text := string(doc)

	if got := strings.Count(text, `<div class="h4 border-gray mb-0">`); got != 1 {
		t.Fatalf("expected the group title once, got %d:\n%s", got, text)
	}
	title := strings.Index(text, ">Welcome</span>")
	first := strings.Index(text, `<div id="q_n1"`)
	second := strings.Index(text, `<div id="q_n2"`)
	if title < 0 || first < 0 || second < 0 || !(first < title && title < second) {
		t.Fatalf("group title should render inside the first note:\n%s", text)
	}
	found := false
	for _, text := range testsupport.LookupTable(t, doc)["es"] {
		found = found || text == "Bienvenida"
	}
	if !found {
		t.Fatal("group title missing from the lookup table")
	}
	assertBalanced(t, doc)
}
