package render_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
)

func TestStringRegistry_RegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	label := model.NewTranslation("en", "Hello", "es", "Hola")
	other := model.NewTranslation("en", "Bye", "es", "Adiós")

	first := registry.Register(label)
	second := registry.Register(label)
	if first != second {
		t.Fatalf("expected same identifier, got %s and %s", first, second)
	}
	if got := registry.Register(other); got != first+1 {
		t.Fatalf("expected next sequential identifier %s, got %s", first+1, got)
	}
	if first.String() != "t0" {
		t.Fatalf("expected t0, got %s", first)
	}
}

func TestStringRegistry_DeadStringsExcluded(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	usage := render.NewUsage("en", []string{"en", "es"})
	used := model.NewTranslation("en", "Used", "es", "Usado")
	unused := model.NewTranslation("en", "Unused", "es", "Sin uso")

	id, text, err := registry.Emit(used, usage)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if text != "Used" {
		t.Fatalf("expected default language text, got %q", text)
	}

	want := render.LookupTable{
		"en": {id.String(): "Used"},
		"es": {id.String(): "Usado"},
	}
	if diff := cmp.Diff(want, usage.LookupTable()); diff != "" {
		t.Fatalf("lookup table mismatch (-want +got):\n%s", diff)
	}
	if _, ok := registry.Lookup(unused); ok {
		t.Fatalf("unused string must not be assigned an identifier")
	}
}

func TestStringRegistry_EveryLanguagePresent(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	usage := render.NewUsage("en", []string{"en", "fr", "de"})
	partial := model.NewTranslation("en", "Only English")

	id := registry.RecordUsage(partial, usage)
	table := usage.LookupTable()
	for _, lang := range []string{"en", "fr", "de"} {
		if _, ok := table[lang][id.String()]; !ok {
			t.Fatalf("expected %s key in %q table", id, lang)
		}
	}
	if table["fr"][id.String()] != "" {
		t.Fatalf("expected empty text for missing language, got %q", table["fr"][id.String()])
	}
}

func TestStringRegistry_MissingDefaultLanguage(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	usage := render.NewUsage("es", []string{"en", "es"})

	_, _, err := registry.Emit(model.NewTranslation("en", "Hello"), usage)
	if !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected missing translation error, got %v", err)
	}
	var missing *render.MissingTranslationError
	if !errors.As(err, &missing) || missing.Language != "es" {
		t.Fatalf("expected MissingTranslationError for es, got %#v", err)
	}
	if len(usage.LookupTable()["en"]) != 0 {
		t.Fatalf("failed emission must not be recorded")
	}
}

func TestStringRegistry_RecordUsageAs(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	usage := render.NewUsage("en", []string{"en"})
	registry.RecordUsageAs(model.NewTranslation("en", "Halfway"), "progress_2", usage)

	if !usage.Has("progress_2") {
		t.Fatalf("expected progress_2 to be recorded")
	}
	if registry.Len() != 0 {
		t.Fatalf("named keys must not consume identifiers, got %d", registry.Len())
	}
}

func TestStringRegistry_SharedAcrossConcurrentUsages(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	labels := make([]*model.Translation, 20)
	for i := range labels {
		labels[i] = model.NewTranslation("en", "x", "es", "y")
	}

	results := make([]map[*model.Translation]render.Identifier, 4)
	var wg sync.WaitGroup
	for worker := range results {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			usage := render.NewUsage("en", []string{"en", "es"})
			seen := make(map[*model.Translation]render.Identifier, len(labels))
			for _, label := range labels {
				seen[label] = registry.RecordUsage(label, usage)
			}
			results[worker] = seen
		}(worker)
	}
	wg.Wait()

	for worker := 1; worker < len(results); worker++ {
		if diff := cmp.Diff(results[0], results[worker]); diff != "" {
			t.Fatalf("identifiers differ between workers (-first +other):\n%s", diff)
		}
	}
	if registry.Len() != len(labels) {
		t.Fatalf("expected %d identifiers, got %d", len(labels), registry.Len())
	}
}

func TestUsage_MarshalLookupTable(t *testing.T) {
	t.Parallel()

	registry := render.NewStringRegistry()
	usage := render.NewUsage("en", []string{"en"})
	registry.RecordUsage(model.NewTranslation("en", "</script><b>x</b>"), usage)

	payload, err := usage.MarshalLookupTable()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !json.Valid(payload) {
		t.Fatalf("expected valid JSON, got %s", payload)
	}
	var decoded render.LookupTable
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["en"]["t0"] != "</script><b>x</b>" {
		t.Fatalf("unexpected round trip: %#v", decoded)
	}
	for _, b := range payload {
		if b == '<' || b == '>' {
			t.Fatalf("expected markup characters escaped, got %s", payload)
		}
	}
}
