package surveygen

import (
	"archive/zip"
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/xlsform"
)

const surveyDocument = `
languages:
  - {code: en, name: English}
  - {code: es, name: Español}
questions:
  - type: select_one yn
    name: consent
    label: {en: "Consent?", es: "¿Consiente?"}
  - type: text
    name: city
    relevant: ${consent}=yes
    label: {en: City, es: Ciudad}
choices:
  - {listName: yn, name: "yes", label: {en: "Yes", es: "Sí"}}
  - {listName: yn, name: "no", label: {en: "No", es: "No"}}
`

func fsLoader() orchestrator.Option {
	files := fstest.MapFS{"survey.yaml": {Data: []byte(surveyDocument)}}
	return orchestrator.WithLoader(NewLoader(xlsform.WithFileSystem(files)))
}

func TestGenerateHTML(t *testing.T) {
	t.Parallel()

	out, err := GenerateHTML(context.Background(), xlsform.SourceFromFS("survey.yaml"), "es", fsLoader())
	if err != nil {
		t.Fatalf("generate html: %v", err)
	}
	doc := string(out)
	if !strings.Contains(doc, `var currentlanguage = "es";`) {
		t.Fatalf("expected es default language")
	}
	if strings.Count(doc, `name="consent"`) != 2 {
		t.Fatalf("expected two consent inputs")
	}
}

func TestGenerateArchive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	batch, err := GenerateArchive(context.Background(), &buf, xlsform.SourceFromFS("survey.yaml"), fsLoader())
	if err != nil {
		t.Fatalf("generate archive: %v", err)
	}
	if len(batch.Documents) != 2 {
		t.Fatalf("expected two documents, got %d", len(batch.Documents))
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	if strings.Join(names, ",") != "output-en.html,output-es.html" {
		t.Fatalf("unexpected entries %v", names)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"header.html", "runtime.js"} {
		data, err := fs.ReadFile(EmbeddedAssets(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}
