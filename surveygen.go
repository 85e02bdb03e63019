// Package surveygen turns a multilingual questionnaire into a self-contained
// interactive HTML document. The root package re-exports the most common
// entry points; the pipeline pieces live under pkg/.
package surveygen

import (
	"context"
	"io"

	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/xlsform"
)

// RenderOptions aliases render.RenderOptions for callers driving a renderer
// directly.
type RenderOptions = render.RenderOptions

// Batch aliases orchestrator.Batch.
type Batch = orchestrator.Batch

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a survey loader for spreadsheets and YAML/JSON
// documents.
func NewLoader(options ...xlsform.LoaderOption) xlsform.Loader {
	return xlsform.NewLoader(options...)
}

// GenerateHTML loads the survey at source and renders one document whose
// default language is language (empty selects the first configured one).
func GenerateHTML(ctx context.Context, source xlsform.Source, language string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		Language: language,
	})
}

// GenerateArchive loads the survey at source, renders it once per configured
// language and writes the documents to w as a zip archive. When a language
// fails the archive is not written and the batch error is returned.
func GenerateArchive(ctx context.Context, w io.Writer, source xlsform.Source, options ...orchestrator.Option) (Batch, error) {
	gen := orchestrator.New(options...)
	batch, err := gen.GenerateAll(ctx, orchestrator.Request{Source: source})
	if err != nil {
		return batch, err
	}
	return batch, orchestrator.WriteArchive(w, batch)
}
