package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveygen/pkg/xlsform"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom survey loader.
func WithLoader(loader xlsform.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithRenderer registers renderer and makes it the default.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		if renderer != nil {
			o.extraRenderers = append(o.extraRenderers, renderer)
			o.defaultRenderer = renderer.Name()
		}
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that mutates surveys after loading
// and before decorators run.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators run against every survey before
// rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithHeader sets the header fragment used when a request carries none.
func WithHeader(header []byte) Option {
	return func(o *Orchestrator) {
		o.header = header
	}
}

// WithHiddenFields adds hidden inputs posted with every document's answers.
func WithHiddenFields(fields ...render.HiddenField) Option {
	return func(o *Orchestrator) {
		o.hidden = render.MergeHiddenFields(o.hidden, fields...)
	}
}

// WithLogger routes pipeline logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from survey source to rendered
// documents. It applies sensible defaults (file loader, vanilla renderer)
// while remaining open to dependency injection.
type Orchestrator struct {
	loader          xlsform.Loader
	registry        *render.Registry
	extraRenderers  []render.Renderer
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	header          []byte
	hidden          map[string]string
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs of a generation.
type Request struct {
	// Source identifies where the survey lives. Optional when Survey is
	// supplied.
	Source xlsform.Source

	// Survey bypasses the loader. Transformers and decorators mutate it in
	// place.
	Survey *model.Survey

	// Language selects the display language for Generate. Empty means the
	// first configured language. GenerateAll ignores it.
	Language string

	// Header overrides the configured header fragment.
	Header []byte

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// HiddenFields are added to the configured hidden fields; request values
	// win on name collisions.
	HiddenFields map[string]string

	// Registry shares string identifiers with earlier renders. Nil gives
	// every Generate call, or every GenerateAll batch, a fresh registry.
	Registry *render.StringRegistry
}

// Document is one rendered language variant.
type Document struct {
	Language string
	Content  []byte
}

// Batch collects the variants rendered by GenerateAll, in the survey's
// language order. Failed maps the language of every variant that could not
// be rendered to its error.
type Batch struct {
	Survey    *model.Survey
	Documents []Document
	Failed    map[string]error
}

// Generate loads, prepares and renders a survey in a single language.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	survey, err := o.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, survey, o.renderOptions(req, req.Language, req.Registry))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// GenerateAll renders the survey once per configured language. Variants
// render concurrently and share one string registry, so a string has the
// same identifier in every document. A failing language is left out of
// Documents, recorded in Failed and reported in the returned error; the
// other variants are still returned.
func (o *Orchestrator) GenerateAll(ctx context.Context, req Request) (Batch, error) {
	if err := o.ready(ctx); err != nil {
		return Batch{}, err
	}
	survey, err := o.Prepare(ctx, req)
	if err != nil {
		return Batch{}, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Batch{}, err
	}

	languages := survey.LanguageCodes()
	if len(languages) == 0 {
		return Batch{Survey: survey}, errors.New("orchestrator: survey declares no languages")
	}
	registry := req.Registry
	if registry == nil {
		registry = render.NewStringRegistry()
	}

	type result struct {
		content []byte
		err     error
	}
	results := make([]result, len(languages))
	started := time.Now()

	var wg sync.WaitGroup
	for i, lang := range languages {
		wg.Add(1)
		go func(i int, lang string) {
			defer wg.Done()
			out, err := renderer.Render(ctx, survey, o.renderOptions(req, lang, registry))
			results[i] = result{content: out, err: err}
		}(i, lang)
	}
	wg.Wait()

	batch := Batch{Survey: survey, Failed: make(map[string]error)}
	var errs []error
	for i, lang := range languages {
		if err := results[i].err; err != nil {
			batch.Failed[lang] = err
			errs = append(errs, fmt.Errorf("language %s: %w", lang, err))
			o.logger.Error("render language variant failed", slog.String("language", lang), slog.Any("error", err))
			continue
		}
		batch.Documents = append(batch.Documents, Document{Language: lang, Content: results[i].content})
	}

	o.logger.Info("rendered survey variants",
		slog.Int("languages", len(languages)),
		slog.Int("failed", len(batch.Failed)),
		slog.Int("strings", registry.Len()),
		slog.Duration("elapsed", time.Since(started)),
	)

	if len(errs) > 0 {
		return batch, fmt.Errorf("orchestrator: %w", errors.Join(errs...))
	}
	return batch, nil
}

// Prepare resolves the survey of req and applies the transformer and
// decorators.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (*model.Survey, error) {
	survey, err := o.resolveSurvey(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := o.applyTransformer(ctx, survey); err != nil {
		return nil, err
	}
	if err := o.applyDecorators(survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// WriteArchive writes the batch as a zip archive with one
// output-<language>.html entry per document.
func WriteArchive(w io.Writer, batch Batch) error {
	return writeArchive(w, batch.Documents)
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) renderOptions(req Request, language string, registry *render.StringRegistry) render.RenderOptions {
	header := req.Header
	if header == nil {
		header = o.header
	}
	hidden := o.hidden
	if len(req.HiddenFields) > 0 {
		extra := make([]render.HiddenField, 0, len(req.HiddenFields))
		for name, value := range req.HiddenFields {
			extra = append(extra, render.Hidden(name, value))
		}
		hidden = render.MergeHiddenFields(o.hidden, extra...)
	}
	return render.RenderOptions{
		Language:     language,
		Header:       header,
		Registry:     registry,
		HiddenFields: hidden,
	}
}

func (o *Orchestrator) resolveSurvey(ctx context.Context, req Request) (*model.Survey, error) {
	if req.Survey != nil {
		return req.Survey, nil
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: source or survey is required")
	}
	started := time.Now()
	survey, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load survey: %w", err)
	}
	o.logger.Debug("loaded survey",
		slog.String("source", req.Source.Location()),
		slog.Int("questions", len(survey.Questions)),
		slog.Any("languages", survey.LanguageCodes()),
		slog.Duration("elapsed", time.Since(started)),
	)
	return survey, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(survey *model.Survey) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(survey); err != nil {
			return fmt.Errorf("orchestrator: decorate survey: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, survey *model.Survey) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, survey); err != nil {
		return fmt.Errorf("orchestrator: transform survey: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.loader == nil {
		o.loader = xlsform.NewLoader()
	}
	owned := o.registry == nil
	if owned {
		o.registry = render.NewRegistry()
	}
	for _, renderer := range o.extraRenderers {
		if o.registry.Has(renderer.Name()) {
			continue
		}
		if err := o.registry.Register(renderer); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: register renderer: %w", err)
			return
		}
	}
	if owned && !o.registry.Has(defaultRendererName) {
		o.registry.MustRegister(vanilla.New(vanilla.WithLogger(o.logger)))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
