package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/render/markup"
)

const (
	defaultNoScriptMessage = "JavaScript must be enabled for this survey to work."
	defaultConsentField    = "consent"
	defaultConsentValue    = "yes"
)

type Option func(*config)

type config struct {
	chrome        Chrome
	logger        *slog.Logger
	noScript      string
	consentField  string
	consentValue  string
	indent        string
	runtimeScript string
}

// WithChrome overrides the document CSS classes. Empty fields keep their
// defaults.
func WithChrome(chrome Chrome) Option {
	return func(cfg *config) {
		cfg.chrome = cfg.chrome.merge(chrome)
	}
}

// WithLogger routes renderer diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithNoScriptMessage replaces the notice shown when scripting is disabled.
func WithNoScriptMessage(message string) Option {
	return func(cfg *config) {
		if message != "" {
			cfg.noScript = message
		}
	}
}

// WithConsent sets the field and value that reveal the submit button.
func WithConsent(field, value string) Option {
	return func(cfg *config) {
		if field != "" {
			cfg.consentField = field
		}
		if value != "" {
			cfg.consentValue = value
		}
	}
}

// WithIndent sets the indent unit of the generated markup.
func WithIndent(unit string) Option {
	return func(cfg *config) {
		cfg.indent = unit
	}
}

// WithRuntimeScript replaces the embedded runtime script. The replacement
// must define the functions the generated markup calls.
func WithRuntimeScript(script string) Option {
	return func(cfg *config) {
		if script != "" {
			cfg.runtimeScript = script
		}
	}
}

// Renderer turns a survey into a single self-contained HTML document. A
// Renderer holds configuration only and is safe for concurrent use.
type Renderer struct {
	cfg config
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) *Renderer {
	cfg := config{
		chrome:        DefaultChrome(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		noScript:      defaultNoScriptMessage,
		consentField:  defaultConsentField,
		consentValue:  defaultConsentValue,
		indent:        " ",
		runtimeScript: defaultRuntimeScript(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Renderer{cfg: cfg}
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render returns the complete document. On error no partial document is
// returned.
func (r *Renderer) Render(ctx context.Context, survey *model.Survey, options render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, &buf, survey, options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo writes the document to out. Nothing is written when rendering
// fails.
func (r *Renderer) RenderTo(ctx context.Context, out io.Writer, survey *model.Survey, options render.RenderOptions) error {
	payload, err := r.Render(ctx, survey, options)
	if err != nil {
		return err
	}
	if _, err := out.Write(payload); err != nil {
		return fmt.Errorf("vanilla renderer: write document: %w", err)
	}
	return nil
}

func (r *Renderer) render(ctx context.Context, buf *bytes.Buffer, survey *model.Survey, options render.RenderOptions) error {
	if survey == nil {
		return fmt.Errorf("vanilla renderer: survey is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	languages := survey.LanguageCodes()
	if len(languages) == 0 {
		return fmt.Errorf("vanilla renderer: survey declares no languages")
	}
	language := options.Language
	if language == "" {
		language = languages[0]
	}
	if _, ok := survey.Language(language); !ok {
		return &render.MissingTranslationError{Language: language}
	}

	registry := options.Registry
	if registry == nil {
		registry = render.NewStringRegistry()
	}
	header := options.Header
	if header == nil {
		header = DefaultHeader()
	}

	w := markup.NewWriter(buf, markup.WithIndent(r.cfg.indent))
	doc := &document{
		ctx:      ctx,
		cfg:      r.cfg,
		w:        w,
		survey:   survey,
		registry: registry,
		usage:    render.NewUsage(language, languages),
		sections: NewSectionTracker(w, r.cfg.chrome.Section),
		hidden:   render.SortedHiddenFields(options.HiddenFields),
	}
	if err := doc.render(header); err != nil {
		return err
	}
	if !w.Balanced() {
		return fmt.Errorf("vanilla renderer: unbalanced markup, open scopes %v", w.OpenScopes())
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("vanilla renderer: %w", err)
	}

	r.cfg.logger.Debug("rendered survey document",
		slog.String("language", language),
		slog.Int("questions", len(survey.Questions)),
		slog.Int("bytes", buf.Len()),
	)
	return nil
}
