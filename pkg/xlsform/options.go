package xlsform

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-surveygen/pkg/model"
)

// DefaultExclude lists the question names dropped unless configured
// otherwise.
var DefaultExclude = []string{"demo_region", "demo_country"}

// DefaultLanguage is the language assigned to untranslated label columns.
const DefaultLanguage = "en"

// LoaderOptions configures how a Loader resolves and decodes sources.
type LoaderOptions struct {
	// FileSystem serves SourceKindFS sources.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means URL sources are rejected unless AllowHTTPFallback
	// is true.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources through a default client.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// Exclude lists question names dropped after loading. Nil selects
	// DefaultExclude; an empty non-nil slice keeps every question.
	Exclude []string

	// DefaultLanguage is the code given to plain "label" columns.
	DefaultLanguage string

	// Decorators run, in order, after loading and exclusion.
	Decorators []model.Decorator

	// KeepMarkup disables label sanitising.
	KeepMarkup bool
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for SourceKindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote surveys.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading using a default client and assigns
// an optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithExclude replaces the list of question names dropped after loading.
func WithExclude(names ...string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Exclude = append([]string{}, names...)
	}
}

// WithDefaultLanguage sets the code of untranslated label columns.
func WithDefaultLanguage(code string) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.DefaultLanguage = code
	}
}

// WithDecorators appends survey decorators.
func WithDecorators(decorators ...model.Decorator) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Decorators = append(opts.Decorators, decorators...)
	}
}

// WithKeepMarkup leaves label markup untouched.
func WithKeepMarkup() LoaderOption {
	return func(opts *LoaderOptions) {
		opts.KeepMarkup = true
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Exclude == nil {
		cfg.Exclude = append([]string{}, DefaultExclude...)
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguage
	}
	return cfg
}
