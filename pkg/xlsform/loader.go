package xlsform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-surveygen/pkg/model"
)

// Loader fetches and decodes surveys from different sources.
type Loader interface {
	Load(ctx context.Context, src Source) (*model.Survey, error)
}

// SurveyLoader implements Loader for workbooks and documents.
type SurveyLoader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	opts      LoaderOptions
}

var _ Loader = (*SurveyLoader)(nil)

// NewLoader constructs a SurveyLoader.
func NewLoader(options ...LoaderOption) *SurveyLoader {
	return FromOptions(NewLoaderOptions(options...))
}

// FromOptions constructs a SurveyLoader from pre-resolved options.
func FromOptions(options LoaderOptions) *SurveyLoader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	if options.Exclude == nil {
		options.Exclude = append([]string{}, DefaultExclude...)
	}
	if options.DefaultLanguage == "" {
		options.DefaultLanguage = DefaultLanguage
	}

	return &SurveyLoader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		opts:      options,
	}
}

// Load fetches the payload behind src, decodes it and applies exclusions and
// decorators.
func (l *SurveyLoader) Load(ctx context.Context, src Source) (*model.Survey, error) {
	if src == nil {
		return nil, errors.New("xlsform loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return nil, errors.New("xlsform loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("xlsform loader: unsupported source kind")
	}
	if err != nil {
		return nil, fmt.Errorf("xlsform loader: %s: %w", src.Location(), err)
	}

	return l.Decode(src.Location(), data)
}

// Decode parses a payload whose origin is location.
func (l *SurveyLoader) Decode(location string, data []byte) (*model.Survey, error) {
	var (
		survey *model.Survey
		err    error
	)
	switch DetectFormat(location, data) {
	case FormatWorkbook:
		survey, err = ParseWorkbook(data, l.workbookOptions())
	default:
		survey, err = ParseDocument(data, location, DocumentOptions{KeepMarkup: l.opts.KeepMarkup})
	}
	if err != nil {
		return nil, err
	}

	decorators := append([]model.Decorator{model.ExcludeQuestions(l.opts.Exclude...)}, l.opts.Decorators...)
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(survey); err != nil {
			return nil, fmt.Errorf("xlsform loader: decorate %s: %w", location, err)
		}
	}
	return survey, nil
}

func (l *SurveyLoader) workbookOptions() WorkbookOptions {
	return WorkbookOptions{
		DefaultLanguage: l.opts.DefaultLanguage,
		KeepMarkup:      l.opts.KeepMarkup,
	}
}
