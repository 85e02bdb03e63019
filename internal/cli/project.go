package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/internal/config"
	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/xlsform"
)

// sourceFlags are shared by every command that loads a survey.
type sourceFlags struct {
	input   string
	exclude []string
	preset  string
	assume  map[string]string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "survey spreadsheet, YAML/JSON document or http(s) URL")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "question names to drop (default demo_region,demo_country)")
	flags.StringVar(&f.preset, "preset", "", "JSON or YAML patch document applied after loading")
	flags.StringToStringVar(&f.assume, "assume", nil, "answers known at build time, e.g. consent=yes")
}

// apply overlays the flags that were set on the command line onto cfg.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = f.input
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("preset") {
		cfg.Preset = f.preset
	}
	if flags.Changed("assume") {
		cfg.Assume = f.assume
	}
}

// loadConfig reads the project file and overlays the command line through
// overlay before validating the result.
func (a *app) loadConfig(cmd *cobra.Command, overlay func(*cobra.Command, *config.Config)) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	overlay(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Input) == "" {
		return nil, errors.New("no input: pass --input or set input in surveygen.yaml")
	}
	return cfg, nil
}

// loadSurvey loads and prepares the configured survey: exclusions, preset
// patches and build-time assumptions are applied exactly once.
func (a *app) loadSurvey(ctx context.Context, cfg *config.Config) (*model.Survey, error) {
	source, err := xlsform.ParseSource(cfg.Input)
	if err != nil {
		return nil, err
	}

	var loaderOpts []xlsform.LoaderOption
	if cfg.Exclude != nil {
		loaderOpts = append(loaderOpts, xlsform.WithExclude(cfg.Exclude...))
	}

	opts := []orchestrator.Option{
		orchestrator.WithLogger(a.log()),
		orchestrator.WithLoader(xlsform.NewLoader(loaderOpts...)),
	}
	if cfg.Preset != "" {
		data, err := os.ReadFile(cfg.Preset)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithTransformer(preset))
	}
	if values := cfg.AssumedValues(); len(values) > 0 {
		opts = append(opts, orchestrator.WithDecorators(orchestrator.ResolveConditions(nil, values)))
	}

	survey, err := orchestrator.New(opts...).Prepare(ctx, orchestrator.Request{Source: source})
	if err != nil {
		return nil, err
	}
	a.log().Info("loaded survey",
		"input", cfg.Input,
		"questions", len(survey.Questions),
		"languages", survey.LanguageCodes(),
	)
	return survey, nil
}
