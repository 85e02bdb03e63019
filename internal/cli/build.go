package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/internal/config"
	"github.com/goliatone/go-surveygen/pkg/model"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/render"
	"github.com/goliatone/go-surveygen/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveygen/pkg/xlsform"
)

type buildFlags struct {
	sourceFlags
	header   string
	language string
	html     string
	zip      string
	dump     string
	hidden   map[string]string
}

func newBuildCmd(a *app) *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the survey to HTML",
		Long: `Render the survey to a single HTML document (--html), to a zip archive
holding one output-<language>.html per configured language (--zip), and/or
dump the loaded survey as JSON (--dump).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd, f.apply)
			if err != nil {
				return err
			}
			if cfg.HTML == "" && cfg.Zip == "" && cfg.Dump == "" {
				return errors.New("nothing to do: pass --html, --zip or --dump")
			}
			return a.build(cmd.Context(), cfg)
		},
	}
	f.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&f.header, "header", "t", "", "HTML fragment inlined into every document head")
	flags.StringVarP(&f.language, "lang", "l", "", "default language of the --html document")
	flags.StringVar(&f.html, "html", "", "write one document with the default language to this path")
	flags.StringVarP(&f.zip, "zip", "z", "", "write an archive with one document per language to this path")
	flags.StringVarP(&f.dump, "dump", "d", "", "write the loaded survey as JSON to this path")
	flags.StringToStringVar(&f.hidden, "hidden", nil, "extra hidden inputs posted with the answers, e.g. wave=2")
	return cmd
}

func (f *buildFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f.sourceFlags.apply(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("header") {
		cfg.Header = f.header
	}
	if flags.Changed("lang") {
		cfg.Language = f.language
	}
	if flags.Changed("html") {
		cfg.HTML = f.html
	}
	if flags.Changed("zip") {
		cfg.Zip = f.zip
	}
	if flags.Changed("dump") {
		cfg.Dump = f.dump
	}
	if flags.Changed("hidden") {
		cfg.Hidden = f.hidden
	}
}

func (a *app) build(ctx context.Context, cfg *config.Config) error {
	survey, err := a.loadSurvey(ctx, cfg)
	if err != nil {
		return err
	}

	var header []byte
	if cfg.Header != "" {
		header, err = os.ReadFile(cfg.Header)
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
	}

	if cfg.Dump != "" {
		var buf bytes.Buffer
		if err := xlsform.Dump(&buf, survey); err != nil {
			return err
		}
		if err := writeOutput(cfg.Dump, buf.Bytes()); err != nil {
			return err
		}
		a.log().Info("wrote survey dump", "path", cfg.Dump)
	}

	var hidden []render.HiddenField
	for name, value := range cfg.Hidden {
		hidden = append(hidden, render.Hidden(name, value))
	}
	gen := orchestrator.New(
		orchestrator.WithLogger(a.log()),
		orchestrator.WithHeader(header),
		orchestrator.WithHiddenFields(hidden...),
		orchestrator.WithRenderer(vanilla.New(vanilla.WithLogger(a.log()))),
	)
	registry := render.NewStringRegistry()

	if cfg.Zip != "" {
		if err := a.buildArchive(ctx, gen, survey, registry, cfg.Zip); err != nil {
			return err
		}
	}
	if cfg.HTML != "" {
		if err := a.buildDocument(ctx, gen, survey, registry, cfg); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) buildArchive(ctx context.Context, gen *orchestrator.Orchestrator, survey *model.Survey, registry *render.StringRegistry, path string) error {
	batch, err := gen.GenerateAll(ctx, orchestrator.Request{Survey: survey, Registry: registry})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := orchestrator.WriteArchive(&buf, batch); err != nil {
		return err
	}
	if err := writeOutput(path, buf.Bytes()); err != nil {
		return err
	}
	a.log().Info("wrote archive", "path", path, "documents", len(batch.Documents))
	return nil
}

func (a *app) buildDocument(ctx context.Context, gen *orchestrator.Orchestrator, survey *model.Survey, registry *render.StringRegistry, cfg *config.Config) error {
	language := cfg.Language
	if language == "" {
		language = xlsform.DefaultLanguage
		if _, ok := survey.Language(language); !ok {
			language = ""
		}
	}
	out, err := gen.Generate(ctx, orchestrator.Request{Survey: survey, Language: language, Registry: registry})
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.HTML, out); err != nil {
		return err
	}
	a.log().Info("wrote document", "path", cfg.HTML, "language", language, "bytes", len(out))
	return nil
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
