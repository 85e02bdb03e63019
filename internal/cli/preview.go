package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/internal/config"
	"github.com/goliatone/go-surveygen/pkg/orchestrator"
	"github.com/goliatone/go-surveygen/pkg/renderers/tui"
)

type previewFlags struct {
	sourceFlags
	language string
	format   string
	prefill  map[string]string
	confirm  bool
}

func newPreviewCmd(a *app) *cobra.Command {
	f := &previewFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Walk through the survey in the terminal",
		Long: `Ask every visible question in the terminal, evaluating visibility
conditions as answers come in, and print the collected answers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd, f.apply)
			if err != nil {
				return err
			}
			survey, err := a.loadSurvey(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			format := tui.OutputFormat(f.format)
			switch format {
			case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
			default:
				return fmt.Errorf("unknown format %q: use json, form or pretty", f.format)
			}

			prefill := make(map[string]any, len(f.prefill))
			for name, value := range f.prefill {
				prefill[name] = value
			}
			renderer := tui.New(
				tui.WithPromptDriver(a.driver),
				tui.WithOutputFormat(format),
				tui.WithPrefill(prefill),
				tui.WithConfirmSubmit(f.confirm),
			)

			out, err := orchestrator.New(
				orchestrator.WithLogger(a.log()),
				orchestrator.WithRenderer(renderer),
			).Generate(cmd.Context(), orchestrator.Request{Survey: survey, Language: cfg.Language})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	f.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&f.language, "lang", "l", "", "language of the prompts")
	flags.StringVar(&f.format, "format", string(tui.OutputFormatJSON), "answer output: json, form or pretty")
	flags.StringToStringVar(&f.prefill, "prefill", nil, "prompt defaults, e.g. city=Lyon")
	flags.BoolVar(&f.confirm, "confirm", false, "ask for confirmation before printing the answers")
	return cmd
}

func (f *previewFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	f.sourceFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("lang") {
		cfg.Language = f.language
	}
}
