// Package cli implements the surveygen command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/pkg/renderers/tui"
)

// Version is stamped at build time.
var Version = "dev"

// Option customises the command tree, mostly for tests.
type Option func(*app)

// WithPromptDriver replaces the terminal prompt driver used by preview.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

type app struct {
	configPath string
	verbose    bool
	driver     tui.PromptDriver
	logger     *slog.Logger
}

// NewRootCommand builds the surveygen command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "surveygen",
		Short: "Generate self-contained HTML questionnaires",
		Long: `surveygen turns a multilingual questionnaire, authored as an XLSForm
spreadsheet or a YAML/JSON document, into one interactive HTML page per
language. The page carries every translation and switches language,
visibility and progress in the browser.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("surveygen %s\n", Version))

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "project config file (default ./surveygen.yaml when present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(
		newBuildCmd(a),
		newPreviewCmd(a),
		newLintCmd(a),
	)
	return root
}

// Execute runs the command line against args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "surveygen: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (a *app) log() *slog.Logger {
	if a.logger == nil {
		a.logger = newLogger(io.Discard, false)
	}
	return a.logger
}
