package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-surveygen/pkg/lint"
)

// ErrLintFailed is returned when lint reports at least one error.
var ErrLintFailed = errors.New("lint found errors")

func newLintCmd(a *app) *cobra.Command {
	f := &sourceFlags{}
	var (
		consent string
		strict  bool
	)
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report structural problems in the survey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd, f.apply)
			if err != nil {
				return err
			}
			survey, err := a.loadSurvey(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			issues := lint.Check(survey, lint.WithConsentField(consent))
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				if _, err := fmt.Fprintln(out, issue.String()); err != nil {
					return err
				}
			}
			a.log().Debug("lint finished", "issues", len(issues))

			if lint.HasErrors(issues) || (strict && len(issues) > 0) {
				return ErrLintFailed
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&consent, "consent-field", "consent", "question gating the submit button (empty disables the check)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on warnings too")
	return cmd
}
