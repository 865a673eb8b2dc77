// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/commitcheck/cmd/commitcheck/internal/clierr"
	"github.com/bartekus/commitcheck/internal/conventional"
	"github.com/bartekus/commitcheck/internal/tasks"
)

// Feature: CLI_COMMAND_VALIDATE

// NewValidateCommand returns the `commitcheck validate` command.
func NewValidateCommand() *cobra.Command {
	opts := &checkOptions{}
	var format string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the commits unique to the current branch",
		Long: `Resolves the root branch from the current branch name, selects the commits
reachable from HEAD but not from <remote>/<root>, and validates each commit header.
Every offending commit is reported; the command exits 1 when any commit has errors
and 2 when the repository or configuration cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, format)
		},
	}

	// Flags in alphabetical order for deterministic help output
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&format, "format", conventional.FormatText, "Output format: text (default) or json")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *checkOptions, format string) error {
	if format != conventional.FormatText && format != conventional.FormatJSON {
		return clierr.Newf(clierr.ExitEnvironment, "invalid format: %s (must be 'text' or 'json')", format)
	}

	deps, err := loadDeps(cmd, opts)
	if err != nil {
		return err
	}

	res, err := tasks.CheckCommits(cmd.Context(), deps)
	if err != nil {
		return clierr.Environment("validating commits", err)
	}

	if err := conventional.Render(cmd.OutOrStdout(), res, format); err != nil {
		return err
	}

	if res.Failed() {
		return clierr.Newf(clierr.ExitViolations, "%d of %d commit(s) have errors", len(res.Reports), res.Checked)
	}
	return nil
}
