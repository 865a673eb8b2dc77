// SPDX-License-Identifier: AGPL-3.0-or-later

/*
commitcheck - validates that the commits introduced on a branch follow the
conventional commits header format.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitcheck/internal/log"
)

// NewRootCmd constructs the commitcheck root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("COMMITCHECK_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:   "commitcheck",
		Short: "commitcheck - conventional commit validation for build pipelines",
		Long: `commitcheck validates the commits unique to the current branch against the
conventional commits header format and the allowed commit types and scopes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			log.Configure(cmd.ErrOrStderr(), verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().String("repo", ".", "path inside the git repository to check")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of commitcheck",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commitcheck version %s\n", version)
		},
	})

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewLintMessageCommand())
	cmd.AddCommand(NewRootBranchCommand())
	cmd.AddCommand(NewRunCommand())

	return cmd
}
