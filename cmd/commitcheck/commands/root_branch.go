// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitcheck/cmd/commitcheck/internal/clierr"
	"github.com/bartekus/commitcheck/internal/branch"
	"github.com/bartekus/commitcheck/internal/gitrepo"
)

// NewRootBranchCommand returns the `commitcheck root-branch` command.
func NewRootBranchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "root-branch [branch]",
		Short: "Print the root branch a branch was forked from",
		Long: `Prints the root branch derived from a branch name: "main" for one or two
segment names, the middle segment for three segment names. Without an argument
the checked-out branch is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				repo, err := gitrepo.Open(repoDir(cmd))
				if err != nil {
					return clierr.Environment("opening repository", err)
				}
				if name, err = repo.CurrentBranch(); err != nil {
					return clierr.Environment("reading current branch", err)
				}
			}

			root, err := branch.RootBranch(name)
			if err != nil {
				return clierr.Environment("resolving root branch", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}
