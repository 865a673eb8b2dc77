// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitcheck/cmd/commitcheck/internal/clierr"
	"github.com/bartekus/commitcheck/internal/conventional"
	"github.com/bartekus/commitcheck/internal/gitrepo"
	"github.com/bartekus/commitcheck/internal/history"
)

// NewLintMessageCommand returns the `commitcheck lint-message` command.
func NewLintMessageCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "lint-message <file|->",
		Short: "Validate a single commit message (for commit-msg hooks)",
		Long: `Validates one commit message read from a file, or from stdin when the
argument is "-". Lines starting with '#' are ignored, as git does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLintMessage(cmd, opts, args[0])
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runLintMessage(cmd *cobra.Command, opts *checkOptions, path string) error {
	message, err := readMessage(cmd, path)
	if err != nil {
		return clierr.Environment("reading commit message", err)
	}

	// Outside a repository only flags and environment configure the check.
	root, origin := repoDir(cmd), ""
	repo, err := gitrepo.Open(root)
	switch {
	case errors.Is(err, gitrepo.ErrNotGitRepo):
	case err != nil:
		return clierr.Environment("opening repository", err)
	default:
		root = repo.Root()
		if origin, err = repo.OriginURL(); err != nil {
			return clierr.Environment("reading origin", err)
		}
	}

	settings, err := loadSettings(cmd, root, opts)
	if err != nil {
		return err
	}
	rules, err := settings.Resolve(origin)
	if err != nil {
		return clierr.Environment("loading configuration", err)
	}

	v := conventional.NewValidator(rules.Types, rules.Scopes)
	rep, bad := v.Validate(history.NewCommit("", message))
	if !bad {
		return nil
	}

	for _, e := range rep.Errors {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), e)
	}
	return clierr.Newf(clierr.ExitViolations, "commit message %q has errors", rep.Commit.ShortMessage)
}

func readMessage(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304: path is supplied by git or the user
	}
	if err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimLeft(strings.Join(lines, "\n"), "\n"), nil
}
