// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/commitcheck/cmd/commitcheck/internal/clierr"
	"github.com/bartekus/commitcheck/internal/gitrepo"
	"github.com/bartekus/commitcheck/internal/runner"
	"github.com/bartekus/commitcheck/internal/tasks"
)

type runOptions struct {
	check    checkOptions
	json     bool
	stateDir string
}

// NewRunCommand returns the `commitcheck run` command and its subcommands.
func NewRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <command|task>... [flags]",
		Short: "Run validation tasks and keep their state",
		Long: `Runs the validation tasks in order, reporting every failure.
Maintains state in .git/commitcheck/run so failed tasks can be resumed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			r, err := setupRunner(cmd, opts)
			if err != nil {
				return err
			}
			return r.RunList(cmd.Context(), args)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output results in JSON")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", "", "Directory to store run state, relative to the repository root (default .git/"+runner.DefaultStateDir+")")
	cmd.PersistentFlags().StringVar(&opts.check.branch, "branch", "", "Branch name to validate instead of the checked-out branch")
	cmd.PersistentFlags().StringVar(&opts.check.scopes, "scopes", "", "Comma-separated allowed commit scopes")
	cmd.PersistentFlags().StringVar(&opts.check.types, "types", "", "Comma-separated allowed commit types")

	cmd.AddCommand(newRunListCmd(opts))
	cmd.AddCommand(newRunAllCmd(opts))
	cmd.AddCommand(newRunResumeCmd(opts))
	cmd.AddCommand(newRunReportCmd(opts))
	cmd.AddCommand(newRunResetCmd(opts))

	return cmd
}

func resolveStateStore(cmd *cobra.Command, opts *runOptions) (*runner.StateStore, error) {
	if filepath.IsAbs(opts.stateDir) {
		return runner.NewStateStore(opts.stateDir), nil
	}

	repo, err := gitrepo.Open(repoDir(cmd))
	if err != nil {
		return nil, clierr.Environment("opening repository", err)
	}
	if opts.stateDir != "" {
		return runner.NewStateStore(filepath.Join(repo.Root(), opts.stateDir)), nil
	}

	base := repo.GitDir()
	if base == "" {
		base = repo.Root()
	}
	return runner.NewStateStore(filepath.Join(base, runner.DefaultStateDir)), nil
}

func setupRunner(cmd *cobra.Command, opts *runOptions) (*runner.Runner, error) {
	deps, err := loadDeps(cmd, &opts.check)
	if err != nil {
		return nil, err
	}
	store, err := resolveStateStore(cmd, opts)
	if err != nil {
		return nil, err
	}
	return runner.NewRunner(tasks.Registry, store, deps, cmd.OutOrStdout()), nil
}

func newRunListCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(tasks.Registry))
			for _, t := range tasks.Registry {
				ids = append(ids, t.ID())
			}

			if opts.json {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]any{"tasks": ids})
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newRunAllCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run all tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setupRunner(cmd, opts)
			if err != nil {
				return err
			}
			return r.RunAll(cmd.Context())
		},
	}
}

func newRunResumeCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Re-run the tasks that failed last time",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setupRunner(cmd, opts)
			if err != nil {
				return err
			}
			return r.Resume(cmd.Context())
		},
	}
}

func newRunResetCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear run state",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStateStore(cmd, opts)
			if err != nil {
				return err
			}
			return store.Reset()
		},
	}
}

func newRunReportCmd(opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show last run status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStateStore(cmd, opts)
			if err != nil {
				return err
			}
			last, err := store.ReadLastRun()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(last)
			}

			if last == nil {
				_, _ = fmt.Fprintln(out, "No run state found.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Status: %s\n", last.Status)
			if len(last.Failed) == 0 {
				_, _ = fmt.Fprintln(out, "All passed.")
				return nil
			}
			_, _ = fmt.Fprintln(out, "Failed:")
			for _, id := range last.Failed {
				_, _ = fmt.Fprintf(out, "  - %s\n", id)
				res, err := store.ReadTask(id)
				if err != nil {
					return err
				}
				if res == nil {
					continue
				}
				for _, f := range res.Failures {
					_, _ = fmt.Fprintf(out, "%s\n", f)
				}
				if res.Note != "" {
					_, _ = fmt.Fprintf(out, "    %s\n", res.Note)
				}
			}
			return nil
		},
	}
}
