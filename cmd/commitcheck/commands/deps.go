// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/commitcheck/cmd/commitcheck/internal/clierr"
	"github.com/bartekus/commitcheck/internal/config"
	"github.com/bartekus/commitcheck/internal/gitrepo"
	"github.com/bartekus/commitcheck/internal/log"
	"github.com/bartekus/commitcheck/internal/runner"
)

// checkOptions are the flags shared by every command that validates commits.
type checkOptions struct {
	branch string
	types  string
	scopes string
}

func (o *checkOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.branch, "branch", "", "Branch name to validate instead of the checked-out branch")
	cmd.Flags().StringVar(&o.scopes, "scopes", "", "Comma-separated allowed commit scopes (overrides "+config.KeyScopes+")")
	cmd.Flags().StringVar(&o.types, "types", "", "Comma-separated allowed commit types (overrides "+config.KeyTypes+")")
}

func (o *checkOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	if cmd.Flags().Changed("types") {
		ov.Types = &o.types
	}
	if cmd.Flags().Changed("scopes") {
		ov.Scopes = &o.scopes
	}
	return ov
}

// repoDir returns the --repo flag value.
func repoDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("repo")
	if dir == "" {
		return "."
	}
	return dir
}

// loadSettings reads configuration anchored at root.
func loadSettings(cmd *cobra.Command, root string, o *checkOptions) (*config.Settings, error) {
	settings, err := config.NewLoader(root).Load(o.overrides(cmd))
	if err != nil {
		return nil, clierr.Environment("loading configuration", err)
	}
	return settings, nil
}

// loadDeps opens the repository and loads its configuration.
func loadDeps(cmd *cobra.Command, o *checkOptions) (*runner.Deps, error) {
	dir := repoDir(cmd)

	repo, err := gitrepo.Open(dir)
	if err != nil {
		return nil, clierr.Environment("opening repository", err)
	}

	settings, err := loadSettings(cmd, repo.Root(), o)
	if err != nil {
		return nil, err
	}
	if settings.Remote != repo.Remote() {
		repo = repo.OnRemote(settings.Remote)
	}

	log.Debug("repository opened", "root", repo.Root(), "remote", repo.Remote())

	return &runner.Deps{
		Repo:     repo,
		Settings: settings,
		Branch:   o.branch,
		Logger:   log.Logger,
	}, nil
}
