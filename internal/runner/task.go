// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"log/slog"

	"github.com/bartekus/commitcheck/internal/config"
	"github.com/bartekus/commitcheck/internal/gitrepo"
)

// Deps contains dependencies injected into tasks.
type Deps struct {
	Repo     *gitrepo.Repository
	Settings *config.Settings
	Branch   string // overrides the checked-out branch name when set
	Logger   *slog.Logger
}

// CurrentBranch returns the branch under validation.
func (d *Deps) CurrentBranch() (string, error) {
	if d.Branch != "" {
		return d.Branch, nil
	}
	return d.Repo.CurrentBranch()
}

// Task defines a unit of validation work.
type Task interface {
	// ID returns the unique identifier (e.g. "commits").
	ID() string

	// Run executes the task. Failures are reported in the result, never by panicking.
	Run(ctx context.Context, deps *Deps) TaskResult
}
