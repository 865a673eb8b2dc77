// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"fmt"

	"github.com/bartekus/commitcheck/internal/branch"
	"github.com/bartekus/commitcheck/internal/conventional"
	"github.com/bartekus/commitcheck/internal/runner"
)

// CheckCommits validates the commits unique to the current branch.
//
// Any returned error means the check could not run (unreadable repository,
// malformed branch name, missing configuration). Violations are reported in
// the Result, never as an error.
func CheckCommits(ctx context.Context, deps *runner.Deps) (conventional.Result, error) {
	name, err := deps.CurrentBranch()
	if err != nil {
		return conventional.Result{}, fmt.Errorf("reading current branch: %w", err)
	}

	root, err := branch.RootBranch(name)
	if err != nil {
		return conventional.Result{}, err
	}

	url, err := deps.Repo.OriginURL()
	if err != nil {
		return conventional.Result{}, err
	}

	rules, err := deps.Settings.Resolve(url)
	if err != nil {
		return conventional.Result{}, err
	}

	if deps.Logger != nil {
		deps.Logger.Debug("resolved commit range",
			"branch", name,
			"root", deps.Repo.Remote()+"/"+root,
			"types", rules.Types,
			"scopes", rules.Scopes,
			"template", rules.Template,
		)
	}

	src, err := deps.Repo.Range(ctx, root)
	if err != nil {
		return conventional.Result{}, err
	}
	return conventional.Check(ctx, src, conventional.NewValidator(rules.Types, rules.Scopes))
}

// Commits is the commit message validation task.
type Commits struct {
	id string
}

// NewCommits returns the "commits" task.
func NewCommits() runner.Task {
	return &Commits{id: "commits"}
}

func (t *Commits) ID() string { return t.id }

// Run reports one failure record per offending commit.
func (t *Commits) Run(ctx context.Context, deps *runner.Deps) runner.TaskResult {
	res, err := CheckCommits(ctx, deps)
	if err != nil {
		return runner.Abort(t.id, err)
	}
	if !res.Failed() {
		return runner.Pass(t.id, fmt.Sprintf("%d commit(s) checked", res.Checked))
	}

	failures := make([]string, 0, len(res.Reports))
	for _, rep := range res.Reports {
		failures = append(failures, rep.Error())
	}
	out := runner.Fail(t.id, failures)
	out.Note = fmt.Sprintf("%d of %d commit(s) have errors", len(res.Reports), res.Checked)
	return out
}
