// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"fmt"

	"github.com/bartekus/commitcheck/internal/branch"
	"github.com/bartekus/commitcheck/internal/runner"
)

// BranchName checks that the current branch follows the naming convention
// the root branch resolver depends on.
type BranchName struct {
	id string
}

func NewBranchName() runner.Task {
	return &BranchName{id: "branch"}
}

func (t *BranchName) ID() string { return t.id }

func (t *BranchName) Run(ctx context.Context, deps *runner.Deps) runner.TaskResult {
	name, err := deps.CurrentBranch()
	if err != nil {
		return runner.Abort(t.id, err)
	}

	root, err := branch.RootBranch(name)
	if err != nil {
		return runner.Fail(t.id, []string{err.Error()})
	}
	return runner.Pass(t.id, fmt.Sprintf("%s -> root %s", name, root))
}
