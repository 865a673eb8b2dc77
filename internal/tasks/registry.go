// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks holds the validation tasks run by `commitcheck run`.
package tasks

import "github.com/bartekus/commitcheck/internal/runner"

// Registry defines the canonical order of tasks.
var Registry = []runner.Task{
	NewBranchName(),
	NewCommits(),
}
