// SPDX-License-Identifier: AGPL-3.0-or-later

package gitrepo

import "errors"

// Repository access errors.
var (
	// ErrNotGitRepo indicates the path is not inside a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNoHead indicates HEAD does not point at a commit yet.
	ErrNoHead = errors.New("HEAD does not point at a commit")
)

// Error wraps a repository operation error with context.
type Error struct {
	Op  string // Operation that failed (e.g., "resolve ref", "walk log")
	Ref string // Ref involved, if any
	Err error  // Underlying error
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return e.Op + " " + e.Ref + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
