// SPDX-License-Identifier: AGPL-3.0-or-later

// Package branch derives the root branch a working branch was forked from,
// using nothing but the branch name.
//
// Branches follow the convention:
//
//	main                  -> root "main"
//	feature/add-x         -> root "main"
//	release/1.0/hotfix    -> root "1.0"
package branch

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRoot is the integration branch used for one and two segment names.
const DefaultRoot = "main"

// ErrInvalidBranchName indicates the branch does not follow the naming convention.
var ErrInvalidBranchName = errors.New("branch doesn't follow branch naming conventions")

// Segments splits a branch name into its "/" separated parts.
// A leading refs/heads/ is ignored.
func Segments(name string) []string {
	name = strings.TrimPrefix(name, "refs/heads/")
	return strings.Split(name, "/")
}

// RootBranch returns the branch that name was presumably forked from.
// Segment contents are not validated.
func RootBranch(name string) (string, error) {
	parts := Segments(name)
	switch len(parts) {
	case 1, 2:
		return DefaultRoot, nil
	case 3:
		return parts[1], nil
	default:
		return "", fmt.Errorf("%w: %q has %d segments", ErrInvalidBranchName, name, len(parts))
	}
}

// Validate reports whether name follows the convention RootBranch relies on.
func Validate(name string) error {
	_, err := RootBranch(name)
	return err
}
