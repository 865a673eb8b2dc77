// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history defines the commit model read by the validators and the
// sources that provide it.
package history

import (
	"context"
	"iter"
	"strings"
	"time"
)

// AbbrevLen is the length of an abbreviated commit hash in reports.
const AbbrevLen = 7

// Commit is a single commit as supplied by the version-control layer.
type Commit struct {
	Hash         string
	ShortMessage string
	FullMessage  string
	Author       string
	When         time.Time
}

// NewCommit builds a Commit from its hash and full message, deriving the short message.
func NewCommit(hash, message string) Commit {
	return Commit{
		Hash:         hash,
		ShortMessage: ShortMessage(message),
		FullMessage:  message,
	}
}

// Abbrev returns the abbreviated hash.
func (c Commit) Abbrev() string {
	if len(c.Hash) <= AbbrevLen {
		return c.Hash
	}
	return c.Hash[:AbbrevLen]
}

// Source provides commit history for validation.
// Each call to Commits starts a fresh walk, newest commit first.
type Source interface {
	Commits(ctx context.Context) iter.Seq2[Commit, error]
}

// ShortMessage returns the first paragraph of a commit message with line
// breaks folded into spaces.
func ShortMessage(message string) string {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	if i := strings.Index(message, "\n\n"); i >= 0 {
		message = message[:i]
	}
	message = strings.TrimRight(message, "\n")
	return strings.ReplaceAll(message, "\n", " ")
}

// SliceSource is a Source over an in-memory list of commits.
type SliceSource []Commit

// Commits implements Source.
func (s SliceSource) Commits(ctx context.Context) iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		for _, c := range s {
			if err := ctx.Err(); err != nil {
				yield(Commit{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}
