// SPDX-License-Identifier: AGPL-3.0-or-later

package gitrepo

import (
	"bytes"
	"context"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// rangeWalk computes the commits reachable from a tip but not from a base.
//
// Both sides are walked together, newest committer time first. Commits reached
// from the base are hidden, and hiding propagates to their ancestors. The walk
// ends once every queued commit is hidden and older than anything emitted, so
// only history newer than the fork point is loaded.
type rangeWalk struct {
	repo   *git.Repository
	queue  *binaryheap.Heap
	seen   map[plumbing.Hash]bool
	hidden map[plumbing.Hash]bool
	done   map[plumbing.Hash]*object.Commit

	live    int // queued commits that are not hidden
	visited int // commit objects loaded
}

func newRangeWalk(repo *git.Repository) *rangeWalk {
	return &rangeWalk{
		repo:   repo,
		queue:  binaryheap.NewWith(byCommitTime),
		seen:   map[plumbing.Hash]bool{},
		hidden: map[plumbing.Hash]bool{},
		done:   map[plumbing.Hash]*object.Commit{},
	}
}

// byCommitTime orders newest first; equal times fall back to the hash.
func byCommitTime(a, b interface{}) int {
	ca, cb := a.(*object.Commit), b.(*object.Commit)
	switch {
	case ca.Committer.When.After(cb.Committer.When):
		return -1
	case ca.Committer.When.Before(cb.Committer.When):
		return 1
	}
	return bytes.Compare(ca.Hash[:], cb.Hash[:])
}

// run returns the commits reachable from tip and not from base, newest first.
func (w *rangeWalk) run(ctx context.Context, tip, base plumbing.Hash) ([]*object.Commit, error) {
	w.hide(base)
	if err := w.enqueue(base); err != nil {
		return nil, err
	}
	if err := w.enqueue(tip); err != nil {
		return nil, err
	}

	var out []*object.Commit
	var oldest time.Time
	for !w.queue.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if w.live == 0 && w.settled(oldest, len(out) > 0) {
			break
		}

		v, _ := w.queue.Pop()
		c := v.(*object.Commit)
		w.done[c.Hash] = c

		hidden := w.hidden[c.Hash]
		if !hidden {
			w.live--
			out = append(out, c)
			if oldest.IsZero() || c.Committer.When.Before(oldest) {
				oldest = c.Committer.When
			}
		}
		for _, p := range c.ParentHashes {
			if hidden {
				w.hide(p)
			}
			if err := w.enqueue(p); err != nil {
				return nil, err
			}
		}
	}

	// A skewed clock can hide a commit after it was emitted.
	kept := out[:0]
	for _, c := range out {
		if !w.hidden[c.Hash] {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// settled reports whether no queued commit can still be a descendant of an
// emitted one.
func (w *rangeWalk) settled(oldest time.Time, emitted bool) bool {
	if !emitted {
		return true
	}
	v, ok := w.queue.Peek()
	if !ok {
		return true
	}
	return v.(*object.Commit).Committer.When.Before(oldest)
}

func (w *rangeWalk) enqueue(h plumbing.Hash) error {
	if w.seen[h] {
		return nil
	}
	c, err := w.repo.CommitObject(h)
	if err != nil {
		return &Error{Op: "read commit", Ref: h.String(), Err: err}
	}
	w.seen[h] = true
	w.visited++
	if !w.hidden[h] {
		w.live++
	}
	w.queue.Push(c)
	return nil
}

// hide marks h as reachable from the base, together with the ancestors of
// any commit already walked.
func (w *rangeWalk) hide(h plumbing.Hash) {
	stack := []plumbing.Hash{h}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.hidden[h] {
			continue
		}
		w.hidden[h] = true

		if c, ok := w.done[h]; ok {
			stack = append(stack, c.ParentHashes...)
		} else if w.seen[h] {
			w.live--
		}
	}
}
