// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitrepo reads a local git repository: the checked-out branch, the
// origin URL, remote-tracking refs and commit history. It never writes.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/bartekus/commitcheck/internal/history"
)

// Repository is a read-only handle on a git repository.
type Repository struct {
	repo   *git.Repository
	root   string
	gitDir string
	remote string
}

// Option configures Repository.
type Option func(*Repository)

// WithRemote sets the remote consulted for the origin URL and tracking refs.
// Default is "origin".
func WithRemote(name string) Option {
	return func(r *Repository) {
		r.remote = name
	}
}

// Open opens the repository containing dir, searching parent directories
// for the .git directory.
func Open(dir string, opts ...Option) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
		}
		return nil, &Error{Op: "open repository", Err: err}
	}

	root := dir
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	r := New(repo, root, opts...)
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		r.gitDir = st.Filesystem().Root()
	}
	return r, nil
}

// New wraps an already opened go-git repository.
func New(repo *git.Repository, root string, opts ...Option) *Repository {
	r := &Repository{
		repo:   repo,
		root:   root,
		remote: "origin",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnRemote returns a Repository that consults the named remote instead.
func (r *Repository) OnRemote(name string) *Repository {
	return &Repository{
		repo:   r.repo,
		root:   r.root,
		gitDir: r.gitDir,
		remote: name,
	}
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// GitDir returns the .git directory, or "" for repositories not backed by disk.
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Remote returns the name of the consulted remote.
func (r *Repository) Remote() string {
	return r.remote
}

// CurrentBranch returns the short name of the checked-out branch.
// With a detached HEAD the full commit hash is returned instead.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoHead
		}
		return "", &Error{Op: "get current branch", Err: err}
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

// OriginURL returns the first configured URL of the remote, or "" when the
// remote is not configured.
func (r *Repository) OriginURL() (string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", &Error{Op: "read config", Err: err}
	}
	rc, ok := cfg.Remotes[r.remote]
	if !ok || len(rc.URLs) == 0 {
		return "", nil
	}
	return rc.URLs[0], nil
}

// ResolveRemote resolves the remote-tracking ref <remote>/<branch>.
// The boolean is false when the ref does not exist.
func (r *Repository) ResolveRemote(branch string) (plumbing.Hash, bool, error) {
	name := plumbing.NewRemoteReferenceName(r.remote, branch)
	ref, err := r.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, &Error{Op: "resolve ref", Ref: name.Short(), Err: err}
	}
	return ref.Hash(), true, nil
}

// Range returns the commits unique to the current branch: everything
// reachable from HEAD that is not reachable from <remote>/<rootBranch>.
// When that ref does not exist the full HEAD history is returned.
func (r *Repository) Range(_ context.Context, rootBranch string) (history.Source, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNoHead
		}
		return nil, &Error{Op: "resolve HEAD", Err: err}
	}

	lower, ok, err := r.ResolveRemote(rootBranch)
	if err != nil {
		return nil, err
	}
	return &rangeSource{repo: r.repo, from: head.Hash(), lower: lower, limited: ok}, nil
}

type rangeSource struct {
	repo    *git.Repository
	from    plumbing.Hash
	lower   plumbing.Hash
	limited bool // lower exists and bounds the range
}

// Commits walks history newest first by committer time. A bounded range is
// resolved by a rangeWalk on each call; an unbounded one streams the log.
func (s *rangeSource) Commits(ctx context.Context) iter.Seq2[history.Commit, error] {
	return func(yield func(history.Commit, error) bool) {
		if s.limited {
			commits, err := newRangeWalk(s.repo).run(ctx, s.from, s.lower)
			if err != nil {
				yield(history.Commit{}, err)
				return
			}
			for _, c := range commits {
				if err := ctx.Err(); err != nil {
					yield(history.Commit{}, err)
					return
				}
				if !yield(toCommit(c), nil) {
					return
				}
			}
			return
		}

		start, err := s.repo.CommitObject(s.from)
		if err != nil {
			yield(history.Commit{}, &Error{Op: "read commit", Ref: s.from.String(), Err: err})
			return
		}

		it := object.NewCommitIterCTime(start, nil, nil)
		defer it.Close()

		for {
			if err := ctx.Err(); err != nil {
				yield(history.Commit{}, err)
				return
			}
			c, err := it.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(history.Commit{}, &Error{Op: "walk log", Err: err})
				return
			}
			if !yield(toCommit(c), nil) {
				return
			}
		}
	}
}

func toCommit(c *object.Commit) history.Commit {
	return history.Commit{
		Hash:         c.Hash.String(),
		ShortMessage: history.ShortMessage(c.Message),
		FullMessage:  c.Message,
		Author:       c.Author.Name,
		When:         c.Committer.When,
	}
}
