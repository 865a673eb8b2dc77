// Package gitfixture builds in-memory git repositories for tests.
package gitfixture

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// Repo is a test repository with a worktree and a deterministic commit clock.
type Repo struct {
	Repo *git.Repository
	WT   *git.Worktree
	Dir  string // working tree directory, empty for in-memory repositories

	t     *testing.T
	clock time.Time
	n     int
}

// New initializes an empty repository. HEAD points at an unborn master branch.
func New(t *testing.T) *Repo {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	return wrap(t, repo, "")
}

// NewOnDisk initializes an empty repository in a temporary directory.
func NewOnDisk(t *testing.T) *Repo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return wrap(t, repo, dir)
}

func wrap(t *testing.T, repo *git.Repository, dir string) *Repo {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &Repo{
		Repo:  repo,
		WT:    wt,
		Dir:   dir,
		t:     t,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit writes a new file and commits it with msg, one minute after the
// previous commit.
func (r *Repo) Commit(msg string) plumbing.Hash {
	r.t.Helper()
	r.n++
	r.clock = r.clock.Add(time.Minute)

	name := fmt.Sprintf("file-%d.txt", r.n)
	require.NoError(r.t, util.WriteFile(r.WT.Filesystem, name, []byte(msg), 0o644))
	_, err := r.WT.Add(name)
	require.NoError(r.t, err)

	sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.clock}
	h, err := r.WT.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
	return h
}

// Merge records a merge of other into the current branch with msg.
func (r *Repo) Merge(msg string, other plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	head, err := r.Repo.Head()
	require.NoError(r.t, err)

	r.clock = r.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.clock}
	h, err := r.WT.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           []plumbing.Hash{head.Hash(), other},
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return h
}

// CheckoutNew creates branch at HEAD and checks it out.
func (r *Repo) CheckoutNew(branch string) {
	r.t.Helper()
	err := r.WT.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
	require.NoError(r.t, err)
}

// Checkout checks out an existing branch.
func (r *Repo) Checkout(branch string) {
	r.t.Helper()
	err := r.WT.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)})
	require.NoError(r.t, err)
}

// Detach checks out h with a detached HEAD.
func (r *Repo) Detach(h plumbing.Hash) {
	r.t.Helper()
	require.NoError(r.t, r.WT.Checkout(&git.CheckoutOptions{Hash: h}))
}

// ResetHard moves the current branch to h.
func (r *Repo) ResetHard(h plumbing.Hash) {
	r.t.Helper()
	require.NoError(r.t, r.WT.Reset(&git.ResetOptions{Commit: h, Mode: git.HardReset}))
}

// SetRemoteRef points refs/remotes/<remote>/<branch> at h.
func (r *Repo) SetRemoteRef(remote, branch string, h plumbing.Hash) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, branch), h)
	require.NoError(r.t, r.Repo.Storer.SetReference(ref))
}

// AddRemote configures a remote with a single URL.
func (r *Repo) AddRemote(name, url string) {
	r.t.Helper()
	_, err := r.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(r.t, err)
}
