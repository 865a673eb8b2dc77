package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/commitcheck/internal/history"
	"github.com/bartekus/commitcheck/internal/testutil/gitfixture"
)

func collect(t *testing.T, src history.Source) []string {
	t.Helper()
	var headers []string
	for c, err := range src.Commits(context.Background()) {
		require.NoError(t, err)
		headers = append(headers, c.ShortMessage)
	}
	return headers
}

func TestCurrentBranch(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: initial commit")
	tr.CheckoutNew("feature/login")

	r := New(tr.Repo, "/")
	name, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature/login", name)
}

func TestCurrentBranch_Detached(t *testing.T) {
	tr := gitfixture.New(t)
	h := tr.Commit("feat: initial commit")
	tr.Detach(h)

	name, err := New(tr.Repo, "/").CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, h.String(), name)
}

func TestCurrentBranch_Empty(t *testing.T) {
	tr := gitfixture.New(t)
	_, err := New(tr.Repo, "/").CurrentBranch()
	assert.ErrorIs(t, err, ErrNoHead)
}

func TestOriginURL(t *testing.T) {
	tr := gitfixture.New(t)
	r := New(tr.Repo, "/")

	url, err := r.OriginURL()
	require.NoError(t, err)
	assert.Empty(t, url)

	tr.AddRemote("origin", "https://github.com/acme/widgets.git")
	url, err = r.OriginURL()
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets.git", url)

	tr.AddRemote("upstream", "https://github.com/acme/upstream.git")
	url, err = New(tr.Repo, "/", WithRemote("upstream")).OriginURL()
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/upstream.git", url)
}

func TestResolveRemote(t *testing.T) {
	tr := gitfixture.New(t)
	h := tr.Commit("feat: initial commit")
	r := New(tr.Repo, "/")

	_, ok, err := r.ResolveRemote("main")
	require.NoError(t, err)
	assert.False(t, ok)

	tr.SetRemoteRef("origin", "main", h)
	got, ok, err := r.ResolveRemote("main")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, h, got)
}

func TestRange_OnlyCommitsUniqueToBranch(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: initial commit")
	base := tr.Commit("fix: second commit")
	tr.SetRemoteRef("origin", "main", base)

	tr.CheckoutNew("feature/button")
	tr.Commit("feat(ui): add button")
	tr.Commit("fix: resolve bug.")

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"fix: resolve bug.", "feat(ui): add button"}, collect(t, src))
}

func TestRange_MissingRootRefWalksFullHistory(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: initial commit")
	tr.Commit("fix: second commit")

	src, err := New(tr.Repo, "/").Range(context.Background(), "develop")
	require.NoError(t, err)
	assert.Equal(t, []string{"fix: second commit", "feat: initial commit"}, collect(t, src))
}

func TestRange_BranchEqualToRoot(t *testing.T) {
	tr := gitfixture.New(t)
	h := tr.Commit("feat: initial commit")
	tr.SetRemoteRef("origin", "main", h)

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)
	assert.Empty(t, collect(t, src))
}

func TestRange_RootMovedAhead(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: initial commit")
	fork := tr.Commit("fix: fork point")

	tr.CheckoutNew("feature/a")
	tr.Commit("feat: branch work")

	// origin/main advanced past the fork point on another line of history.
	tr.CheckoutNew("scratch")
	tr.ResetHard(fork)
	upstream := tr.Commit("docs: upstream change")
	tr.SetRemoteRef("origin", "main", upstream)

	tr.Checkout("feature/a")

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"feat: branch work"}, collect(t, src))
}

func TestRange_Restartable(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: one")
	tr.Commit("feat: two")

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)
	first := collect(t, src)
	assert.Equal(t, first, collect(t, src))
}

func TestRange_CommitFields(t *testing.T) {
	tr := gitfixture.New(t)
	h := tr.Commit("feat(ui): add button\n\nLonger body.\n")

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)

	for c, err := range src.Commits(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, h.String(), c.Hash)
		assert.Equal(t, h.String()[:7], c.Abbrev())
		assert.Equal(t, "feat(ui): add button", c.ShortMessage)
		assert.Equal(t, "feat(ui): add button\n\nLonger body.\n", c.FullMessage)
		assert.Equal(t, "Dev", c.Author)
	}
}

func TestRange_Canceled(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: one")

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, err := range src.Commits(ctx) {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestRange_EmptyRepository(t *testing.T) {
	tr := gitfixture.New(t)
	_, err := New(tr.Repo, "/").Range(context.Background(), "main")
	assert.ErrorIs(t, err, ErrNoHead)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNotGitRepo)
}

func TestOpen_PlainRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	r, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Root())
	assert.Equal(t, filepath.Join(dir, git.GitDirName), r.GitDir())
	assert.Equal(t, "origin", r.Remote())
}

func TestOnRemote(t *testing.T) {
	tr := gitfixture.New(t)
	h := tr.Commit("feat: initial commit")
	tr.SetRemoteRef("upstream", "main", h)

	r := New(tr.Repo, "/")
	_, ok, err := r.ResolveRemote("main")
	require.NoError(t, err)
	assert.False(t, ok)

	up := r.OnRemote("upstream")
	assert.Equal(t, r.GitDir(), up.GitDir())
	assert.Equal(t, "origin", r.Remote())
	assert.Equal(t, "upstream", up.Remote())
	_, ok, err = up.ResolveRemote("main")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_BrokenDotGitFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("not a gitdir pointer\n"), 0o600))

	_, err := Open(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotGitRepo)
}

func TestRange_MergeFromRootBranch(t *testing.T) {
	tr := gitfixture.New(t)
	tr.Commit("feat: initial commit")

	tr.CheckoutNew("feature/a")
	tr.Commit("feat: branch work")

	tr.Checkout("master")
	tr.Commit("fix: upstream one")
	upstream := tr.Commit("fix: upstream two")
	tr.SetRemoteRef("origin", "main", upstream)

	tr.Checkout("feature/a")
	tr.Merge("chore: merge main", upstream)
	tr.Commit("feat: after merge")

	src, err := New(tr.Repo, "/").Range(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"feat: after merge", "chore: merge main", "feat: branch work"},
		collect(t, src))
}

func TestRangeWalk_StopsAtForkPoint(t *testing.T) {
	tr := gitfixture.New(t)
	var base plumbing.Hash
	for i := 0; i < 40; i++ {
		base = tr.Commit(fmt.Sprintf("feat: main %d", i))
	}
	tr.CheckoutNew("feature/a")
	tr.Commit("feat: one")
	tip := tr.Commit("feat: two")

	w := newRangeWalk(tr.Repo)
	commits, err := w.run(context.Background(), tip, base)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, tip, commits[0].Hash)
	assert.LessOrEqual(t, w.visited, 4)
}

func TestRangeWalk_TipEqualsBase(t *testing.T) {
	tr := gitfixture.New(t)
	h := tr.Commit("feat: initial commit")

	w := newRangeWalk(tr.Repo)
	commits, err := w.run(context.Background(), h, h)
	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.Equal(t, 1, w.visited)
}
