package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTask implements Task for testing.
type MockTask struct {
	id     string
	result TaskResult
	called bool
}

func (m *MockTask) ID() string {
	return m.id
}

func (m *MockTask) Run(ctx context.Context, deps *Deps) TaskResult {
	m.called = true
	return m.result
}

func TestRunner_RunAll(t *testing.T) {
	store := NewStateStore(t.TempDir())

	t1 := &MockTask{id: "branch", result: Pass("branch", "")}
	t2 := &MockTask{id: "commits", result: Pass("commits", "2 commits checked")}

	var out bytes.Buffer
	r := NewRunner([]Task{t1, t2}, store, &Deps{}, &out)

	require.NoError(t, r.RunAll(context.Background()))
	assert.True(t, t1.called)
	assert.True(t, t2.called)
	assert.Contains(t, out.String(), "PASS: commits")
	assert.Contains(t, out.String(), "2 commits checked")

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "pass", last.Status)
	assert.Equal(t, []string{"branch", "commits"}, last.Tasks)
	assert.Empty(t, last.Failed)
}

func TestRunner_RunAll_AccumulatesFailures(t *testing.T) {
	store := NewStateStore(t.TempDir())

	t1 := &MockTask{id: "branch", result: Fail("branch", []string{"bad branch"})}
	t2 := &MockTask{id: "commits", result: Fail("commits", []string{"report one", "report two"})}

	var out bytes.Buffer
	r := NewRunner([]Task{t1, t2}, store, &Deps{}, &out)

	err := r.RunAll(context.Background())
	require.Error(t, err)

	var runErr *RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, []string{"branch", "commits"}, runErr.Failed)
	assert.Equal(t, ExitValidation, runErr.ExitCode())

	assert.True(t, t2.called)
	assert.Contains(t, out.String(), "report one")
	assert.Contains(t, out.String(), "report two")

	res, err := store.ReadTask("commits")
	require.NoError(t, err)
	assert.Equal(t, []string{"report one", "report two"}, res.Failures)
}

func TestRunner_AbortRaisesExitCode(t *testing.T) {
	store := NewStateStore(t.TempDir())

	t1 := &MockTask{id: "branch", result: Fail("branch", []string{"bad branch"})}
	t2 := &MockTask{id: "commits", result: Abort("commits", errors.New("missing property: commit.types"))}

	err := NewRunner([]Task{t1, t2}, store, &Deps{}, nil).RunAll(context.Background())

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ExitEnvironment, runErr.ExitCode())
}

func TestRunner_Resume(t *testing.T) {
	store := NewStateStore(t.TempDir())

	require.NoError(t, store.WriteLastRun(LastRun{
		Status: "fail",
		Tasks:  []string{"branch", "commits"},
		Failed: []string{"commits"},
	}))

	t1 := &MockTask{id: "branch", result: Pass("branch", "")}
	t2 := &MockTask{id: "commits", result: Pass("commits", "")}

	r := NewRunner([]Task{t1, t2}, store, &Deps{}, nil)
	require.NoError(t, r.Resume(context.Background()))

	assert.False(t, t1.called)
	assert.True(t, t2.called)

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "pass", last.Status)
	assert.Equal(t, []string{"commits"}, last.Tasks)
}

func TestRunner_ResumeWithoutState(t *testing.T) {
	t1 := &MockTask{id: "branch", result: Pass("branch", "")}
	r := NewRunner([]Task{t1}, NewStateStore(t.TempDir()), &Deps{}, nil)

	require.NoError(t, r.Resume(context.Background()))
	assert.False(t, t1.called)
}

func TestRunner_RunList_UnknownTask(t *testing.T) {
	r := NewRunner(nil, NewStateStore(t.TempDir()), &Deps{}, nil)
	err := r.RunList(context.Background(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found: nope")
}

func TestStateStore_Reset(t *testing.T) {
	store := NewStateStore(t.TempDir() + "/run")
	require.NoError(t, store.WriteTaskResult(Pass("commits", "")))
	require.NoError(t, store.Reset())

	res, err := store.ReadTask("commits")
	require.NoError(t, err)
	assert.Nil(t, res)

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestDeps_CurrentBranchOverride(t *testing.T) {
	d := &Deps{Branch: "release/1.0/hotfix"}
	name, err := d.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "release/1.0/hotfix", name)
}
