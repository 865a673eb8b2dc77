// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner executes validation tasks in order, accumulating every
// failure instead of stopping at the first one, and persists the outcome so a
// later run can resume the failed tasks.
package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const banner = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// RunError reports the tasks that failed in a run.
type RunError struct {
	Failed []string
	Code   int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed: %s", strings.Join(e.Failed, ", "))
}

// ExitCode returns the highest exit code among the failed tasks.
func (e *RunError) ExitCode() int { return e.Code }

// Runner manages the execution of tasks.
type Runner struct {
	tasks []Task
	store *StateStore
	deps  *Deps
	out   io.Writer
}

// NewRunner creates a new runner with the given tasks and dependencies.
// Progress and failure records are written to out.
func NewRunner(tasks []Task, store *StateStore, deps *Deps, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		tasks: tasks,
		store: store,
		deps:  deps,
		out:   out,
	}
}

// RunAll executes all tasks in order.
// It continues execution even if a task fails, accumulating failures.
// Returns a *RunError if ANY task failed.
func (r *Runner) RunAll(ctx context.Context) error {
	return r.executeSequence(ctx, r.tasks)
}

// Resume re-runs only the tasks that failed in the last run.
func (r *Runner) Resume(ctx context.Context) error {
	failed, err := r.store.LoadFailedTasks()
	if err != nil {
		return fmt.Errorf("loading failed tasks: %w", err)
	}
	if len(failed) == 0 {
		return nil
	}

	var toRun []Task
	for _, id := range failed {
		if t := r.findTask(id); t != nil {
			toRun = append(toRun, t)
		}
	}
	return r.executeSequence(ctx, toRun)
}

// RunList executes a specific list of task IDs.
func (r *Runner) RunList(ctx context.Context, taskIDs []string) error {
	var toRun []Task
	for _, id := range taskIDs {
		t := r.findTask(id)
		if t == nil {
			return fmt.Errorf("task not found: %s", id)
		}
		toRun = append(toRun, t)
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) findTask(id string) Task {
	for _, t := range r.tasks {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// executeSequence runs a sequence of tasks, updating state.
func (r *Runner) executeSequence(ctx context.Context, tasks []Task) error {
	var failed []string
	var names []string
	code := ExitOK

	for _, task := range tasks {
		id := task.ID()
		names = append(names, id)

		_, _ = fmt.Fprintf(r.out, "\n%s\nTASK: %s\n%s\n\n", banner, id, banner)

		start := time.Now()
		res := task.Run(ctx, r.deps)
		if r.deps != nil && r.deps.Logger != nil {
			r.deps.Logger.Debug("task finished", "task", id, "status", res.Status, "duration", time.Since(start))
		}

		if err := r.store.WriteTaskResult(res); err != nil {
			return fmt.Errorf("writing result for %s: %w", id, err)
		}

		switch res.Status {
		case StatusSkip:
			_, _ = fmt.Fprintf(r.out, "SKIP: %s\n", id)
		case StatusPass:
			_, _ = fmt.Fprintf(r.out, "PASS: %s\n", id)
		default:
			failed = append(failed, id)
			code = max(code, res.ExitCode)
			_, _ = fmt.Fprintf(r.out, "FAIL: %s (exit %d)\n", id, res.ExitCode)
			for _, f := range res.Failures {
				_, _ = fmt.Fprintln(r.out, f)
			}
		}
		if res.Note != "" {
			_, _ = fmt.Fprintln(r.out, res.Note)
		}
	}

	lastRun := LastRun{
		Status: "pass",
		Tasks:  names,
		Failed: failed,
	}
	if len(failed) > 0 {
		lastRun.Status = "fail"
	}

	if err := r.store.WriteLastRun(lastRun); err != nil {
		return fmt.Errorf("writing last run: %w", err)
	}

	if len(failed) > 0 {
		return &RunError{Failed: failed, Code: max(code, ExitValidation)}
	}
	return nil
}
