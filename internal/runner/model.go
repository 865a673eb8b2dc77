// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

// TaskStatus represents the outcome of a task execution.
type TaskStatus string

const (
	StatusPass TaskStatus = "pass"
	StatusFail TaskStatus = "fail"
	StatusSkip TaskStatus = "skip"
)

// Exit codes carried by task results.
const (
	ExitOK          = 0
	ExitValidation  = 1 // the task found violations
	ExitEnvironment = 2 // the task could not run: bad repository, config or branch
)

// TaskResult represents the result of a single task execution.
// Matches .git/commitcheck/run/tasks/<task>.json schema.
type TaskResult struct {
	Task     string     `json:"task"`
	Status   TaskStatus `json:"status"`
	ExitCode int        `json:"exit_code"`
	Failures []string   `json:"failures,omitempty"`
	Note     string     `json:"note,omitempty"`
}

// Pass builds a passing result.
func Pass(task, note string) TaskResult {
	return TaskResult{Task: task, Status: StatusPass, ExitCode: ExitOK, Note: note}
}

// Fail builds a result carrying one failure record per violation.
func Fail(task string, failures []string) TaskResult {
	return TaskResult{Task: task, Status: StatusFail, ExitCode: ExitValidation, Failures: failures}
}

// Abort builds a result for a task that could not complete.
func Abort(task string, err error) TaskResult {
	return TaskResult{Task: task, Status: StatusFail, ExitCode: ExitEnvironment, Note: err.Error()}
}

// LastRun represents the summary of the last execution.
// Matches .git/commitcheck/run/last-run.json schema.
type LastRun struct {
	Status string   `json:"status"` // "pass" or "fail"
	Tasks  []string `json:"tasks"`  // Ordered list of tasks run
	Failed []string `json:"failed"` // List of failed tasks
}
