// SPDX-License-Identifier: AGPL-3.0-or-later

package conventional

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bartekus/commitcheck/internal/history"
)

// ErrMsgHeaderFormat is reported when a header does not follow the grammar.
const ErrMsgHeaderFormat = "Commit header (short commit message) violates conventional commits format."

// Validator checks commits against the allowed types and scopes.
type Validator struct {
	Types  []string
	Scopes []string
}

// NewValidator creates a validator for the given type and scope registries.
func NewValidator(types, scopes []string) *Validator {
	return &Validator{Types: types, Scopes: scopes}
}

// ValidateHeader returns every violation found in a commit header.
// An unknown type and an unknown scope are reported independently.
func (v *Validator) ValidateHeader(header string) []string {
	h, ok := ParseHeader(header)
	if !ok {
		return []string{ErrMsgHeaderFormat}
	}

	var errs []string
	if !slices.Contains(v.Types, h.Type) {
		errs = append(errs, fmt.Sprintf("-> Unknown type '%s'", h.Type))
	}
	if h.HasScope() && !slices.Contains(v.Scopes, h.Scope) {
		errs = append(errs, fmt.Sprintf("-> Unknown scope '%s'", h.Scope))
	}
	return errs
}

// ValidateFooter returns footer violations. Footers are not validated yet,
// so the result is always empty.
func (v *Validator) ValidateFooter(fullMessage string) []string {
	return nil
}

// Validate checks a single commit. The boolean is false when the commit is clean.
func (v *Validator) Validate(c history.Commit) (Report, bool) {
	errs := append(v.ValidateHeader(c.ShortMessage), v.ValidateFooter(c.FullMessage)...)
	if len(errs) == 0 {
		return Report{}, false
	}
	return Report{Commit: c, Errors: errs}, true
}

// Report lists the violations of one offending commit.
type Report struct {
	Commit history.Commit
	Errors []string
}

// Error renders the report the way it is surfaced as a failure.
func (r Report) Error() string {
	return fmt.Sprintf("Errors for commit: %s @%s \n %s",
		r.Commit.ShortMessage,
		r.Commit.Abbrev(),
		strings.Join(r.Errors, "\n"))
}

// Result is the outcome of checking a commit range.
type Result struct {
	Checked int
	Reports []Report
}

// Failed reports whether any commit produced a report.
func (r Result) Failed() bool {
	return len(r.Reports) > 0
}

// Check validates every commit in src. Validation errors are collected and
// never stop the walk; an error from the source aborts it.
func Check(ctx context.Context, src history.Source, v *Validator) (Result, error) {
	var res Result
	for c, err := range src.Commits(ctx) {
		if err != nil {
			return res, fmt.Errorf("walking commits: %w", err)
		}
		res.Checked++
		if rep, bad := v.Validate(c); bad {
			res.Reports = append(res.Reports, rep)
		}
	}
	return res, nil
}
