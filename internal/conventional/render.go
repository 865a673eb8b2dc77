// SPDX-License-Identifier: AGPL-3.0-or-later

package conventional

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type jsonReport struct {
	Checked int          `json:"checked"`
	Failed  int          `json:"failed"`
	Commits []jsonCommit `json:"commits"`
}

type jsonCommit struct {
	Hash   string   `json:"hash"`
	Abbrev string   `json:"abbrev"`
	Header string   `json:"header"`
	Errors []string `json:"errors"`
}

// Render writes the result in the requested format.
func Render(w io.Writer, res Result, format string) error {
	switch format {
	case FormatText:
		return renderText(w, res)
	case FormatJSON:
		return renderJSON(w, res)
	default:
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
	}
}

func renderText(w io.Writer, res Result) error {
	for _, rep := range res.Reports {
		if _, err := fmt.Fprintln(w, rep.Error()); err != nil {
			return fmt.Errorf("writing text output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "Checked %d commit(s), %d with errors.\n", res.Checked, len(res.Reports)); err != nil {
		return fmt.Errorf("writing text output: %w", err)
	}
	return nil
}

func renderJSON(w io.Writer, res Result) error {
	out := jsonReport{
		Checked: res.Checked,
		Failed:  len(res.Reports),
		Commits: make([]jsonCommit, 0, len(res.Reports)),
	}
	for _, rep := range res.Reports {
		out.Commits = append(out.Commits, jsonCommit{
			Hash:   rep.Commit.Hash,
			Abbrev: rep.Commit.Abbrev(),
			Header: rep.Commit.ShortMessage,
			Errors: rep.Errors,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	return nil
}
