package commands

import (
	"bytes"
	"strings"
	"testing"
)

// Feature: CLI_CONTRACT

func TestCLIContract(t *testing.T) {
	cmd := NewRootCmd()
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}

	out := b.String()

	// Assert top-level commands that are part of the core contract
	requiredCommands := []string{
		"completion",
		"help",
		"lint-message",
		"root-branch",
		"run",
		"validate",
		"version",
	}

	for _, c := range requiredCommands {
		if !strings.Contains(out, c) {
			t.Errorf("expected top-level command %q in root help", c)
		}
	}
}

func TestCLICommandRun(t *testing.T) {
	cmd := NewRootCmd()
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetArgs([]string{"run", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("run command failed: %v", err)
	}

	out := b.String()
	if !strings.Contains(out, "Usage:") {
		t.Errorf("expected usage info in run help")
	}
	for _, sub := range []string{"all", "list", "report", "reset", "resume"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected run subcommand %q in help", sub)
		}
	}
}
