// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a harness for running CLI commands against an isolated
// configuration home, fixture helpers for workspaces and instruction
// documents, and output assertions.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/instrsync/instrsync/internal/cli"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands in an isolated environment. Configuration and
// cache live under a per-test INSTRSYNC_HOME, so tests never touch the real
// home directory or each other.
type Harness struct {
	t       *testing.T
	homeDir string
}

// NewHarness creates a new E2E test harness with an isolated home.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()
	h := &Harness{
		t:       t,
		homeDir: homeDir,
	}

	t.Setenv("HOME", homeDir)
	t.Setenv("INSTRSYNC_HOME", homeDir)

	return h
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// ConfigPath returns the path of the configuration file inside the isolated
// home.
func (h *Harness) ConfigPath() string {
	return filepath.Join(h.homeDir, "config.yaml")
}

// WriteConfig writes the local configuration file inside the isolated home.
func (h *Harness) WriteConfig(content string) {
	h.t.Helper()
	if err := os.WriteFile(h.ConfigPath(), []byte(content), 0o600); err != nil {
		h.t.Fatalf("failed to write config file: %v", err)
	}
}

// Run executes a CLI command with the given arguments and captures stdout.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()
	return h.run("", args)
}

// RunWithStdin executes a CLI command with scripted stdin. This drives the
// plain confirmation prompts of sync --plain.
func (h *Harness) RunWithStdin(stdin string, args ...string) *Result {
	h.t.Helper()
	return h.run(stdin, args)
}

func (h *Harness) run(stdin string, args []string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "instrsync" {
		args = append([]string{"instrsync"}, args...)
	}

	oldStdin := os.Stdin
	if stdin != "" {
		stdinR, stdinW, err := os.Pipe()
		if err != nil {
			h.t.Fatalf("failed to create stdin pipe: %v", err)
		}
		go func() {
			defer func() {
				_ = stdinW.Close()
			}()
			_, _ = stdinW.WriteString(stdin)
		}()
		os.Stdin = stdinR
	}

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Read stdout concurrently. A command printing more than the pipe
	// buffer size would otherwise block waiting for the buffer to drain.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout
	os.Stdin = oldStdin

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}

	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
