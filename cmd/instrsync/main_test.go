package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/instrsync/instrsync/internal/cli"
)

// runCaptured executes the CLI with stdout captured.
func runCaptured(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := cli.Run(context.Background(), args)

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close pipe writer: %v", closeErr)
	}
	os.Stdout = old

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("failed to read captured output: %v", copyErr)
	}
	return buf.String(), runErr
}

func TestCLIInitialization(t *testing.T) {
	output, err := runCaptured(t, "instrsync", "--help")
	if err != nil {
		t.Fatalf("CLI initialization failed: %v", err)
	}

	if !strings.Contains(output, "instrsync") {
		t.Errorf("expected help output to contain 'instrsync', got: %q", output)
	}
	if !strings.Contains(output, "USAGE") || !strings.Contains(output, "COMMANDS") {
		t.Errorf("expected help output to contain USAGE and COMMANDS sections, got: %q", output)
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := runCaptured(t, "instrsync", "--version")
	if err != nil {
		t.Fatalf("--version flag failed: %v", err)
	}
	if !strings.Contains(output, "instrsync") {
		t.Errorf("expected version output to contain 'instrsync', got: %q", output)
	}
}

func TestGlobalFlagsRecognized(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
	}{
		"verbose flag": {
			args:    []string{"instrsync", "--verbose", "version"},
			wantErr: false,
		},
		"debug flag": {
			args:    []string{"instrsync", "--debug", "version"},
			wantErr: false,
		},
		"no-color flag": {
			args:    []string{"instrsync", "--no-color", "version"},
			wantErr: false,
		},
		"combined flags": {
			args:    []string{"instrsync", "--verbose", "--no-color", "version"},
			wantErr: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runCaptured(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllCommandsRegistered(t *testing.T) {
	output, err := runCaptured(t, "instrsync", "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	expectedCommands := []string{
		"sync",
		"watch",
		"sources",
		"check",
		"config",
		"version",
	}

	for _, cmd := range expectedCommands {
		if !strings.Contains(output, cmd) {
			t.Errorf("expected command %q to be registered, help output: %q", cmd, output)
		}
	}
}

func TestHelpSubcommand(t *testing.T) {
	output, err := runCaptured(t, "instrsync", "help")
	if err != nil {
		t.Fatalf("help subcommand failed: %v", err)
	}
	if !strings.Contains(output, "instrsync") {
		t.Errorf("expected help output to contain 'instrsync', got: %q", output)
	}
}
