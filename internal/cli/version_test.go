package cli

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	output, err := runCLI(t, "instrsync", "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, want := range []string{
		"instrsync version " + Version,
		"commit: " + Commit,
		"built: " + BuildDate,
		"go: " + runtime.Version(),
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q, got:\n%s", want, output)
		}
	}
}
