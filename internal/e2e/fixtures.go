package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture provides helpers for creating test files under a base directory.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteInstructions writes a markdown instructions document with a title
// heading and one paragraph per line. It returns the full path, usable as a
// local source URL.
func (f *Fixture) WriteInstructions(relPath, title string, lines ...string) string {
	f.t.Helper()

	content := "# " + title + "\n"
	for _, line := range lines {
		content += "\n" + line + "\n"
	}
	return f.WriteFile(relPath, content)
}

// MkdirAll creates a directory and all parent directories relative to the base.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// Dir returns the fixture's base directory.
func (f *Fixture) Dir() string {
	return f.baseDir
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)
	_, err := os.Stat(fullPath)
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := filepath.Join(f.baseDir, relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}

// InstructionsPath returns the default destination path inside the fixture,
// .github/copilot-instructions.md.
func (f *Fixture) InstructionsPath() string {
	return f.Path(filepath.Join(".github", "copilot-instructions.md"))
}

// WorkspaceFixture creates a workspace root in a fresh temp directory,
// seeded with the given marker files (for example "go.mod" or
// "requirements.txt") so language detection finds something.
func (h *Harness) WorkspaceFixture(markers ...string) *Fixture {
	h.t.Helper()

	f := NewFixture(h.t, h.t.TempDir())
	for _, marker := range markers {
		content := "\n"
		if strings.HasSuffix(marker, "go.mod") {
			content = "module example.com/app\n"
		}
		f.WriteFile(marker, content)
	}
	return f
}

// SourceFixture creates a fixture for instruction source documents in a
// fresh temp directory, outside any workspace root.
func (h *Harness) SourceFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.t.TempDir())
}
