package e2e_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/instrsync/instrsync/internal/e2e"
)

// TestVersionCommand verifies the version command works correctly.
func TestVersionCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("version")

	e2e.AssertSuccess(t, result)
	e2e.AssertExitCode(t, result, 0)
	e2e.AssertOutputContains(t, result, "instrsync version")
}

// TestHelpListsCommands verifies every command appears in the help output.
func TestHelpListsCommands(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("--help")

	e2e.AssertSuccess(t, result)
	for _, cmd := range []string{"sync", "watch", "sources", "check", "config", "version"} {
		e2e.AssertOutputContains(t, result, cmd)
	}
}

// TestConfigPathCommand verifies config path prints the isolated home path.
func TestConfigPathCommand(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("config", "path")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputEquals(t, result, h.ConfigPath()+"\n")
}

// TestConfigShowDefaults verifies config show falls back to defaults when no
// file exists.
func TestConfigShowDefaults(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("config", "show")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "showing defaults")
	e2e.AssertOutputContains(t, result, "max_depth: 4")
}

// TestConfigInitCreatesConfigFile verifies config init writes a starter file.
func TestConfigInitCreatesConfigFile(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("config", "init")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "Wrote "+h.ConfigPath())
	e2e.AssertFileExists(t, h.ConfigPath())
	e2e.AssertFileContains(t, h.ConfigPath(), "language: go")

	showResult := h.Run("config", "show")
	e2e.AssertSuccess(t, showResult)
	e2e.AssertOutputContains(t, showResult, "# "+h.ConfigPath())
}

// TestConfigInitFailsIfExists verifies config init refuses to overwrite.
func TestConfigInitFailsIfExists(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("config", "init")
	e2e.AssertSuccess(t, result)

	result2 := h.Run("config", "init")
	e2e.AssertError(t, result2)
	e2e.AssertErrorContains(t, result2, "already exists")
	e2e.AssertErrorContains(t, result2, "--force")
}

// TestConfigInitForceOverwrites verifies config init --force overwrites.
func TestConfigInitForceOverwrites(t *testing.T) {
	h := e2e.NewHarness(t)
	h.WriteConfig("sources: []\n")

	result := h.Run("config", "init", "--force")

	e2e.AssertSuccess(t, result)
	e2e.AssertFileContains(t, h.ConfigPath(), "language: go")
}

// TestSourcesEmptyWithoutConfig verifies sources reports an empty setup.
func TestSourcesEmptyWithoutConfig(t *testing.T) {
	h := e2e.NewHarness(t)

	result := h.Run("sources")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "No instruction sources configured.")
}

// TestSourcesListsConfiguredSources verifies the merged source table.
func TestSourcesListsConfiguredSources(t *testing.T) {
	h := e2e.NewHarness(t)
	h.WriteConfig(`sources:
  - language: go
    url: https://example.com/standards/go.md
  - language: python
    url: https://example.com/standards/python.md
`)

	result := h.Run("sources")

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "Instruction sources (2)")
	e2e.AssertOutputContains(t, result, "Go")
	e2e.AssertOutputContains(t, result, "Python")
	e2e.AssertOutputContains(t, result, "local")
	e2e.AssertOutputContains(t, result, ".github/copilot-instructions.md")
}

// TestSyncCreatesInstructionsFile verifies the basic create flow end to end.
func TestSyncCreatesInstructionsFile(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.Run("sync", "--yes", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "created")
	e2e.AssertOutputContains(t, result, "Created:    1")
	e2e.AssertFileEquals(t, ws.InstructionsPath(), "# Go standards\n\nUse gofmt.\n")
}

// TestSyncSkipsWithoutConfirmation verifies that with confirmation required
// and no terminal attached, nothing is written.
func TestSyncSkipsWithoutConfirmation(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.Run("sync", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "skipped")
	e2e.AssertOutputContains(t, result, "declined")
	e2e.AssertFileNotExists(t, ws.InstructionsPath())
}

// TestSyncDryRunWritesNothing verifies dry run previews without writing.
func TestSyncDryRunWritesNothing(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.Run("sync", "--dry-run", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "would create")
	e2e.AssertOutputContains(t, result, "Dry run - no changes made")
	e2e.AssertFileNotExists(t, ws.InstructionsPath())
}

// TestSyncSecondRunUpToDate verifies an unchanged source is not rewritten.
func TestSyncSecondRunUpToDate(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	first := h.Run("sync", "--yes", ws.Dir())
	e2e.AssertSuccess(t, first)
	e2e.AssertOutputContains(t, first, "created")

	second := h.Run("sync", "--yes", ws.Dir())
	e2e.AssertSuccess(t, second)
	e2e.AssertOutputContains(t, second, "up to date")
	e2e.AssertOutputContains(t, second, "Up to date: 1")
}

// TestSyncHonorsDestinationOverride verifies per-source destination settings.
func TestSyncHonorsDestinationOverride(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf(`sources:
  - language: go
    url: %s
    destination_folder: docs
    destination_file: instructions.md
`, doc))

	result := h.Run("sync", "--yes", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "docs/instructions.md")
	e2e.AssertFileExists(t, ws.Path("docs/instructions.md"))
	e2e.AssertFileNotExists(t, ws.InstructionsPath())
}

// TestSyncSkipsDisabledSource verifies a disabled source is never applied.
func TestSyncSkipsDisabledSource(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n    enabled: false\n", doc))

	result := h.Run("sync", "--yes", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "Processed 0 source(s)")
	e2e.AssertFileNotExists(t, ws.InstructionsPath())
}

// TestSyncMultipleWorkspaces verifies each root only receives the documents
// for its own detected languages.
func TestSyncMultipleWorkspaces(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	goDoc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	pyDoc := docs.WriteInstructions("python.md", "Python standards", "Use black.")
	goWS := h.WorkspaceFixture("go.mod")
	pyWS := h.WorkspaceFixture("requirements.txt")
	h.WriteConfig(fmt.Sprintf(`sources:
  - language: go
    url: %s
  - language: python
    url: %s
`, goDoc, pyDoc))

	result := h.Run("sync", "--yes", goWS.Dir(), pyWS.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "Created:    2")
	e2e.AssertFileEquals(t, goWS.InstructionsPath(), "# Go standards\n\nUse gofmt.\n")
	e2e.AssertFileEquals(t, pyWS.InstructionsPath(), "# Python standards\n\nUse black.\n")
}

// TestSyncLanguagePinOverride verifies a workspace override file pins the
// language set regardless of what detection would find.
func TestSyncLanguagePinOverride(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	goDoc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	pyDoc := docs.WriteInstructions("python.md", "Python standards", "Use black.")
	ws := h.WorkspaceFixture("go.mod")
	ws.WriteFile(".instrsync.toml", "languages = [\"python\"]\n")
	h.WriteConfig(fmt.Sprintf(`sources:
  - language: go
    url: %s
  - language: python
    url: %s
`, goDoc, pyDoc))

	result := h.Run("sync", "--yes", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "python")
	e2e.AssertOutputContains(t, result, "Created:    1")
	e2e.AssertFileEquals(t, ws.InstructionsPath(), "# Python standards\n\nUse black.\n")
}

// TestSyncPlainPromptApprove verifies an answered plain prompt writes the
// file.
func TestSyncPlainPromptApprove(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.RunWithStdin("1\n", "sync", "--plain", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "Apply this change?")
	e2e.AssertOutputContains(t, result, "created")
	e2e.AssertFileEquals(t, ws.InstructionsPath(), "# Go standards\n\nUse gofmt.\n")
}

// TestSyncPlainPromptDecline verifies a declined prompt skips the write.
func TestSyncPlainPromptDecline(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.RunWithStdin("3\n", "sync", "--plain", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "skipped")
	e2e.AssertFileNotExists(t, ws.InstructionsPath())
}

// TestSyncPlainPromptYesToAll verifies one answer covers the whole run.
func TestSyncPlainPromptYesToAll(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws1 := h.WorkspaceFixture("go.mod")
	ws2 := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.RunWithStdin("2\n", "sync", "--plain", ws1.Dir(), ws2.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "Created:    2")
	e2e.AssertFileExists(t, ws1.InstructionsPath())
	e2e.AssertFileExists(t, ws2.InstructionsPath())
	if got := strings.Count(result.Stdout, "Apply this change?"); got != 1 {
		t.Errorf("expected exactly one prompt, got %d\noutput: %s", got, result.Stdout)
	}
}

// TestSyncPlainPromptAlwaysDisablesConfirmation verifies the Always answer
// persists and later runs write without prompting.
func TestSyncPlainPromptAlwaysDisablesConfirmation(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf("sources:\n  - language: go\n    url: %s\n", doc))

	result := h.RunWithStdin("4\n", "sync", "--plain", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "created")
	e2e.AssertFileContains(t, h.ConfigPath(), "confirm_before_sync: false")

	// A changed document now syncs without any prompt, even without --yes.
	docs.WriteInstructions("go.md", "Go standards", "Use gofmt.", "Run go vet.")
	second := h.Run("sync", ws.Dir())
	e2e.AssertSuccess(t, second)
	e2e.AssertOutputContains(t, second, "updated")
	e2e.AssertFileContains(t, ws.InstructionsPath(), "Run go vet.")
}

// TestSyncConfirmDisabledInConfig verifies confirm_before_sync: false writes
// directly.
func TestSyncConfirmDisabledInConfig(t *testing.T) {
	h := e2e.NewHarness(t)
	docs := h.SourceFixture()
	doc := docs.WriteInstructions("go.md", "Go standards", "Use gofmt.")
	ws := h.WorkspaceFixture("go.mod")
	h.WriteConfig(fmt.Sprintf(`sources:
  - language: go
    url: %s
sync:
  confirm_before_sync: false
`, doc))

	result := h.Run("sync", ws.Dir())

	e2e.AssertSuccess(t, result)
	e2e.AssertOutputContains(t, result, "created")
	e2e.AssertFileExists(t, ws.InstructionsPath())
}
