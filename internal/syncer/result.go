package syncer

import (
	"fmt"
	"strings"

	"github.com/instrsync/instrsync/internal/model"
)

// Action represents the outcome of processing one source against one root.
type Action string

const (
	// ActionCreated indicates the destination file was newly written.
	ActionCreated Action = "created"

	// ActionUpdated indicates an existing destination file was overwritten.
	ActionUpdated Action = "updated"

	// ActionUpToDate indicates the destination already matched the source.
	ActionUpToDate Action = "up-to-date"

	// ActionSkipped indicates the user declined the write.
	ActionSkipped Action = "skipped"

	// ActionFailed indicates an error occurred processing the source.
	ActionFailed Action = "failed"
)

// SourceResult records the outcome of applying one source to one workspace
// root.
type SourceResult struct {
	// Root is the workspace root name.
	Root string

	// Source is the instruction source that was processed. It is zero for
	// root-level failures such as language detection errors.
	Source model.InstructionSource

	// Action is the outcome.
	Action Action

	// Path is the destination file path, when one was resolved.
	Path string

	// Message provides additional context about the outcome.
	Message string

	// Error contains any error that occurred during processing.
	Error error

	// Added and Removed count changed lines between the current and fetched
	// content. Both are zero for up-to-date and failed outcomes.
	Added   int
	Removed int
}

// Success returns true unless the source failed.
func (sr *SourceResult) Success() bool {
	return sr.Action != ActionFailed
}

// Label returns a short display name for the result, preferring the source
// language over the bare root name.
func (sr *SourceResult) Label() string {
	if sr.Source.Language != "" {
		return sr.Source.Language
	}
	return sr.Root
}

// Result contains the complete outcome of a sync run.
type Result struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	// DryRun indicates no prompts were shown and no files were written.
	DryRun bool

	// Sources contains the result for each processed (root, source) pair.
	Sources []SourceResult
}

// Created returns sources whose destination file was newly written.
func (r *Result) Created() []SourceResult {
	return r.filterByAction(ActionCreated)
}

// Updated returns sources whose destination file was overwritten.
func (r *Result) Updated() []SourceResult {
	return r.filterByAction(ActionUpdated)
}

// UpToDate returns sources whose destination already matched.
func (r *Result) UpToDate() []SourceResult {
	return r.filterByAction(ActionUpToDate)
}

// Skipped returns sources the user declined.
func (r *Result) Skipped() []SourceResult {
	return r.filterByAction(ActionSkipped)
}

// Failed returns sources that failed to sync.
func (r *Result) Failed() []SourceResult {
	return r.filterByAction(ActionFailed)
}

// filterByAction returns results with the given action.
func (r *Result) filterByAction(action Action) []SourceResult {
	var filtered []SourceResult
	for _, sr := range r.Sources {
		if sr.Action == action {
			filtered = append(filtered, sr)
		}
	}
	return filtered
}

// Success returns true if no source failed.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0
}

// TotalProcessed returns the number of (root, source) pairs processed.
func (r *Result) TotalProcessed() int {
	return len(r.Sources)
}

// TotalChanged returns the number of files created or updated.
func (r *Result) TotalChanged() int {
	return len(r.Created()) + len(r.Updated())
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Processed %d source(s)\n", r.TotalProcessed()))
	sb.WriteString(fmt.Sprintf("  Created:    %d\n", len(r.Created())))
	sb.WriteString(fmt.Sprintf("  Updated:    %d\n", len(r.Updated())))
	sb.WriteString(fmt.Sprintf("  Up to date: %d\n", len(r.UpToDate())))
	sb.WriteString(fmt.Sprintf("  Skipped:    %d\n", len(r.Skipped())))
	sb.WriteString(fmt.Sprintf("  Failed:     %d\n", len(r.Failed())))

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", f.Label(), f.Error))
		}
	}

	return sb.String()
}
