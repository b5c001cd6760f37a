package syncer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/instrsync/instrsync/internal/diff"
	"github.com/instrsync/instrsync/internal/logging"
	"github.com/instrsync/instrsync/internal/merge"
	"github.com/instrsync/instrsync/internal/model"
	"github.com/instrsync/instrsync/internal/validate"
	"github.com/instrsync/instrsync/internal/workspace"
)

// ContentFetcher retrieves the raw instructions document for a source URL
// or local path spec.
type ContentFetcher interface {
	Fetch(ctx context.Context, spec string) (string, error)
}

// FileStore is the slice of disk access the orchestrator needs.
type FileStore interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// Workspaces enumerates workspace roots and their detected languages.
type Workspaces interface {
	ListRoots() ([]workspace.Root, error)
	DetectLanguages(root workspace.Root) ([]string, error)
}

// Options configures a single sync run.
type Options struct {
	// DryRun reports would-be outcomes without prompting or writing.
	DryRun bool

	// Confirm requires user confirmation before each changed file is written.
	Confirm bool

	// DisableConfirm persists the "never ask again" preference when the user
	// selects Always. May be nil.
	DisableConfirm func() error

	// OnResult, when set, observes each source outcome as it is recorded.
	OnResult func(SourceResult)
}

// Syncer runs the fetch, validate, compare, confirm, write pipeline.
type Syncer struct {
	fetcher    ContentFetcher
	store      FileStore
	workspaces Workspaces
	prompter   Prompter
}

// New creates a Syncer. A nil prompter makes runs non-interactive: changed
// files that would need confirmation are skipped.
func New(fetcher ContentFetcher, store FileStore, workspaces Workspaces, prompter Prompter) *Syncer {
	return &Syncer{
		fetcher:    fetcher,
		store:      store,
		workspaces: workspaces,
		prompter:   prompter,
	}
}

// Run applies every merged source to every workspace root whose detected
// languages match. Roots and sources are processed strictly in order, one
// fetch, prompt, or write at a time; the confirmation state set by one
// source is visible to the next. A failure on one source is recorded in the
// result and never stops the remainder. Run itself errors only when
// workspace enumeration fails or ctx is done.
func (s *Syncer) Run(ctx context.Context, remoteSources, localSources []model.InstructionSource, opts Options) (*Result, error) {
	defer logging.Timer("sync")()

	runID := uuid.NewString()
	result := &Result{
		RunID:   runID,
		DryRun:  opts.DryRun,
		Sources: make([]SourceResult, 0),
	}

	sources := merge.Sources(remoteSources, localSources)
	logging.Debug("starting sync run",
		logging.RunID(runID),
		logging.Count(len(sources)),
		slog.Bool("dry_run", opts.DryRun),
		slog.Bool("confirm", opts.Confirm),
	)

	if len(sources) == 0 {
		logging.Info("no instruction sources configured",
			logging.RunID(runID),
		)
		return result, nil
	}

	roots, err := s.workspaces.ListRoots()
	if err != nil {
		return result, fmt.Errorf("failed to list workspace roots: %w", err)
	}

	session := NewSession()
	gate := NewController(session, s.prompter, opts.Confirm, opts.DisableConfirm)

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		languages, err := s.workspaces.DetectLanguages(root)
		if err != nil {
			logging.Warn("language detection failed",
				logging.RunID(runID),
				logging.Root(root.Name),
				logging.Err(err),
			)
			s.record(result, opts, SourceResult{
				Root:    root.Name,
				Action:  ActionFailed,
				Message: "language detection failed",
				Error:   fmt.Errorf("failed to detect languages in %s: %w", root.Path, err),
			})
			continue
		}

		logging.Debug("detected workspace languages",
			logging.RunID(runID),
			logging.Root(root.Name),
			slog.Any("languages", languages),
		)

		for _, src := range sources {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if !src.IsEnabled() {
				logging.Debug("source disabled",
					logging.Language(src.Language),
					logging.URL(src.URL),
				)
				continue
			}
			if !matchesAny(src, languages) {
				continue
			}
			s.record(result, opts, s.processSource(ctx, root, src, gate, opts))
		}
	}

	logging.Debug("sync run completed",
		logging.RunID(runID),
		logging.Count(result.TotalProcessed()),
		slog.Int("changed", result.TotalChanged()),
		slog.Int("failed", len(result.Failed())),
	)

	return result, nil
}

// processSource applies a single source to a single root.
func (s *Syncer) processSource(ctx context.Context, root workspace.Root, src model.InstructionSource, gate *Controller, opts Options) SourceResult {
	dest := src.Destination()
	target := filepath.Join(root.Path, filepath.FromSlash(dest.FullPath))

	sr := SourceResult{
		Root:   root.Name,
		Source: src,
		Path:   target,
	}

	logging.Debug("processing source",
		logging.Root(root.Name),
		logging.Language(src.Language),
		logging.URL(src.URL),
		logging.Path(target),
	)

	content, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		logging.Warn("fetch failed",
			logging.Root(root.Name),
			logging.URL(src.URL),
			logging.Err(err),
		)
		sr.Action = ActionFailed
		sr.Message = "fetch failed"
		sr.Error = fmt.Errorf("failed to fetch %s: %w", src.URL, err)
		return sr
	}

	if verdict := validate.Content(content); !verdict.Valid {
		logging.Warn("rejected fetched content",
			logging.Root(root.Name),
			logging.URL(src.URL),
			slog.String("reason", verdict.Reason),
		)
		sr.Action = ActionFailed
		sr.Message = verdict.Reason
		sr.Error = fmt.Errorf("invalid content from %s: %s", src.URL, verdict.Reason)
		return sr
	}

	incoming := []byte(content)
	current, err := s.store.Read(target)
	create := false
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		create = true
	default:
		sr.Action = ActionFailed
		sr.Message = "read failed"
		sr.Error = fmt.Errorf("failed to read %s: %w", target, err)
		return sr
	}

	if !create && bytes.Equal(current, incoming) {
		sr.Action = ActionUpToDate
		sr.Message = "already up to date"
		return sr
	}

	var hunks []diff.Hunk
	if create {
		hunks = diff.Creation(content)
	} else {
		hunks = diff.Compute(string(current), content)
	}
	sr.Added, sr.Removed = diff.Stats(hunks)

	if opts.DryRun {
		if create {
			sr.Action = ActionCreated
			sr.Message = "would create"
		} else {
			sr.Action = ActionUpdated
			sr.Message = "would update"
		}
		return sr
	}

	approved := gate.Approve(ConfirmRequest{
		Root:   root,
		Source: src,
		Path:   target,
		Create: create,
		Hunks:  hunks,
	})
	if !approved {
		sr.Action = ActionSkipped
		sr.Message = "declined"
		return sr
	}

	if err := s.store.Write(target, incoming); err != nil {
		logging.Error("failed to write destination file",
			logging.Root(root.Name),
			logging.Path(target),
			logging.Err(err),
		)
		sr.Action = ActionFailed
		sr.Message = "write failed"
		sr.Error = err
		return sr
	}

	if create {
		sr.Action = ActionCreated
		sr.Message = "new file"
	} else {
		sr.Action = ActionUpdated
	}
	logging.Info("wrote instructions",
		logging.Root(root.Name),
		logging.Language(src.Language),
		logging.Path(target),
	)
	return sr
}

// record appends a result and notifies the caller's observer.
func (s *Syncer) record(result *Result, opts Options, sr SourceResult) {
	result.Sources = append(result.Sources, sr)
	if opts.OnResult != nil {
		opts.OnResult(sr)
	}
}

// matchesAny reports whether the source's language matches any detected
// language.
func matchesAny(src model.InstructionSource, languages []string) bool {
	for _, lang := range languages {
		if src.MatchesLanguage(lang) {
			return true
		}
	}
	return false
}
