// Package workspace enumerates workspace roots and detects the programming
// languages used in each one.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/instrsync/instrsync/internal/logging"
)

// DefaultMaxDepth bounds the detection walk below each root.
const DefaultMaxDepth = 4

// defaultSkipDirs are directory names never descended into during detection.
var defaultSkipDirs = []string{
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	"out",
	"bin",
	"obj",
	"venv",
	"__pycache__",
}

// Root is one workspace directory to sync into.
type Root struct {
	// Path is the absolute path of the root.
	Path string
	// Name is the base name, for display.
	Name string
}

// Scanner detects workspace roots and their languages.
type Scanner struct {
	// Dirs are explicit root paths. Empty means the current directory.
	Dirs []string

	// MaxDepth bounds the detection walk below each root. Zero or negative
	// means DefaultMaxDepth.
	MaxDepth int

	// ExtraSkip adds directory names excluded from every detection walk,
	// on top of the defaults and any per-root override.
	ExtraSkip []string
}

// NewScanner creates a Scanner over the given root directories.
func NewScanner(dirs []string) *Scanner {
	return &Scanner{Dirs: dirs}
}

// ListRoots resolves the configured directories into workspace roots. With
// no directories configured, the current working directory is the only root.
func (s *Scanner) ListRoots() ([]Root, error) {
	dirs := s.Dirs
	if len(dirs) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		dirs = []string{cwd}
	}

	roots := make([]Root, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve workspace root %s: %w", dir, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("workspace root %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("workspace root %s is not a directory", dir)
		}
		roots = append(roots, Root{Path: abs, Name: filepath.Base(abs)})
	}
	return roots, nil
}

// DetectLanguages returns the languages present under root, sorted. An
// override file pinning languages short-circuits the walk entirely.
func (s *Scanner) DetectLanguages(root Root) ([]string, error) {
	defer logging.Timer("detect")()

	override, err := loadOverride(root.Path)
	if err != nil {
		return nil, err
	}
	if override != nil && len(override.Languages) > 0 {
		langs := normalizeLanguages(override.Languages)
		logging.Debug("languages pinned by override",
			logging.Root(root.Path),
			logging.Count(len(langs)),
		)
		return langs, nil
	}

	skip := s.skipSet(override)
	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	found := make(map[string]bool)
	walkErr := filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries don't fail detection for the whole root.
			logging.Debug("skipping unreadable entry", logging.Path(path), logging.Err(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root.Path {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if skip[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			rel, relErr := filepath.Rel(root.Path, path)
			if relErr == nil && strings.Count(rel, string(filepath.Separator))+1 >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		for _, lang := range matchLanguages(name) {
			found[lang] = true
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root.Path, walkErr)
	}

	langs := make([]string, 0, len(found))
	for lang := range found {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	logging.Debug("detected languages",
		logging.Root(root.Path),
		logging.Count(len(langs)),
	)
	return langs, nil
}

// skipSet combines the default, configured, and per-root skip lists.
func (s *Scanner) skipSet(override *Override) map[string]bool {
	skip := make(map[string]bool, len(defaultSkipDirs)+len(s.ExtraSkip))
	for _, name := range defaultSkipDirs {
		skip[name] = true
	}
	for _, name := range s.ExtraSkip {
		skip[name] = true
	}
	if override != nil {
		for _, name := range override.Skip {
			skip[name] = true
		}
	}
	return skip
}

// normalizeLanguages lowercases, deduplicates, and sorts a pinned list.
func normalizeLanguages(langs []string) []string {
	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, lang := range langs {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
