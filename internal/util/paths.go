//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory, or an empty string if it cannot
// be determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// InstrsyncConfigPath returns the directory holding instrsync's configuration
// and state, ~/.instrsync by default. The INSTRSYNC_HOME environment variable
// overrides it, which tests rely on for isolation.
func InstrsyncConfigPath() string {
	if dir := os.Getenv("INSTRSYNC_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(HomeDir(), ".instrsync")
}

// InstrsyncCachePath returns the directory holding cached remote documents.
func InstrsyncCachePath() string {
	return filepath.Join(InstrsyncConfigPath(), "cache")
}

// ExpandPath expands a leading ~ to the user's home directory and resolves
// relative paths against baseDir. When baseDir is empty, relative paths are
// resolved against the current working directory.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(HomeDir(), path[2:])
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.Clean(path)
		}
		baseDir = cwd
	}
	return filepath.Join(baseDir, path)
}

// ExpandPaths expands every entry with ExpandPath, dropping empty entries.
func ExpandPaths(paths []string, baseDir string) []string {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		if e := ExpandPath(p, baseDir); e != "" {
			expanded = append(expanded, e)
		}
	}
	return expanded
}
