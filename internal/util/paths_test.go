package util

import (
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}

	// Verify it's an absolute path
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestInstrsyncConfigPath_Default(t *testing.T) {
	t.Setenv("INSTRSYNC_HOME", "")

	path := InstrsyncConfigPath()
	expected := filepath.Join(HomeDir(), ".instrsync")
	if path != expected {
		t.Errorf("InstrsyncConfigPath() = %q, want %q", path, expected)
	}
}

func TestInstrsyncConfigPath_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INSTRSYNC_HOME", dir)

	if path := InstrsyncConfigPath(); path != dir {
		t.Errorf("InstrsyncConfigPath() = %q, want %q", path, dir)
	}
}

func TestInstrsyncCachePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INSTRSYNC_HOME", dir)

	path := InstrsyncCachePath()
	expected := filepath.Join(dir, "cache")
	if path != expected {
		t.Errorf("InstrsyncCachePath() = %q, want %q", path, expected)
	}
}

func TestExpandPath(t *testing.T) {
	home := HomeDir()

	tests := []struct {
		name    string
		path    string
		baseDir string
		want    string
	}{
		{
			name: "empty path",
			path: "",
			want: "",
		},
		{
			name: "bare tilde",
			path: "~",
			want: home,
		},
		{
			name: "tilde prefix",
			path: "~/notes/standards.md",
			want: filepath.Join(home, "notes", "standards.md"),
		},
		{
			name:    "absolute path unchanged",
			path:    "/srv/docs/standards.md",
			baseDir: "/ignored",
			want:    filepath.Clean("/srv/docs/standards.md"),
		},
		{
			name:    "relative resolved against base",
			path:    "docs/standards.md",
			baseDir: "/srv",
			want:    filepath.Join("/srv", "docs", "standards.md"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("ExpandPath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}

func TestExpandPaths_DropsEmpty(t *testing.T) {
	got := ExpandPaths([]string{"a", "", "b"}, "/base")

	want := []string{filepath.Join("/base", "a"), filepath.Join("/base", "b")}
	if len(got) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, got[i], want[i])
		}
	}
}
