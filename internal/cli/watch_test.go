package cli

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestIsConfigEvent(t *testing.T) {
	tests := map[string]struct {
		event fsnotify.Event
		want  bool
	}{
		"config file written": {
			event: fsnotify.Event{Name: "/home/u/.instrsync/config.yaml", Op: fsnotify.Write},
			want:  true,
		},
		"config file created": {
			event: fsnotify.Event{Name: "/home/u/.instrsync/config.yaml", Op: fsnotify.Create},
			want:  true,
		},
		"config file renamed": {
			event: fsnotify.Event{Name: "/home/u/.instrsync/config.yaml", Op: fsnotify.Rename},
			want:  true,
		},
		"config file removed": {
			event: fsnotify.Event{Name: "/home/u/.instrsync/config.yaml", Op: fsnotify.Remove},
			want:  true,
		},
		"override file written": {
			event: fsnotify.Event{Name: "/ws/app/.instrsync.toml", Op: fsnotify.Write},
			want:  true,
		},
		"unrelated file written": {
			event: fsnotify.Event{Name: "/ws/app/main.go", Op: fsnotify.Write},
			want:  false,
		},
		"same base name elsewhere": {
			event: fsnotify.Event{Name: "/ws/app/config.yaml", Op: fsnotify.Write},
			want:  true,
		},
		"chmod only": {
			event: fsnotify.Event{Name: "/home/u/.instrsync/config.yaml", Op: fsnotify.Chmod},
			want:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := isConfigEvent(tt.event, "config.yaml")
			if got != tt.want {
				t.Errorf("isConfigEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestIsConfigEventCustomBase(t *testing.T) {
	event := fsnotify.Event{Name: "/etc/team/instrsync.yaml", Op: fsnotify.Write}
	if !isConfigEvent(event, "instrsync.yaml") {
		t.Error("expected a match for the overridden config base name")
	}
	if isConfigEvent(fsnotify.Event{Name: "/etc/team/config.yaml", Op: fsnotify.Write}, "instrsync.yaml") {
		t.Error("expected no match for the default name when overridden")
	}
}
