package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/instrsync/instrsync/internal/model"
)

func src(lang, url string) model.InstructionSource {
	return model.InstructionSource{Language: lang, URL: url}
}

func TestSources_EmptyInputs(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		got := Sources(nil, nil)
		if len(got) != 0 {
			t.Errorf("expected empty result, got %d entries", len(got))
		}
	})

	t.Run("empty remote returns local", func(t *testing.T) {
		local := []model.InstructionSource{src("go", "https://example.com/go.md")}
		got := Sources(nil, local)
		if diff := cmp.Diff(local, got); diff != "" {
			t.Errorf("merged sources mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty local returns remote", func(t *testing.T) {
		remote := []model.InstructionSource{src("go", "https://example.com/go.md")}
		got := Sources(remote, nil)
		if diff := cmp.Diff(remote, got); diff != "" {
			t.Errorf("merged sources mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSources_LocalOverridesRemote(t *testing.T) {
	remote := []model.InstructionSource{
		src("go", "https://example.com/remote-go.md"),
		src("python", "https://example.com/remote-py.md"),
	}
	local := []model.InstructionSource{
		src("go", "https://example.com/local-go.md"),
	}

	got := Sources(remote, local)

	if len(got) != 2 {
		t.Fatalf("expected 2 merged sources, got %d", len(got))
	}
	// The go slot keeps its remote position but carries the local value.
	if got[0].URL != "https://example.com/local-go.md" {
		t.Errorf("expected local URL at position 0, got %q", got[0].URL)
	}
	if got[1].URL != "https://example.com/remote-py.md" {
		t.Errorf("expected remote python URL at position 1, got %q", got[1].URL)
	}
}

func TestSources_SameDestinationCollapses(t *testing.T) {
	remote := []model.InstructionSource{src("csharp", "https://example.com/a.md")}
	local := []model.InstructionSource{src("csharp", "https://example.com/b.md")}

	got := Sources(remote, local)

	if len(got) != 1 {
		t.Fatalf("expected 1 merged source, got %d", len(got))
	}
	if got[0].URL != "https://example.com/b.md" {
		t.Errorf("expected local URL to win, got %q", got[0].URL)
	}
}

func TestSources_DifferentDestinationsKeepBoth(t *testing.T) {
	remote := []model.InstructionSource{src("csharp", "https://example.com/a.md")}
	local := []model.InstructionSource{
		{
			Language:        "csharp",
			URL:             "https://example.com/b.md",
			DestinationFile: "team-instructions.md",
		},
	}

	got := Sources(remote, local)

	if len(got) != 2 {
		t.Fatalf("expected 2 merged sources, got %d", len(got))
	}
	if got[0].URL != "https://example.com/a.md" {
		t.Errorf("expected remote entry first, got %q", got[0].URL)
	}
	if got[1].URL != "https://example.com/b.md" {
		t.Errorf("expected local entry second, got %q", got[1].URL)
	}
}

func TestSources_KeyCaseInsensitive(t *testing.T) {
	remote := []model.InstructionSource{src("Go", "https://example.com/remote.md")}
	local := []model.InstructionSource{src("gO", "https://example.com/local.md")}

	got := Sources(remote, local)

	if len(got) != 1 {
		t.Fatalf("expected case-insensitive keys to collapse, got %d entries", len(got))
	}
	if got[0].URL != "https://example.com/local.md" {
		t.Errorf("expected local value to win, got %q", got[0].URL)
	}
}

func TestSources_LastWinsWithinLayer(t *testing.T) {
	remote := []model.InstructionSource{
		src("go", "https://example.com/first.md"),
		src("go", "https://example.com/second.md"),
	}

	got := Sources(remote, nil)

	if len(got) != 1 {
		t.Fatalf("expected duplicate keys to collapse, got %d entries", len(got))
	}
	if got[0].URL != "https://example.com/second.md" {
		t.Errorf("expected the later entry to win, got %q", got[0].URL)
	}
}

func TestSources_PreservesInsertionOrder(t *testing.T) {
	remote := []model.InstructionSource{
		src("go", "https://example.com/go.md"),
		src("typescript", "https://example.com/ts.md"),
		src("python", "https://example.com/py.md"),
	}
	local := []model.InstructionSource{
		src("typescript", "https://example.com/local-ts.md"),
		src("rust", "https://example.com/rs.md"),
	}

	got := Sources(remote, local)

	wantLangs := []string{"go", "typescript", "python", "rust"}
	if len(got) != len(wantLangs) {
		t.Fatalf("expected %d sources, got %d", len(wantLangs), len(got))
	}
	for i, lang := range wantLangs {
		if got[i].Language != lang {
			t.Errorf("position %d: expected language %q, got %q", i, lang, got[i].Language)
		}
	}
	if got[1].URL != "https://example.com/local-ts.md" {
		t.Errorf("typescript slot should carry the local value, got %q", got[1].URL)
	}
}

func TestLayered_TagsOrigins(t *testing.T) {
	remote := []model.InstructionSource{
		src("go", "https://example.com/go.md"),
		src("python", "https://example.com/py.md"),
	}
	local := []model.InstructionSource{
		src("python", "https://example.com/local-py.md"),
		src("rust", "https://example.com/rs.md"),
	}

	got := Layered(remote, local)

	want := []LayeredSource{
		{Source: src("go", "https://example.com/go.md"), Origin: OriginRemote},
		{Source: src("python", "https://example.com/local-py.md"), Origin: OriginLocal},
		{Source: src("rust", "https://example.com/rs.md"), Origin: OriginLocal},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layered sources mismatch (-want +got):\n%s", diff)
	}
}
