// Package merge combines remotely distributed and locally configured
// instruction sources into a single override-aware list.
package merge

import "github.com/instrsync/instrsync/internal/model"

// Origin identifies which configuration layer contributed a merged source.
type Origin string

const (
	// OriginRemote marks a source from the centrally hosted document.
	OriginRemote Origin = "remote"
	// OriginLocal marks a source from the user's local configuration.
	OriginLocal Origin = "local"
)

// LayeredSource pairs a merged source with the layer that won its slot.
type LayeredSource struct {
	Source model.InstructionSource
	Origin Origin
}

// Sources merges remote and local source lists into one list unique by
// source key. Remote entries are inserted first in list order, then local
// entries; a later insertion on an existing key replaces the stored source
// entirely while keeping the position of the key's first insertion. Local
// therefore overrides remote, and within one layer the last entry wins.
func Sources(remote, local []model.InstructionSource) []model.InstructionSource {
	layered := Layered(remote, local)
	merged := make([]model.InstructionSource, len(layered))
	for i, ls := range layered {
		merged[i] = ls.Source
	}
	return merged
}

// Layered merges like Sources but tags every entry with the layer that
// contributed its final value.
func Layered(remote, local []model.InstructionSource) []LayeredSource {
	order := make([]string, 0, len(remote)+len(local))
	byKey := make(map[string]LayeredSource, len(remote)+len(local))

	insert := func(src model.InstructionSource, origin Origin) {
		key := src.Key()
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = LayeredSource{Source: src, Origin: origin}
	}

	for _, src := range remote {
		insert(src, OriginRemote)
	}
	for _, src := range local {
		insert(src, OriginLocal)
	}

	merged := make([]LayeredSource, len(order))
	for i, key := range order {
		merged[i] = byKey[key]
	}
	return merged
}
