// Package model defines the instruction source records shared across
// instrsync components.
package model

import "strings"

// Destination defaults applied when a source leaves the fields empty.
const (
	DefaultDestinationFolder = ".github"
	DefaultDestinationFile   = "copilot-instructions.md"
)

// InstructionSource describes where an instructions document comes from and
// where it lands inside a workspace root. Sources arrive from the local
// configuration file and from the remote configuration document; both decode
// into this type.
type InstructionSource struct {
	// Language is the workspace language this source applies to.
	// Matching against detected languages is case-insensitive.
	Language string `yaml:"language" json:"language"`

	// URL is a remote URL or a local path spec.
	URL string `yaml:"url" json:"url"`

	// Enabled toggles the source. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// DestinationFolder is the folder inside the workspace root that
	// receives the document. Defaults to ".github".
	DestinationFolder string `yaml:"destination_folder,omitempty" json:"destinationFolder,omitempty"`

	// DestinationFile is the file name inside DestinationFolder.
	// Defaults to "copilot-instructions.md".
	DestinationFile string `yaml:"destination_file,omitempty" json:"destinationFile,omitempty"`
}

// IsEnabled returns false only when the source is explicitly disabled.
func (s InstructionSource) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// MatchesLanguage reports whether the source applies to the given workspace
// language. Comparison is case-insensitive.
func (s InstructionSource) MatchesLanguage(lang string) bool {
	return strings.EqualFold(s.Language, lang)
}

// Key returns the merge identity of the source: the lowercased language
// joined with the resolved destination path. Two sources sharing a key
// occupy the same logical slot, so one overrides the other during a merge.
func (s InstructionSource) Key() string {
	return strings.ToLower(s.Language) + "::" + s.Destination().FullPath
}

// Destination resolves the destination for this source with defaults applied.
func (s InstructionSource) Destination() ResolvedDestination {
	return ResolveDestination(&s)
}

// ResolvedDestination is the computed destination of a source. FullPath
// always joins folder and file with a forward slash; it is a logical key,
// not a host filesystem path.
type ResolvedDestination struct {
	Folder   string
	File     string
	FullPath string
}

// ResolveDestination computes the destination for a source, substituting
// defaults for empty fields. A nil source yields the defaults.
func ResolveDestination(src *InstructionSource) ResolvedDestination {
	folder := DefaultDestinationFolder
	file := DefaultDestinationFile
	if src != nil {
		if src.DestinationFolder != "" {
			folder = src.DestinationFolder
		}
		if src.DestinationFile != "" {
			file = src.DestinationFile
		}
	}
	return ResolvedDestination{
		Folder:   folder,
		File:     file,
		FullPath: folder + "/" + file,
	}
}
