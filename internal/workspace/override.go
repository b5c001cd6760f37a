package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// OverrideFileName is the optional per-root file that pins detection
// results and extends the skip list.
const OverrideFileName = ".instrsync.toml"

// Override is the decoded per-root detection override.
type Override struct {
	// Languages pins the detected language set for the root. When set,
	// detection is skipped entirely.
	Languages []string `toml:"languages"`

	// Skip adds directory names excluded from the detection walk.
	Skip []string `toml:"skip"`
}

// loadOverride reads the override file under rootPath. A missing file
// yields (nil, nil); a malformed one is an error, so a typo cannot silently
// change what gets synced into the root.
func loadOverride(rootPath string) (*Override, error) {
	path := filepath.Join(rootPath, OverrideFileName)
	var o Override
	if _, err := toml.DecodeFile(path, &o); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", OverrideFileName, err)
	}
	return &o, nil
}
