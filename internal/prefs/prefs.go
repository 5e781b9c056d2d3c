// Package prefs persists user preferences across runs. The only
// preference today is the diff view mode.
package prefs

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ViewMode selects how a file diff is presented.
type ViewMode string

const (
	ViewSplit   ViewMode = "split"
	ViewUnified ViewMode = "unified"
)

// DefaultViewMode is used when no preference has been stored.
const DefaultViewMode = ViewSplit

// ParseViewMode maps a user-supplied string onto a ViewMode. The second
// return value is false for anything other than "split" or "unified".
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ViewSplit, ViewUnified:
		return ViewMode(s), true
	}
	return "", false
}

// Toggle returns the other view mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewSplit {
		return ViewUnified
	}
	return ViewSplit
}

type fileFormat struct {
	DiffViewMode string `yaml:"diff-view-mode"`
}

// Store reads and writes the preference file. The zero value is not
// usable; construct with NewStore or NewStoreAt.
type Store struct {
	path string
}

// NewStore places the preference file in the user's config directory
// (commitlens/prefs.yaml under XDG config on Linux, the platform
// equivalent elsewhere).
func NewStore() (*Store, error) {
	path, err := xdg.ConfigFile(filepath.Join("commitlens", "prefs.yaml"))
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// NewStoreAt binds the store to an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored view mode. A missing file, unreadable file,
// or unrecognized value all fall back to the default; Load never fails.
func (s *Store) Load() ViewMode {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DefaultViewMode
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return DefaultViewMode
	}
	mode, ok := ParseViewMode(f.DiffViewMode)
	if !ok {
		return DefaultViewMode
	}
	return mode
}

// Set writes the view mode to disk immediately.
func (s *Store) Set(mode ViewMode) error {
	data, err := yaml.Marshal(fileFormat{DiffViewMode: string(mode)})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
