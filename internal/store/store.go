package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	cacheFileName   = "cache.sqlite"
	uiStateFileName = "ui_state.json"
)

// Store is the client's local state directory (normally ~/.smarttodo).
// It holds the offline day cache, persisted session cookies and UI state.
// Nothing here is authoritative; the backend owns all records.
type Store struct {
	Dir string
}

// Open returns the store rooted at dir, or at ConfigDir() when dir is empty.
func Open(dir string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return Store{}, err
		}
		dir = d
	}
	return Store{Dir: filepath.Clean(dir)}, nil
}

// Ensure creates the store directory. It holds the session cookie, so it is
// private to the user.
func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o700)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, cacheFileName)
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, uiStateFileName)
}

func (s Store) configPath() string {
	return filepath.Join(s.Dir, configFileName)
}
