// Package tracedir persists scheduler trace snapshots between CLI
// invocations: `xv6sched run` writes one, `xv6sched ps` reads it back.
// Snapshots are gob-encoded to a file under a cache directory located
// with adrg/xdg.
package tracedir

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arctir/xv6sched/internal/kernel"
)

const (
	CacheDirName = "xv6sched"
	TraceDirName = "traces"
	traceFileExt = ".trace.gob"
)

// Store locates and manages the on-disk trace-snapshot cache.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at $XDG_CACHE_HOME/xv6sched/traces, or at
// dir if dir is non-empty (tests use this to avoid touching the real
// user cache).
func NewStore(dir string) Store {
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, CacheDirName, TraceDirName)
	}
	return Store{dir: dir}
}

// Location returns the directory backing this Store.
func (s Store) Location() string { return s.dir }

// Save gob-encodes snap under name, creating the cache directory if it does
// not yet exist, overwriting any previous trace saved under the same name.
func (s Store) Save(name string, snap kernel.Snapshot) error {
	if _, err := os.Stat(s.dir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("tracedir: checking cache directory: %w", err)
		}
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return fmt.Errorf("tracedir: creating cache directory: %w", err)
		}
	}

	f, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("tracedir: creating trace file for %q: %w", name, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("tracedir: encoding trace for %q: %w", name, err)
	}
	return nil
}

// Load decodes the trace last saved under name. Returns an error if no such
// trace exists.
func (s Store) Load(name string) (*kernel.Snapshot, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("tracedir: opening trace for %q: %w", name, err)
	}
	defer f.Close()

	var snap kernel.Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("tracedir: decoding trace for %q: %w", name, err)
	}
	return &snap, nil
}

// Clear removes the trace saved under name, if any. Removing a trace that
// does not exist is not an error.
func (s Store) Clear(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("tracedir: clearing trace for %q: %w", name, err)
	}
	return nil
}

func (s Store) path(name string) string {
	return filepath.Join(s.dir, name+traceFileExt)
}
