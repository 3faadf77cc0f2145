// file: internal/catalog/store.go
// version: 1.0.0
// guid: 23b9a918-9a5c-4ded-9101-168225848cec

package catalog

import (
	"errors"
	"log"
	"sync"

	"github.com/jdfalk/kitfinder/internal/matcher"
)

// ErrNoCatalogPath is returned by Reload when nothing has been loaded from disk.
var ErrNoCatalogPath = errors.New("no catalog path configured")

// Store holds the live catalog. Snapshots are never mutated; Replace swaps in
// a new slice and bumps the version.
type Store struct {
	mu      sync.RWMutex
	path    string
	kits    []matcher.Kit
	version uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load reads path and replaces the catalog. The path is remembered for Reload.
func (s *Store) Load(path string) error {
	kits, err := LoadFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.path = path
	s.mu.Unlock()

	version := s.Replace(kits)
	log.Printf("[INFO] catalog: loaded %d kits from %s (version %d)", len(kits), path, version)
	return nil
}

// Reload re-reads the last loaded path. On error the previous catalog stays.
func (s *Store) Reload() error {
	path := s.Path()
	if path == "" {
		return ErrNoCatalogPath
	}
	return s.Load(path)
}

// Replace swaps in kits and returns the new version.
func (s *Store) Replace(kits []matcher.Kit) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kits = kits
	s.version++
	return s.version
}

// Snapshot returns the current kits and their version. Callers must not
// modify the returned slice.
func (s *Store) Snapshot() ([]matcher.Kit, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kits, s.version
}

// Path returns the file the catalog was loaded from, if any.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Len returns the number of kits currently loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kits)
}
