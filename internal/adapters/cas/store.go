// Package cas implements run info storage backed by a flat JSON file.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RunInfoStore = (*Store)(nil)

// Store implements ports.RunInfoStore using a flat JSON file keyed by
// target name.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.RunInfo
}

// NewStore creates a new RunInfoStore backed by the file at the given path.
// A missing file is an empty store, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.RunInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Join(domain.ErrStoreReadFailed, zerr.Wrap(err, "failed to read run info store"))
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return errors.Join(domain.ErrStoreReadFailed, zerr.Wrap(err, "failed to unmarshal run info store"))
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, zerr.Wrap(err, "failed to marshal run info store"))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, zerr.Wrap(err, "failed to create directory for run info store"))
	}

	//nolint:gosec // path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Join(domain.ErrStoreWriteFailed, zerr.Wrap(err, "failed to write run info store"))
	}

	return nil
}

// Get retrieves the run info for a given target.
func (s *Store) Get(target string) (*domain.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[target]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the run info.
func (s *Store) Put(info domain.RunInfo) error {
	s.mu.Lock()
	s.cache[info.Target] = info
	s.mu.Unlock()

	return s.save()
}
