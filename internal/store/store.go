// Package store holds the process-wide dataset slot. There is exactly one
// dataset at a time: refreshes build a complete replacement off to the side
// and swap it in under the lock, so readers always observe either the whole
// old dataset or the whole new one.
package store

import (
	"errors"
	"sync"

	"github.com/epalmerini/cardspend/internal/core"
)

// ErrNotReady distinguishes "no successful refresh yet" from a dataset that
// legitimately contains zero transactions.
var ErrNotReady = errors.New("dataset not available yet")

// Store is the single in-memory dataset slot. The zero value is not usable;
// construct with New and inject it into request handlers.
type Store struct {
	mu      sync.RWMutex
	dataset *core.Dataset
}

func New() *Store {
	return &Store{}
}

// Replace swaps in a complete dataset. Once a dataset is present the store
// never regresses to empty; failed refreshes simply never call Replace.
func (s *Store) Replace(ds core.Dataset) {
	s.mu.Lock()
	s.dataset = &ds
	s.mu.Unlock()
}

// Snapshot returns the current dataset, or ErrNotReady before the first
// successful refresh. The returned value shares its slices and maps with the
// stored dataset; both are treated as immutable after the swap.
func (s *Store) Snapshot() (core.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return core.Dataset{}, ErrNotReady
	}
	return *s.dataset, nil
}

// Ready reports whether at least one refresh has succeeded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}
