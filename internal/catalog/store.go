package catalog

import (
	"sync/atomic"
	"time"

	"github.com/star/snwatch/internal/metrics"
)

// Store provides thread-safe access to the latest catalog snapshot.
type Store struct {
	snapshot atomic.Pointer[Snapshot]
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot, or nil if none has been loaded.
func (s *Store) Get() *Snapshot {
	return s.snapshot.Load()
}

// Require returns the current snapshot or ErrNoSnapshot.
func (s *Store) Require() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Set atomically replaces the current snapshot.
func (s *Store) Set(snap *Snapshot) {
	s.snapshot.Store(snap)
	if snap != nil {
		metrics.SetSnapshotRecords(len(snap.Records))
	}
}

// AgeSeconds returns the age of the current snapshot in seconds.
// Returns -1 if no snapshot is loaded.
func (s *Store) AgeSeconds() float64 {
	snap := s.snapshot.Load()
	if snap == nil {
		return -1
	}
	return time.Since(snap.FetchedAt).Seconds()
}
