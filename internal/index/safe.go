package index

import "github.com/shoresh319/jsearch/internal/rwlock"

// ThreadSafeIndex wraps an InvertedIndex with a reader-writer lock: every
// mutator holds the lock exclusively for its entire duration, and every
// read holds it as a shared reader. Composition - not subclassing - is
// deliberate: a "thread-safe index" is an index plus a lock, not a new
// subtype of index.
//
// All read accessors return owned copies rather than aliases into the
// underlying containers, so callers can keep using the result after the
// lock has been released even while a build is still in progress.
type ThreadSafeIndex struct {
	lock  *rwlock.RWLock
	inner *InvertedIndex
}

// NewThreadSafe wraps a fresh, empty InvertedIndex.
func NewThreadSafe() *ThreadSafeIndex {
	return &ThreadSafeIndex{lock: rwlock.New(), inner: New()}
}

// Add acquires the write lock and inserts (stem, location, position).
func (s *ThreadSafeIndex) Add(stem, location string, position int) {
	tok := s.lock.WriteLock()
	defer s.mustUnlock(tok)
	s.inner.Add(stem, location, position)
}

// AddAll acquires the write lock for the whole merge, so concurrent readers
// observe either the pre-merge or the post-merge state, never a partial
// one.
func (s *ThreadSafeIndex) AddAll(other *InvertedIndex) {
	tok := s.lock.WriteLock()
	defer s.mustUnlock(tok)
	s.inner.AddAll(other)
}

func (s *ThreadSafeIndex) mustUnlock(tok rwlock.Token) {
	if err := s.lock.WriteUnlock(tok); err != nil {
		panic(err)
	}
}

// Contains acquires the read lock and checks stem membership.
func (s *ThreadSafeIndex) Contains(stem string) bool {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.Contains(stem)
}

// ContainsLocation acquires the read lock and checks (stem, location)
// membership.
func (s *ThreadSafeIndex) ContainsLocation(stem, location string) bool {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.ContainsLocation(stem, location)
}

// ContainsPosition acquires the read lock and checks (stem, location,
// position) membership.
func (s *ThreadSafeIndex) ContainsPosition(stem, location string, position int) bool {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.ContainsPosition(stem, location, position)
}

// PathSet acquires the read lock and returns a snapshot of stem's locations.
func (s *ThreadSafeIndex) PathSet(stem string) []string {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.PathSet(stem)
}

// PositionSet acquires the read lock and returns a snapshot of (stem,
// location)'s positions.
func (s *ThreadSafeIndex) PositionSet(stem, location string) []int {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.PositionSet(stem, location)
}

// StemSet acquires the read lock and returns a snapshot of every stem.
func (s *ThreadSafeIndex) StemSet() []string {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.StemSet()
}

// Counts acquires the read lock and returns a snapshot of the per-location
// word counts.
func (s *ThreadSafeIndex) Counts() map[string]int {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.Counts()
}

// ExactSearch acquires the read lock for the duration of the search.
func (s *ThreadSafeIndex) ExactSearch(stems []string) []SearchResult {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.ExactSearch(stems)
}

// PartialSearch acquires the read lock for the duration of the search.
func (s *ThreadSafeIndex) PartialSearch(stems []string) []SearchResult {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.PartialSearch(stems)
}

// Search acquires the read lock for the duration of the search.
func (s *ThreadSafeIndex) Search(stems []string, exact bool) []SearchResult {
	s.lock.ReadLock()
	defer s.lock.ReadUnlock()
	return s.inner.Search(stems, exact)
}
