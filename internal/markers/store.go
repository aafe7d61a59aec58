// Package markers holds the authoritative marker list of the open image.
package markers

import (
	"sync"

	"github.com/bnema/zoommark/internal/domain"
)

// Store keeps markers in insertion order. The hit tester relies on that order
// for tie-breaks.
type Store struct {
	mu      sync.RWMutex
	markers []domain.Marker
	index   map[domain.MarkerID]int
}

func NewStore() *Store {
	return &Store{index: map[domain.MarkerID]int{}}
}

// Load replaces the whole set. Malformed entries and repeated ids are skipped
// and counted in the returned rejected slice.
func (s *Store) Load(markers []domain.Marker) (rejected []domain.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = make([]domain.Marker, 0, len(markers))
	s.index = make(map[domain.MarkerID]int, len(markers))
	for _, m := range markers {
		if !s.insertLocked(m) {
			rejected = append(rejected, m)
		}
	}

	return rejected
}

// Append adds m unless a marker with the same id is already stored or m is
// malformed. It reports whether the store changed.
func (s *Store) Append(m domain.Marker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(m)
}

func (s *Store) insertLocked(m domain.Marker) bool {
	if err := m.Validate(); err != nil {
		return false
	}
	if s.index == nil {
		s.index = map[domain.MarkerID]int{}
	}
	if _, ok := s.index[m.ID]; ok {
		return false
	}

	s.index[m.ID] = len(s.markers)
	s.markers = append(s.markers, m)
	return true
}

// All returns a copy in insertion order.
func (s *Store) All() []domain.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

func (s *Store) FindByID(id domain.MarkerID) (domain.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Marker{}, false
	}
	return s.markers[i], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.markers)
}

// Reset drops every marker, as when the viewer leaves the image.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = nil
	s.index = map[domain.MarkerID]int{}
}
