package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type selectionEntry struct {
	selection *Selection
	expiresAt time.Time
}

// SelectionStore keeps live seat-picking sessions in memory, keyed by
// an opaque id handed to the client.  Sessions expire after a TTL so a
// closed browser tab does not leak state.  Unlike the pending store,
// reads do not consume: the client toggles against the same session
// until it confirms or abandons.
type SelectionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]selectionEntry
	now     func() time.Time
}

// NewSelectionStore creates a store whose sessions live for ttl,
// sliding on each access.
func NewSelectionStore(ttl time.Duration) *SelectionStore {
	return &SelectionStore{
		ttl:     ttl,
		entries: make(map[string]selectionEntry),
		now:     time.Now,
	}
}

// Start registers a new selection session and returns its id.
func (s *SelectionStore) Start(sel *Selection) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[id] = selectionEntry{selection: sel, expiresAt: s.now().Add(s.ttl)}
	return id
}

// Get returns the live selection for id, extending its lifetime.
func (s *SelectionStore) Get(id string) (*Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, false
	}
	e.expiresAt = s.now().Add(s.ttl)
	s.entries[id] = e
	return e.selection, true
}

// Remove drops a session, typically after its selection is confirmed.
func (s *SelectionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *SelectionStore) sweepLocked() {
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
