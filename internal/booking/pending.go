package booking

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// PendingBooking is the hand-off record produced when a seat selection
// is confirmed and consumed when the customer submits their contact
// details.  The total here is informational only; the writer recomputes
// it from the showtime's prices before persisting anything.
type PendingBooking struct {
	Showtime  model.Showtime `json:"showtime"`
	Seats     []model.Seat   `json:"seats"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
}

type pendingEntry struct {
	record    PendingBooking
	expiresAt time.Time
}

// PendingStore holds pending bookings between confirmation and checkout.
// Put hands out an opaque token; Take returns the record for a token at
// most once and deletes it.  Entries expire after the configured TTL so
// abandoned checkouts do not pile up.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingEntry
	now     func() time.Time
}

// NewPendingStore creates a store whose entries live for ttl.
func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		ttl:     ttl,
		entries: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

// Put stores a pending booking and returns its token.
func (s *PendingStore) Put(record PendingBooking) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.entries[token] = pendingEntry{record: record, expiresAt: s.now().Add(s.ttl)}
	return token
}

// Take removes and returns the record for token.  The second return is
// false when the token is unknown, already consumed or expired.
func (s *PendingStore) Take(token string) (PendingBooking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return PendingBooking{}, false
	}
	delete(s.entries, token)
	if s.now().After(e.expiresAt) {
		return PendingBooking{}, false
	}
	return e.record, true
}

// Len reports the number of live entries, expired ones included until
// the next sweep.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *PendingStore) sweepLocked() {
	now := s.now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
