package booking

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/pricing"
)

// ErrEmptySelection is returned when a selection with no seats is
// confirmed.
var ErrEmptySelection = errors.New("no seats selected")

// Selection tracks the seats a customer has picked for one showtime.
// Occupied seats are fixed at construction and can never enter the
// selection; toggling them is a no-op.  The running total is always
// recomputed from the showtime's prices, never cached.  Methods are
// safe for concurrent use; selection sessions are shared across
// requests.
type Selection struct {
	mu       sync.Mutex
	showtime model.Showtime
	occupied map[uint64]struct{}
	picked   map[uint64]model.Seat
}

// NewSelection starts an empty selection for a showtime.  occupiedIDs
// lists the seats already taken by other bookings.
func NewSelection(st model.Showtime, occupiedIDs []uint64) *Selection {
	occ := make(map[uint64]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occ[id] = struct{}{}
	}
	return &Selection{
		showtime: st,
		occupied: occ,
		picked:   make(map[uint64]model.Seat),
	}
}

// Toggle flips a seat in or out of the selection and reports whether it
// is selected afterwards.  Occupied seats are never selectable.
func (s *Selection) Toggle(seat model.Seat) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.occupied[seat.ID]; taken {
		return false
	}
	if _, on := s.picked[seat.ID]; on {
		delete(s.picked, seat.ID)
		return false
	}
	s.picked[seat.ID] = seat
	return true
}

// Seats returns the selected seats ordered by row then seat number.
func (s *Selection) Seats() []model.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatsLocked()
}

func (s *Selection) seatsLocked() []model.Seat {
	out := make([]model.Seat, 0, len(s.picked))
	for _, seat := range s.picked {
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeatRow != out[j].SeatRow {
			return out[i].SeatRow < out[j].SeatRow
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out
}

// Count reports how many seats are currently selected.
func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.picked)
}

// Showtime returns the showtime this selection is scoped to.
func (s *Selection) Showtime() model.Showtime { return s.showtime }

// Total prices the current selection against the showtime.
func (s *Selection) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Total(s.seatsLocked(), s.showtime)
}

// Confirm freezes the selection into a pending booking record.  An
// empty selection yields ErrEmptySelection and nothing is produced.
func (s *Selection) Confirm() (PendingBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.picked) == 0 {
		return PendingBooking{}, ErrEmptySelection
	}
	seats := s.seatsLocked()
	return PendingBooking{
		Showtime:  s.showtime,
		Seats:     seats,
		Total:     pricing.Total(seats, s.showtime),
		CreatedAt: time.Now().UTC(),
	}, nil
}
