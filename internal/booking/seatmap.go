package booking

import (
	"context"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/pricing"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

// SeatStatus is one seat on the map, priced for the showtime and
// flagged when an existing booking holds it.
type SeatStatus struct {
	model.Seat
	Price    float64 `json:"price"`
	Occupied bool    `json:"occupied"`
}

// SeatMap is everything a seat picker needs for one showtime.
type SeatMap struct {
	Showtime *repository.ShowtimeDetail `json:"showtime"`
	Seats    []SeatStatus               `json:"seats"`
	Occupied int                        `json:"occupied_count"`
}

// SeatMapLoader assembles seat maps from the showtime, seat and booking
// repositories.  It only reads; failures surface to the caller as-is.
type SeatMapLoader struct {
	showtimes *repository.ShowtimeRepo
	seats     *repository.SeatRepo
	bookings  *repository.BookingRepo
}

// NewSeatMapLoader wires a loader to its repositories.
func NewSeatMapLoader(showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo, bookings *repository.BookingRepo) *SeatMapLoader {
	return &SeatMapLoader{showtimes: showtimes, seats: seats, bookings: bookings}
}

// Load builds the seat map for a showtime: the showtime joined with its
// movie and venue, every seat of the room in row/number order with its
// price, and occupancy taken from non-cancelled bookings.  A missing
// showtime surfaces repository.ErrShowtimeNotFound.
func (l *SeatMapLoader) Load(ctx context.Context, showtimeID uint64) (*SeatMap, error) {
	detail, err := l.showtimes.GetDetail(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	seats, err := l.seats.ListByRoom(ctx, detail.RoomID)
	if err != nil {
		return nil, err
	}
	occupiedIDs, err := l.bookings.OccupiedSeatIDs(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	occupied := make(map[uint64]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = struct{}{}
	}
	out := &SeatMap{Showtime: detail, Seats: make([]SeatStatus, 0, len(seats))}
	for _, s := range seats {
		_, taken := occupied[s.ID]
		if taken {
			out.Occupied++
		}
		out.Seats = append(out.Seats, SeatStatus{
			Seat:     s,
			Price:    pricing.SeatPrice(s.SeatType, detail.Showtime),
			Occupied: taken,
		})
	}
	return out, nil
}

// OccupiedIDs exposes the raw occupied seat id list so selection
// sessions can be seeded without rebuilding the full map.
func (l *SeatMapLoader) OccupiedIDs(ctx context.Context, showtimeID uint64) ([]uint64, error) {
	return l.bookings.OccupiedSeatIDs(ctx, showtimeID)
}
