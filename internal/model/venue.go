package model

import "time"

// Seat type labels.  Pricing treats anything outside this set as a
// normal seat.
const (
	SeatTypeNormal   = "normal"
	SeatTypeVIP      = "vip"
	SeatTypeCouple   = "couple"
	SeatTypeSweetbox = "sweetbox"
)

// Cinema represents a theatre venue.  A cinema contains multiple rooms.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – venue name.
//  Address   – street address shown to customers.
//  CreatedAt – timestamp when the cinema was created.
type Cinema struct {
	ID        uint64    `json:"id"`      // cinemas.id
	Name      string    `json:"name"`    // cinemas.name
	Address   string    `json:"address"` // cinemas.address
	CreatedAt time.Time `json:"created_at"`
}

// Room represents a screening room inside a cinema.  TotalSeats is kept
// denormalised on the row and seeds a showtime's available-seat counter
// when the showtime is created.
//
// Fields:
//  ID         – primary key identifier.
//  CinemaID   – cinema containing this room.
//  Name       – room name unique per cinema.
//  RoomType   – e.g. 2D, 3D, IMAX.
//  TotalSeats – number of seats in the room.
type Room struct {
	ID         uint64    `json:"id"`          // rooms.id
	CinemaID   uint64    `json:"cinema_id"`   // rooms.cinema_id
	Name       string    `json:"name"`        // rooms.name
	RoomType   string    `json:"room_type"`   // rooms.room_type
	TotalSeats uint32    `json:"total_seats"` // rooms.total_seats
	CreatedAt  time.Time `json:"created_at"`
}

// Seat describes one physical seat in a room.  (SeatRow, SeatNumber) is
// unique within a room; SeatType selects the pricing tier.
type Seat struct {
	ID         uint64 `json:"id"`          // seats.id
	RoomID     uint64 `json:"room_id"`     // seats.room_id
	SeatRow    string `json:"seat_row"`    // seats.seat_row (letter, e.g. A)
	SeatNumber uint32 `json:"seat_number"` // seats.seat_number (1-based)
	SeatType   string `json:"seat_type"`   // seats.seat_type
}

// Label returns the human-readable seat position, e.g. "A12".
func (s Seat) Label() string {
	return s.SeatRow + utoa(s.SeatNumber)
}

// utoa formats a seat number without pulling strconv into every caller.
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
