package model

import "time"

// Showtime represents a scheduled screening of a movie in a specific room
// at a specific date and time.  Each showtime carries its own price
// schedule and available-seat counter.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  RoomID         – room where the screening happens.
//  ShowDate       – calendar date of the screening ("2006-01-02").
//  ShowTime       – wall-clock start time ("15:04").
//  BasePrice      – price of a normal seat.
//  VIPPrice       – optional override for vip seats; nil means base*1.5.
//  CouplePrice    – optional override for couple seats; nil means base*2.
//  AvailableSeats – remaining seat count, decremented by bookings.
type Showtime struct {
	ID             uint64    `json:"id"`              // showtimes.id
	MovieID        uint64    `json:"movie_id"`        // showtimes.movie_id
	RoomID         uint64    `json:"room_id"`         // showtimes.room_id
	ShowDate       string    `json:"show_date"`       // showtimes.show_date
	ShowTime       string    `json:"show_time"`       // showtimes.show_time
	BasePrice      float64   `json:"base_price"`      // showtimes.base_price
	VIPPrice       *float64  `json:"vip_price"`       // showtimes.vip_price (nullable)
	CouplePrice    *float64  `json:"couple_price"`    // showtimes.couple_price (nullable)
	AvailableSeats uint32    `json:"available_seats"` // showtimes.available_seats
	CreatedAt      time.Time `json:"created_at"`
}
