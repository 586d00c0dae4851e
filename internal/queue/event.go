// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough context for downstream consumers to log or notify
// without querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	BookingCode string   `json:"booking_code"`
	ShowtimeID  uint64   `json:"showtime_id"`
	MovieTitle  string   `json:"movie_title"`
	CinemaName  string   `json:"cinema_name"`
	RoomName    string   `json:"room_name"`
	ShowDate    string   `json:"show_date"`
	ShowTime    string   `json:"show_time"`
	SeatLabels  []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`
	CreatedAt   string   `json:"created_at"`
}
