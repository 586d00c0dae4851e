// This file implements lookups for cinemas and rooms.  Venues are
// long-lived, admin-managed rows; the application only reads them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// ErrRoomNotFound is returned when a room lookup yields no rows.
var ErrRoomNotFound = errors.New("room not found")

// VenueRepo provides access to cinemas and their rooms.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// ListCinemas returns all cinemas ordered by name.
func (r *VenueRepo) ListCinemas(ctx context.Context) ([]model.Cinema, error) {
	const q = `SELECT id, name, address, created_at FROM cinemas ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Cinema, 0)
	for rows.Next() {
		var c model.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RoomWithCinema is a room joined with its cinema, used by the showtime
// admin endpoints to build the room picker.
type RoomWithCinema struct {
	model.Room
	CinemaName string `json:"cinema_name"`
}

// ListRooms returns all rooms joined with their cinema, ordered by cinema
// then room name.
func (r *VenueRepo) ListRooms(ctx context.Context) ([]RoomWithCinema, error) {
	const q = `SELECT ro.id, ro.cinema_id, ro.name, ro.room_type, ro.total_seats, ro.created_at, c.name
	           FROM rooms ro
	           JOIN cinemas c ON c.id = ro.cinema_id
	           ORDER BY c.name, ro.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomWithCinema, 0)
	for rows.Next() {
		var rc RoomWithCinema
		if err := rows.Scan(&rc.ID, &rc.CinemaID, &rc.Name, &rc.RoomType, &rc.TotalSeats, &rc.CreatedAt, &rc.CinemaName); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRoomByID retrieves a single room.  Returns ErrRoomNotFound when no
// matching row exists.
func (r *VenueRepo) GetRoomByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, cinema_id, name, room_type, total_seats, created_at FROM rooms WHERE id = ?`
	var ro model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&ro.ID, &ro.CinemaID, &ro.Name, &ro.RoomType, &ro.TotalSeats, &ro.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &ro, nil
}
