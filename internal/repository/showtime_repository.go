// This file implements persistence for showtimes.  A showtime is the unit
// customers book against: it joins a movie to a room at a date/time and
// carries the price schedule plus the available-seat counter that the
// booking writer decrements.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// ErrShowtimeNotFound indicates that a showtime was not located in the DB.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo manages persistence for showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

// showtimeColumns formats date/time columns as strings so scanning does
// not depend on the driver's parseTime handling of DATE/TIME.
const showtimeColumns = `s.id, s.movie_id, s.room_id,
	DATE_FORMAT(s.show_date, '%Y-%m-%d'), TIME_FORMAT(s.show_time, '%H:%i'),
	s.base_price, s.vip_price, s.couple_price, s.available_seats, s.created_at`

func scanShowtime(row interface{ Scan(...any) error }, extra ...any) (model.Showtime, error) {
	var st model.Showtime
	var vip, couple sql.NullFloat64
	dest := []any{&st.ID, &st.MovieID, &st.RoomID, &st.ShowDate, &st.ShowTime,
		&st.BasePrice, &vip, &couple, &st.AvailableSeats, &st.CreatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Showtime{}, err
	}
	if vip.Valid {
		v := vip.Float64
		st.VIPPrice = &v
	}
	if couple.Valid {
		c := couple.Float64
		st.CouplePrice = &c
	}
	return st, nil
}

// GetByID retrieves a bare showtime row.  Returns ErrShowtimeNotFound
// when there is no matching row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT ` + showtimeColumns + ` FROM showtimes s WHERE s.id = ?`
	st, err := scanShowtime(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// ShowtimeDetail is a showtime joined with its movie, room and cinema.
// The seat map loader and booking lookups surface it to clients so a
// single fetch carries everything the seat-selection screen needs.
type ShowtimeDetail struct {
	model.Showtime
	Movie  model.Movie  `json:"movie"`
	Room   model.Room   `json:"room"`
	Cinema model.Cinema `json:"cinema"`
}

// GetDetail loads a showtime together with its movie and room→cinema.
// Returns ErrShowtimeNotFound when there is no matching row.
func (r *ShowtimeRepo) GetDetail(ctx context.Context, id uint64) (*ShowtimeDetail, error) {
	const q = `SELECT ` + showtimeColumns + `,
	              m.id, m.title, m.genre, m.duration, m.rating, m.status, m.release_date,
	              ro.id, ro.cinema_id, ro.name, ro.room_type, ro.total_seats,
	              c.id, c.name, c.address
	           FROM showtimes s
	           JOIN movies m  ON m.id  = s.movie_id
	           JOIN rooms ro  ON ro.id = s.room_id
	           JOIN cinemas c ON c.id  = ro.cinema_id
	           WHERE s.id = ?`
	var det ShowtimeDetail
	st, err := scanShowtime(r.db.QueryRowContext(ctx, q, id),
		&det.Movie.ID, &det.Movie.Title, &det.Movie.Genre, &det.Movie.Duration,
		&det.Movie.Rating, &det.Movie.Status, &det.Movie.ReleaseDate,
		&det.Room.ID, &det.Room.CinemaID, &det.Room.Name, &det.Room.RoomType, &det.Room.TotalSeats,
		&det.Cinema.ID, &det.Cinema.Name, &det.Cinema.Address,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	det.Showtime = st
	return &det, nil
}

// ShowtimeWithVenue is a showtime joined with room and cinema names, used
// by the per-movie showtime listing.
type ShowtimeWithVenue struct {
	model.Showtime
	RoomName   string `json:"room_name"`
	RoomType   string `json:"room_type"`
	CinemaID   uint64 `json:"cinema_id"`
	CinemaName string `json:"cinema_name"`
}

// ListByMovieFromDate returns a movie's showtimes on or after the given
// date ("2006-01-02"), ordered by date then start time.
func (r *ShowtimeRepo) ListByMovieFromDate(ctx context.Context, movieID uint64, fromDate string) ([]ShowtimeWithVenue, error) {
	const q = `SELECT ` + showtimeColumns + `, ro.name, ro.room_type, c.id, c.name
	           FROM showtimes s
	           JOIN rooms ro  ON ro.id = s.room_id
	           JOIN cinemas c ON c.id  = ro.cinema_id
	           WHERE s.movie_id = ? AND s.show_date >= ?
	           ORDER BY s.show_date ASC, s.show_time ASC`
	rows, err := r.db.QueryContext(ctx, q, movieID, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ShowtimeWithVenue, 0)
	for rows.Next() {
		var sv ShowtimeWithVenue
		st, err := scanShowtime(rows, &sv.RoomName, &sv.RoomType, &sv.CinemaID, &sv.CinemaName)
		if err != nil {
			return nil, err
		}
		sv.Showtime = st
		out = append(out, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminShowtimeRow is the admin listing shape: a showtime plus movie
// title and venue names.
type AdminShowtimeRow struct {
	model.Showtime
	MovieTitle string `json:"movie_title"`
	RoomName   string `json:"room_name"`
	CinemaName string `json:"cinema_name"`
}

// ListAll returns every showtime with movie and venue names, ordered by
// date then time.  Used by the admin console.
func (r *ShowtimeRepo) ListAll(ctx context.Context) ([]AdminShowtimeRow, error) {
	const q = `SELECT ` + showtimeColumns + `, m.title, ro.name, c.name
	           FROM showtimes s
	           JOIN movies m  ON m.id  = s.movie_id
	           JOIN rooms ro  ON ro.id = s.room_id
	           JOIN cinemas c ON c.id  = ro.cinema_id
	           ORDER BY s.show_date ASC, s.show_time ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminShowtimeRow, 0)
	for rows.Next() {
		var ar AdminShowtimeRow
		st, err := scanShowtime(rows, &ar.MovieTitle, &ar.RoomName, &ar.CinemaName)
		if err != nil {
			return nil, err
		}
		ar.Showtime = st
		out = append(out, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a showtime and populates its generated ID.  Callers are
// expected to seed AvailableSeats from the room's total_seats.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, room_id, show_date, show_time, base_price, vip_price, couple_price, available_seats)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, st.MovieID, st.RoomID, st.ShowDate, st.ShowTime,
		st.BasePrice, st.VIPPrice, st.CouplePrice, st.AvailableSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return nil
}

// Update rewrites schedule and pricing fields.  The available_seats
// counter is deliberately not touched here; only the booking writer and
// cancellation path mutate it.
func (r *ShowtimeRepo) Update(ctx context.Context, st *model.Showtime) error {
	const q = `UPDATE showtimes
	           SET movie_id = ?, room_id = ?, show_date = ?, show_time = ?,
	               base_price = ?, vip_price = ?, couple_price = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, st.MovieID, st.RoomID, st.ShowDate, st.ShowTime,
		st.BasePrice, st.VIPPrice, st.CouplePrice, st.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ? LIMIT 1`, st.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowtimeNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a showtime unless bookings reference it, in which case
// ErrConflict is returned.  The check and delete run in one transaction.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE showtime_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		err = ErrConflict
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrShowtimeNotFound
		return err
	}
	return nil
}

// ReserveSeatsTx atomically decrements available_seats by n inside the
// caller's transaction.  The guard clause keeps the counter from going
// negative: when the row is missing or the counter is too small, zero
// rows are affected and ErrSeatUnavailable is returned.
func (r *ShowtimeRepo) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, n uint32) error {
	const q = `UPDATE showtimes
	           SET available_seats = available_seats - ?
	           WHERE id = ? AND available_seats >= ?`
	res, err := tx.ExecContext(ctx, q, n, id, n)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrSeatUnavailable
	}
	return nil
}

// ReleaseSeatsTx returns n seats to the counter when a booking is
// cancelled, capped at the room's total so repeated releases cannot
// overflow the counter.
func (r *ShowtimeRepo) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, n uint32) error {
	const q = `UPDATE showtimes s
	           JOIN rooms ro ON ro.id = s.room_id
	           SET s.available_seats = LEAST(s.available_seats + ?, ro.total_seats)
	           WHERE s.id = ?`
	_, err := tx.ExecContext(ctx, q, n, id)
	return err
}
