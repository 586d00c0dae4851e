// This file implements persistence for bookings and their per-seat detail
// rows.  Seat occupancy is defined here: a seat is occupied for a
// showtime when a non-cancelled booking holds a detail row for it.  The
// booking writer performs its conflict check and inserts through the
// ...Tx methods so the whole write commits or rolls back as one unit.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides data access for bookings and booking_details.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transactions spanning repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// OccupiedSeatIDs returns the ids of seats already taken for a showtime,
// i.e. seats referenced by booking details whose parent booking is not
// cancelled.  Used by the seat map loader outside any transaction.
func (r *BookingRepo) OccupiedSeatIDs(ctx context.Context, showtimeID uint64) ([]uint64, error) {
	const q = `SELECT bd.seat_id
	           FROM booking_details bd
	           JOIN bookings b ON b.id = bd.booking_id
	           WHERE b.showtime_id = ? AND b.payment_status <> ?`
	rows, err := r.db.QueryContext(ctx, q, showtimeID, model.PaymentStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TakenSeatIDsTx re-checks the candidate seats inside the caller's
// transaction and returns those already occupied.  FOR UPDATE locks the
// matching detail rows so two concurrent bookings of the same seat
// serialize: the second sees the first's rows and fails the check.
func (r *BookingRepo) TakenSeatIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(seatIDs))
	args := []any{showtimeID, model.PaymentStatusCancelled}
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `SELECT bd.seat_id
	      FROM booking_details bd
	      JOIN bookings b ON b.id = bd.booking_id
	      WHERE b.showtime_id = ? AND b.payment_status <> ?
	        AND bd.seat_id IN (` + strings.Join(placeholders, ",") + `)
	      FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var taken []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// CreateTx inserts a booking within the caller's transaction and
// populates the generated ID and booking date.  A duplicate booking code
// maps to ErrDuplicateCode so the caller can regenerate and retry.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (showtime_id, customer_name, customer_phone, customer_email, booking_code, total_amount, payment_status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.ShowtimeID, b.CustomerName, b.CustomerPhone,
		b.CustomerEmail, b.BookingCode, b.TotalAmount, b.PaymentStatus)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") { // unique booking_code
			return ErrDuplicateCode
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now().UTC()
	}
	return nil
}

// CreateDetailsBulkTx inserts one booking_details row per seat in a
// single statement.  Passing an empty slice is a no-op.
func (r *BookingRepo) CreateDetailsBulkTx(ctx context.Context, tx *sql.Tx, details []model.BookingDetail) error {
	if len(details) == 0 {
		return nil
	}
	q := `INSERT INTO booking_details (booking_id, seat_id, price) VALUES `
	args := make([]any, 0, len(details)*3)
	for i, d := range details {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?)"
		args = append(args, d.BookingID, d.SeatID, d.Price)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// BookedSeat is one seat inside a booking lookup response.
type BookedSeat struct {
	SeatID     uint64  `json:"seat_id"`
	SeatRow    string  `json:"seat_row"`
	SeatNumber uint32  `json:"seat_number"`
	SeatType   string  `json:"seat_type"`
	Price      float64 `json:"price"`
}

// BookingLookup is a booking joined with its showtime, movie and venue,
// plus the seats it covers.  Returned by code lookup and recent listings.
type BookingLookup struct {
	model.Booking
	ShowDate   string       `json:"show_date"`
	ShowTime   string       `json:"show_time"`
	MovieTitle string       `json:"movie_title"`
	RoomName   string       `json:"room_name"`
	CinemaName string       `json:"cinema_name"`
	Seats      []BookedSeat `json:"seats"`
}

const bookingLookupQuery = `SELECT b.id, b.showtime_id, b.customer_name, b.customer_phone, b.customer_email,
	       b.booking_code, b.total_amount, b.payment_status, b.booking_date,
	       DATE_FORMAT(s.show_date, '%Y-%m-%d'), TIME_FORMAT(s.show_time, '%H:%i'),
	       m.title, ro.name, c.name
	FROM bookings b
	JOIN showtimes s ON s.id = b.showtime_id
	JOIN movies m    ON m.id = s.movie_id
	JOIN rooms ro    ON ro.id = s.room_id
	JOIN cinemas c   ON c.id = ro.cinema_id`

func scanBookingLookup(row interface{ Scan(...any) error }) (BookingLookup, error) {
	var l BookingLookup
	var email sql.NullString
	err := row.Scan(&l.ID, &l.ShowtimeID, &l.CustomerName, &l.CustomerPhone, &email,
		&l.BookingCode, &l.TotalAmount, &l.PaymentStatus, &l.BookingDate,
		&l.ShowDate, &l.ShowTime, &l.MovieTitle, &l.RoomName, &l.CinemaName)
	if err != nil {
		return BookingLookup{}, err
	}
	if email.Valid {
		e := email.String
		l.CustomerEmail = &e
	}
	return l, nil
}

// attachSeats loads the seats for each lookup in one query.
func (r *BookingRepo) attachSeats(ctx context.Context, lookups []BookingLookup) error {
	if len(lookups) == 0 {
		return nil
	}
	ids := make([]any, 0, len(lookups))
	placeholders := make([]string, 0, len(lookups))
	index := make(map[uint64]int, len(lookups))
	for i := range lookups {
		lookups[i].Seats = []BookedSeat{}
		ids = append(ids, lookups[i].ID)
		placeholders = append(placeholders, "?")
		index[lookups[i].ID] = i
	}
	q := `SELECT bd.booking_id, bd.seat_id, se.seat_row, se.seat_number, se.seat_type, bd.price
	      FROM booking_details bd
	      JOIN seats se ON se.id = bd.seat_id
	      WHERE bd.booking_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY bd.booking_id, se.seat_row, se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID uint64
		var s BookedSeat
		if err := rows.Scan(&bookingID, &s.SeatID, &s.SeatRow, &s.SeatNumber, &s.SeatType, &s.Price); err != nil {
			return err
		}
		if i, ok := index[bookingID]; ok {
			lookups[i].Seats = append(lookups[i].Seats, s)
		}
	}
	return rows.Err()
}

// GetByCode retrieves a booking by its booking code, including seats.
// Codes are stored upper-case; the lookup normalizes its input.
func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*BookingLookup, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	l, err := scanBookingLookup(r.db.QueryRowContext(ctx, bookingLookupQuery+` WHERE b.booking_code = ?`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	lookups := []BookingLookup{l}
	if err := r.attachSeats(ctx, lookups); err != nil {
		return nil, err
	}
	return &lookups[0], nil
}

// ListRecent returns the newest bookings with their seats, newest first.
func (r *BookingRepo) ListRecent(ctx context.Context, limit int) ([]BookingLookup, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, bookingLookupQuery+` ORDER BY b.booking_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingLookup, 0, limit)
	for rows.Next() {
		l, err := scanBookingLookup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachSeats(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByPhone returns every booking made with the given phone number,
// newest first.  This backs the my-bookings screen, which identifies
// customers by the phone they booked with.
func (r *BookingRepo) ListByPhone(ctx context.Context, phone string) ([]BookingLookup, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingLookupQuery+` WHERE b.customer_phone = ? ORDER BY b.booking_date DESC`,
		strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BookingLookup{}
	for rows.Next() {
		l, err := scanBookingLookup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachSeats(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelTx marks a pending booking cancelled inside the caller's
// transaction and reports the showtime id and seat count so the caller
// can restore the availability counter.  Paid bookings are not
// cancellable through this path and yield ErrConflict.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) (showtimeID uint64, seats uint32, err error) {
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT showtime_id, payment_status FROM bookings WHERE id = ? FOR UPDATE`, id).
		Scan(&showtimeID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrBookingNotFound
		}
		return 0, 0, err
	}
	if status != model.PaymentStatusPending {
		return 0, 0, ErrConflict
	}
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_details WHERE booking_id = ?`, id).Scan(&seats); err != nil {
		return 0, 0, err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ? WHERE id = ?`, model.PaymentStatusCancelled, id); err != nil {
		return 0, 0, err
	}
	return showtimeID, seats, nil
}

// MarkPaid settles a pending booking.  Missing rows yield
// ErrBookingNotFound; already paid or cancelled bookings yield ErrConflict.
func (r *BookingRepo) MarkPaid(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ? WHERE id = ? AND payment_status = ?`,
		model.PaymentStatusPaid, id, model.PaymentStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	return ErrConflict
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalMovies   uint64  `json:"total_movies"`
	TotalBookings uint64  `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
	TodayBookings uint64  `json:"today_bookings"`
}

// Stats computes dashboard counters: movie and booking totals, revenue
// over paid bookings, and bookings created today (UTC).
func (r *BookingRepo) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&st.TotalMovies); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&st.TotalBookings); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM bookings WHERE payment_status = ?`,
		model.PaymentStatusPaid).Scan(&st.TotalRevenue); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE booking_date >= UTC_DATE()`).Scan(&st.TodayBookings); err != nil {
		return nil, err
	}
	return &st, nil
}
