package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/pricing"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

// ErrMissingCustomerInfo is returned when the required contact fields
// are blank.  Nothing is written in that case.
var ErrMissingCustomerInfo = errors.New("customer name and phone are required")

// codeAttempts bounds booking-code regeneration on a duplicate-key hit.
const codeAttempts = 3

// CustomerInfo is the contact block submitted at checkout.  Name and
// phone are required, email is optional.
type CustomerInfo struct {
	Name  string  `json:"customer_name"`
	Phone string  `json:"customer_phone"`
	Email *string `json:"customer_email,omitempty"`
}

// Writer persists a confirmed booking.  The whole write runs in one
// database transaction: the seat conflict re-check, the booking row,
// its detail rows and the availability decrement commit together or
// roll back together.  Of two writers racing for the same seat, at most
// one commits.
type Writer struct {
	db        *sql.DB
	bookings  *repository.BookingRepo
	showtimes *repository.ShowtimeRepo
}

// NewWriter wires a writer to its repositories.  All three share the
// same *sql.DB.
func NewWriter(db *sql.DB, bookings *repository.BookingRepo, showtimes *repository.ShowtimeRepo) *Writer {
	return &Writer{db: db, bookings: bookings, showtimes: showtimes}
}

// Write creates the booking for a pending record.  The total and the
// per-seat prices are recomputed from the showtime here; values carried
// in the pending record are never trusted.  Returns the stored booking,
// or ErrMissingCustomerInfo, ErrEmptySelection,
// repository.ErrSeatUnavailable or repository.ErrDuplicateCode.
func (w *Writer) Write(ctx context.Context, pending PendingBooking, customer CustomerInfo) (*model.Booking, error) {
	name := strings.TrimSpace(customer.Name)
	phone := strings.TrimSpace(customer.Phone)
	if name == "" || phone == "" {
		return nil, ErrMissingCustomerInfo
	}
	if len(pending.Seats) == 0 {
		return nil, ErrEmptySelection
	}

	seatIDs := make([]uint64, len(pending.Seats))
	for i, s := range pending.Seats {
		seatIDs[i] = s.ID
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	taken, err := w.bookings.TakenSeatIDsTx(ctx, tx, pending.Showtime.ID, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, repository.ErrSeatUnavailable
	}

	b := &model.Booking{
		ShowtimeID:    pending.Showtime.ID,
		CustomerName:  name,
		CustomerPhone: phone,
		CustomerEmail: customer.Email,
		TotalAmount:   pricing.Total(pending.Seats, pending.Showtime),
		PaymentStatus: model.PaymentStatusPending,
		BookingDate:   time.Now().UTC(),
	}
	for attempt := 0; attempt < codeAttempts; attempt++ {
		b.BookingCode = NewBookingCode()
		err = w.bookings.CreateTx(ctx, tx, b)
		if !errors.Is(err, repository.ErrDuplicateCode) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	details := make([]model.BookingDetail, len(pending.Seats))
	for i, s := range pending.Seats {
		details[i] = model.BookingDetail{
			BookingID: b.ID,
			SeatID:    s.ID,
			Price:     pricing.SeatPrice(s.SeatType, pending.Showtime),
		}
	}
	if err := w.bookings.CreateDetailsBulkTx(ctx, tx, details); err != nil {
		return nil, err
	}

	if err := w.showtimes.ReserveSeatsTx(ctx, tx, pending.Showtime.ID, uint32(len(details))); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}
