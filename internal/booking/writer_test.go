package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

func newTestWriter(t *testing.T) (*Writer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWriter(db, repository.NewBookingRepo(db), repository.NewShowtimeRepo(db)), mock
}

func pendingTwoSeats() PendingBooking {
	return PendingBooking{
		Showtime: testShowtime(), // id 7, base 80000
		Seats: []model.Seat{
			seat(1, "A", 1, model.SeatTypeNormal),
			seat(2, "A", 2, model.SeatTypeNormal),
		},
		Total: 160000,
	}
}

func TestWriterCreatesBookingInOneTransaction(t *testing.T) {
	w, mock := newTestWriter(t)
	pending := pendingTwoSeats()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT bd\.seat_id`).
		WithArgs(uint64(7), model.PaymentStatusCancelled, uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(uint64(7), "Lan Nguyen", "0901234567", nil, sqlmock.AnyArg(), 160000.0, model.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO booking_details`).
		WithArgs(uint64(42), uint64(1), 80000.0, uint64(42), uint64(2), 80000.0).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(`UPDATE showtimes`).
		WithArgs(uint32(2), uint64(7), uint32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := w.Write(context.Background(), pending, CustomerInfo{Name: "Lan Nguyen", Phone: "0901234567"})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), b.ID)
	assert.Equal(t, 160000.0, b.TotalAmount)
	assert.Equal(t, model.PaymentStatusPending, b.PaymentStatus)
	assert.True(t, len(b.BookingCode) > 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterBlankNameWritesNothing(t *testing.T) {
	w, mock := newTestWriter(t)

	_, err := w.Write(context.Background(), pendingTwoSeats(), CustomerInfo{Name: "   ", Phone: "0901234567"})
	assert.ErrorIs(t, err, ErrMissingCustomerInfo)
	assert.NoError(t, mock.ExpectationsWereMet(), "no statements may run")
}

func TestWriterBlankPhoneWritesNothing(t *testing.T) {
	w, mock := newTestWriter(t)

	_, err := w.Write(context.Background(), pendingTwoSeats(), CustomerInfo{Name: "Lan Nguyen"})
	assert.ErrorIs(t, err, ErrMissingCustomerInfo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterSeatConflictRollsBack(t *testing.T) {
	w, mock := newTestWriter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT bd\.seat_id`).
		WithArgs(uint64(7), model.PaymentStatusCancelled, uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(uint64(2)))
	mock.ExpectRollback()

	_, err := w.Write(context.Background(), pendingTwoSeats(), CustomerInfo{Name: "Lan Nguyen", Phone: "0901234567"})
	assert.ErrorIs(t, err, repository.ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterFullShowtimeRollsBack(t *testing.T) {
	w, mock := newTestWriter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT bd\.seat_id`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO booking_details`).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(`UPDATE showtimes`).
		WillReturnResult(sqlmock.NewResult(0, 0)) // guard failed, no row updated
	mock.ExpectRollback()

	_, err := w.Write(context.Background(), pendingTwoSeats(), CustomerInfo{Name: "Lan Nguyen", Phone: "0901234567"})
	assert.ErrorIs(t, err, repository.ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriterRetriesOnDuplicateCode(t *testing.T) {
	w, mock := newTestWriter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT bd\.seat_id`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'BK...' for key 'booking_code'"))
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO booking_details`).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(`UPDATE showtimes`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := w.Write(context.Background(), pendingTwoSeats(), CustomerInfo{Name: "Lan Nguyen", Phone: "0901234567"})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
