package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

func newMockDB(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func TestCreateTxMapsDuplicateCode(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'BKX' for key 'bookings.booking_code'"))

	tx, err := repo.DB().Begin()
	require.NoError(t, err)

	b := &model.Booking{ShowtimeID: 7, CustomerName: "A", CustomerPhone: "1", BookingCode: "BKX", PaymentStatus: model.PaymentStatusPending}
	err = repo.CreateTx(context.Background(), tx, b)
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateTxPopulatesID(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(uint64(7), "A", "1", nil, "BKX", 160000.0, model.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(42, 1))

	tx, err := repo.DB().Begin()
	require.NoError(t, err)

	b := &model.Booking{ShowtimeID: 7, CustomerName: "A", CustomerPhone: "1", BookingCode: "BKX",
		TotalAmount: 160000, PaymentStatus: model.PaymentStatusPending}
	require.NoError(t, repo.CreateTx(context.Background(), tx, b))
	assert.Equal(t, uint64(42), b.ID)
	assert.False(t, b.BookingDate.IsZero())
}

func TestMarkPaidOutcomes(t *testing.T) {
	t.Run("pending becomes paid", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE bookings SET payment_status`).
			WithArgs(model.PaymentStatusPaid, uint64(5), model.PaymentStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkPaid(context.Background(), 5))
	})

	t.Run("already settled answers conflict", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE bookings SET payment_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT 1 FROM bookings`).WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		assert.ErrorIs(t, repo.MarkPaid(context.Background(), 5), ErrConflict)
	})

	t.Run("missing booking", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE bookings SET payment_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT 1 FROM bookings`).WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		assert.ErrorIs(t, repo.MarkPaid(context.Background(), 5), ErrBookingNotFound)
	})
}

func TestCancelTxRestoresOnlyPending(t *testing.T) {
	t.Run("pending booking cancels", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT showtime_id, payment_status FROM bookings`).WithArgs(uint64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"showtime_id", "payment_status"}).
				AddRow(uint64(7), model.PaymentStatusPending))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM booking_details`).WithArgs(uint64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(uint32(3)))
		mock.ExpectExec(`UPDATE bookings SET payment_status`).
			WithArgs(model.PaymentStatusCancelled, uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := repo.DB().Begin()
		require.NoError(t, err)

		showtimeID, seats, err := repo.CancelTx(context.Background(), tx, 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), showtimeID)
		assert.Equal(t, uint32(3), seats)
	})

	t.Run("paid booking refuses", func(t *testing.T) {
		repo, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT showtime_id, payment_status FROM bookings`).WithArgs(uint64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"showtime_id", "payment_status"}).
				AddRow(uint64(7), model.PaymentStatusPaid))

		tx, err := repo.DB().Begin()
		require.NoError(t, err)

		_, _, err = repo.CancelTx(context.Background(), tx, 9)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestOccupiedSeatIDsSkipsCancelled(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT bd\.seat_id`).
		WithArgs(uint64(7), model.PaymentStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(uint64(3)).AddRow(uint64(8)))

	ids, err := repo.OccupiedSeatIDs(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 8}, ids)
}
