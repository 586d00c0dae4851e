package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

func newTestLoader(t *testing.T) (*SeatMapLoader, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	loader := NewSeatMapLoader(
		repository.NewShowtimeRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
	)
	return loader, mock
}

var showtimeDetailColumns = []string{
	"id", "movie_id", "room_id", "show_date", "show_time",
	"base_price", "vip_price", "couple_price", "available_seats", "created_at",
	"m_id", "title", "genre", "duration", "rating", "m_status", "release_date",
	"r_id", "cinema_id", "r_name", "room_type", "total_seats",
	"c_id", "c_name", "address",
}

func showtimeDetailRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(showtimeDetailColumns).AddRow(
		uint64(7), uint64(1), uint64(2), "2026-09-01", "19:30",
		80000.0, nil, nil, uint32(48), now,
		uint64(1), "Inside Out 3", "Animation", uint32(105), 8.4, model.MovieStatusShowing, now,
		uint64(2), uint64(1), "Room 2", "2D", uint32(50),
		uint64(1), "Galaxy Nguyen Du", "116 Nguyen Du, D1",
	)
}

func TestSeatMapLoaderMarksOccupiedAndPrices(t *testing.T) {
	loader, mock := newTestLoader(t)

	mock.ExpectQuery(`FROM showtimes s`).WithArgs(uint64(7)).WillReturnRows(showtimeDetailRow())
	mock.ExpectQuery(`FROM seats`).WithArgs(uint64(2)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "room_id", "seat_row", "seat_number", "seat_type"}).
			AddRow(uint64(1), uint64(2), "A", uint32(1), model.SeatTypeNormal).
			AddRow(uint64(2), uint64(2), "A", uint32(2), model.SeatTypeVIP).
			AddRow(uint64(3), uint64(2), "B", uint32(1), model.SeatTypeCouple))
	mock.ExpectQuery(`FROM booking_details bd`).WithArgs(uint64(7), model.PaymentStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(uint64(2)))

	m, err := loader.Load(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, m.Seats, 3)

	assert.Equal(t, "Inside Out 3", m.Showtime.Movie.Title)
	assert.Equal(t, "Galaxy Nguyen Du", m.Showtime.Cinema.Name)

	assert.Equal(t, 80000.0, m.Seats[0].Price)
	assert.False(t, m.Seats[0].Occupied)
	assert.Equal(t, 120000.0, m.Seats[1].Price)
	assert.True(t, m.Seats[1].Occupied)
	assert.Equal(t, 160000.0, m.Seats[2].Price)
	assert.Equal(t, 1, m.Occupied)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatMapLoaderMissingShowtime(t *testing.T) {
	loader, mock := newTestLoader(t)

	mock.ExpectQuery(`FROM showtimes s`).WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(showtimeDetailColumns))

	_, err := loader.Load(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrShowtimeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
