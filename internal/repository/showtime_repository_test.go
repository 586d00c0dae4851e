package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShowtimeMock(t *testing.T) (*ShowtimeRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewShowtimeRepo(db), mock
}

func TestReserveSeatsTxGuard(t *testing.T) {
	t.Run("enough seats decrements", func(t *testing.T) {
		repo, mock := newShowtimeMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE showtimes`).
			WithArgs(uint32(2), uint64(7), uint32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := repo.DB().Begin()
		require.NoError(t, err)
		assert.NoError(t, repo.ReserveSeatsTx(context.Background(), tx, 7, 2))
	})

	t.Run("not enough seats fails", func(t *testing.T) {
		repo, mock := newShowtimeMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE showtimes`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := repo.DB().Begin()
		require.NoError(t, err)
		assert.ErrorIs(t, repo.ReserveSeatsTx(context.Background(), tx, 7, 2), ErrSeatUnavailable)
	})
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newShowtimeMock(t)
	mock.ExpectQuery(`FROM showtimes s WHERE`).WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}
