package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

func testShowtime() model.Showtime {
	return model.Showtime{ID: 7, MovieID: 1, RoomID: 2, BasePrice: 80000, AvailableSeats: 50}
}

func seat(id uint64, row string, num uint32, typ string) model.Seat {
	return model.Seat{ID: id, RoomID: 2, SeatRow: row, SeatNumber: num, SeatType: typ}
}

func TestSelectionToggleIsSelfInverse(t *testing.T) {
	sel := NewSelection(testShowtime(), nil)
	s := seat(10, "C", 4, model.SeatTypeNormal)

	assert.True(t, sel.Toggle(s))
	assert.Equal(t, 1, sel.Count())
	assert.False(t, sel.Toggle(s))
	assert.Equal(t, 0, sel.Count())
	assert.Zero(t, sel.Total())
}

func TestSelectionOccupiedSeatsNeverSelectable(t *testing.T) {
	occupied := seat(10, "C", 4, model.SeatTypeVIP)
	sel := NewSelection(testShowtime(), []uint64{occupied.ID})

	assert.False(t, sel.Toggle(occupied))
	assert.False(t, sel.Toggle(occupied)) // repeat is still a no-op
	assert.Equal(t, 0, sel.Count())
}

func TestSelectionTotalRecomputedEachCall(t *testing.T) {
	sel := NewSelection(testShowtime(), nil)

	sel.Toggle(seat(1, "A", 1, model.SeatTypeVIP))
	assert.Equal(t, 120000.0, sel.Total())

	sel.Toggle(seat(2, "D", 1, model.SeatTypeCouple))
	assert.Equal(t, 280000.0, sel.Total())

	sel.Toggle(seat(1, "A", 1, model.SeatTypeVIP))
	assert.Equal(t, 160000.0, sel.Total())
}

func TestSelectionSeatsOrderedByRowAndNumber(t *testing.T) {
	sel := NewSelection(testShowtime(), nil)
	sel.Toggle(seat(3, "B", 2, model.SeatTypeNormal))
	sel.Toggle(seat(1, "A", 5, model.SeatTypeNormal))
	sel.Toggle(seat(2, "B", 1, model.SeatTypeNormal))

	seats := sel.Seats()
	require.Len(t, seats, 3)
	assert.Equal(t, "A5", seats[0].Label())
	assert.Equal(t, "B1", seats[1].Label())
	assert.Equal(t, "B2", seats[2].Label())
}

func TestConfirmEmptySelection(t *testing.T) {
	sel := NewSelection(testShowtime(), nil)

	_, err := sel.Confirm()
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestConfirmProducesPendingRecord(t *testing.T) {
	st := testShowtime()
	sel := NewSelection(st, nil)
	sel.Toggle(seat(1, "A", 1, model.SeatTypeCouple))
	sel.Toggle(seat(2, "A", 2, model.SeatTypeNormal))

	pending, err := sel.Confirm()
	require.NoError(t, err)
	assert.Equal(t, st.ID, pending.Showtime.ID)
	require.Len(t, pending.Seats, 2)
	assert.Equal(t, 240000.0, pending.Total)
	assert.False(t, pending.CreatedAt.IsZero())
}
