package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

func TestPendingStoreTakeConsumesOnce(t *testing.T) {
	store := NewPendingStore(5 * time.Minute)
	record := PendingBooking{
		Showtime: testShowtime(),
		Seats:    []model.Seat{seat(1, "A", 1, model.SeatTypeNormal)},
		Total:    80000,
	}

	token := store.Put(record)
	require.NotEmpty(t, token)

	got, ok := store.Take(token)
	require.True(t, ok)
	assert.Equal(t, record.Total, got.Total)
	assert.Len(t, got.Seats, 1)

	_, ok = store.Take(token)
	assert.False(t, ok, "second take must miss")
}

func TestPendingStoreUnknownToken(t *testing.T) {
	store := NewPendingStore(5 * time.Minute)

	_, ok := store.Take("no-such-token")
	assert.False(t, ok)
}

func TestPendingStoreExpiry(t *testing.T) {
	store := NewPendingStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	token := store.Put(PendingBooking{Showtime: testShowtime()})

	current = current.Add(2 * time.Minute)
	_, ok := store.Take(token)
	assert.False(t, ok, "expired entry must not be returned")

	// expired entries are also swept on the next Put
	store.Put(PendingBooking{Showtime: testShowtime()})
	assert.Equal(t, 1, store.Len())
}

func TestPendingStoreTokensAreDistinct(t *testing.T) {
	store := NewPendingStore(time.Minute)
	a := store.Put(PendingBooking{})
	b := store.Put(PendingBooking{})
	assert.NotEqual(t, a, b)
}
