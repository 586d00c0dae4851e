package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

func TestSeatPriceDefaults(t *testing.T) {
	st := model.Showtime{BasePrice: 80000}

	assert.Equal(t, 80000.0, SeatPrice(model.SeatTypeNormal, st))
	assert.Equal(t, 120000.0, SeatPrice(model.SeatTypeVIP, st))
	assert.Equal(t, 160000.0, SeatPrice(model.SeatTypeCouple, st))
	assert.Equal(t, 192000.0, SeatPrice(model.SeatTypeSweetbox, st))
}

func TestSeatPriceOverrides(t *testing.T) {
	vip := 100000.0
	couple := 150000.0
	st := model.Showtime{BasePrice: 80000, VIPPrice: &vip, CouplePrice: &couple}

	assert.Equal(t, 100000.0, SeatPrice(model.SeatTypeVIP, st))
	assert.Equal(t, 150000.0, SeatPrice(model.SeatTypeCouple, st))
	// sweetbox rides on the overridden couple tier
	assert.Equal(t, 180000.0, SeatPrice(model.SeatTypeSweetbox, st))
	// base price is unaffected by tier overrides
	assert.Equal(t, 80000.0, SeatPrice(model.SeatTypeNormal, st))
}

// Unknown seat types must map to the base price so the rule stays total.
func TestSeatPriceUnknownTypeFallsBack(t *testing.T) {
	st := model.Showtime{BasePrice: 65000}
	for _, typ := range []string{"", "recliner", "NORMAL", "deluxe"} {
		assert.Equal(t, 65000.0, SeatPrice(typ, st), "type %q", typ)
	}
}

func TestSeatPriceDeterministic(t *testing.T) {
	st := model.Showtime{BasePrice: 80000}
	first := SeatPrice(model.SeatTypeSweetbox, st)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SeatPrice(model.SeatTypeSweetbox, st))
	}
}

// Scenario from the booking flow: one vip plus one couple seat on a
// showtime with base 80000 and no overrides totals 280000.
func TestTotal(t *testing.T) {
	st := model.Showtime{BasePrice: 80000}
	seats := []model.Seat{
		{ID: 1, SeatRow: "A", SeatNumber: 1, SeatType: model.SeatTypeVIP},
		{ID: 2, SeatRow: "B", SeatNumber: 3, SeatType: model.SeatTypeCouple},
	}
	assert.Equal(t, 280000.0, Total(seats, st))
	assert.Equal(t, 0.0, Total(nil, st))
}
