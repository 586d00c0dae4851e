// Package pricing implements the ticket price rule.  The rule is a pure
// function of the seat type and the showtime's price schedule; the seat
// map, the running selection total and the booking writer all price seats
// through SeatPrice so the three can never disagree.
package pricing

import "github.com/quangdng/cinema-ticket-booking/internal/model"

// Multipliers applied when a showtime does not override the tier price.
const (
	vipMultiplier      = 1.5
	coupleMultiplier   = 2.0
	sweetboxMultiplier = 1.2 // on top of the couple price
)

// SeatPrice returns the price of one seat of the given type for the given
// showtime.  It is total: unknown seat types fall back to the base price.
//
//	normal   -> base_price
//	vip      -> vip_price, or base_price*1.5 when unset
//	couple   -> couple_price, or base_price*2 when unset
//	sweetbox -> couple tier price * 1.2
func SeatPrice(seatType string, st model.Showtime) float64 {
	switch seatType {
	case model.SeatTypeVIP:
		if st.VIPPrice != nil {
			return *st.VIPPrice
		}
		return st.BasePrice * vipMultiplier
	case model.SeatTypeCouple:
		return couplePrice(st)
	case model.SeatTypeSweetbox:
		return couplePrice(st) * sweetboxMultiplier
	default:
		return st.BasePrice
	}
}

// Total sums SeatPrice over the given seats.
func Total(seats []model.Seat, st model.Showtime) float64 {
	var sum float64
	for _, s := range seats {
		sum += SeatPrice(s.SeatType, st)
	}
	return sum
}

func couplePrice(st model.Showtime) float64 {
	if st.CouplePrice != nil {
		return *st.CouplePrice
	}
	return st.BasePrice * coupleMultiplier
}
