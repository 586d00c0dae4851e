package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quangdng/cinema-ticket-booking/internal/booking"
	"github.com/quangdng/cinema-ticket-booking/internal/queue"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
	queue_publisher "github.com/quangdng/cinema-ticket-booking/internal/service"
)

// BookingHandler drives the whole booking flow: seat map, seat
// selection sessions, the pending hand-off and the final write.
type BookingHandler struct {
	Loader     *booking.SeatMapLoader
	Selections *booking.SelectionStore
	Pending    *booking.PendingStore
	Writer     *booking.Writer
	Seats      *repository.SeatRepo
	Showtimes  *repository.ShowtimeRepo
	Bookings   *repository.BookingRepo
	Publish    func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

func NewBookingHandler(loader *booking.SeatMapLoader, selections *booking.SelectionStore,
	pending *booking.PendingStore, writer *booking.Writer,
	seats *repository.SeatRepo, showtimes *repository.ShowtimeRepo, bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{
		Loader:     loader,
		Selections: selections,
		Pending:    pending,
		Writer:     writer,
		Seats:      seats,
		Showtimes:  showtimes,
		Bookings:   bookings,
		Publish:    queue_publisher.PublishBookingCreated,
	}
}

// SeatMap returns the seat map for a showtime: all seats in row order
// with per-seat prices and occupancy.
func (h *BookingHandler) SeatMap(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Loader.Load(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// StartSelection opens a seat-picking session for a showtime and
// returns its id.  Occupancy is frozen at session start; the final
// write re-checks it inside the transaction anyway.
func (h *BookingHandler) StartSelection(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	occupied, err := h.Loader.OccupiedIDs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	sel := booking.NewSelection(*st, occupied)
	sid := h.Selections.Start(sel)
	return c.JSON(http.StatusCreated, echo.Map{
		"selection_id": sid,
		"showtime_id":  id,
		"seats":        sel.Seats(),
		"total":        sel.Total(),
	})
}

type toggleReq struct {
	SeatID uint64 `json:"seat_id"`
}

// ToggleSeat flips one seat in a selection session.  Toggling an
// occupied seat changes nothing and reports selected=false.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	sel, ok := h.Selections.Get(c.Param("sid"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "selection not found"})
	}
	var req toggleReq
	if err := c.Bind(&req); err != nil || req.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seats, err := h.Seats.GetByIDs(ctx, []uint64{req.SeatID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(seats) == 0 || seats[0].RoomID != sel.Showtime().RoomID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	}

	selected := sel.Toggle(seats[0])
	return c.JSON(http.StatusOK, echo.Map{
		"seat_id":  req.SeatID,
		"selected": selected,
		"seats":    sel.Seats(),
		"total":    sel.Total(),
	})
}

// GetSelection reports the current state of a selection session.
func (h *BookingHandler) GetSelection(c echo.Context) error {
	sel, ok := h.Selections.Get(c.Param("sid"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "selection not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": sel.Showtime().ID,
		"seats":       sel.Seats(),
		"total":       sel.Total(),
	})
}

// ConfirmSelection freezes a selection into a pending booking and
// returns the checkout token.  The session is gone afterwards; an
// abandoned checkout expires from the pending store on its own.
func (h *BookingHandler) ConfirmSelection(c echo.Context) error {
	sid := c.Param("sid")
	sel, ok := h.Selections.Get(sid)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "selection not found"})
	}

	pending, err := sel.Confirm()
	if err != nil {
		if errors.Is(err, booking.ErrEmptySelection) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
	}
	h.Selections.Remove(sid)
	token := h.Pending.Put(pending)

	return c.JSON(http.StatusOK, echo.Map{
		"token":       token,
		"showtime_id": pending.Showtime.ID,
		"seats":       pending.Seats,
		"total":       pending.Total,
	})
}

type createBookingReq struct {
	Token string `json:"token"`
	booking.CustomerInfo
}

// Create consumes a pending-booking token and writes the booking.  The
// token is single-use: a replayed request finds nothing to consume.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	// Validate contact details before consuming the token so a 400
	// leaves the pending booking intact for a corrected retry.
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer name and phone are required"})
	}

	pending, ok := h.Pending.Take(strings.TrimSpace(req.Token))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pending booking not found or expired"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Writer.Write(ctx, pending, req.CustomerInfo)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrMissingCustomerInfo):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer name and phone are required"})
		case errors.Is(err, booking.ErrEmptySelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
		case errors.Is(err, repository.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats are no longer available"})
		case errors.Is(err, repository.ErrDuplicateCode):
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not allocate booking code, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	h.publishCreated(b.ID, b.BookingCode, pending, b.TotalAmount)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_code": b.BookingCode,
		"booking":      b,
	})
}

// publishCreated emits the booking.created event.  Best effort: a
// broker outage must not fail a committed booking.
func (h *BookingHandler) publishCreated(id uint64, code string, pending booking.PendingBooking, total float64) {
	labels := make([]string, len(pending.Seats))
	for i, s := range pending.Seats {
		labels[i] = s.Label()
	}
	ev := queue.BookingCreatedEvent{
		BookingID:   id,
		BookingCode: code,
		ShowtimeID:  pending.Showtime.ID,
		ShowDate:    pending.Showtime.ShowDate,
		ShowTime:    pending.Showtime.ShowTime,
		SeatLabels:  labels,
		TotalAmount: total,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if det, err := h.Showtimes.GetDetail(ctx, pending.Showtime.ID); err == nil {
			ev.MovieTitle = det.Movie.Title
			ev.CinemaName = det.Cinema.Name
			ev.RoomName = det.Room.Name
		}
		_ = h.Publish(ctx, ev)
	}()
}

// Lookup fetches a booking by its code, with showtime, venue and seats.
func (h *BookingHandler) Lookup(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// MyBookings lists the bookings made with a phone number, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phone"))
	if phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListByPhone(ctx, phone)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}
