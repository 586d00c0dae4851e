package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

// AdminShowtimeHandler schedules showtimes and exposes the venue lists
// the scheduling form needs.
type AdminShowtimeHandler struct {
	Showtimes *repository.ShowtimeRepo
	Movies    *repository.MovieRepo
	VenueRepo *repository.VenueRepo
}

func NewAdminShowtimeHandler(s *repository.ShowtimeRepo, m *repository.MovieRepo, v *repository.VenueRepo) *AdminShowtimeHandler {
	return &AdminShowtimeHandler{Showtimes: s, Movies: m, VenueRepo: v}
}

// List returns every showtime with movie and venue names for the
// console table.
func (h *AdminShowtimeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Showtimes.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"showtimes": rows})
}

// Venues returns cinemas and rooms for the scheduling form.
func (h *AdminShowtimeHandler) Venues(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cinemas, err := h.VenueRepo.ListCinemas(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rooms, err := h.VenueRepo.ListRooms(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cinemas": cinemas, "rooms": rooms})
}

type showtimeReq struct {
	MovieID     uint64   `json:"movie_id"`
	RoomID      uint64   `json:"room_id"`
	ShowDate    string   `json:"show_date"` // "2006-01-02"
	ShowTime    string   `json:"show_time"` // "15:04"
	BasePrice   float64  `json:"base_price"`
	VIPPrice    *float64 `json:"vip_price"`
	CouplePrice *float64 `json:"couple_price"`
}

func (r showtimeReq) validate() string {
	if r.MovieID == 0 || r.RoomID == 0 {
		return "movie_id and room_id required"
	}
	if _, err := time.Parse("2006-01-02", r.ShowDate); err != nil {
		return "invalid show_date"
	}
	if _, err := time.Parse("15:04", r.ShowTime); err != nil {
		return "invalid show_time"
	}
	if r.BasePrice <= 0 {
		return "base_price must be positive"
	}
	return ""
}

// Create schedules a showtime.  available_seats starts at the room's
// capacity.
func (h *AdminShowtimeHandler) Create(c echo.Context) error {
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	room, err := h.VenueRepo.GetRoomByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	st := &model.Showtime{
		MovieID:        req.MovieID,
		RoomID:         req.RoomID,
		ShowDate:       req.ShowDate,
		ShowTime:       req.ShowTime,
		BasePrice:      req.BasePrice,
		VIPPrice:       req.VIPPrice,
		CouplePrice:    req.CouplePrice,
		AvailableSeats: room.TotalSeats,
	}
	if err := h.Showtimes.Create(ctx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	return c.JSON(http.StatusCreated, st)
}

// Update changes a showtime's schedule or prices.  The seat counter is
// left alone so existing bookings stay accounted for.
func (h *AdminShowtimeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st := &model.Showtime{
		ID:          id,
		MovieID:     req.MovieID,
		RoomID:      req.RoomID,
		ShowDate:    req.ShowDate,
		ShowTime:    req.ShowTime,
		BasePrice:   req.BasePrice,
		VIPPrice:    req.VIPPrice,
		CouplePrice: req.CouplePrice,
	}
	if err := h.Showtimes.Update(ctx, st); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update showtime failed"})
	}
	return c.JSON(http.StatusOK, st)
}

// Delete removes a showtime; ones with bookings answer 409.
func (h *AdminShowtimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Showtimes.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showtime failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
