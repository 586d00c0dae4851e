package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

// AdminMovieHandler implements the movie side of the admin console.
type AdminMovieHandler struct {
	Movies *repository.MovieRepo
}

func NewAdminMovieHandler(m *repository.MovieRepo) *AdminMovieHandler {
	return &AdminMovieHandler{Movies: m}
}

type movieReq struct {
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    uint32  `json:"duration"`
	Rating      float64 `json:"rating"`
	Status      string  `json:"status"`
	ReleaseDate string  `json:"release_date"` // "2006-01-02"
	PosterURL   *string `json:"poster_url"`
	Description *string `json:"description"`
}

func (r movieReq) toModel() (*model.Movie, string) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, "title required"
	}
	if r.Duration == 0 {
		return nil, "duration required"
	}
	switch r.Status {
	case "":
		r.Status = model.MovieStatusComingSoon
	case model.MovieStatusShowing, model.MovieStatusComingSoon, model.MovieStatusEnded:
	default:
		return nil, "unknown status"
	}
	release, err := time.Parse("2006-01-02", r.ReleaseDate)
	if err != nil {
		return nil, "invalid release_date"
	}
	return &model.Movie{
		Title:       strings.TrimSpace(r.Title),
		Genre:       strings.TrimSpace(r.Genre),
		Duration:    r.Duration,
		Rating:      r.Rating,
		Status:      r.Status,
		ReleaseDate: release,
		PosterURL:   r.PosterURL,
		Description: r.Description,
	}, ""
}

// Create adds a movie to the catalogue.
func (h *AdminMovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update rewrites a movie's mutable fields.
func (h *AdminMovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	m.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

type movieStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves a movie between showing, coming_soon and ended.
func (h *AdminMovieHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.MovieStatusShowing, model.MovieStatusComingSoon, model.MovieStatusEnded:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}

// Delete removes a movie.  Movies with scheduled showtimes answer 409.
func (h *AdminMovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has showtimes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
