// Package router wires handlers, middleware and routes onto the echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/quangdng/cinema-ticket-booking/internal/config"
	"github.com/quangdng/cinema-ticket-booking/internal/handler"
	"github.com/quangdng/cinema-ticket-booking/internal/middleware"
	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// Handlers groups everything Register needs.
type Handlers struct {
	Auth           *handler.AuthHandler
	Movies         *handler.MovieHandler
	Bookings       *handler.BookingHandler
	AdminMovies    *handler.AdminMovieHandler
	AdminShowtimes *handler.AdminShowtimeHandler
	AdminBookings  *handler.AdminBookingHandler
}

// Register mounts all routes.  The Redis-backed cache and rate limiter
// wrap the public read endpoints; both degrade to pass-throughs when
// rdb is nil.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	auth := middleware.JWTAuth(cfg.JWTSecret)
	staffOnly := middleware.RequireRole(model.RoleStaff, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	e.GET("/health", handler.Health)

	v1 := e.Group("/v1", rateLimit)

	// auth
	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)
	v1.POST("/auth/logout", h.Auth.Logout)
	v1.GET("/auth/me", h.Auth.Me, auth)

	// public catalogue, cached
	v1.GET("/movies", h.Movies.List, cache)
	v1.GET("/movies/:id", h.Movies.Get, cache)
	v1.GET("/movies/:id/showtimes", h.Movies.Showtimes, cache)

	// booking flow; the seat map stays uncached so occupancy is live
	v1.GET("/showtimes/:id/seats", h.Bookings.SeatMap)
	v1.POST("/showtimes/:id/selection", h.Bookings.StartSelection)
	v1.GET("/selections/:sid", h.Bookings.GetSelection)
	v1.POST("/selections/:sid/toggle", h.Bookings.ToggleSeat)
	v1.POST("/selections/:sid/confirm", h.Bookings.ConfirmSelection)
	v1.POST("/bookings", h.Bookings.Create)
	v1.GET("/bookings/:code", h.Bookings.Lookup)
	v1.GET("/my-bookings", h.Bookings.MyBookings)

	// staff: settle payments at the counter
	staff := v1.Group("/staff", auth, staffOnly)
	staff.POST("/bookings/:id/paid", h.AdminBookings.MarkPaid)

	// admin console
	admin := v1.Group("/admin", auth, adminOnly)
	admin.GET("/dashboard", h.AdminBookings.Dashboard)
	admin.GET("/bookings", h.AdminBookings.Recent)
	admin.POST("/bookings/:id/cancel", h.AdminBookings.Cancel)
	admin.POST("/movies", h.AdminMovies.Create)
	admin.PUT("/movies/:id", h.AdminMovies.Update)
	admin.PATCH("/movies/:id/status", h.AdminMovies.UpdateStatus)
	admin.DELETE("/movies/:id", h.AdminMovies.Delete)
	admin.GET("/showtimes", h.AdminShowtimes.List)
	admin.GET("/venues", h.AdminShowtimes.Venues)
	admin.POST("/showtimes", h.AdminShowtimes.Create)
	admin.PUT("/showtimes/:id", h.AdminShowtimes.Update)
	admin.DELETE("/showtimes/:id", h.AdminShowtimes.Delete)
}
