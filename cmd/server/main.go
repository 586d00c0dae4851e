package main // service entry point

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/quangdng/cinema-ticket-booking/internal/booking"
	"github.com/quangdng/cinema-ticket-booking/internal/config"
	"github.com/quangdng/cinema-ticket-booking/internal/database"
	"github.com/quangdng/cinema-ticket-booking/internal/handler"
	"github.com/quangdng/cinema-ticket-booking/internal/queue"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
	"github.com/quangdng/cinema-ticket-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil client disables response caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	movies := repository.NewMovieRepo(db)
	venues := repository.NewVenueRepo(db)
	seats := repository.NewSeatRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	loader := booking.NewSeatMapLoader(showtimes, seats, bookings)
	selections := booking.NewSelectionStore(cfg.PendingTTL)
	pending := booking.NewPendingStore(cfg.PendingTTL)
	writer := booking.NewWriter(db, bookings, showtimes)

	h := router.Handlers{
		Auth:           handler.NewAuthHandler(cfg, users, tokens),
		Movies:         handler.NewMovieHandler(movies, showtimes),
		Bookings:       handler.NewBookingHandler(loader, selections, pending, writer, seats, showtimes, bookings),
		AdminMovies:    handler.NewAdminMovieHandler(movies),
		AdminShowtimes: handler.NewAdminShowtimeHandler(showtimes, movies, venues),
		AdminBookings:  handler.NewAdminBookingHandler(bookings, showtimes),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	router.Register(e, cfg, rdb, h)

	// booking.created consumer appends to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Purge expired refresh tokens hourly.
	go func() {
		for {
			time.Sleep(time.Hour)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := tokens.DeleteExpired(ctx); err != nil {
				log.Printf("token cleanup: %v", err)
			} else if n > 0 {
				log.Printf("token cleanup: removed %d expired tokens", n)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
