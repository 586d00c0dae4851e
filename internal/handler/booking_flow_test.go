package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/cinema-ticket-booking/internal/booking"
	"github.com/quangdng/cinema-ticket-booking/internal/model"
	"github.com/quangdng/cinema-ticket-booking/internal/queue"
	"github.com/quangdng/cinema-ticket-booking/internal/repository"
)

type flowFixture struct {
	h         *BookingHandler
	mock      sqlmock.Sqlmock
	published chan queue.BookingCreatedEvent
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	seats := repository.NewSeatRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	bookings := repository.NewBookingRepo(db)

	h := NewBookingHandler(
		booking.NewSeatMapLoader(showtimes, seats, bookings),
		booking.NewSelectionStore(time.Minute),
		booking.NewPendingStore(time.Minute),
		booking.NewWriter(db, bookings, showtimes),
		seats, showtimes, bookings,
	)
	published := make(chan queue.BookingCreatedEvent, 1)
	h.Publish = func(ctx context.Context, ev queue.BookingCreatedEvent) error {
		published <- ev
		return nil
	}
	return &flowFixture{h: h, mock: mock, published: published}
}

func (f *flowFixture) request(t *testing.T, method, path, body string, paramNames []string, paramValues []string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)

	var handle echo.HandlerFunc
	switch {
	case method == http.MethodPost && strings.Contains(path, "/selection") && !strings.Contains(path, "selections"):
		handle = f.h.StartSelection
	case strings.Contains(path, "/toggle"):
		handle = f.h.ToggleSeat
	case strings.Contains(path, "/confirm"):
		handle = f.h.ConfirmSelection
	case path == "/v1/bookings":
		handle = f.h.Create
	default:
		t.Fatalf("no handler for %s %s", method, path)
	}
	require.NoError(t, handle(c))

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

var bareShowtimeColumns = []string{
	"id", "movie_id", "room_id", "show_date", "show_time",
	"base_price", "vip_price", "couple_price", "available_seats", "created_at",
}

func (f *flowFixture) expectShowtimeFetch() {
	f.mock.ExpectQuery(`FROM showtimes s WHERE`).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(bareShowtimeColumns).
			AddRow(uint64(7), uint64(1), uint64(2), "2026-09-01", "19:30",
				80000.0, nil, nil, uint32(48), time.Now()))
	f.mock.ExpectQuery(`FROM booking_details bd`).WithArgs(uint64(7), model.PaymentStatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
}

func (f *flowFixture) expectSeatFetch(id uint64, row string, num uint32) {
	f.mock.ExpectQuery(`FROM seats`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "seat_row", "seat_number", "seat_type"}).
			AddRow(id, uint64(2), row, num, model.SeatTypeNormal))
}

func TestBookingFlowEndToEnd(t *testing.T) {
	f := newFlowFixture(t)

	// start a selection session
	f.expectShowtimeFetch()
	rec, out := f.request(t, http.MethodPost, "/v1/showtimes/7/selection", "", []string{"id"}, []string{"7"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sid := out["selection_id"].(string)
	require.NotEmpty(t, sid)

	// pick two seats
	f.expectSeatFetch(1, "A", 1)
	rec, out = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/toggle",
		`{"seat_id":1}`, []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["selected"])

	f.expectSeatFetch(2, "A", 2)
	rec, out = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/toggle",
		`{"seat_id":2}`, []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 160000.0, out["total"])

	// confirm into a pending booking
	rec, out = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/confirm", "", []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)
	token := out["token"].(string)
	require.NotEmpty(t, token)

	// the session is gone once confirmed
	rec, _ = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/confirm", "", []string{"sid"}, []string{sid})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// checkout writes the booking in one transaction
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`SELECT bd\.seat_id`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}))
	f.mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	f.mock.ExpectExec(`INSERT INTO booking_details`).
		WillReturnResult(sqlmock.NewResult(1, 2))
	f.mock.ExpectExec(`UPDATE showtimes`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	body := `{"token":"` + token + `","customer_name":"Lan Nguyen","customer_phone":"0901234567"}`
	rec, out = f.request(t, http.MethodPost, "/v1/bookings", body, nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	code := out["booking_code"].(string)
	assert.True(t, strings.HasPrefix(code, "BK"))

	select {
	case ev := <-f.published:
		assert.Equal(t, code, ev.BookingCode)
		assert.Equal(t, []string{"A1", "A2"}, ev.SeatLabels)
		assert.Equal(t, 160000.0, ev.TotalAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("booking.created event not published")
	}

	// the token was consumed; a replay cannot double-book
	rec, _ = f.request(t, http.MethodPost, "/v1/bookings", body, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingCreateSeatConflict(t *testing.T) {
	f := newFlowFixture(t)

	f.expectShowtimeFetch()
	rec, out := f.request(t, http.MethodPost, "/v1/showtimes/7/selection", "", []string{"id"}, []string{"7"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sid := out["selection_id"].(string)

	f.expectSeatFetch(1, "A", 1)
	rec, _ = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/toggle",
		`{"seat_id":1}`, []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/confirm", "", []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)
	token := out["token"].(string)

	// someone else grabbed the seat between confirm and checkout
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`SELECT bd\.seat_id`).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(uint64(1)))
	f.mock.ExpectRollback()

	body := `{"token":"` + token + `","customer_name":"Lan Nguyen","customer_phone":"0901234567"}`
	rec, _ = f.request(t, http.MethodPost, "/v1/bookings", body, nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingCreateBlankName(t *testing.T) {
	f := newFlowFixture(t)

	f.expectShowtimeFetch()
	rec, out := f.request(t, http.MethodPost, "/v1/showtimes/7/selection", "", []string{"id"}, []string{"7"})
	require.Equal(t, http.StatusCreated, rec.Code)
	sid := out["selection_id"].(string)

	f.expectSeatFetch(1, "A", 1)
	rec, _ = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/toggle",
		`{"seat_id":1}`, []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out = f.request(t, http.MethodPost, "/v1/selections/"+sid+"/confirm", "", []string{"sid"}, []string{sid})
	require.Equal(t, http.StatusOK, rec.Code)
	token := out["token"].(string)

	body := `{"token":"` + token + `","customer_name":"  ","customer_phone":"0901234567"}`
	rec, _ = f.request(t, http.MethodPost, "/v1/bookings", body, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet(), "no write may happen")
}
