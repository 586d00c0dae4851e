// Package repository defines sentinel error values shared across the
// individual repositories.  Handlers use errors.Is against these values
// to translate failures into HTTP responses: not-found errors become 404,
// ErrSeatUnavailable and ErrDuplicateCode become 409.
package repository

import "errors"

// ErrSeatUnavailable is returned when a booking attempt targets a seat
// that already belongs to a non-cancelled booking for the same showtime,
// or when the showtime's available-seat counter cannot cover the request.
// Exactly one of two concurrent attempts on the same seat receives it.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrDuplicateCode is returned when the generated booking code collides
// with an existing row.  The caller should generate a new code and retry.
var ErrDuplicateCode = errors.New("booking code already exists")

// ErrUsernameExists is returned when registration hits the unique
// username index.
var ErrUsernameExists = errors.New("username already exists")

// ErrConflict signals that a delete cannot proceed because dependent
// rows exist (e.g. removing a showtime that still has bookings).
var ErrConflict = errors.New("conflict")
