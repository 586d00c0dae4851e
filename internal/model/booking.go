package model

import "time"

// Booking payment statuses.  A cancelled booking frees its seats; only
// non-cancelled bookings count towards seat occupancy.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// Booking records a customer's reservation against one showtime.  It
// aggregates one or more seats booked together and tracks the payment
// status and total amount.  BookingCode is a short human-shareable token
// used for self-service lookup; it is unique across all bookings.
//
// Fields:
//  ID            – primary key identifier.
//  ShowtimeID    – showtime being booked.
//  CustomerName  – contact name (required).
//  CustomerPhone – contact phone (required).
//  CustomerEmail – contact email (optional).
//  BookingCode   – unique lookup code, generated at creation.
//  TotalAmount   – charged total across all seats.
//  PaymentStatus – pending | paid | cancelled.
//  BookingDate   – when the booking was created.
type Booking struct {
	ID            uint64    `json:"id"`             // bookings.id
	ShowtimeID    uint64    `json:"showtime_id"`    // bookings.showtime_id
	CustomerName  string    `json:"customer_name"`  // bookings.customer_name
	CustomerPhone string    `json:"customer_phone"` // bookings.customer_phone
	CustomerEmail *string   `json:"customer_email,omitempty"`
	BookingCode   string    `json:"booking_code"`   // bookings.booking_code (unique)
	TotalAmount   float64   `json:"total_amount"`   // bookings.total_amount
	PaymentStatus string    `json:"payment_status"` // bookings.payment_status
	BookingDate   time.Time `json:"booking_date"`   // bookings.booking_date
}

// BookingDetail links a booking to one specific seat, carrying the price
// charged for that seat at booking time.
type BookingDetail struct {
	ID        uint64  `json:"id"`         // booking_details.id
	BookingID uint64  `json:"booking_id"` // booking_details.booking_id
	SeatID    uint64  `json:"seat_id"`    // booking_details.seat_id
	Price     float64 `json:"price"`      // booking_details.price
}
