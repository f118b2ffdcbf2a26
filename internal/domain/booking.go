package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus enumerates the booking lifecycle states. The only legal
// transition is CONFIRMED -> CANCELLED; CANCELLED is terminal.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking represents a bookings row. Bookings are never deleted; cancellation
// flips the status and restores seats.
type Booking struct {
	ID             uuid.UUID     `json:"id"`
	CustomerEmail  string        `json:"customer_email"`
	Status         BookingStatus `json:"status"`
	IdempotencyKey *string       `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// BookingItem is one line of a booking, joined with the event name for
// projection purposes. (booking_id, event_id) pairs are unique, and quantity
// is immutable once written.
type BookingItem struct {
	BookingID uuid.UUID `json:"-"`
	EventID   uuid.UUID `json:"event_id"`
	EventName string    `json:"event_name"`
	Quantity  int       `json:"quantity"`
}

// BookingProjection is the read shape returned to callers for every booking
// operation, idempotent replays included.
type BookingProjection struct {
	ID            uuid.UUID     `json:"id"`
	CustomerEmail string        `json:"customer_email"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	Items         []BookingItem `json:"items"`
	TotalTickets  int           `json:"total_tickets"`
}

// NewBookingProjection assembles the projection for a booking and its items.
func NewBookingProjection(b *Booking, items []BookingItem) *BookingProjection {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return &BookingProjection{
		ID:            b.ID,
		CustomerEmail: b.CustomerEmail,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		Items:         items,
		TotalTickets:  total,
	}
}

// BookingFilter narrows booking listings. Zero values mean "no filter".
type BookingFilter struct {
	CustomerEmail string
	Status        BookingStatus
}

// GuardResult is the outcome of a pre-transaction guard check (rate limiting).
type GuardResult struct {
	Allowed bool
	Reason  string
	Guard   string
}
