package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a ticketed event row. AvailableSeats is the seat ledger:
// the only mutable shared state in the system, and it may only change inside
// a reservation or cancellation transaction holding the row lock.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Venue          string    `json:"venue"`
	StartsAt       time.Time `json:"starts_at"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// SoldOut reports whether no seats remain.
func (e *Event) SoldOut() bool {
	return e.AvailableSeats <= 0
}

// CreateEventParams holds the fields for provisioning a new event.
// Available seats always start equal to total seats.
type CreateEventParams struct {
	Name       string    `json:"name"`
	Venue      string    `json:"venue"`
	StartsAt   time.Time `json:"starts_at"`
	TotalSeats int       `json:"total_seats"`
}
