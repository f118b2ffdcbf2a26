package domain

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

const (
	// MaxItemsPerBooking caps how many distinct events one booking may cover.
	MaxItemsPerBooking = 20
	// MinQuantity / MaxQuantity bound the per-event ticket count.
	MinQuantity = 1
	MaxQuantity = 3
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ReserveItem is one (event, quantity) pair of a reservation request.
type ReserveItem struct {
	EventID  uuid.UUID `json:"event_id"`
	Quantity int       `json:"quantity"`
}

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateReserveItems enforces the request-shape invariants the reservation
// engine assumes: non-empty, bounded size, quantities in [1,3], and no
// duplicate event IDs. Duplicates are rejected here, before any lock is taken,
// which also guarantees a unit can never deadlock against itself.
func ValidateReserveItems(items []ReserveItem) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	if len(items) > MaxItemsPerBooking {
		return fmt.Errorf("at most %d items per booking, got %d", MaxItemsPerBooking, len(items))
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for i, it := range items {
		if it.EventID == uuid.Nil {
			return fmt.Errorf("item %d: event_id is required", i)
		}
		if it.Quantity < MinQuantity || it.Quantity > MaxQuantity {
			return fmt.Errorf("item %d: quantity must be between %d and %d, got %d", i, MinQuantity, MaxQuantity, it.Quantity)
		}
		if seen[it.EventID] {
			return fmt.Errorf("item %d: duplicate event %s", i, it.EventID)
		}
		seen[it.EventID] = true
	}
	return nil
}

// ValidateCreateEvent checks event provisioning input.
func ValidateCreateEvent(p CreateEventParams) error {
	if p.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if p.Venue == "" {
		return fmt.Errorf("venue is required")
	}
	if p.StartsAt.IsZero() {
		return fmt.Errorf("starts_at is required")
	}
	if p.TotalSeats <= 0 {
		return fmt.Errorf("total_seats must be positive, got %d", p.TotalSeats)
	}
	if p.TotalSeats > 100_000 {
		return fmt.Errorf("total_seats cannot exceed 100000")
	}
	return nil
}

// ValidateBookingStatus checks a status filter value from the query string.
func ValidateBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingConfirmed, BookingCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("invalid status %q, want CONFIRMED or CANCELLED", s)
	}
}
