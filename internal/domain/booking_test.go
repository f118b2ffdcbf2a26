package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingProjection(t *testing.T) {
	booking := &Booking{
		ID:            uuid.New(),
		CustomerEmail: "alice@example.com",
		Status:        BookingConfirmed,
		CreatedAt:     time.Now().UTC(),
	}
	items := []BookingItem{
		{BookingID: booking.ID, EventID: uuid.New(), EventName: "Opening Night", Quantity: 2},
		{BookingID: booking.ID, EventID: uuid.New(), EventName: "Matinee", Quantity: 3},
	}

	p := NewBookingProjection(booking, items)

	assert.Equal(t, booking.ID, p.ID)
	assert.Equal(t, "alice@example.com", p.CustomerEmail)
	assert.Equal(t, BookingConfirmed, p.Status)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 5, p.TotalTickets)
}

func TestNewBookingProjection_NoItems(t *testing.T) {
	booking := &Booking{ID: uuid.New(), Status: BookingCancelled}
	p := NewBookingProjection(booking, nil)
	assert.Zero(t, p.TotalTickets)
	assert.Empty(t, p.Items)
}

func TestErrInsufficientSeats_Details(t *testing.T) {
	id := uuid.New().String()
	err := ErrInsufficientSeats(id, 3, 1)

	assert.Equal(t, "INSUFFICIENT_SEATS", err.Code)
	assert.Equal(t, 409, err.Status)
	assert.Equal(t, id, err.Details["event_id"])
	assert.Equal(t, 3, err.Details["requested"])
	assert.Equal(t, 1, err.Details["available"])
}
