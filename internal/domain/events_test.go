package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingConfirmedEvent(t *testing.T) {
	p := NewBookingProjection(&Booking{
		ID:            uuid.New(),
		CustomerEmail: "alice@example.com",
		Status:        BookingConfirmed,
		CreatedAt:     time.Now().UTC(),
	}, []BookingItem{{EventID: uuid.New(), EventName: "Opening Night", Quantity: 2}})

	draft := NewBookingConfirmedEvent(p)

	assert.Equal(t, AggregateBooking, draft.AggregateType)
	assert.Equal(t, EventBookingConfirmed, draft.EventType)
	assert.Equal(t, p.ID.String(), draft.AggregateID)
	assert.Equal(t, p.ID.String(), draft.PartitionKey)
	assert.NotEqual(t, uuid.Nil, draft.EventID)

	var decoded BookingProjection
	require.NoError(t, json.Unmarshal(draft.Payload, &decoded))
	assert.Equal(t, p.ID, decoded.ID)
	assert.Equal(t, 2, decoded.TotalTickets)
}

func TestNewBookingCancelledEvent(t *testing.T) {
	p := NewBookingProjection(&Booking{ID: uuid.New(), Status: BookingCancelled}, nil)

	draft := NewBookingCancelledEvent(p)
	assert.Equal(t, EventBookingCancelled, draft.EventType)
	assert.Equal(t, p.ID.String(), draft.AggregateID)
}
