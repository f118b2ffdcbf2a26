package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AggregateType identifies the aggregate an outbox event belongs to.
type AggregateType string

// EventType identifies the kind of outbox event.
type EventType string

const (
	AggregateBooking AggregateType = "booking"

	EventBookingConfirmed EventType = "booking_confirmed"
	EventBookingCancelled EventType = "booking_cancelled"
)

// OutboxDraft is an event written to the outbox table within the same
// transaction as the state change it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// OutboxRow is a persisted outbox event plus its sequence ID, used by the
// poller to mark batches published in order.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}

// NewBookingConfirmedEvent creates the outbox draft for a confirmed booking.
func NewBookingConfirmedEvent(p *BookingProjection) OutboxDraft {
	return newBookingEvent(EventBookingConfirmed, p)
}

// NewBookingCancelledEvent creates the outbox draft for a cancelled booking.
func NewBookingCancelledEvent(p *BookingProjection) OutboxDraft {
	return newBookingEvent(EventBookingCancelled, p)
}

func newBookingEvent(evtType EventType, p *BookingProjection) OutboxDraft {
	payload, _ := json.Marshal(p)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateBooking,
		AggregateID:   p.ID.String(),
		EventType:     evtType,
		PartitionKey:  p.ID.String(),
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
	}
}
