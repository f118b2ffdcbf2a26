// Package ledger implements the seat-reservation transaction engine. All seat
// arithmetic happens here, inside a caller-supplied pgx transaction, under
// row-level locks on the events being booked.
package ledger

import (
	"context"
	"fmt"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/boxoffice/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Engine provides the foundational reservation operations:
//  1. LockEventForUpdate — row-level pessimistic lock on the seat ledger
//  2. FindExistingBooking — idempotency check
//  3. ExecuteReserve / ExecuteCancel — the atomic commands built on them
type Engine struct {
	events   repository.EventRepository
	bookings repository.BookingRepository
	outbox   repository.OutboxRepository
}

// NewEngine creates a reservation engine with the given repositories.
func NewEngine(
	events repository.EventRepository,
	bookings repository.BookingRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		events:   events,
		bookings: bookings,
		outbox:   outbox,
	}
}

// LockEventForUpdate acquires a row-level lock and returns the event.
// Must be called within a transaction. The lock is held until the
// transaction commits or aborts; it is never released early.
func (e *Engine) LockEventForUpdate(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (*domain.Event, error) {
	event, err := e.events.LockForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, fmt.Errorf("lock event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound(eventID.String())
	}
	return event, nil
}

// FindExistingBooking checks whether a booking with the given idempotency key
// already exists and, if so, returns its current projection. Returns nil when
// the key has never been seen.
func (e *Engine) FindExistingBooking(ctx context.Context, tx pgx.Tx, key string) (*domain.BookingProjection, error) {
	booking, err := e.bookings.FindByIdempotencyKey(ctx, tx, key)
	if err != nil {
		return nil, fmt.Errorf("find existing booking: %w", err)
	}
	if booking == nil {
		return nil, nil
	}
	return e.project(ctx, tx, booking)
}

// project assembles the read shape for a booking from rows visible to the
// current transaction.
func (e *Engine) project(ctx context.Context, tx pgx.Tx, booking *domain.Booking) (*domain.BookingProjection, error) {
	items, err := e.bookings.ListItems(ctx, tx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("list booking items: %w", err)
	}
	return domain.NewBookingProjection(booking, items), nil
}
