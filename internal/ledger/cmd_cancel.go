package ledger

import (
	"context"
	"fmt"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ExecuteCancel cancels a confirmed booking and restores its seats, as the
// mirror image of ExecuteReserve.
//
// Steps, all within the caller's transaction:
//  1. Lock the booking row. A missing booking or an already-cancelled one
//     fails the unit; repeat cancellation is a caller error, not absorbed.
//  2. For each line item, lock the event row and increment available seats.
//     Restoration cannot fall short, but the lock still serializes against
//     concurrent reservations on the same event.
//  3. Flip the booking status to CANCELLED and record the outbox event.
func (e *Engine) ExecuteCancel(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID) (*domain.BookingProjection, error) {
	booking, err := e.bookings.LockForUpdate(ctx, tx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("lock booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound(bookingID.String())
	}
	if booking.Status == domain.BookingCancelled {
		return nil, domain.ErrBookingAlreadyCancelled(bookingID.String())
	}

	items, err := e.bookings.ListItems(ctx, tx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking items: %w", err)
	}

	for _, it := range items {
		if _, err := e.LockEventForUpdate(ctx, tx, it.EventID); err != nil {
			return nil, fmt.Errorf("cancel: %w", err)
		}
		if _, err := e.events.AdjustAvailable(ctx, tx, it.EventID, it.Quantity); err != nil {
			return nil, fmt.Errorf("cancel restore: %w", err)
		}
	}

	if err := e.bookings.UpdateStatus(ctx, tx, bookingID, domain.BookingCancelled); err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}
	booking.Status = domain.BookingCancelled

	projection := domain.NewBookingProjection(booking, items)

	if err := e.outbox.Insert(ctx, tx, domain.NewBookingCancelledEvent(projection)); err != nil {
		return nil, fmt.Errorf("cancel outbox: %w", err)
	}

	return projection, nil
}
