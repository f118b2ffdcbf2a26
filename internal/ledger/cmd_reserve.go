package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReserveParams holds a validated reservation request. The caller guarantees
// items are non-empty, quantities are within bounds, and event IDs are unique.
type ReserveParams struct {
	CustomerEmail  string
	Items          []domain.ReserveItem
	IdempotencyKey string
}

// ReserveResult is the outcome of ExecuteReserve. Idempotent is true when the
// request was short-circuited by a previously-seen idempotency key.
type ReserveResult struct {
	Booking    *domain.BookingProjection
	Idempotent bool
}

// ExecuteReserve reserves seats for one or more events as a single atomic unit.
//
// Steps, all within the caller's transaction:
//  1. Idempotency short-circuit: a previously-seen key returns the original
//     booking untouched, before any lock is taken.
//  2. Lock-and-validate: lock each event row FOR UPDATE in the order
//     submitted, failing the whole unit on a missing event or a shortfall.
//  3. Mutation: only after every item validated, decrement each event's
//     available seats. A shortfall on the Nth event therefore discards
//     effects on the first N-1 when the transaction aborts.
//  4. Record: insert the booking (CONFIRMED), its line items, and the
//     booking-confirmed outbox event.
//
// Locks release atomically with the caller's commit or rollback.
func (e *Engine) ExecuteReserve(ctx context.Context, tx pgx.Tx, params ReserveParams) (*ReserveResult, error) {
	// Idempotency check
	if params.IdempotencyKey != "" {
		existing, err := e.FindExistingBooking(ctx, tx, params.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ReserveResult{Booking: existing, Idempotent: true}, nil
		}
	}

	// Lock-and-validate phase
	lockedNames := make(map[uuid.UUID]string, len(params.Items))
	for _, it := range params.Items {
		event, err := e.LockEventForUpdate(ctx, tx, it.EventID)
		if err != nil {
			return nil, fmt.Errorf("reserve: %w", err)
		}
		if event.AvailableSeats < it.Quantity {
			return nil, domain.ErrInsufficientSeats(it.EventID.String(), it.Quantity, event.AvailableSeats)
		}
		lockedNames[it.EventID] = event.Name
	}

	// Mutation phase
	for _, it := range params.Items {
		if _, err := e.events.AdjustAvailable(ctx, tx, it.EventID, -it.Quantity); err != nil {
			return nil, fmt.Errorf("reserve decrement: %w", err)
		}
	}

	// Record phase
	booking := &domain.Booking{
		ID:            uuid.New(),
		CustomerEmail: params.CustomerEmail,
		Status:        domain.BookingConfirmed,
		CreatedAt:     time.Now().UTC(),
	}
	if params.IdempotencyKey != "" {
		key := params.IdempotencyKey
		booking.IdempotencyKey = &key
	}
	if err := e.bookings.Insert(ctx, tx, booking, params.Items); err != nil {
		return nil, fmt.Errorf("reserve insert: %w", err)
	}

	items := make([]domain.BookingItem, 0, len(params.Items))
	for _, it := range params.Items {
		items = append(items, domain.BookingItem{
			BookingID: booking.ID,
			EventID:   it.EventID,
			EventName: lockedNames[it.EventID],
			Quantity:  it.Quantity,
		})
	}
	projection := domain.NewBookingProjection(booking, items)

	if err := e.outbox.Insert(ctx, tx, domain.NewBookingConfirmedEvent(projection)); err != nil {
		return nil, fmt.Errorf("reserve outbox: %w", err)
	}

	return &ReserveResult{Booking: projection}, nil
}
