package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/boxoffice/platform/internal/ledger"
	"github.com/boxoffice/platform/internal/notifier"
	"github.com/boxoffice/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// unitTimeout bounds how long a reservation or cancellation unit may hold its
// row locks. A stalled unit aborts with all effects discarded rather than
// blocking every other request on the same events.
const unitTimeout = 5 * time.Second

// Postgres error codes mapped to retryable transient failures.
const (
	pgDeadlockDetected = "40P01"
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
)

// BookingService orchestrates reservation and cancellation units.
type BookingService struct {
	pool     *pgxpool.Pool
	engine   *ledger.Engine
	bookings repository.BookingRepository
	notifier notifier.Notifier
	logger   *slog.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	bookings repository.BookingRepository,
	n notifier.Notifier,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		pool:     pool,
		engine:   engine,
		bookings: bookings,
		notifier: n,
		logger:   logger,
	}
}

// ReserveInput holds the reservation request.
type ReserveInput struct {
	CustomerEmail  string               `json:"customer_email"`
	Items          []domain.ReserveItem `json:"items"`
	IdempotencyKey string               `json:"idempotency_key,omitempty"`
}

// ReserveOutput is the reservation outcome returned to handlers.
type ReserveOutput struct {
	Booking    *domain.BookingProjection
	Idempotent bool
}

// Reserve validates the request and runs the reservation unit: one pgx
// transaction bounded by unitTimeout. On success the booking is durable before
// the post-commit notification is attempted; notification failure is logged
// and swallowed, never surfaced.
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*ReserveOutput, error) {
	if err := domain.ValidateEmail(input.CustomerEmail); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateReserveItems(input.Items); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, unitTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteReserve(ctx, tx, ledger.ReserveParams{
		CustomerEmail:  input.CustomerEmail,
		Items:          input.Items,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		return nil, mapUnitError("reserve", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapUnitError("reserve commit", err)
	}

	if !result.Idempotent {
		s.logger.Info("booking confirmed",
			"booking_id", result.Booking.ID,
			"customer_email", result.Booking.CustomerEmail,
			"total_tickets", result.Booking.TotalTickets,
		)
		s.notify(ctx, s.notifier.BookingConfirmed, result.Booking)
	}

	return &ReserveOutput{Booking: result.Booking, Idempotent: result.Idempotent}, nil
}

// Cancel runs the cancellation unit with the same timeout discipline as
// Reserve. A second cancel of the same booking fails BOOKING_ALREADY_CANCELLED.
func (s *BookingService) Cancel(ctx context.Context, bookingID uuid.UUID) (*domain.BookingProjection, error) {
	ctx, cancel := context.WithTimeout(ctx, unitTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	projection, err := s.engine.ExecuteCancel(ctx, tx, bookingID)
	if err != nil {
		return nil, mapUnitError("cancel", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapUnitError("cancel commit", err)
	}

	s.logger.Info("booking cancelled", "booking_id", bookingID)
	s.notify(ctx, s.notifier.BookingCancelled, projection)

	return projection, nil
}

// GetBooking returns the projection of a single booking.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.BookingProjection, error) {
	booking, err := s.bookings.FindByID(ctx, s.pool, bookingID)
	if err != nil {
		return nil, domain.ErrInternal("find booking", err)
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound(bookingID.String())
	}

	items, err := s.bookings.ListItems(ctx, s.pool, bookingID)
	if err != nil {
		return nil, domain.ErrInternal("list booking items", err)
	}
	return domain.NewBookingProjection(booking, items), nil
}

// BookingPage is one page of booking projections plus pagination metadata.
type BookingPage struct {
	Bookings []domain.BookingProjection `json:"bookings"`
	Page     int                        `json:"page"`
	Limit    int                        `json:"limit"`
	Total    int                        `json:"total"`
}

// ListBookings returns a newest-first page of bookings matching the filter.
// This is a plain committed read; no locks are taken and the availability it
// reflects is for display only.
func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter, page, limit int) (*BookingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	bookings, total, err := s.bookings.List(ctx, s.pool, filter, page, limit)
	if err != nil {
		return nil, domain.ErrInternal("list bookings", err)
	}

	projections := make([]domain.BookingProjection, 0, len(bookings))
	for i := range bookings {
		items, err := s.bookings.ListItems(ctx, s.pool, bookings[i].ID)
		if err != nil {
			return nil, domain.ErrInternal("list booking items", err)
		}
		projections = append(projections, *domain.NewBookingProjection(&bookings[i], items))
	}

	return &BookingPage{
		Bookings: projections,
		Page:     page,
		Limit:    limit,
		Total:    total,
	}, nil
}

// notify dispatches a post-commit notification. Failures are logged and
// discarded; they never affect the committed booking or the caller's result.
func (s *BookingService) notify(ctx context.Context, fn func(context.Context, *domain.BookingProjection) error, p *domain.BookingProjection) {
	if err := fn(context.WithoutCancel(ctx), p); err != nil {
		s.logger.Error("notification failed", "booking_id", p.ID, "error", err)
	}
}

// mapUnitError classifies a failure inside an atomic unit. Domain conflicts
// pass through; deadlock aborts, lock timeouts, and unit-timeout cancellations
// become transient errors the caller may safely retry.
func mapUnitError(op string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTransient(fmt.Sprintf("%s: unit timed out", op), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return domain.ErrTransient(fmt.Sprintf("%s: aborted by the store", op), err)
		}
	}

	return domain.ErrInternal(op, err)
}
