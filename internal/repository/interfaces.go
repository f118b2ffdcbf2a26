package repository

import (
	"context"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// EventRepository provides access to the events table (the seat ledger).
type EventRepository interface {
	// Create inserts a new event with available_seats = total_seats.
	Create(ctx context.Context, db DBTX, event *domain.Event) error

	// FindByID returns an event, or nil if it does not exist.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Event, error)

	// List returns all events ordered soonest-first.
	List(ctx context.Context, db DBTX) ([]domain.Event, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns
	// the event, or nil if it does not exist. Blocks until the lock is free.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Event, error)

	// AdjustAvailable applies a signed delta to available_seats using
	// server-side arithmetic and returns the updated row. The caller must
	// already hold the row lock.
	AdjustAvailable(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) (*domain.Event, error)
}

// BookingRepository provides access to bookings and booking_items.
type BookingRepository interface {
	// Insert creates a booking and its line items. The idempotency key, when
	// present, hits a unique index so a duplicate insert fails loudly.
	Insert(ctx context.Context, tx pgx.Tx, booking *domain.Booking, items []domain.ReserveItem) error

	// FindByID returns a booking, or nil if it does not exist.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Booking, error)

	// LockForUpdate acquires a row-level lock on the booking and returns it,
	// or nil if it does not exist.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Booking, error)

	// FindByIdempotencyKey returns the booking created with the given key,
	// or nil if the key has never been seen.
	FindByIdempotencyKey(ctx context.Context, db DBTX, key string) (*domain.Booking, error)

	// ListItems returns the booking's line items joined with event names.
	ListItems(ctx context.Context, db DBTX, bookingID uuid.UUID) ([]domain.BookingItem, error)

	// UpdateStatus flips the booking status. The caller must hold the row lock.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.BookingStatus) error

	// List returns a page of bookings newest-first plus the total match count.
	List(ctx context.Context, db DBTX, filter domain.BookingFilter, page, limit int) ([]domain.Booking, int, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// state change it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events oldest-first.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished marks the given sequence IDs as published.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
