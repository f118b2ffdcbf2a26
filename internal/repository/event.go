package repository

import (
	"context"
	"fmt"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, name, venue, starts_at, total_seats, available_seats, created_at`

type eventRepo struct{}

// NewEventRepository returns a pgx-backed EventRepository.
func NewEventRepository() EventRepository {
	return &eventRepo{}
}

func (r *eventRepo) Create(ctx context.Context, db DBTX, event *domain.Event) error {
	_, err := db.Exec(ctx, `
		INSERT INTO events (id, name, venue, starts_at, total_seats, available_seats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.Name, event.Venue, event.StartsAt,
		event.TotalSeats, event.AvailableSeats, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Event, error) {
	row := db.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (r *eventRepo) List(ctx context.Context, db DBTX) ([]domain.Event, error) {
	rows, err := db.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY starts_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Venue, &e.StartsAt,
			&e.TotalSeats, &e.AvailableSeats, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LockForUpdate is the serialization point for all seat mutations: concurrent
// units targeting the same event queue here until the holder commits or aborts.
func (r *eventRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Event, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events WHERE id = $1 FOR UPDATE`, id)
	return scanEvent(row)
}

// AdjustAvailable uses server-side arithmetic so the decrement/increment is
// applied to the locked row value, never to a value read by the application.
func (r *eventRepo) AdjustAvailable(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) (*domain.Event, error) {
	row := tx.QueryRow(ctx, `
		UPDATE events
		SET available_seats = available_seats + $1
		WHERE id = $2
		RETURNING `+eventColumns, delta, id)
	return scanEvent(row)
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Name, &e.Venue, &e.StartsAt,
		&e.TotalSeats, &e.AvailableSeats, &e.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}
