package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, customer_email, status, idempotency_key, created_at`

type bookingRepo struct{}

// NewBookingRepository returns a pgx-backed BookingRepository.
func NewBookingRepository() BookingRepository {
	return &bookingRepo{}
}

func (r *bookingRepo) Insert(ctx context.Context, tx pgx.Tx, booking *domain.Booking, items []domain.ReserveItem) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO bookings (id, customer_email, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		booking.ID, booking.CustomerEmail, string(booking.Status),
		booking.IdempotencyKey, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO booking_items (booking_id, event_id, quantity)
			VALUES ($1, $2, $3)`,
			booking.ID, it.EventID, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert booking item: %w", err)
		}
	}
	return nil
}

func (r *bookingRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Booking, error) {
	row := db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE id = $1`, id)
	return scanBooking(row)
}

func (r *bookingRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Booking, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE id = $1 FOR UPDATE`, id)
	return scanBooking(row)
}

func (r *bookingRepo) FindByIdempotencyKey(ctx context.Context, db DBTX, key string) (*domain.Booking, error) {
	row := db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings WHERE idempotency_key = $1`, key)
	return scanBooking(row)
}

func (r *bookingRepo) ListItems(ctx context.Context, db DBTX, bookingID uuid.UUID) ([]domain.BookingItem, error) {
	rows, err := db.Query(ctx, `
		SELECT bi.booking_id, bi.event_id, e.name, bi.quantity
		FROM booking_items bi
		JOIN events e ON e.id = bi.event_id
		WHERE bi.booking_id = $1
		ORDER BY bi.id ASC`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("query booking items: %w", err)
	}
	defer rows.Close()

	var items []domain.BookingItem
	for rows.Next() {
		var it domain.BookingItem
		if err := rows.Scan(&it.BookingID, &it.EventID, &it.EventName, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan booking item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.BookingStatus) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update booking status: booking %s not found", id)
	}
	return nil
}

func (r *bookingRepo) List(ctx context.Context, db DBTX, filter domain.BookingFilter, page, limit int) ([]domain.Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	where := []string{}
	args := []interface{}{}
	argIdx := 1

	if filter.CustomerEmail != "" {
		where = append(where, fmt.Sprintf("customer_email = $%d", argIdx))
		args = append(args, filter.CustomerEmail)
		argIdx++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(filter.Status))
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM bookings %s`, whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, bookingColumns, whereClause, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.CustomerEmail, &b.Status, &b.IdempotencyKey, &b.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.CustomerEmail, &b.Status, &b.IdempotencyKey, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}
