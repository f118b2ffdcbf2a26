// Package notifier defines the capability consumed after a booking commits:
// anything that accepts a completed-booking message is pluggable here without
// touching the transaction engine.
package notifier

import (
	"context"
	"log/slog"

	"github.com/boxoffice/platform/internal/domain"
)

// Notifier accepts completed-booking messages. Implementations are
// best-effort: callers invoke them only after commit and discard failures.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.BookingProjection) error
	BookingCancelled(ctx context.Context, booking *domain.BookingProjection) error
}

// LogNotifier writes notifications to the structured log. It stands in for a
// real delivery channel (email, push) in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) BookingConfirmed(_ context.Context, booking *domain.BookingProjection) error {
	n.logger.Info("notify: booking confirmed",
		"booking_id", booking.ID,
		"customer_email", booking.CustomerEmail,
		"total_tickets", booking.TotalTickets,
	)
	return nil
}

func (n *LogNotifier) BookingCancelled(_ context.Context, booking *domain.BookingProjection) error {
	n.logger.Info("notify: booking cancelled",
		"booking_id", booking.ID,
		"customer_email", booking.CustomerEmail,
	)
	return nil
}
