package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/boxoffice/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventService handles event provisioning and read paths. Provisioning is the
// only way events come into existence; the reservation core never creates or
// destroys them.
type EventService struct {
	pool   *pgxpool.Pool
	events repository.EventRepository
	logger *slog.Logger
}

// NewEventService creates an EventService.
func NewEventService(pool *pgxpool.Pool, events repository.EventRepository, logger *slog.Logger) *EventService {
	return &EventService{pool: pool, events: events, logger: logger}
}

// CreateEvent provisions a new event with all seats available.
func (s *EventService) CreateEvent(ctx context.Context, params domain.CreateEventParams) (*domain.Event, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Venue = strings.TrimSpace(params.Venue)
	if err := domain.ValidateCreateEvent(params); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	event := &domain.Event{
		ID:             uuid.New(),
		Name:           params.Name,
		Venue:          params.Venue,
		StartsAt:       params.StartsAt,
		TotalSeats:     params.TotalSeats,
		AvailableSeats: params.TotalSeats,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.events.Create(ctx, s.pool, event); err != nil {
		return nil, domain.ErrInternal("create event", err)
	}

	s.logger.Info("event created", "event_id", event.ID, "name", event.Name, "total_seats", event.TotalSeats)
	return event, nil
}

// ListEvents returns all events, soonest first.
func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list events", err)
	}
	return events, nil
}

// GetEvent returns a single event.
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find event", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound(id.String())
	}
	return event, nil
}
