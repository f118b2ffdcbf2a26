package handler

import (
	"net/http"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/boxoffice/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// EventHandler handles event read and provisioning endpoints.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListEvents handles GET /events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// GetEvent handles GET /events/{eventID}.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "eventID")
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid event id"))
		return
	}

	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, event)
}

// CreateEvent handles POST /admin/events (staff only).
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var params domain.CreateEventParams
	if err := DecodeJSON(r, &params); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	event, err := h.events.CreateEvent(r.Context(), params)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, event)
}
