package handler

import (
	"net/http"
	"strconv"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/boxoffice/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// BookingHandler handles reservation, cancellation, and booking read endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBooking handles POST /bookings. An idempotent replay returns the
// original booking with 200 instead of 201.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var input service.ReserveInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.bookings.Reserve(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}
	RespondJSON(w, status, result.Booking)
}

// CancelBooking handles POST /bookings/{bookingID}/cancel.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	projection, err := h.bookings.Cancel(r.Context(), bookingID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, projection)
}

// GetBooking handles GET /bookings/{bookingID}.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := bookingIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	projection, err := h.bookings.GetBooking(r.Context(), bookingID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, projection)
}

// ListBookings handles GET /bookings with optional email/status filters and
// offset pagination.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := domain.BookingFilter{
		CustomerEmail: r.URL.Query().Get("email"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status, err := domain.ValidateBookingStatus(s)
		if err != nil {
			RespondError(w, domain.ErrValidation(err.Error()))
			return
		}
		filter.Status = status
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	result, err := h.bookings.ListBookings(r.Context(), filter, page, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

func bookingIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "bookingID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid booking id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
