package domain

import "fmt"

// AppError is the base domain error type. Every domain conflict is one of a
// closed set of codes so call sites can switch on Code rather than matching
// message strings.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Status  int                    `json:"-"`
	Cause   error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrEventNotFound(eventID string) *AppError {
	return &AppError{
		Code:    "EVENT_NOT_FOUND",
		Message: fmt.Sprintf("event %s not found", eventID),
		Details: map[string]interface{}{"event_id": eventID},
		Status:  404,
	}
}

// ErrInsufficientSeats carries the requested and available counts so callers
// can explain the shortfall without another read.
func ErrInsufficientSeats(eventID string, requested, available int) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_SEATS",
		Message: fmt.Sprintf("event %s has %d seats available, %d requested", eventID, available, requested),
		Details: map[string]interface{}{
			"event_id":  eventID,
			"requested": requested,
			"available": available,
		},
		Status: 409,
	}
}

func ErrBookingNotFound(bookingID string) *AppError {
	return &AppError{
		Code:    "BOOKING_NOT_FOUND",
		Message: fmt.Sprintf("booking %s not found", bookingID),
		Details: map[string]interface{}{"booking_id": bookingID},
		Status:  404,
	}
}

func ErrBookingAlreadyCancelled(bookingID string) *AppError {
	return &AppError{
		Code:    "BOOKING_ALREADY_CANCELLED",
		Message: fmt.Sprintf("booking %s is already cancelled", bookingID),
		Details: map[string]interface{}{"booking_id": bookingID},
		Status:  409,
	}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrRateLimited(msg string) *AppError {
	return &AppError{Code: "RATE_LIMITED", Message: msg, Status: 429}
}

// ErrTransient marks infrastructure failures (lock timeout, deadlock abort)
// that are safe to retry: an aborted unit leaves no partial effect.
func ErrTransient(msg string, cause error) *AppError {
	return &AppError{Code: "TRANSIENT", Message: msg, Status: 503, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
