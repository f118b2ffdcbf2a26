//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// StaffToken generates a JWT for a staff user with the given role.
func (env *TestEnv) StaffToken(role string) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateToken(uuid.New(), "staff@test.com", role)
	if err != nil {
		env.t.Fatalf("StaffToken: %v", err)
	}
	return token
}

// SeedEvent inserts an event directly and returns its ID.
func (env *TestEnv) SeedEvent(name string, totalSeats, availableSeats int) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eventID := uuid.New()
	_, err := env.Pool.Exec(ctx, `
		INSERT INTO events (id, name, venue, starts_at, total_seats, available_seats)
		VALUES ($1, $2, 'Test Hall', $3, $4, $5)`,
		eventID, name, time.Now().Add(48*time.Hour), totalSeats, availableSeats)
	if err != nil {
		env.t.Fatalf("SeedEvent: %v", err)
	}
	return eventID
}

// EventAvailability reads available_seats and total_seats for an event.
func (env *TestEnv) EventAvailability(eventID uuid.UUID) (available, total int) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := env.Pool.QueryRow(ctx,
		"SELECT available_seats, total_seats FROM events WHERE id = $1", eventID).
		Scan(&available, &total)
	if err != nil {
		env.t.Fatalf("EventAvailability: %v", err)
	}
	return available, total
}

// CountBookings counts bookings with the given status.
func (env *TestEnv) CountBookings(status string) int {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM bookings WHERE status = $1", status).Scan(&n)
	if err != nil {
		env.t.Fatalf("CountBookings: %v", err)
	}
	return n
}

// CountOutbox counts outbox events of the given type.
func (env *TestEnv) CountOutbox(eventType string) int {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int
	err := env.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM event_outbox WHERE event_type = $1", eventType).Scan(&n)
	if err != nil {
		env.t.Fatalf("CountOutbox: %v", err)
	}
	return n
}

// DecodeBody decodes a JSON response body into dst and closes the body.
func (env *TestEnv) DecodeBody(resp *http.Response, dst interface{}) {
	env.t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		env.t.Fatalf("decode response: %v", err)
	}
}

// ErrorBody is the JSON error envelope returned by the API.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// DecodeError decodes an error response body and closes the body.
func (env *TestEnv) DecodeError(resp *http.Response) ErrorBody {
	env.t.Helper()
	var e ErrorBody
	env.DecodeBody(resp, &e)
	return e
}
