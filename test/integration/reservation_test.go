//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/boxoffice/platform/test/integration/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingBody struct {
	ID            uuid.UUID `json:"id"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	Items         []struct {
		EventID   uuid.UUID `json:"event_id"`
		EventName string    `json:"event_name"`
		Quantity  int       `json:"quantity"`
	} `json:"items"`
	TotalTickets int `json:"total_tickets"`
}

func reserveBody(email string, items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"customer_email": email,
		"items":          items,
	}
}

func item(eventID uuid.UUID, qty int) map[string]interface{} {
	return map[string]interface{}{"event_id": eventID, "quantity": qty}
}

// ─── Reserve ───────────────────────────────────────────────────────────────

func TestReserve_DecrementsAvailability(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Opening Night", 100, 100)

	resp := env.POST("/bookings", reserveBody("alice@test.com", item(eventID, 3)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var booking bookingBody
	env.DecodeBody(resp, &booking)
	assert.Equal(t, "CONFIRMED", booking.Status)
	assert.Equal(t, 3, booking.TotalTickets)
	require.Len(t, booking.Items, 1)
	assert.Equal(t, "Opening Night", booking.Items[0].EventName)

	available, total := env.EventAvailability(eventID)
	assert.Equal(t, 97, available)
	assert.Equal(t, 100, total)
}

func TestReserve_MultiEvent(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventA := env.SeedEvent("Matinee", 50, 50)
	eventB := env.SeedEvent("Late Show", 50, 50)

	resp := env.POST("/bookings", reserveBody("bob@test.com", item(eventA, 2), item(eventB, 3)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var booking bookingBody
	env.DecodeBody(resp, &booking)
	assert.Equal(t, 5, booking.TotalTickets)
	assert.Len(t, booking.Items, 2)

	availA, _ := env.EventAvailability(eventA)
	availB, _ := env.EventAvailability(eventB)
	assert.Equal(t, 48, availA)
	assert.Equal(t, 47, availB)
}

func TestReserve_InsufficientSeats(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Tiny Venue", 10, 2)

	resp := env.POST("/bookings", reserveBody("carol@test.com", item(eventID, 3)), "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	errBody := env.DecodeError(resp)
	assert.Equal(t, "INSUFFICIENT_SEATS", errBody.Code)
	assert.Equal(t, eventID.String(), errBody.Details["event_id"])
	assert.Equal(t, float64(3), errBody.Details["requested"])
	assert.Equal(t, float64(2), errBody.Details["available"])

	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 2, available)
	assert.Equal(t, 0, env.CountBookings("CONFIRMED"))
}

func TestReserve_AllOrNothing(t *testing.T) {
	env := testutil.NewTestEnv(t)
	plenty := env.SeedEvent("Big Hall", 100, 100)
	scarce := env.SeedEvent("Sold Down", 10, 1)

	resp := env.POST("/bookings", reserveBody("dave@test.com", item(plenty, 2), item(scarce, 2)), "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	errBody := env.DecodeError(resp)
	assert.Equal(t, "INSUFFICIENT_SEATS", errBody.Code)

	// The sufficient event must be untouched: the unit rolled back whole.
	availPlenty, _ := env.EventAvailability(plenty)
	availScarce, _ := env.EventAvailability(scarce)
	assert.Equal(t, 100, availPlenty)
	assert.Equal(t, 1, availScarce)
	assert.Equal(t, 0, env.CountBookings("CONFIRMED"))
}

func TestReserve_UnknownEvent(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST("/bookings", reserveBody("erin@test.com", item(uuid.New(), 1)), "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	errBody := env.DecodeError(resp)
	assert.Equal(t, "EVENT_NOT_FOUND", errBody.Code)
}

func TestReserve_DuplicateEventRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Encore", 50, 50)

	resp := env.POST("/bookings",
		reserveBody("frank@test.com", item(eventID, 1), item(eventID, 2)), "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := env.DecodeError(resp)
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)

	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 50, available)
}

func TestReserve_QuantityBounds(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Limits", 50, 50)

	for _, qty := range []int{0, 4, -1} {
		resp := env.POST("/bookings", reserveBody("gina@test.com", item(eventID, qty)), "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "quantity %d", qty)
		resp.Body.Close()
	}

	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 50, available)
}

func TestReserve_WritesOutboxEvent(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Outboxed", 20, 20)

	resp := env.POST("/bookings", reserveBody("hank@test.com", item(eventID, 1)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 1, env.CountOutbox("booking_confirmed"))
}

// ─── Concurrency ───────────────────────────────────────────────────────────

func TestReserve_ConcurrentNoOversell(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Hot Ticket", 2, 2)

	const attempts = 10
	statuses := make([]int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := env.POST("/bookings",
				reserveBody(fmt.Sprintf("racer%d@test.com", i), item(eventID, 1)), "")
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, s := range statuses {
		switch s {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	assert.Equal(t, 2, created)
	assert.Equal(t, 8, conflicted)

	available, total := env.EventAvailability(eventID)
	assert.Equal(t, 0, available)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, env.CountBookings("CONFIRMED"))
}

// ─── Idempotency ───────────────────────────────────────────────────────────

func TestReserve_IdempotentReplay(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Replayed", 10, 10)

	body := reserveBody("ida@test.com", item(eventID, 2))
	body["idempotency_key"] = "client-key-001"

	first := env.POST("/bookings", body, "")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	var b1 bookingBody
	env.DecodeBody(first, &b1)

	second := env.POST("/bookings", body, "")
	require.Equal(t, http.StatusOK, second.StatusCode)
	var b2 bookingBody
	env.DecodeBody(second, &b2)

	assert.Equal(t, b1.ID, b2.ID)
	assert.Equal(t, b1.TotalTickets, b2.TotalTickets)

	// Seats decremented exactly once.
	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 8, available)
	assert.Equal(t, 1, env.CountBookings("CONFIRMED"))
	assert.Equal(t, 1, env.CountOutbox("booking_confirmed"))
}

func TestReserve_DistinctKeysDistinctBookings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Keyed", 10, 10)

	bodyA := reserveBody("jon@test.com", item(eventID, 1))
	bodyA["idempotency_key"] = "key-a"
	bodyB := reserveBody("jon@test.com", item(eventID, 1))
	bodyB["idempotency_key"] = "key-b"

	respA := env.POST("/bookings", bodyA, "")
	require.Equal(t, http.StatusCreated, respA.StatusCode)
	var bA bookingBody
	env.DecodeBody(respA, &bA)

	respB := env.POST("/bookings", bodyB, "")
	require.Equal(t, http.StatusCreated, respB.StatusCode)
	var bB bookingBody
	env.DecodeBody(respB, &bB)

	assert.NotEqual(t, bA.ID, bB.ID)
	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 8, available)
}

// ─── Cancel ────────────────────────────────────────────────────────────────

func TestCancel_RestoresSeats(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Refundable", 10, 10)

	resp := env.POST("/bookings", reserveBody("kate@test.com", item(eventID, 3)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var booking bookingBody
	env.DecodeBody(resp, &booking)

	available, _ := env.EventAvailability(eventID)
	require.Equal(t, 7, available)

	cancelResp := env.POST(fmt.Sprintf("/bookings/%s/cancel", booking.ID), nil, "")
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	var cancelled bookingBody
	env.DecodeBody(cancelResp, &cancelled)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	available, _ = env.EventAvailability(eventID)
	assert.Equal(t, 10, available)
	assert.Equal(t, 1, env.CountOutbox("booking_cancelled"))
}

func TestCancel_SecondCancelFails(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Once Only", 10, 10)

	resp := env.POST("/bookings", reserveBody("liam@test.com", item(eventID, 2)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var booking bookingBody
	env.DecodeBody(resp, &booking)

	first := env.POST(fmt.Sprintf("/bookings/%s/cancel", booking.ID), nil, "")
	require.Equal(t, http.StatusOK, first.StatusCode)
	first.Body.Close()

	second := env.POST(fmt.Sprintf("/bookings/%s/cancel", booking.ID), nil, "")
	require.Equal(t, http.StatusConflict, second.StatusCode)
	errBody := env.DecodeError(second)
	assert.Equal(t, "BOOKING_ALREADY_CANCELLED", errBody.Code)

	// Seats restored exactly once.
	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 10, available)
}

func TestCancel_UnknownBooking(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST(fmt.Sprintf("/bookings/%s/cancel", uuid.New()), nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errBody := env.DecodeError(resp)
	assert.Equal(t, "BOOKING_NOT_FOUND", errBody.Code)
}

func TestCancel_ThenRebook(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Last Seat", 1, 1)

	resp := env.POST("/bookings", reserveBody("mona@test.com", item(eventID, 1)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var booking bookingBody
	env.DecodeBody(resp, &booking)

	blocked := env.POST("/bookings", reserveBody("nate@test.com", item(eventID, 1)), "")
	require.Equal(t, http.StatusConflict, blocked.StatusCode)
	blocked.Body.Close()

	cancelResp := env.POST(fmt.Sprintf("/bookings/%s/cancel", booking.ID), nil, "")
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	cancelResp.Body.Close()

	rebook := env.POST("/bookings", reserveBody("nate@test.com", item(eventID, 1)), "")
	assert.Equal(t, http.StatusCreated, rebook.StatusCode)
	rebook.Body.Close()

	available, _ := env.EventAvailability(eventID)
	assert.Equal(t, 0, available)
}

// ─── Reads ─────────────────────────────────────────────────────────────────

func TestGetBooking_ReturnsProjection(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Readable", 10, 10)

	resp := env.POST("/bookings", reserveBody("olga@test.com", item(eventID, 2)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created bookingBody
	env.DecodeBody(resp, &created)

	getResp := env.GET(fmt.Sprintf("/bookings/%s", created.ID))
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var fetched bookingBody
	env.DecodeBody(getResp, &fetched)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "olga@test.com", fetched.CustomerEmail)
	assert.Equal(t, 2, fetched.TotalTickets)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Readable", fetched.Items[0].EventName)
}

func TestListBookings_FilterAndPaginate(t *testing.T) {
	env := testutil.NewTestEnv(t)
	eventID := env.SeedEvent("Listed", 100, 100)

	for i := 0; i < 3; i++ {
		resp := env.POST("/bookings", reserveBody("pam@test.com", item(eventID, 1)), "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	resp := env.POST("/bookings", reserveBody("quinn@test.com", item(eventID, 1)), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	listResp := env.GET("/bookings?email=pam@test.com&page=1&limit=2")
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var page struct {
		Bookings []bookingBody `json:"bookings"`
		Page     int           `json:"page"`
		Limit    int           `json:"limit"`
		Total    int           `json:"total"`
	}
	env.DecodeBody(listResp, &page)
	assert.Len(t, page.Bookings, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 3, page.Total)
	for _, b := range page.Bookings {
		assert.Equal(t, "pam@test.com", b.CustomerEmail)
	}
}
