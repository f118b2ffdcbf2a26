package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateReserveItems_Empty(t *testing.T) {
	assert.Error(t, ValidateReserveItems(nil))
	assert.Error(t, ValidateReserveItems([]ReserveItem{}))
}

func TestValidateReserveItems_QuantityBounds(t *testing.T) {
	id := uuid.New()
	assert.NoError(t, ValidateReserveItems([]ReserveItem{{EventID: id, Quantity: 1}}))
	assert.NoError(t, ValidateReserveItems([]ReserveItem{{EventID: id, Quantity: 3}}))
	assert.Error(t, ValidateReserveItems([]ReserveItem{{EventID: id, Quantity: 0}}))
	assert.Error(t, ValidateReserveItems([]ReserveItem{{EventID: id, Quantity: 4}}))
	assert.Error(t, ValidateReserveItems([]ReserveItem{{EventID: id, Quantity: -1}}))
}

func TestValidateReserveItems_DuplicateEvent(t *testing.T) {
	id := uuid.New()
	err := ValidateReserveItems([]ReserveItem{
		{EventID: id, Quantity: 1},
		{EventID: uuid.New(), Quantity: 2},
		{EventID: id, Quantity: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate event")
}

func TestValidateReserveItems_NilEventID(t *testing.T) {
	assert.Error(t, ValidateReserveItems([]ReserveItem{{Quantity: 1}}))
}

func TestValidateReserveItems_TooMany(t *testing.T) {
	items := make([]ReserveItem, MaxItemsPerBooking+1)
	for i := range items {
		items[i] = ReserveItem{EventID: uuid.New(), Quantity: 1}
	}
	assert.Error(t, ValidateReserveItems(items))

	assert.NoError(t, ValidateReserveItems(items[:MaxItemsPerBooking]))
}

func TestValidateCreateEvent(t *testing.T) {
	valid := CreateEventParams{
		Name:       "Go Conference",
		Venue:      "Main Hall",
		StartsAt:   time.Now().Add(24 * time.Hour),
		TotalSeats: 100,
	}
	assert.NoError(t, ValidateCreateEvent(valid))

	missing := valid
	missing.Name = ""
	assert.Error(t, ValidateCreateEvent(missing))

	noSeats := valid
	noSeats.TotalSeats = 0
	assert.Error(t, ValidateCreateEvent(noSeats))

	huge := valid
	huge.TotalSeats = 200_000
	assert.Error(t, ValidateCreateEvent(huge))
}

func TestValidateBookingStatus(t *testing.T) {
	status, err := ValidateBookingStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, status)

	status, err = ValidateBookingStatus("CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, BookingCancelled, status)

	_, err = ValidateBookingStatus("confirmed")
	assert.Error(t, err)
	_, err = ValidateBookingStatus("PENDING")
	assert.Error(t, err)
}
