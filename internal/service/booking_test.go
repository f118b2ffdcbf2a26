package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/boxoffice/platform/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUnitError_DomainErrorPassesThrough(t *testing.T) {
	conflict := domain.ErrInsufficientSeats("ev-1", 3, 1)

	err := mapUnitError("reserve", fmt.Errorf("reserve: %w", conflict))

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_SEATS", appErr.Code)
}

func TestMapUnitError_DeadlineIsTransient(t *testing.T) {
	err := mapUnitError("reserve", fmt.Errorf("lock event: %w", context.DeadlineExceeded))

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRANSIENT", appErr.Code)
	assert.Equal(t, 503, appErr.Status)
}

func TestMapUnitError_DeadlockIsTransient(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgDeadlockDetected}
	err := mapUnitError("reserve", fmt.Errorf("decrement: %w", pgErr))

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRANSIENT", appErr.Code)
}

func TestMapUnitError_UnknownIsInternal(t *testing.T) {
	err := mapUnitError("cancel", errors.New("connection reset"))

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	assert.Equal(t, 500, appErr.Status)
}
