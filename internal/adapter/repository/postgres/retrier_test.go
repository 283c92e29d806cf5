package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
)

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier()
	r.maxRetries = maxRetries
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second

	return r
}

func TestRetrier_RetriesSerializationFailure(t *testing.T) {
	attempts := 0
	err := fastRetrier(2).Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return fmt.Errorf("commit: %w", &pgconn.PgError{Code: pgErrSerializationFailure})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetrier_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := fastRetrier(2).Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, 3, attempts)
}

func TestRetrier_NeverRetriesBusinessErrors(t *testing.T) {
	attempts := 0
	err := fastRetrier(3).Retry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("%w: balance 10", domain.ErrInsufficientBalance)
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrDeadlock}))
	assert.True(t, isRetryableError(&pgconn.PgError{Code: pgErrSerializationFailure}))
	assert.False(t, isRetryableError(&pgconn.PgError{Code: pgErrUniqueViolation}))
	assert.False(t, isRetryableError(errors.New("other")))
}
