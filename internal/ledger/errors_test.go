package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	nf := NotFound("9999")
	assert.ErrorIs(t, nf, ErrAccountNotFound)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", nf), ErrAccountNotFound)
	assert.EqualError(t, nf, "account 9999 not found")

	insf := &InsufficientFundsError{Current: decimal.NewFromInt(1000), Requested: decimal.NewFromInt(5000)}
	assert.ErrorIs(t, insf, ErrInsufficientFunds)
	assert.NotErrorIs(t, insf, ErrAccountNotFound)

	serr := &StorageError{Op: "commit", Err: context.DeadlineExceeded, Retryable: true}
	assert.ErrorIs(t, serr, ErrStorage)
	assert.ErrorIs(t, serr, context.DeadlineExceeded)
	assert.True(t, IsRetryable(fmt.Errorf("outer: %w", serr)))
	assert.False(t, IsRetryable(&StorageError{Op: "commit", Err: errors.New("boom")}))
	assert.False(t, IsRetryable(ErrInvalidAmount))
}
