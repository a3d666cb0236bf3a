package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidAmount     = errors.New("transfer amount must be greater than 0")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrStorage           = errors.New("storage failure")
)

type AccountNotFoundError struct {
	ID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.ID)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

func NotFound(id string) error {
	return &AccountNotFoundError{ID: id}
}

type InsufficientFundsError struct {
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: current %s, requested %s", e.Current, e.Requested)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// StorageError wraps a backend failure. Retryable is set by the store when
// the failed attempt left no side effects and may be replayed as a whole.
type StorageError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsRetryable reports whether err is a storage failure marked retryable.
func IsRetryable(err error) bool {
	var serr *StorageError
	return errors.As(err, &serr) && serr.Retryable
}
