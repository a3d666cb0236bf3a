package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountStore is the durable record of accounts. Every call is one round
// trip to the backend; nothing is cached between calls.
type AccountStore interface {
	Get(ctx context.Context, id string) (Account, error)
	// GetByName returns the first stored account carrying name. Which one
	// wins among duplicates is up to the backend's storage order.
	GetByName(ctx context.Context, name string) (Account, error)
	// AdjustBalance applies balance += delta. It does not check the sign of
	// the result; callers run it inside InTx after validating.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
	// List returns every account ordered by id ascending.
	List(ctx context.Context) ([]Account, error)
}

// TransactionLog is the append-only record of transfers.
type TransactionLog interface {
	Append(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (Transaction, error)
	// ByAccount returns the transactions naming id on either side, newest
	// first, truncated to limit. limit <= 0 yields an empty slice.
	ByAccount(ctx context.Context, id string, limit int) ([]Transaction, error)
}

// Tx is the view of the store inside a unit of work.
type Tx interface {
	AccountStore
	TransactionLog
	// LockAccounts loads the given accounts and holds an exclusive lock on
	// each until the unit of work ends. Ids that do not exist are absent
	// from the returned map.
	LockAccounts(ctx context.Context, ids ...string) (map[string]Account, error)
}

type Store interface {
	AccountStore
	TransactionLog
	// InTx runs fn as one unit of work. The unit commits when fn returns nil
	// and rolls back on any error, including a canceled context. Reads made
	// outside the unit never observe its staged writes.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
}
