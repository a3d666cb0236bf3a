package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/shopspring/decimal"
)

// tx is a unit of work over Store. Account locks are only ever taken in
// ascending id order: AdjustBalance may lock an account on demand, but not
// one whose id sorts before an account already held. Lock every party with
// LockAccounts first to touch them in any order.
type tx struct {
	s       *Store
	held    map[string]*sync.Mutex
	highest string
	staged  map[string]ledger.Account
	pending []ledger.Transaction
}

func (t *tx) release() {
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
}

func (t *tx) lock(ids ...string) error {
	todo := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if _, ok := t.held[id]; ok || seen[id] || !t.s.exists(id) {
			continue
		}
		seen[id] = true
		todo = append(todo, id)
	}
	if len(todo) == 0 {
		return nil
	}
	sort.Strings(todo)
	if len(t.held) > 0 && todo[0] < t.highest {
		return &ledger.StorageError{
			Op:  "lock accounts",
			Err: fmt.Errorf("%w: %s after %s", ErrLockOrder, todo[0], t.highest),
		}
	}

	for _, id := range todo {
		m := t.s.lockFor(id)
		m.Lock()
		t.held[id] = m
		t.highest = id
	}
	return nil
}

func (t *tx) current(id string) (ledger.Account, bool) {
	if acc, ok := t.staged[id]; ok {
		return acc, true
	}
	return t.s.committed(id)
}

func (t *tx) LockAccounts(ctx context.Context, ids ...string) (map[string]ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ledger.StorageError{Op: "lock accounts", Err: err}
	}

	if err := t.lock(ids...); err != nil {
		return nil, err
	}
	out := make(map[string]ledger.Account, len(ids))
	for _, id := range ids {
		if acc, ok := t.current(id); ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (t *tx) Get(ctx context.Context, id string) (ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Account{}, &ledger.StorageError{Op: "get account", Err: err}
	}
	acc, ok := t.current(id)
	if !ok {
		return ledger.Account{}, ledger.NotFound(id)
	}
	return acc, nil
}

func (t *tx) GetByName(ctx context.Context, name string) (ledger.Account, error) {
	acc, err := t.s.GetByName(ctx, name)
	if err != nil {
		return ledger.Account{}, err
	}
	if staged, ok := t.staged[acc.ID]; ok {
		return staged, nil
	}
	return acc, nil
}

func (t *tx) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return &ledger.StorageError{Op: "adjust balance", Err: err}
	}

	if err := t.lock(id); err != nil {
		return err
	}
	acc, ok := t.current(id)
	if !ok {
		return ledger.NotFound(id)
	}
	acc.Balance = acc.Balance.Add(delta)
	t.staged[id] = acc
	return nil
}

func (t *tx) List(ctx context.Context) ([]ledger.Account, error) {
	accs, err := t.s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, acc := range accs {
		if staged, ok := t.staged[acc.ID]; ok {
			accs[i] = staged
		}
	}
	return accs, nil
}

func (t *tx) Append(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Transaction{}, &ledger.StorageError{Op: "append transaction", Err: err}
	}

	tran := ledger.Transaction{
		ID:          t.s.newID(),
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		Timestamp:   t.s.tick(),
		Description: description,
	}
	t.pending = append(t.pending, tran)
	return tran, nil
}

func (t *tx) ByAccount(ctx context.Context, id string, limit int) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ledger.StorageError{Op: "list transactions", Err: err}
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return newestFirst(t.s.txns, t.pending, id, limit), nil
}
