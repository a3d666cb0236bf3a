// Package memstore keeps the ledger in process memory. Writes are staged per
// unit of work and applied in one step at commit, and every account touched
// by a unit is held under its own mutex until the unit ends.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateAccount = errors.New("account already exists")
	ErrNegativeBalance  = errors.New("balance would become negative")
	ErrLockOrder        = errors.New("account locked out of id order")
)

var (
	_ ledger.Store = (*Store)(nil)
	_ ledger.Tx    = (*tx)(nil)
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]ledger.Account
	order    []string
	txns     []ledger.Transaction

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	clockMu sync.Mutex
	last    time.Time
	now     func() time.Time
	newID   func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(opts ...Option) *Store {
	s := &Store{
		accounts: map[string]ledger.Account{},
		locks:    map[string]*sync.Mutex{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded returns a store holding ledger.DefaultSeed. It panics if the
// seed can not be written.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	if _, err := s.Seed(context.Background(), ledger.DefaultSeed()); err != nil {
		panic(fmt.Sprintf("memstore: seed: %v", err))
	}
	return s
}

// Seed writes data when the store holds no account yet and reports whether
// it did.
func (s *Store) Seed(ctx context.Context, data ledger.SeedData) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &ledger.StorageError{Op: "seed", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.accounts) > 0 {
		return false, nil
	}
	for _, acc := range data.Accounts {
		s.accounts[acc.ID] = acc
		s.order = append(s.order, acc.ID)
	}
	for _, t := range data.Transfers {
		s.txns = append(s.txns, ledger.Transaction{
			ID:          s.newID(),
			FromAccount: t.From,
			ToAccount:   t.To,
			Amount:      t.Amount,
			Timestamp:   s.tick(),
			Description: t.Description,
		})
	}
	return true, nil
}

// Create provisions a new account.
func (s *Store) Create(ctx context.Context, acc ledger.Account) error {
	if err := ctx.Err(); err != nil {
		return &ledger.StorageError{Op: "create account", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acc.ID]; ok {
		return &ledger.StorageError{Op: "create account", Err: fmt.Errorf("%w: %s", ErrDuplicateAccount, acc.ID)}
	}
	s.accounts[acc.ID] = acc
	s.order = append(s.order, acc.ID)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Get(ctx context.Context, id string) (ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Account{}, &ledger.StorageError{Op: "get account", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return ledger.Account{}, ledger.NotFound(id)
	}
	return acc, nil
}

func (s *Store) GetByName(ctx context.Context, name string) (ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Account{}, &ledger.StorageError{Op: "get account by name", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if acc := s.accounts[id]; acc.Name == name {
			return acc, nil
		}
	}
	return ledger.Account{}, ledger.NotFound(name)
}

func (s *Store) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	return s.InTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		return tx.AdjustBalance(ctx, id, delta)
	})
}

func (s *Store) List(ctx context.Context) ([]ledger.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ledger.StorageError{Op: "list accounts", Err: err}
	}

	s.mu.RLock()
	out := make([]ledger.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Append(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := s.InTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		var err error
		t, err = tx.Append(ctx, fromID, toID, amount, description)
		return err
	})
	return t, err
}

func (s *Store) ByAccount(ctx context.Context, id string, limit int) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ledger.StorageError{Op: "list transactions", Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.txns, nil, id, limit), nil
}

// InTx stages the writes of fn and applies them only when fn succeeds and
// ctx is still live.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return &ledger.StorageError{Op: "begin", Err: err}
	}

	t := &tx{
		s:      s,
		held:   map[string]*sync.Mutex{},
		staged: map[string]ledger.Account{},
	}
	defer t.release()

	if err := fn(ctx, t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &ledger.StorageError{Op: "commit", Err: err}
	}
	return s.commit(t)
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acc := range t.staged {
		if acc.Balance.IsNegative() {
			return &ledger.StorageError{Op: "commit", Err: fmt.Errorf("%w: account %s", ErrNegativeBalance, id)}
		}
	}
	for _, p := range t.pending {
		if _, ok := s.accounts[p.FromAccount]; !ok {
			return &ledger.StorageError{Op: "commit", Err: ledger.NotFound(p.FromAccount)}
		}
		if _, ok := s.accounts[p.ToAccount]; !ok {
			return &ledger.StorageError{Op: "commit", Err: ledger.NotFound(p.ToAccount)}
		}
	}

	for id, acc := range t.staged {
		s.accounts[id] = acc
	}
	s.txns = append(s.txns, t.pending...)
	return nil
}

// tick returns the next transaction timestamp. It never goes backwards
// within one store.
func (s *Store) tick() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	now := s.now().UTC().Truncate(time.Microsecond)
	if now.Before(s.last) {
		now = s.last
	}
	s.last = now
	return now
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

func (s *Store) exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[id]
	return ok
}

func (s *Store) committed(id string) (ledger.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	return acc, ok
}

// newestFirst merges committed and pending transactions naming id, sorted by
// timestamp descending with later appends first on ties.
func newestFirst(committed, pending []ledger.Transaction, id string, limit int) []ledger.Transaction {
	out := []ledger.Transaction{}
	if limit <= 0 {
		return out
	}

	all := make([]ledger.Transaction, 0, len(committed)+len(pending))
	all = append(all, committed...)
	all = append(all, pending...)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].FromAccount == id || all[i].ToAccount == id {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
