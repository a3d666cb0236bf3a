// Package pgstore is the PostgreSQL backend of the ledger.
//
// Every transfer runs in one read-committed transaction. Both parties are
// locked with SELECT ... FOR UPDATE in id order before any check is made, so
// a concurrent transfer touching either account waits for the commit or
// rollback of the first one.
package pgstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ ledger.Store = (*Store)(nil)
	_ ledger.Tx    = (*txScope)(nil)
)

type Store struct {
	pool             *pgxpool.Pool
	log              *zap.Logger
	lockTimeout      time.Duration
	statementTimeout time.Duration
	now              func() time.Time
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTimeouts bounds how long a unit of work waits for a row lock and for
// a single statement. Zero leaves the server setting in place.
func WithTimeouts(lock, statement time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = lock
		s.statementTimeout = statement
	}
}

func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool: pool,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return wrap("ping", s.pool.Ping(ctx))
}

// InTx runs fn in a database transaction. The transaction is rolled back
// on every error path; the rollback ignores cancellation of ctx so a
// canceled caller never leaves a transaction open. Once fn has succeeded
// and ctx is still live, the commit itself is not interrupted by a later
// cancellation.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return wrap("begin", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	if err := s.applyTimeouts(ctx, tx); err != nil {
		return err
	}
	if err := fn(ctx, &txScope{q: tx, s: s}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return wrap("commit", err)
	}
	if err := tx.Commit(context.WithoutCancel(ctx)); err != nil {
		return wrap("commit", err)
	}
	return nil
}

func (s *Store) applyTimeouts(ctx context.Context, tx pgx.Tx) error {
	if s.lockTimeout <= 0 && s.statementTimeout <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		"SELECT set_config('lock_timeout', $1, true), set_config('statement_timeout', $2, true)",
		millis(s.lockTimeout), millis(s.statementTimeout),
	)
	return wrap("set timeouts", err)
}

func millis(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// SQLSTATE codes after which the whole transaction can be replayed.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}
	return false
}

// wrap turns a driver error into a *ledger.StorageError. Errors that are
// already part of the ledger taxonomy pass through untouched.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var serr *ledger.StorageError
	if errors.As(err, &serr) || errors.Is(err, ledger.ErrAccountNotFound) {
		return err
	}
	return &ledger.StorageError{Op: op, Err: err, Retryable: retryable(err)}
}
