package pgstore

import (
	"context"
	"time"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func appendTransaction(ctx context.Context, q querier, now time.Time, fromID, toID string, amount decimal.Decimal, description string) (ledger.Transaction, error) {
	t := ledger.Transaction{
		ID:          uuid.NewString(),
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		Timestamp:   now.UTC().Truncate(time.Microsecond),
		Description: description,
	}
	_, err := q.Exec(ctx, `
		INSERT INTO transactions (id, from_account, to_account, amount, created_at, description)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
		t.ID, t.FromAccount, t.ToAccount, t.Amount, t.Timestamp, t.Description,
	)
	if err != nil {
		return ledger.Transaction{}, wrap("append transaction", err)
	}
	return t, nil
}

func transactionsByAccount(ctx context.Context, q querier, id string, limit int) ([]ledger.Transaction, error) {
	out := []ledger.Transaction{}
	if limit <= 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, `
		SELECT id::text, from_account, to_account, amount, created_at, COALESCE(description, '')
		FROM transactions
		WHERE from_account = $1 OR to_account = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2`,
		id, limit,
	)
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t ledger.Transaction
		if err := rows.Scan(&t.ID, &t.FromAccount, &t.ToAccount, &t.Amount, &t.Timestamp, &t.Description); err != nil {
			return nil, wrap("list transactions", err)
		}
		t.Timestamp = t.Timestamp.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list transactions", err)
	}
	return out, nil
}

func (s *Store) Append(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (ledger.Transaction, error) {
	return appendTransaction(ctx, s.pool, s.now(), fromID, toID, amount, description)
}

func (s *Store) ByAccount(ctx context.Context, id string, limit int) ([]ledger.Transaction, error) {
	return transactionsByAccount(ctx, s.pool, id, limit)
}

// txScope routes every call through the open pgx.Tx.
type txScope struct {
	q querier
	s *Store
}

func (t *txScope) LockAccounts(ctx context.Context, ids ...string) (map[string]ledger.Account, error) {
	return lockAccounts(ctx, t.q, ids)
}

func (t *txScope) Get(ctx context.Context, id string) (ledger.Account, error) {
	return getAccount(ctx, t.q, id)
}

func (t *txScope) GetByName(ctx context.Context, name string) (ledger.Account, error) {
	return getAccountByName(ctx, t.q, name)
}

func (t *txScope) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	return adjustBalance(ctx, t.q, id, delta)
}

func (t *txScope) List(ctx context.Context) ([]ledger.Account, error) {
	return listAccounts(ctx, t.q)
}

func (t *txScope) Append(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (ledger.Transaction, error) {
	return appendTransaction(ctx, t.q, t.s.now(), fromID, toID, amount, description)
}

func (t *txScope) ByAccount(ctx context.Context, id string, limit int) ([]ledger.Transaction, error) {
	return transactionsByAccount(ctx, t.q, id, limit)
}
