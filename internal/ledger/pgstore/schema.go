package pgstore

import (
	"context"
	"time"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	balance     NUMERIC NOT NULL DEFAULT 0 CHECK (balance >= 0),
	card_number TEXT,
	seq         BIGSERIAL
);

CREATE TABLE IF NOT EXISTS transactions (
	id           UUID PRIMARY KEY,
	from_account TEXT NOT NULL REFERENCES accounts (id),
	to_account   TEXT NOT NULL REFERENCES accounts (id),
	amount       NUMERIC NOT NULL CHECK (amount > 0),
	created_at   TIMESTAMPTZ NOT NULL,
	description  TEXT,
	seq          BIGSERIAL
);

CREATE INDEX IF NOT EXISTS transactions_from_idx ON transactions (from_account, created_at DESC);
CREATE INDEX IF NOT EXISTS transactions_to_idx ON transactions (to_account, created_at DESC);

-- Older schemas used NUMERIC(20, 2), which rounds on assignment.
ALTER TABLE accounts ALTER COLUMN balance TYPE NUMERIC;
ALTER TABLE transactions ALTER COLUMN amount TYPE NUMERIC;
`

// Migrate creates the ledger tables when they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return wrap("migrate", err)
	}
	s.log.Info("ledger schema ready")
	return nil
}

// Seed writes data when the accounts table is empty and reports whether it
// did. The table lock makes concurrent seeders see each other's rows.
func (s *Store) Seed(ctx context.Context, data ledger.SeedData) (bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, wrap("seed", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	if _, err := tx.Exec(ctx, "LOCK TABLE accounts IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return false, wrap("seed", err)
	}

	var count int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return false, wrap("seed", err)
	}
	if count > 0 {
		return false, nil
	}

	batch := &pgx.Batch{}
	for _, acc := range data.Accounts {
		batch.Queue(
			"INSERT INTO accounts (id, name, balance, card_number) VALUES ($1, $2, $3, NULLIF($4, ''))",
			acc.ID, acc.Name, acc.Balance, acc.CardNumber,
		)
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	for i, t := range data.Transfers {
		batch.Queue(
			`INSERT INTO transactions (id, from_account, to_account, amount, created_at, description)
			 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
			uuid.NewString(), t.From, t.To, t.Amount, now.Add(time.Duration(i)*time.Microsecond), t.Description,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return false, wrap("seed", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, wrap("seed", err)
	}
	s.log.Info("ledger seeded",
		zap.Int("accounts", len(data.Accounts)),
		zap.Int("transactions", len(data.Transfers)),
	)
	return true, nil
}
