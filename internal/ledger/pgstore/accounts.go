package pgstore

import (
	"context"
	"errors"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = "id, name, balance, COALESCE(card_number, '')"

func scanAccount(row pgx.Row) (ledger.Account, error) {
	var acc ledger.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Balance, &acc.CardNumber)
	return acc, err
}

func getAccount(ctx context.Context, q querier, id string) (ledger.Account, error) {
	acc, err := scanAccount(q.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Account{}, ledger.NotFound(id)
		}
		return ledger.Account{}, wrap("get account", err)
	}
	return acc, nil
}

// getAccountByName picks the earliest inserted account among duplicates.
func getAccountByName(ctx context.Context, q querier, name string) (ledger.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE name = $1 ORDER BY seq LIMIT 1"
	acc, err := scanAccount(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Account{}, ledger.NotFound(name)
		}
		return ledger.Account{}, wrap("get account by name", err)
	}
	return acc, nil
}

func adjustBalance(ctx context.Context, q querier, id string, delta decimal.Decimal) error {
	tag, err := q.Exec(ctx, "UPDATE accounts SET balance = balance + $1 WHERE id = $2", delta, id)
	if err != nil {
		return wrap("adjust balance", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.NotFound(id)
	}
	return nil
}

func listAccounts(ctx context.Context, q querier) ([]ledger.Account, error) {
	rows, err := q.Query(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY id")
	if err != nil {
		return nil, wrap("list accounts", err)
	}
	defer rows.Close()

	accounts := []ledger.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrap("list accounts", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list accounts", err)
	}
	return accounts, nil
}

// lockAccounts takes row locks in id order so two transfers naming the same
// pair of accounts can not deadlock on each other.
func lockAccounts(ctx context.Context, q querier, ids []string) (map[string]ledger.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE"
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, wrap("lock accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]ledger.Account, len(ids))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, wrap("lock accounts", err)
		}
		accounts[acc.ID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("lock accounts", err)
	}
	return accounts, nil
}

func (s *Store) Get(ctx context.Context, id string) (ledger.Account, error) {
	return getAccount(ctx, s.pool, id)
}

func (s *Store) GetByName(ctx context.Context, name string) (ledger.Account, error) {
	return getAccountByName(ctx, s.pool, name)
}

func (s *Store) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	return adjustBalance(ctx, s.pool, id, delta)
}

func (s *Store) List(ctx context.Context) ([]ledger.Account, error) {
	return listAccounts(ctx, s.pool)
}

// Create provisions a new account.
func (s *Store) Create(ctx context.Context, acc ledger.Account) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO accounts (id, name, balance, card_number) VALUES ($1, $2, $3, NULLIF($4, ''))",
		acc.ID, acc.Name, acc.Balance, acc.CardNumber,
	)
	return wrap("create account", err)
}
