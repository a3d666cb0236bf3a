package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BalanceReport struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	MaskedCard string          `json:"card_number"`
	Balance    decimal.Decimal `json:"balance"`
}

type AccountInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MaskedCard string `json:"card_number"`
}

type HistoryEntry struct {
	TransactionID string          `json:"transaction_id"`
	Direction     Direction       `json:"direction"`
	Counterparty  string          `json:"counterparty"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	Description   string          `json:"description,omitempty"`
}

type HistoryReport struct {
	AccountID   string         `json:"account_id"`
	AccountName string         `json:"account_name"`
	Entries     []HistoryEntry `json:"entries"`
}

type AccountSummary struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// Queries builds read-only projections over the account store and the
// transaction log. It never writes.
type Queries struct {
	accounts AccountStore
	log      TransactionLog
}

func NewQueries(accounts AccountStore, log TransactionLog) *Queries {
	return &Queries{accounts: accounts, log: log}
}

func (q *Queries) BalanceReport(ctx context.Context, id string) (BalanceReport, error) {
	acc, err := q.accounts.Get(ctx, id)
	if err != nil {
		return BalanceReport{}, err
	}
	return BalanceReport{
		ID:         acc.ID,
		Name:       acc.Name,
		MaskedCard: MaskCard(acc.CardNumber),
		Balance:    acc.Balance,
	}, nil
}

func (q *Queries) AccountInfo(ctx context.Context, name string) (AccountInfo, error) {
	acc, err := q.accounts.GetByName(ctx, name)
	if err != nil {
		return AccountInfo{}, err
	}
	return AccountInfo{
		ID:         acc.ID,
		Name:       acc.Name,
		MaskedCard: MaskCard(acc.CardNumber),
	}, nil
}

// HistoryReport fails only when the account itself is unknown. An account
// without transactions yields a report with no entries.
func (q *Queries) HistoryReport(ctx context.Context, id string, limit int) (HistoryReport, error) {
	acc, err := q.accounts.Get(ctx, id)
	if err != nil {
		return HistoryReport{}, err
	}

	report := HistoryReport{
		AccountID:   acc.ID,
		AccountName: acc.Name,
		Entries:     []HistoryEntry{},
	}
	if limit <= 0 {
		return report, nil
	}

	txs, err := q.log.ByAccount(ctx, id, limit)
	if err != nil {
		return HistoryReport{}, err
	}
	for _, t := range txs {
		dir, other := t.DirectionFor(id)
		report.Entries = append(report.Entries, HistoryEntry{
			TransactionID: t.ID,
			Direction:     dir,
			Counterparty:  other,
			Amount:        t.Amount,
			Timestamp:     t.Timestamp,
			Description:   t.Description,
		})
	}
	return report, nil
}

func (q *Queries) AllAccounts(ctx context.Context) ([]AccountSummary, error) {
	accs, err := q.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountSummary, 0, len(accs))
	for _, a := range accs {
		out = append(out, AccountSummary{ID: a.ID, Name: a.Name, Balance: a.Balance})
	}
	return out, nil
}
