package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHistoryLimit is the number of transactions returned by a history
// query when the caller does not ask for a specific amount.
const DefaultHistoryLimit = 10

type Account struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	CardNumber string          `json:"-"`
}

type Transaction struct {
	ID          string          `json:"id"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
	Description string          `json:"description,omitempty"`
}

type Direction string

const (
	Incoming Direction = "Incoming"
	Outgoing Direction = "Outgoing"
)

// DirectionFor reports how t looks from the point of view of accountID.
// A transaction naming the account on both sides counts as Outgoing.
func (t Transaction) DirectionFor(accountID string) (Direction, string) {
	if t.FromAccount == accountID {
		return Outgoing, t.ToAccount
	}
	return Incoming, t.FromAccount
}

// TransferResult is what a committed transfer hands back: the new log entry
// and both parties as they stand after the commit.
type TransferResult struct {
	Transaction Transaction
	From        Account
	To          Account
}
