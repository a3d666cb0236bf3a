package account

import (
	"time"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/shopspring/decimal"
)

type AccountShowSchema struct {
	Id      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type AccountBalanceSchema struct {
	Id         string          `json:"id"`
	Name       string          `json:"name"`
	CardNumber string          `json:"card_number"`
	Balance    decimal.Decimal `json:"balance"`
}

type TransactionShowSchema struct {
	Id           string           `json:"id"`
	Direction    ledger.Direction `json:"direction"`
	Counterparty string           `json:"counterparty"`
	Amount       decimal.Decimal  `json:"amount"`
	Timestamp    time.Time        `json:"timestamp"`
	Description  string           `json:"description,omitempty"`
}

type AccountHistorySchema struct {
	AccountId    string                  `json:"account_id"`
	Name         string                  `json:"name"`
	Transactions []TransactionShowSchema `json:"transactions"`
}

type CreateTransferSchema struct {
	FromAccountId string           `json:"from_account_id" validate:"required"`
	ToAccountId   string           `json:"to_account_id" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	Description   string           `json:"description"`
}

type CreateTransferResponseSchema struct {
	TransactionId string          `json:"transaction_id"`
	FromCard      string          `json:"from_card_number"`
	ToCard        string          `json:"to_card_number"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     time.Time       `json:"timestamp"`
	Description   string          `json:"description,omitempty"`
}
