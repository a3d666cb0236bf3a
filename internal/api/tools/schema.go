package tools

import "github.com/shopspring/decimal"

type TransferArgs struct {
	FromAccountID string           `json:"from_account_id" validate:"required"`
	ToAccountID   string           `json:"to_account_id" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	Description   string           `json:"description"`
}

type CheckBalanceArgs struct {
	AccountID string `json:"account_id" validate:"required"`
}

type AccountInfoArgs struct {
	AccountName string `json:"account_name" validate:"required"`
}

type HistoryArgs struct {
	AccountID string `json:"account_id" validate:"required"`
	Limit     *int   `json:"limit"`
}

type ListAccountsArgs struct{}

type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
}

type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Result is the transport-neutral outcome of a tool call.
type Result struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error"`
	Status  int    `json:"-"`
}
