package ledger

import "github.com/shopspring/decimal"

type SeedTransfer struct {
	From        string
	To          string
	Amount      decimal.Decimal
	Description string
}

// SeedData is the initial state written into an empty store.
type SeedData struct {
	Accounts  []Account
	Transfers []SeedTransfer
}

func DefaultSeed() SeedData {
	return SeedData{
		Accounts: []Account{
			{ID: "1001", Name: "John Smith", Balance: decimal.NewFromInt(1000), CardNumber: "6222021001000001"},
			{ID: "1002", Name: "Emma Johnson", Balance: decimal.NewFromInt(2000), CardNumber: "6222021001000002"},
			{ID: "1003", Name: "Michael Brown", Balance: decimal.NewFromInt(3000), CardNumber: "6222021001000003"},
			{ID: "1004", Name: "Sarah Davis", Balance: decimal.NewFromInt(7000), CardNumber: "6222021001000004"},
			{ID: "1005", Name: "David Wilson", Balance: decimal.NewFromInt(8000), CardNumber: "6222021001000005"},
		},
		Transfers: []SeedTransfer{
			{From: "1001", To: "1002", Amount: decimal.NewFromInt(100), Description: "cost of lunch"},
			{From: "1002", To: "1003", Amount: decimal.NewFromInt(200), Description: "cost of shopping"},
		},
	}
}
