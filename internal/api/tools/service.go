package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/JhonesBR/go-ledger/internal/helper"
	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/proxy"
)

const (
	TransferMoney         = "transfer_money"
	CheckBalance          = "check_balance"
	GetAccountInfo        = "get_account_info"
	GetTransactionHistory = "get_transaction_history"
	ListAccounts          = "list_accounts"
)

// Toolbox turns tool calls into ledger operations and renders their
// outcome as text.
type Toolbox struct {
	engine       *ledger.Engine
	queries      *ledger.Queries
	proxy        *proxy.Client
	historyLimit int
}

// New builds a Toolbox. proxy may be nil when no external API is configured.
func New(engine *ledger.Engine, queries *ledger.Queries, proxy *proxy.Client, historyLimit int) *Toolbox {
	if historyLimit <= 0 {
		historyLimit = ledger.DefaultHistoryLimit
	}
	return &Toolbox{
		engine:       engine,
		queries:      queries,
		proxy:        proxy,
		historyLimit: historyLimit,
	}
}

func (t *Toolbox) Transfer(ctx context.Context, args TransferArgs) (string, error) {
	if args.Amount == nil {
		return ErrorText(ledger.ErrInvalidAmount), ledger.ErrInvalidAmount
	}
	res, err := t.engine.Transfer(ctx, args.FromAccountID, args.ToAccountID, *args.Amount, args.Description)
	if err != nil {
		return transferErrorText(err, args.FromAccountID), err
	}
	return formatTransfer(res), nil
}

func (t *Toolbox) CheckBalance(ctx context.Context, args CheckBalanceArgs) (string, error) {
	r, err := t.queries.BalanceReport(ctx, args.AccountID)
	if err != nil {
		return ErrorText(err), err
	}
	return formatBalance(r), nil
}

func (t *Toolbox) AccountInfo(ctx context.Context, args AccountInfoArgs) (string, error) {
	r, err := t.queries.AccountInfo(ctx, args.AccountName)
	if err != nil {
		return ErrorText(err), err
	}
	return formatAccountInfo(r), nil
}

func (t *Toolbox) History(ctx context.Context, args HistoryArgs) (string, error) {
	limit := t.historyLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	r, err := t.queries.HistoryReport(ctx, args.AccountID, limit)
	if err != nil {
		return ErrorText(err), err
	}
	return formatHistory(r), nil
}

func (t *Toolbox) ListAccounts(ctx context.Context, _ ListAccountsArgs) (string, error) {
	accounts, err := t.queries.AllAccounts(ctx)
	if err != nil {
		return ErrorText(err), err
	}
	return formatAccounts(accounts), nil
}

// Descriptors lists every callable tool, ledger tools first.
func (t *Toolbox) Descriptors() []Descriptor {
	out := []Descriptor{
		{
			Name:        TransferMoney,
			Description: "Transfer money from one account to another. Returns a result message.",
			Parameters: []Parameter{
				{Name: "from_account_id", Type: "string", Description: "source account", Required: true},
				{Name: "to_account_id", Type: "string", Description: "destination account", Required: true},
				{Name: "amount", Type: "number", Description: "transfer amount", Required: true},
				{Name: "description", Type: "string", Description: "optional transfer note"},
			},
		},
		{
			Name:        CheckBalance,
			Description: "Check the balance of a specific account.",
			Parameters: []Parameter{
				{Name: "account_id", Type: "string", Description: "account to check", Required: true},
			},
		},
		{
			Name:        GetAccountInfo,
			Description: "Get the id, name and masked card number of an account by its name.",
			Parameters: []Parameter{
				{Name: "account_name", Type: "string", Description: "account to query", Required: true},
			},
		},
		{
			Name:        GetTransactionHistory,
			Description: "Get recent transaction history for an account, newest first.",
			Parameters: []Parameter{
				{Name: "account_id", Type: "string", Description: "account to query", Required: true},
				{Name: "limit", Type: "integer", Description: "number of records", Default: fmt.Sprint(t.historyLimit)},
			},
		},
		{
			Name:        ListAccounts,
			Description: "List all accounts with their balances.",
			Parameters:  []Parameter{},
		},
	}

	if t.proxy == nil {
		return out
	}
	for _, tool := range t.proxy.Tools() {
		d := Descriptor{Name: tool.Name, Description: tool.Description, Parameters: []Parameter{}}
		for _, p := range tool.Parameters {
			d.Parameters = append(d.Parameters, Parameter{
				Name:        p.Name,
				Type:        p.Type,
				Description: p.Description,
				Required:    p.Required,
				Default:     p.Default,
			})
		}
		out = append(out, d)
	}
	return out
}

// Call decodes raw as the arguments of tool name and runs it.
func (t *Toolbox) Call(ctx context.Context, name string, raw []byte) Result {
	var (
		text string
		err  error
	)
	switch name {
	case TransferMoney:
		var args TransferArgs
		if err = decode(raw, &args); err == nil {
			text, err = t.Transfer(ctx, args)
		}
	case CheckBalance:
		var args CheckBalanceArgs
		if err = decode(raw, &args); err == nil {
			text, err = t.CheckBalance(ctx, args)
		}
	case GetAccountInfo:
		var args AccountInfoArgs
		if err = decode(raw, &args); err == nil {
			text, err = t.AccountInfo(ctx, args)
		}
	case GetTransactionHistory:
		var args HistoryArgs
		if err = decode(raw, &args); err == nil {
			text, err = t.History(ctx, args)
		}
	case ListAccounts:
		text, err = t.ListAccounts(ctx, ListAccountsArgs{})
	default:
		text, err = t.callProxy(ctx, name, raw)
	}

	if err != nil {
		if text == "" {
			text = ErrorText(err)
		}
		return Result{Content: text, IsError: true, Status: helper.StatusFor(err)}
	}
	return Result{Content: text, Status: helper.StatusFor(nil)}
}

func (t *Toolbox) callProxy(ctx context.Context, name string, raw []byte) (string, error) {
	if t.proxy == nil || !t.proxy.Has(name) {
		err := fmt.Errorf("%w: %s", proxy.ErrUnknownTool, name)
		return "Error: " + err.Error(), err
	}

	args := map[string]any{}
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	out, err := t.proxy.Call(ctx, name, args)
	if err != nil {
		return ErrorText(err), err
	}
	if s, ok := out.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decode treats an empty body as an empty JSON object and validates structs.
func decode(raw []byte, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", helper.ErrInvalidArguments, err)
	}
	if _, ok := v.(*map[string]any); ok {
		return nil
	}
	if err := helper.ValidateInput(v); err != nil {
		return fmt.Errorf("%w: %v", helper.ErrInvalidArguments, err)
	}
	return nil
}
