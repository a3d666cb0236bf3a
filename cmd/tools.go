package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JhonesBR/go-ledger/internal/api/tools"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// runTool opens the app, runs fn and prints its text to stdout, or to
// stderr when it failed.
func runTool(ctx context.Context, fn func(ctx context.Context, a *app) (string, error)) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	text, err := fn(ctx, a)
	if err != nil {
		fmt.Fprintln(os.Stderr, text)
		return subcommands.ExitFailure
	}
	fmt.Println(text)
	return subcommands.ExitSuccess
}

type transferCmd struct {
	from, to, amount, desc string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "transfer money between two accounts" }
func (*transferCmd) Usage() string {
	return `transfer -from <id> -to <id> -amount <amount> [-desc <note>]
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "source account id")
	f.StringVar(&c.to, "to", "", "destination account id")
	f.StringVar(&c.amount, "amount", "", "amount to transfer")
	f.StringVar(&c.desc, "desc", "", "optional transfer note")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.amount == "" {
		fmt.Fprintln(os.Stderr, "-from, -to and -amount are required")
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}

	return runTool(ctx, func(ctx context.Context, a *app) (string, error) {
		return a.tools.Transfer(ctx, tools.TransferArgs{
			FromAccountID: c.from,
			ToAccountID:   c.to,
			Amount:        &amount,
			Description:   c.desc,
		})
	})
}

type balanceCmd struct {
	account string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the balance of an account" }
func (*balanceCmd) Usage() string {
	return `balance -account <id>
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "account id")
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "-account is required")
		return subcommands.ExitUsageError
	}
	return runTool(ctx, func(ctx context.Context, a *app) (string, error) {
		return a.tools.CheckBalance(ctx, tools.CheckBalanceArgs{AccountID: c.account})
	})
}

type accountInfoCmd struct {
	name string
}

func (*accountInfoCmd) Name() string     { return "account-info" }
func (*accountInfoCmd) Synopsis() string { return "look an account up by name" }
func (*accountInfoCmd) Usage() string {
	return `account-info -name <account name>

  When several accounts share the name, the first stored one is shown.
`
}

func (c *accountInfoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name")
}

func (c *accountInfoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "-name is required")
		return subcommands.ExitUsageError
	}
	return runTool(ctx, func(ctx context.Context, a *app) (string, error) {
		return a.tools.AccountInfo(ctx, tools.AccountInfoArgs{AccountName: c.name})
	})
}

type historyCmd struct {
	account string
	limit   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show recent transactions of an account" }
func (*historyCmd) Usage() string {
	return `history -account <id> [-limit <n>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "account id")
	f.IntVar(&c.limit, "limit", -1, "number of records, defaults to ledger.history_limit")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "-account is required")
		return subcommands.ExitUsageError
	}
	args := tools.HistoryArgs{AccountID: c.account}
	if c.limit >= 0 {
		args.Limit = &c.limit
	}
	return runTool(ctx, func(ctx context.Context, a *app) (string, error) {
		return a.tools.History(ctx, args)
	})
}

type accountsCmd struct{}

func (*accountsCmd) Name() string             { return "accounts" }
func (*accountsCmd) Synopsis() string         { return "list all accounts" }
func (*accountsCmd) Usage() string            { return "accounts\n" }
func (*accountsCmd) SetFlags(_ *flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runTool(ctx, func(ctx context.Context, a *app) (string, error) {
		return a.tools.ListAccounts(ctx, tools.ListAccountsArgs{})
	})
}
