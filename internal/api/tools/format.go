package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/proxy"
)

const (
	currency   = "RMB"
	timeLayout = "2006-01-02 15:04:05"
)

func formatTransfer(res *ledger.TransferResult) string {
	return fmt.Sprintf(
		"Transfer successful, transaction ID: %s! From account: %s to account: %s amount: %s %s",
		res.Transaction.ID,
		ledger.MaskCard(res.From.CardNumber),
		ledger.MaskCard(res.To.CardNumber),
		res.Transaction.Amount,
		currency,
	)
}

func formatBalance(r ledger.BalanceReport) string {
	return fmt.Sprintf("Account name: (%s)\nCard number: %s\nCurrent balance: %s %s",
		r.Name, r.MaskedCard, r.Balance, currency)
}

func formatAccountInfo(r ledger.AccountInfo) string {
	return fmt.Sprintf("Account ID: %s\nAccount name: %s\nCard number: %s", r.ID, r.Name, r.MaskedCard)
}

func formatHistory(r ledger.HistoryReport) string {
	if len(r.Entries) == 0 {
		return fmt.Sprintf("Account %s has no transaction records", r.AccountID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Account %s (%s) transaction history (latest %d records):", r.AccountID, r.AccountName, len(r.Entries))
	for i, e := range r.Entries {
		line := fmt.Sprintf("%d. %s %s %s %s %s %s",
			i+1, e.Timestamp.Local().Format(timeLayout), e.Direction, e.Counterparty, e.Amount, currency, e.Description)
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(line, " "))
	}
	return b.String()
}

func formatAccounts(accounts []ledger.AccountSummary) string {
	if len(accounts) == 0 {
		return "No accounts available"
	}

	lines := []string{"All accounts:"}
	for _, a := range accounts {
		lines = append(lines, fmt.Sprintf("- %s: %s (Balance: %s %s)", a.ID, a.Name, a.Balance, currency))
	}
	return strings.Join(lines, "\n")
}

// transferErrorText names which party is unknown, so it needs the source id.
func transferErrorText(err error, fromID string) string {
	var nf *ledger.AccountNotFoundError
	if errors.As(err, &nf) {
		if nf.ID == fromID {
			return fmt.Sprintf("Error: Source account %s does not exist", nf.ID)
		}
		return fmt.Sprintf("Error: Destination account %s does not exist", nf.ID)
	}
	return ErrorText(err)
}

// ErrorText renders err as the caller-facing message of a failed tool call.
func ErrorText(err error) string {
	var (
		nf   *ledger.AccountNotFoundError
		insf *ledger.InsufficientFundsError
		up   *proxy.UpstreamError
	)
	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("Error: Account %s does not exist", nf.ID)
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "Error: Transfer amount must be greater than 0"
	case errors.As(err, &insf):
		return fmt.Sprintf("Error: Insufficient balance. Current balance: %s", insf.Current)
	case errors.As(err, &up):
		return "Error: " + up.Error()
	case errors.Is(err, ledger.ErrStorage):
		if ledger.IsRetryable(err) {
			return "Error: " + err.Error() + " (retryable)"
		}
		return "Error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
