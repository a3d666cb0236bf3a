package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/ledger/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newQueries(store *memstore.Store) *ledger.Queries {
	return ledger.NewQueries(store, store)
}

func TestBalanceReport(t *testing.T) {
	store := memstore.NewSeeded()
	q := newQueries(store)

	report, err := q.BalanceReport(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", report.ID)
	assert.Equal(t, "John Smith", report.Name)
	assert.Equal(t, "6222...0001", report.MaskedCard)
	assert.True(t, dec("1000").Equal(report.Balance))

	_, err = q.BalanceReport(context.Background(), "9999")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestBalanceReportAfterTransfer(t *testing.T) {
	store := memstore.NewSeeded()
	engine := ledger.NewEngine(store)
	q := newQueries(store)

	_, err := engine.Transfer(context.Background(), "1001", "1002", dec("100"), "")
	require.NoError(t, err)

	report, err := q.BalanceReport(context.Background(), "1001")
	require.NoError(t, err)
	assert.True(t, dec("900").Equal(report.Balance))

	again, err := q.BalanceReport(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, report, again, "reads must not change state")
}

func TestAccountInfo(t *testing.T) {
	store := memstore.NewSeeded()
	q := newQueries(store)

	info, err := q.AccountInfo(context.Background(), "Emma Johnson")
	require.NoError(t, err)
	assert.Equal(t, ledger.AccountInfo{ID: "1002", Name: "Emma Johnson", MaskedCard: "6222...0002"}, info)

	_, err = q.AccountInfo(context.Background(), "Nobody")
	var nf *ledger.AccountNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Nobody", nf.ID)
}

func TestAccountInfoDuplicateNameReturnsFirstStored(t *testing.T) {
	store := memstore.NewSeeded()
	require.NoError(t, store.Create(context.Background(), ledger.Account{
		ID:         "2001",
		Name:       "John Smith",
		Balance:    dec("5"),
		CardNumber: "6222029999999999",
	}))

	info, err := newQueries(store).AccountInfo(context.Background(), "John Smith")
	require.NoError(t, err)
	assert.Equal(t, "1001", info.ID)
}

func TestHistoryReportDirectionsNewestFirst(t *testing.T) {
	store := memstore.NewSeeded(memstore.WithClock(steppingClock()))
	q := newQueries(store)

	report, err := q.HistoryReport(context.Background(), "1002", 10)
	require.NoError(t, err)
	assert.Equal(t, "1002", report.AccountID)
	assert.Equal(t, "Emma Johnson", report.AccountName)
	require.Len(t, report.Entries, 2)

	latest, earlier := report.Entries[0], report.Entries[1]
	assert.Equal(t, ledger.Outgoing, latest.Direction)
	assert.Equal(t, "1003", latest.Counterparty)
	assert.True(t, dec("200").Equal(latest.Amount))
	assert.Equal(t, "cost of shopping", latest.Description)

	assert.Equal(t, ledger.Incoming, earlier.Direction)
	assert.Equal(t, "1001", earlier.Counterparty)
	assert.True(t, dec("100").Equal(earlier.Amount))
	assert.Equal(t, "cost of lunch", earlier.Description)

	assert.True(t, latest.Timestamp.After(earlier.Timestamp))
}

func TestHistoryReportIncludesNewTransfers(t *testing.T) {
	store := memstore.NewSeeded(memstore.WithClock(steppingClock()))
	engine := ledger.NewEngine(store)
	q := newQueries(store)

	res, err := engine.Transfer(context.Background(), "1004", "1001", dec("25"), "refund")
	require.NoError(t, err)

	report, err := q.HistoryReport(context.Background(), "1001", 10)
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, res.Transaction.ID, report.Entries[0].TransactionID)
	assert.Equal(t, ledger.Incoming, report.Entries[0].Direction)
	assert.Equal(t, "1004", report.Entries[0].Counterparty)
	assert.Equal(t, ledger.Outgoing, report.Entries[1].Direction)
}

func TestHistoryReportLimit(t *testing.T) {
	store := memstore.NewSeeded(memstore.WithClock(steppingClock()))
	engine := ledger.NewEngine(store)
	q := newQueries(store)

	for i := 0; i < 5; i++ {
		_, err := engine.Transfer(context.Background(), "1005", "1004", dec("1"), "")
		require.NoError(t, err)
	}

	report, err := q.HistoryReport(context.Background(), "1005", 3)
	require.NoError(t, err)
	assert.Len(t, report.Entries, 3)

	report, err = q.HistoryReport(context.Background(), "1005", 0)
	require.NoError(t, err)
	assert.NotNil(t, report.Entries)
	assert.Empty(t, report.Entries)

	report, err = q.HistoryReport(context.Background(), "1005", -1)
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
}

func TestHistoryReportWithoutTransactions(t *testing.T) {
	q := newQueries(memstore.NewSeeded())

	report, err := q.HistoryReport(context.Background(), "1004", ledger.DefaultHistoryLimit)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Davis", report.AccountName)
	assert.Empty(t, report.Entries)

	_, err = q.HistoryReport(context.Background(), "9999", ledger.DefaultHistoryLimit)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestAllAccounts(t *testing.T) {
	q := newQueries(memstore.NewSeeded())

	accs, err := q.AllAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accs, 5)
	for i, id := range seededIDs {
		assert.Equal(t, id, accs[i].ID)
	}
	assert.Equal(t, "David Wilson", accs[4].Name)
	assert.True(t, dec("8000").Equal(accs[4].Balance))

	empty, err := newQueries(memstore.New()).AllAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
