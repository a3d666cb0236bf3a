package account

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JhonesBR/go-ledger/internal/helper"
	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/ledger/memstore"
	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*fiber.App, *memstore.Store) {
	t.Helper()
	store := memstore.NewSeeded()
	app := fiber.New()
	InitializeRoutes(app, ledger.NewEngine(store), ledger.NewQueries(store, store), ledger.DefaultHistoryLimit)
	return app, store
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestGetAccountsPaginated(t *testing.T) {
	app, _ := newApp(t)

	status, raw := do(t, app, http.MethodGet, "/v1/accounts?page=2&size=2", "")
	require.Equal(t, http.StatusOK, status)

	var page helper.Pagination[AccountShowSchema]
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Size)
	require.NotNil(t, page.Total)
	assert.Equal(t, 5, *page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "1003", page.Items[0].Id)
	assert.Equal(t, "1004", page.Items[1].Id)
}

func TestGetAccountByID(t *testing.T) {
	app, _ := newApp(t)

	status, raw := do(t, app, http.MethodGet, "/v1/accounts/1001", "")
	require.Equal(t, http.StatusOK, status)
	var acc AccountBalanceSchema
	require.NoError(t, json.Unmarshal(raw, &acc))
	assert.Equal(t, "John Smith", acc.Name)
	assert.Equal(t, "6222...0001", acc.CardNumber)
	assert.True(t, decimal.NewFromInt(1000).Equal(acc.Balance))
	assert.NotContains(t, string(raw), "6222021001000001")

	status, _ = do(t, app, http.MethodGet, "/v1/accounts/9999", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateTransfer(t *testing.T) {
	app, store := newApp(t)

	status, raw := do(t, app, http.MethodPost, "/v1/transfers",
		`{"from_account_id":"1001","to_account_id":"1002","amount":"100","description":"lunch"}`)
	require.Equal(t, http.StatusCreated, status, string(raw))

	var res CreateTransferResponseSchema
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.NotEmpty(t, res.TransactionId)
	assert.Equal(t, "6222...0001", res.FromCard)
	assert.Equal(t, "6222...0002", res.ToCard)
	assert.Equal(t, "lunch", res.Description)

	acc, err := store.Get(t.Context(), "1001")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(900).Equal(acc.Balance))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"insufficient", `{"from_account_id":"1001","to_account_id":"1002","amount":5000}`, http.StatusConflict},
		{"negative", `{"from_account_id":"1001","to_account_id":"1002","amount":-5}`, http.StatusUnprocessableEntity},
		{"unknown destination", `{"from_account_id":"1001","to_account_id":"9999","amount":1}`, http.StatusNotFound},
		{"missing amount", `{"from_account_id":"1001","to_account_id":"1002"}`, http.StatusUnprocessableEntity},
		{"malformed", `{"from_account_id":`, http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, _ := do(t, app, http.MethodPost, "/v1/transfers", c.body)
			assert.Equal(t, c.want, status)
		})
	}

	acc, err = store.Get(t.Context(), "1001")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(900).Equal(acc.Balance))
}

func TestGetAccountTransactions(t *testing.T) {
	app, _ := newApp(t)

	status, raw := do(t, app, http.MethodGet, "/v1/accounts/1002/transactions", "")
	require.Equal(t, http.StatusOK, status)
	var history AccountHistorySchema
	require.NoError(t, json.Unmarshal(raw, &history))
	assert.Equal(t, "Emma Johnson", history.Name)
	require.Len(t, history.Transactions, 2)
	assert.Equal(t, ledger.Outgoing, history.Transactions[0].Direction)
	assert.Equal(t, ledger.Incoming, history.Transactions[1].Direction)

	status, raw = do(t, app, http.MethodGet, "/v1/accounts/1002/transactions?limit=1", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &history))
	assert.Len(t, history.Transactions, 1)

	status, _ = do(t, app, http.MethodGet, "/v1/accounts/1002/transactions?limit=abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodGet, "/v1/accounts/9999/transactions", "")
	assert.Equal(t, http.StatusNotFound, status)
}
