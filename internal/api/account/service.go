package account

import (
	"strconv"

	"github.com/JhonesBR/go-ledger/internal/helper"
	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/gofiber/fiber/v3"
)

func errorResponse(c fiber.Ctx, err error) error {
	return c.Status(helper.StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func GetAccounts(queries *ledger.Queries) fiber.Handler {
	return func(c fiber.Ctx) error {
		// Get pagination
		pagination := helper.GetPagination[AccountShowSchema](c)

		// Retrieve accounts, already ordered by id
		accounts, err := queries.AllAccounts(c.Context())
		if err != nil {
			return errorResponse(c, err)
		}

		items := make([]AccountShowSchema, 0, len(accounts))
		for _, a := range accounts {
			items = append(items, AccountShowSchema{Id: a.ID, Name: a.Name, Balance: a.Balance})
		}

		return c.JSON(helper.Paginate(pagination, items))
	}
}

func GetAccountByID(queries *ledger.Queries) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return fiber.ErrBadRequest
		}

		report, err := queries.BalanceReport(c.Context(), id)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(AccountBalanceSchema{
			Id:         report.ID,
			Name:       report.Name,
			CardNumber: report.MaskedCard,
			Balance:    report.Balance,
		})
	}
}

func GetAccountTransactions(queries *ledger.Queries, defaultLimit int) fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return fiber.ErrBadRequest
		}

		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "limit must be an integer",
			})
		}

		report, err := queries.HistoryReport(c.Context(), id, limit)
		if err != nil {
			return errorResponse(c, err)
		}

		history := AccountHistorySchema{
			AccountId:    report.AccountID,
			Name:         report.AccountName,
			Transactions: make([]TransactionShowSchema, 0, len(report.Entries)),
		}
		for _, e := range report.Entries {
			history.Transactions = append(history.Transactions, TransactionShowSchema{
				Id:           e.TransactionID,
				Direction:    e.Direction,
				Counterparty: e.Counterparty,
				Amount:       e.Amount,
				Timestamp:    e.Timestamp,
				Description:  e.Description,
			})
		}

		return c.JSON(history)
	}
}

func CreateTransfer(engine *ledger.Engine) fiber.Handler {
	return func(c fiber.Ctx) error {
		// Parse create transfer schema
		var transfer = CreateTransferSchema{}
		if err := c.Bind().Body(&transfer); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&transfer); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		res, err := engine.Transfer(c.Context(), transfer.FromAccountId, transfer.ToAccountId, *transfer.Amount, transfer.Description)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(CreateTransferResponseSchema{
			TransactionId: res.Transaction.ID,
			FromCard:      ledger.MaskCard(res.From.CardNumber),
			ToCard:        ledger.MaskCard(res.To.CardNumber),
			Amount:        res.Transaction.Amount,
			Timestamp:     res.Transaction.Timestamp,
			Description:   res.Transaction.Description,
		})
	}
}
