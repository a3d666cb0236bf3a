package account

import (
	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/gofiber/fiber/v3"
)

func InitializeRoutes(app *fiber.App, engine *ledger.Engine, queries *ledger.Queries, historyLimit int) {
	app.Get("/v1/accounts", GetAccounts(queries))
	app.Get("/v1/accounts/:id", GetAccountByID(queries))
	app.Get("/v1/accounts/:id/transactions", GetAccountTransactions(queries, historyLimit))
	app.Post("/v1/transfers", CreateTransfer(engine))
}
