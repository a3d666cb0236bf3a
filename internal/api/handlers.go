package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/JhonesBR/go-ledger/internal/api/account"
	"github.com/JhonesBR/go-ledger/internal/api/tools"
	"github.com/JhonesBR/go-ledger/internal/ledger"
)

type Services struct {
	Store        ledger.Store
	Engine       *ledger.Engine
	Queries      *ledger.Queries
	Tools        *tools.Toolbox
	HistoryLimit int
	Log          *zap.Logger
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(name string, s Services) *fiber.App {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: errorHandler,
	})
	app.Use(recoverer.New())
	app.Use(requestLogger(log))

	InitializeRoutes(app, s)
	return app
}

func InitializeRoutes(app *fiber.App, s Services) {
	app.Get("/healthz", healthHandler(s.Store))
	tools.InitializeRoutes(app, s.Tools)
	account.InitializeRoutes(app, s.Engine, s.Queries, s.HistoryLimit)
}

func healthHandler(store ledger.Store) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
