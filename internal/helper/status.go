package helper

import (
	"errors"

	"github.com/JhonesBR/go-ledger/internal/ledger"
	"github.com/JhonesBR/go-ledger/internal/proxy"
	"github.com/gofiber/fiber/v3"
)

// ErrInvalidArguments marks a request whose body did not decode or validate.
var ErrInvalidArguments = errors.New("invalid arguments")

// StatusFor maps a ledger, proxy or request error to its HTTP status.
func StatusFor(err error) int {
	var up *proxy.UpstreamError
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, proxy.ErrUnknownTool):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, proxy.ErrMissingParameter),
		errors.Is(err, ErrInvalidArguments):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.StatusConflict
	case errors.As(err, &up):
		return fiber.StatusBadGateway
	case errors.Is(err, ledger.ErrStorage):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
