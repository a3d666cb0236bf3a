package tools

import (
	"github.com/gofiber/fiber/v3"
)

func InitializeRoutes(app *fiber.App, box *Toolbox) {
	app.Get("/v1/tools", ListToolsHandler(box))
	app.Post("/v1/tools/:name", CallToolHandler(box))
}

func ListToolsHandler(box *Toolbox) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"tools": box.Descriptors(),
		})
	}
}

func CallToolHandler(box *Toolbox) fiber.Handler {
	return func(c fiber.Ctx) error {
		name := c.Params("name")
		if name == "" {
			return fiber.ErrBadRequest
		}

		res := box.Call(c.Context(), name, c.Body())
		return c.Status(res.Status).JSON(res)
	}
}
