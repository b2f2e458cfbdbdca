package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
)

// HomeIndexAction handles the root path
func HomeIndexAction(ctx *cartridge.Context) error {
	return ctx.Redirect("/admin/analytics", fiber.StatusFound)
}
