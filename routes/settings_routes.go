package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func SettingsRoutes(app *fiber.App, h *handlers.SettingsHandler) {
	api := app.Group("/api/v1")

	qrcodes := api.Group("/settings/qrcodes", middleware.Protected())
	qrcodes.Get("/", h.GetQrCodes)
	qrcodes.Post("/", h.AddQrCode)
	qrcodes.Delete("/:qrId", h.DeleteQrCode)
}
