package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func PrintRoutes(app *fiber.App, h *handlers.PrintHandler, r *handlers.ReceiptHandler) {
	api := app.Group("/api/v1")

	prints := api.Group("/distributions", middleware.Protected())
	prints.Post("/", h.RecordDistribution)

	receipts := api.Group("/payments", middleware.Protected())
	receipts.Post("/:paymentId/receipt", r.GenerateReceipt)
}
