package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func ReportRoutes(app *fiber.App, h *handlers.ReportHandler) {
	api := app.Group("/api/v1")

	reports := api.Group("/reports", middleware.Protected())
	reports.Get("/transactions", h.GenerateTransactionReport)
	reports.Get("/events", h.GenerateEventReport)
	reports.Get("/students", h.GenerateStudentWiseReport)
	reports.Get("/summary", h.GenerateSummary)
}
