package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func EventRoutes(app *fiber.App, h *handlers.EventHandler, p *handlers.PaymentHandler, pr *handlers.PrintHandler) {
	api := app.Group("/api/v1")

	events := api.Group("/events", middleware.Protected())
	events.Post("/", h.CreateEvent)
	events.Get("/", h.GetEvents)
	events.Get("/:eventId", h.GetEvent)
	events.Put("/:eventId", h.UpdateEvent)
	events.Delete("/:eventId", h.DeleteEvent)
	events.Get("/:eventId/pay", h.GetPaymentPageData)
	events.Get("/:eventId/payments", p.GetEventPayments)
	events.Get("/:eventId/distributions", pr.GetEventDistributions)
}
