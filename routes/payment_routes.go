package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, h *handlers.PaymentHandler, m *handlers.ManualPaymentHandler) {
	api := app.Group("/api/v1")

	// The gateway calls this out-of-band; it authenticates with the
	// webhook signature, not a session.
	api.Post("/payments/webhook", h.HandleRazorpayWebhook)

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("/order", h.CreateRazorpayOrder)
	payments.Post("/", h.CreatePayment)
	payments.Patch("/:paymentId/status", h.UpdatePaymentStatus)

	manual := api.Group("/manual-payments", middleware.Protected())
	manual.Post("/", m.RecordCashPayment)
	manual.Get("/", m.GetManualPayments)
}
