package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(app *fiber.App, h *handlers.DashboardHandler, n *handlers.NotificationHandler) {
	api := app.Group("/api/v1")

	dashboard := api.Group("/dashboard", middleware.Protected())
	dashboard.Get("/", h.GetDashboardData)
	dashboard.Get("/statistics", h.GetStatistics)

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("/pending", n.GetPendingTransactions)
	notifications.Post("/pending/:paymentId/approve", n.ApproveVerification)
	notifications.Post("/pending/:paymentId/reject", n.RejectVerification)
}
