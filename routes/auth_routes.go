package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/anjiri1684/fee_collect/session"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler, codec *session.Codec) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", h.Me)

	// Browser-facing paths: dashboard pages demand a session, the login
	// page bounces authenticated admins back to the dashboard.
	app.Use("/dashboard", middleware.DashboardGuard(codec))
	app.Use("/login", middleware.LoginRedirect(codec))
}
